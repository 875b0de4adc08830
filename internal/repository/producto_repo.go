package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
)

type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListPorCategoria(ctx context.Context, categoriaID *uuid.UUID) ([]model.Producto, error)
	// AjustarStockTx adds delta to stock; negative delta discounts a sale.
	AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	UpdatePrecioTx(tx *gorm.DB, id uuid.UUID, precio decimal.Decimal) error
	UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error
	CreateHistorialTx(tx *gorm.DB, h *model.HistorialPrecio) error
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Preload("Categoria").First(&p, id).Error
	return &p, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if filter.Activo != "all" {
		q = q.Where("activo = ?", filter.Activo == "true")
	}
	if filter.Buscar != "" {
		q = q.Where("nombre ILIKE ? OR codigo = ?", "%"+filter.Buscar+"%", filter.Buscar)
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Categoria").
		Order("nombre ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListPorCategoria(ctx context.Context, categoriaID *uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Where("activo = true")
	if categoriaID != nil {
		q = q.Where("categoria_id = ?", *categoriaID)
	}
	err := q.Find(&productos).Error
	return productos, err
}

func (r *productoRepo) AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Producto{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productoRepo) UpdatePrecioTx(tx *gorm.DB, id uuid.UUID, precio decimal.Decimal) error {
	return tx.Model(&model.Producto{}).
		Where("id = ?", id).
		UpdateColumn("precio_usd", precio).Error
}

func (r *productoRepo) UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	return tx.Model(&model.Producto{}).
		Where("id = ?", id).
		UpdateColumn("costo_usd", costo).Error
}

func (r *productoRepo) CreateHistorialTx(tx *gorm.DB, h *model.HistorialPrecio) error {
	return tx.Create(h).Error
}
