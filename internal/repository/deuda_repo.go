package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
)

type DeudaRepository interface {
	CreateTx(tx *gorm.DB, d *model.Deuda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Deuda, error)
	FindByVentaIDTx(tx *gorm.DB, ventaID uuid.UUID) (*model.Deuda, error)
	UpdateTx(tx *gorm.DB, d *model.Deuda) error
	CreateAbonoTx(tx *gorm.DB, a *model.AbonoDeuda) error
	List(ctx context.Context, filter dto.DeudaFilter) ([]model.Deuda, int64, error)
	DB() *gorm.DB
}

type deudaRepo struct{ db *gorm.DB }

func NewDeudaRepository(db *gorm.DB) DeudaRepository { return &deudaRepo{db: db} }

func (r *deudaRepo) DB() *gorm.DB { return r.db }

func (r *deudaRepo) CreateTx(tx *gorm.DB, d *model.Deuda) error {
	return tx.Create(d).Error
}

func (r *deudaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Deuda, error) {
	var d model.Deuda
	err := r.db.WithContext(ctx).Preload("Cliente").Preload("Abonos").First(&d, id).Error
	return &d, err
}

func (r *deudaRepo) FindByVentaIDTx(tx *gorm.DB, ventaID uuid.UUID) (*model.Deuda, error) {
	var d model.Deuda
	err := tx.Where("venta_id = ?", ventaID).First(&d).Error
	return &d, err
}

func (r *deudaRepo) UpdateTx(tx *gorm.DB, d *model.Deuda) error {
	return tx.Save(d).Error
}

func (r *deudaRepo) CreateAbonoTx(tx *gorm.DB, a *model.AbonoDeuda) error {
	return tx.Create(a).Error
}

func (r *deudaRepo) List(ctx context.Context, filter dto.DeudaFilter) ([]model.Deuda, int64, error) {
	var deudas []model.Deuda
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Deuda{})
	if filter.Tipo != "" && filter.Tipo != "all" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Cliente").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&deudas).Error
	return deudas, total, err
}
