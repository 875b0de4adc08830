package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/config"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/pricing"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	// AjusteMasivo applies one price change to every product of a category
	// (or the whole catalog) and records each change in the audit history.
	AjusteMasivo(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteMasivoRequest) (*dto.AjusteMasivoResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
	tasa TasaService
	cfg  *config.Config
}

func NewProductoService(repo repository.ProductoRepository, tasa TasaService, cfg *config.Config) ProductoService {
	return &productoService{repo: repo, tasa: tasa, cfg: cfg}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	catID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, fmt.Errorf("categoria_id inválido: %w", err)
	}
	if req.PrecioUSD.IsNegative() || req.CostoUSD.IsNegative() || req.Stock.IsNegative() {
		return nil, money.ErrMontoInvalido
	}

	unidad := req.Unidad
	if unidad == "" {
		unidad = "unidad"
	}
	p := &model.Producto{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		CategoriaID: catID,
		PrecioUSD:   req.PrecioUSD,
		CostoUSD:    req.CostoUSD,
		Stock:       req.Stock,
		Unidad:      unidad,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.productoToResponse(ctx, p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return s.productoToResponse(ctx, p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// One rate read for the whole page.
	tasa, err := s.tasa.Actual(ctx)
	if err != nil {
		return nil, err
	}
	prec := precisionesDesdeConfig(s.cfg)

	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoConTasa(&productos[i], tasa, prec))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	precioAnterior := p.PrecioUSD
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.CategoriaID != nil {
		catID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		p.CategoriaID = catID
	}
	if req.PrecioUSD != nil {
		if req.PrecioUSD.IsNegative() {
			return nil, money.ErrMontoInvalido
		}
		p.PrecioUSD = *req.PrecioUSD
	}
	if req.CostoUSD != nil {
		if req.CostoUSD.IsNegative() {
			return nil, money.ErrMontoInvalido
		}
		p.CostoUSD = *req.CostoUSD
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		if !p.PrecioUSD.Equal(precioAnterior) {
			return s.repo.CreateHistorialTx(tx, &model.HistorialPrecio{
				ProductoID:        p.ID,
				PrecioAnteriorUSD: precioAnterior,
				PrecioNuevoUSD:    p.PrecioUSD,
				Motivo:            "actualización manual",
				UsuarioID:         usuarioID,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.productoToResponse(ctx, p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	p.Activo = false
	return s.repo.Update(ctx, p)
}

// ── AjusteMasivo ──────────────────────────────────────────────────────────────
// The adjustment reuses the discount encodings of the pricing engine:
// subir aplica la variante de aumento, bajar la de descuento. Every touched
// product gets a history row; the whole batch is one transaction.

func (s *productoService) AjusteMasivo(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteMasivoRequest) (*dto.AjusteMasivoResponse, error) {
	var categoriaID *uuid.UUID
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		categoriaID = &cid
	}

	ajuste, err := descuentoDesdeDTO(&req.Ajuste)
	if err != nil {
		return nil, err
	}
	tasa, err := s.tasa.Actual(ctx)
	if err != nil {
		return nil, err
	}
	prec := precisionesDesdeConfig(s.cfg)

	productos, err := s.repo.ListPorCategoria(ctx, categoriaID)
	if err != nil {
		return nil, err
	}

	ajustados := 0
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range productos {
			p := &productos[i]

			var nuevo decimal.Decimal
			var calcErr error
			if req.Direccion == "subir" {
				nuevo, calcErr = pricing.Aumentar(p.PrecioUSD, *ajuste, tasa)
			} else {
				nuevo, calcErr = pricing.Resolver(p.PrecioUSD, *ajuste, tasa)
			}
			if calcErr != nil {
				return calcErr
			}
			precioNuevo := prec.Redondear(nuevo, money.RolPrecio)
			if precioNuevo.Equal(p.PrecioUSD) {
				continue
			}

			if err := s.repo.UpdatePrecioTx(tx, p.ID, precioNuevo); err != nil {
				return err
			}
			if err := s.repo.CreateHistorialTx(tx, &model.HistorialPrecio{
				ProductoID:        p.ID,
				PrecioAnteriorUSD: p.PrecioUSD,
				PrecioNuevoUSD:    precioNuevo,
				Motivo:            req.Motivo,
				UsuarioID:         usuarioID,
			}); err != nil {
				return err
			}
			ajustados++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Int("ajustados", ajustados).Str("direccion", req.Direccion).Msg("ajuste masivo de precios aplicado")
	return &dto.AjusteMasivoResponse{Ajustados: ajustados}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *productoService) productoToResponse(ctx context.Context, p *model.Producto) *dto.ProductoResponse {
	tasa, err := s.tasa.Actual(ctx)
	if err != nil {
		tasa = decimal.Zero
	}
	return productoConTasa(p, tasa, precisionesDesdeConfig(s.cfg))
}

func productoConTasa(p *model.Producto, tasa decimal.Decimal, prec money.Precisiones) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		PrecioUSD:   p.PrecioUSD,
		Stock:       p.Stock,
		Unidad:      p.Unidad,
		Activo:      p.Activo,
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
		resp.AlicuotaIVA = p.Categoria.AlicuotaIVA
		resp.Regulado = p.Categoria.Regulada
	}
	if tasa.IsPositive() {
		resp.PrecioBs = prec.Redondear(p.PrecioUSD.Mul(tasa), money.RolPrecio)
	}
	return resp
}
