package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string          `json:"codigo"       validate:"required,min=1"`
	Nombre      string          `json:"nombre"       validate:"required,min=2"`
	Descripcion *string         `json:"descripcion"`
	CategoriaID string          `json:"categoria_id" validate:"required,uuid"`
	PrecioUSD   decimal.Decimal `json:"precio_usd"   validate:"required,min=0"`
	CostoUSD    decimal.Decimal `json:"costo_usd"    validate:"min=0"`
	Stock       decimal.Decimal `json:"stock"        validate:"min=0"`
	Unidad      string          `json:"unidad"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=2"`
	Descripcion *string          `json:"descripcion"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	PrecioUSD   *decimal.Decimal `json:"precio_usd"   validate:"omitempty,min=0"`
	CostoUSD    *decimal.Decimal `json:"costo_usd"    validate:"omitempty,min=0"`
}

// AjusteMasivoRequest applies one price change to every product of a
// category (or the whole catalog): subir/bajar by the given encoding.
type AjusteMasivoRequest struct {
	CategoriaID *string      `json:"categoria_id" validate:"omitempty,uuid"`
	Direccion   string       `json:"direccion"    validate:"required,oneof=subir bajar"`
	Ajuste      DescuentoDTO `json:"ajuste"       validate:"required"`
	Motivo      string       `json:"motivo"       validate:"required,min=3"`
}

type ProductoFilter struct {
	Buscar      string `form:"buscar"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	Activo      string `form:"activo,default=true"`
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Categoria   string          `json:"categoria"`
	AlicuotaIVA decimal.Decimal `json:"alicuota_iva"`
	Regulado    bool            `json:"regulado"`
	PrecioUSD   decimal.Decimal `json:"precio_usd"`
	// PrecioBs is derived with the current rate at read time, for display only.
	PrecioBs decimal.Decimal `json:"precio_bs"`
	Stock    decimal.Decimal `json:"stock"`
	Unidad   string          `json:"unidad"`
	Activo   bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type AjusteMasivoResponse struct {
	Ajustados int `json:"ajustados"`
}
