package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`                     // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=completada"` // completada | anulada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required,gt=0"`
	Descuento  *DescuentoDTO   `json:"descuento"   validate:"omitempty"`
}

type RegistrarVentaRequest struct {
	SesionCajaID    string             `json:"sesion_caja_id"   validate:"required,uuid"`
	Items           []ItemVentaRequest `json:"items"            validate:"required,min=1,dive"`
	DescuentoGlobal *DescuentoDTO      `json:"descuento_global" validate:"omitempty"`
	Pagos           []PagoDTO          `json:"pagos"            validate:"required,min=1,dive"`
	// MonedaLiquidacion decides which currency's restante gates the sale.
	MonedaLiquidacion string  `json:"moneda_liquidacion" validate:"required,oneof=Bs USD"`
	ClienteID         *string `json:"cliente_id"         validate:"omitempty,uuid"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto          string          `json:"producto"`
	Cantidad          decimal.Decimal `json:"cantidad"`
	PrecioUnitarioUSD decimal.Decimal `json:"precio_unitario_usd"`
	SubtotalUSD       decimal.Decimal `json:"subtotal_usd"`
}

type VentaResponse struct {
	ID           string              `json:"id"`
	NumeroTicket int                 `json:"numero_ticket"`
	Items        []ItemVentaResponse `json:"items"`
	Totales      TotalesDTO          `json:"totales"`
	Pagos        []PagoDTO           `json:"pagos"`
	Resumen      ResumenPagoDTO      `json:"resumen"`
	TasaCambio   decimal.Decimal     `json:"tasa_cambio"`
	Estado       string              `json:"estado"`
	Advertencias []string            `json:"advertencias,omitempty"`
	CreatedAt    string              `json:"created_at"`
}

type VentaListItem struct {
	ID           string          `json:"id"`
	NumeroTicket int             `json:"numero_ticket"`
	SesionCajaID string          `json:"sesion_caja_id"`
	Cajero       string          `json:"cajero"`
	TotalUSD     decimal.Decimal `json:"total_usd"`
	TotalBs      decimal.Decimal `json:"total_bs"`
	Estado       string          `json:"estado"`
	CreatedAt    string          `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaListItem `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
