package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemCompraRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required,gt=0"`
	CostoUSD   decimal.Decimal `json:"costo_usd"   validate:"required,min=0"`
	Descuento  *DescuentoDTO   `json:"descuento"   validate:"omitempty"`
}

type RegistrarCompraRequest struct {
	SesionCajaID    string              `json:"sesion_caja_id"   validate:"required,uuid"`
	Proveedor       string              `json:"proveedor"        validate:"required,min=2"`
	Items           []ItemCompraRequest `json:"items"            validate:"required,min=1,dive"`
	DescuentoGlobal *DescuentoDTO       `json:"descuento_global" validate:"omitempty"`
	// Pagos may be empty: an unpaid compra creates una cuenta por pagar.
	Pagos             []PagoDTO `json:"pagos"              validate:"omitempty,dive"`
	MonedaLiquidacion string    `json:"moneda_liquidacion" validate:"required,oneof=Bs USD"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CompraResponse struct {
	ID          string          `json:"id"`
	NumeroOrden int             `json:"numero_orden"`
	Proveedor   string          `json:"proveedor"`
	Totales     TotalesDTO      `json:"totales"`
	Pagos       []PagoDTO       `json:"pagos"`
	Resumen     *ResumenPagoDTO `json:"resumen,omitempty"`
	// DeudaID is set when the compra quedó parcial o totalmente a crédito.
	DeudaID    *string         `json:"deuda_id,omitempty"`
	TasaCambio decimal.Decimal `json:"tasa_cambio"`
	Estado     string          `json:"estado"`
	CreatedAt  string          `json:"created_at"`
}
