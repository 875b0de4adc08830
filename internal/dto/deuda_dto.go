package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AbonarDeudaRequest settles part or all of a deuda (cxc cobra, cxp paga)
// through the same split-payment engine as a sale.
type AbonarDeudaRequest struct {
	SesionCajaID      string    `json:"sesion_caja_id"     validate:"required,uuid"`
	Pagos             []PagoDTO `json:"pagos"              validate:"required,min=1,dive"`
	MonedaLiquidacion string    `json:"moneda_liquidacion" validate:"required,oneof=Bs USD"`
}

type DeudaFilter struct {
	Tipo   string `form:"tipo,default=cxc"       validate:"oneof=cxc cxp all"`
	Estado string `form:"estado,default=pendiente" validate:"oneof=pendiente pagada all"`
	Page   int    `form:"page,default=1"  validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AbonoResponse struct {
	DeudaID    string          `json:"deuda_id"`
	AbonadoBs  decimal.Decimal `json:"abonado_bs"`
	SaldoBs    decimal.Decimal `json:"saldo_bs"`
	Estado     string          `json:"estado"`
	Resumen    ResumenPagoDTO  `json:"resumen"`
	TasaCambio decimal.Decimal `json:"tasa_cambio"`
}

type DeudaListItem struct {
	ID        string          `json:"id"`
	Tipo      string          `json:"tipo"`
	Cliente   *string         `json:"cliente,omitempty"`
	Proveedor *string         `json:"proveedor,omitempty"`
	MontoBs   decimal.Decimal `json:"monto_bs"`
	MontoUSD  decimal.Decimal `json:"monto_usd"`
	SaldoBs   decimal.Decimal `json:"saldo_bs"`
	Estado    string          `json:"estado"`
	CreatedAt string          `json:"created_at"`
}

type DeudaListResponse struct {
	Data  []DeudaListItem `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
