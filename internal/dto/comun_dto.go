package dto

import "github.com/shopspring/decimal"

// ─── Shared pieces ───────────────────────────────────────────────────────────

// DescuentoDTO carries one of the three discount encodings the UI offers.
type DescuentoDTO struct {
	Tipo  string          `json:"tipo"  validate:"required,oneof=porcentaje monto_bs monto_usd"`
	Valor decimal.Decimal `json:"valor" validate:"min=0"`
}

// PagoDTO is one allocation of a (possibly mixed) payment.
type PagoDTO struct {
	Metodo     string          `json:"metodo"     validate:"required,oneof=efectivo tarjeta transferencia pago_movil vale"`
	Moneda     string          `json:"moneda"     validate:"required,oneof=Bs USD"`
	Monto      decimal.Decimal `json:"monto"      validate:"required,gt=0"`
	Banco      *string         `json:"banco"`
	Referencia *string         `json:"referencia"`
	Cedula     *string         `json:"cedula"`
}

// TotalesDTO mirrors the engine's document totals in both currencies.
type TotalesDTO struct {
	SubtotalUSD  decimal.Decimal `json:"subtotal_usd"`
	DescuentoUSD decimal.Decimal `json:"descuento_usd"`
	IVAUSD       decimal.Decimal `json:"iva_usd"`
	TotalUSD     decimal.Decimal `json:"total_usd"`
	SubtotalBs   decimal.Decimal `json:"subtotal_bs"`
	DescuentoBs  decimal.Decimal `json:"descuento_bs"`
	IVABs        decimal.Decimal `json:"iva_bs"`
	TotalBs      decimal.Decimal `json:"total_bs"`
}

// ResumenPagoDTO is the allocator outcome surfaced to the UI.
type ResumenPagoDTO struct {
	RecibidoBs  decimal.Decimal `json:"recibido_bs"`
	RecibidoUSD decimal.Decimal `json:"recibido_usd"`
	IGTFBs      decimal.Decimal `json:"igtf_bs"`
	IGTFUSD     decimal.Decimal `json:"igtf_usd"`
	VueltoBs    decimal.Decimal `json:"vuelto_bs"`
	VueltoUSD   decimal.Decimal `json:"vuelto_usd"`
	RestanteBs  decimal.Decimal `json:"restante_bs"`
	RestanteUSD decimal.Decimal `json:"restante_usd"`
}
