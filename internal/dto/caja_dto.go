package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	Host            string          `json:"host"              validate:"required,min=1"`
	SaldoInicialBs  decimal.Decimal `json:"saldo_inicial_bs"  validate:"min=0"`
	SaldoInicialUSD decimal.Decimal `json:"saldo_inicial_usd" validate:"min=0"`
}

type MovimientoManualRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Tipo         string          `json:"tipo"           validate:"required,oneof=entrada_manual salida_manual"`
	Moneda       string          `json:"moneda"         validate:"required,oneof=Bs USD"`
	Monto        decimal.Decimal `json:"monto"          validate:"required,gt=0"`
	Concepto     string          `json:"concepto"       validate:"required,min=3"`
}

// ConteoDTO is one physically-counted bucket of the arqueo ciego.
type ConteoDTO struct {
	Etiqueta string          `json:"etiqueta" validate:"required"`
	Moneda   string          `json:"moneda"   validate:"required,oneof=Bs USD"`
	Monto    decimal.Decimal `json:"monto"    validate:"min=0"`
}

type CierreCajaRequest struct {
	SesionCajaID  string      `json:"sesion_caja_id" validate:"required,uuid"`
	Conteo        []ConteoDTO `json:"conteo"         validate:"required,min=1,dive"`
	Observaciones *string     `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CubetaDTO struct {
	Etiqueta string          `json:"etiqueta"`
	Moneda   string          `json:"moneda"`
	Esperado decimal.Decimal `json:"esperado"`
}

type DiferenciaDTO struct {
	Etiqueta string          `json:"etiqueta"`
	Moneda   string          `json:"moneda"`
	Esperado decimal.Decimal `json:"esperado"`
	Contado  decimal.Decimal `json:"contado"`
	Delta    decimal.Decimal `json:"delta"`
}

type CierreCajaResponse struct {
	SesionCajaID string          `json:"sesion_caja_id"`
	Cuadra       bool            `json:"cuadra"`
	Diferencias  []DiferenciaDTO `json:"diferencias"`
	Estado       string          `json:"estado"`
}

type ReporteCajaResponse struct {
	SesionCajaID     string          `json:"sesion_caja_id"`
	Host             string          `json:"host"`
	Secuencia        int             `json:"secuencia"`
	SaldoInicialBs   decimal.Decimal `json:"saldo_inicial_bs"`
	SaldoInicialUSD  decimal.Decimal `json:"saldo_inicial_usd"`
	TasaCambio       decimal.Decimal `json:"tasa_cambio"`
	EfectivoEsperado []CubetaDTO     `json:"efectivo_esperado"`
	Estado           string          `json:"estado"`
	Observaciones    *string         `json:"observaciones"`
	AbiertaEn        string          `json:"abierta_en"`
	CerradaEn        *string         `json:"cerrada_en"`
}
