package dto

import "github.com/shopspring/decimal"

type ActualizarTasaRequest struct {
	Valor  decimal.Decimal `json:"valor"  validate:"required,gt=0"`
	Fuente string          `json:"fuente" validate:"omitempty,oneof=manual bcv"`
}

type TasaResponse struct {
	Valor        decimal.Decimal `json:"valor"`
	Fuente       string          `json:"fuente"`
	VigenteDesde string          `json:"vigente_desde"`
}
