package dto

import "github.com/shopspring/decimal"

type CrearClienteRequest struct {
	Cedula           string          `json:"cedula"             validate:"required,min=5"`
	Nombre           string          `json:"nombre"             validate:"required,min=2"`
	Telefono         *string         `json:"telefono"`
	Email            *string         `json:"email"              validate:"omitempty,email"`
	LimiteCreditoUSD decimal.Decimal `json:"limite_credito_usd" validate:"min=0"`
}

type ClienteResponse struct {
	ID               string          `json:"id"`
	Cedula           string          `json:"cedula"`
	Nombre           string          `json:"nombre"`
	Telefono         *string         `json:"telefono"`
	Email            *string         `json:"email"`
	LimiteCreditoUSD decimal.Decimal `json:"limite_credito_usd"`
	DeudaActualBs    decimal.Decimal `json:"deuda_actual_bs"`
	Activo           bool            `json:"activo"`
}
