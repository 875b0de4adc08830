package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deuda is an open balance: cuentas por cobrar (a customer owes the store,
// born from a Vale sale) or cuentas por pagar (the store owes a supplier).
// The amount is frozen in both currencies at the origin document's rate.
// Tipo: "cxc" | "cxp". Estado: "pendiente" | "pagada" | "anulada".
type Deuda struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo      string     `gorm:"type:varchar(3);not null;index"`
	ClienteID *uuid.UUID `gorm:"type:uuid;index"`
	Proveedor *string
	VentaID   *uuid.UUID `gorm:"type:uuid"`
	CompraID  *uuid.UUID `gorm:"type:uuid"`

	MontoBs     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MontoUSD    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	SaldoBs     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TasaCambio  decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Estado      string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt   time.Time
	LiquidadaEn *time.Time

	Cliente *Cliente     `gorm:"foreignKey:ClienteID"`
	Abonos  []AbonoDeuda `gorm:"foreignKey:DeudaID"`
}

func (Deuda) TableName() string { return "deudas" }

// AbonoDeuda is one settlement payment against a deuda, allocated with the
// same split-payment engine as a sale.
type AbonoDeuda struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeudaID      uuid.UUID `gorm:"type:uuid;index;not null"`
	SesionCajaID uuid.UUID `gorm:"type:uuid;not null"`

	Metodo     string          `gorm:"type:varchar(20);not null"`
	Moneda     string          `gorm:"type:varchar(3);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MontoBs    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TasaCambio decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	CreatedAt  time.Time
}

func (AbonoDeuda) TableName() string { return "abonos_deuda" }
