package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta stores a completed sale with its totals in both currencies. Each
// currency's figures come from its own rounded chain; TotalBs is never
// recomputed from TotalUSD after the fact.
// Estado: "completada" | "anulada"
type Venta struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int        `gorm:"uniqueIndex;not null"`
	SesionCajaID uuid.UUID  `gorm:"type:uuid;index;not null"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	ClienteID    *uuid.UUID `gorm:"type:uuid;index"`

	SubtotalUSD  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DescuentoUSD decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IVAUSD       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IGTFUSD      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalUSD     decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	SubtotalBs  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DescuentoBs decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IVABs       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IGTFBs      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalBs     decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	TasaCambio decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'completada'"`
	CreatedAt  time.Time

	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Pagos   []VentaPago `gorm:"foreignKey:VentaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaItem is one sold line, frozen at sale time: price, discount encoding
// and tax treatment are copied from the catalog so later edits no la alteran.
type VentaItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null"`

	Cantidad          decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitarioUSD decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// TipoDescuento: "porcentaje" | "monto_bs" | "monto_usd"; nil = sin descuento
	TipoDescuento  *string          `gorm:"type:varchar(12)"`
	ValorDescuento *decimal.Decimal `gorm:"type:decimal(12,4)"`
	AlicuotaIVA    decimal.Decimal  `gorm:"type:decimal(6,4);not null"`
	Regulado       bool             `gorm:"not null;default:false"`
	SubtotalUSD    decimal.Decimal  `gorm:"type:decimal(14,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }

// VentaPago is one allocation of the (possibly mixed) payment: método,
// moneda y monto, with optional bank metadata for transfers and pago móvil.
type VentaPago struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;index;not null"`

	Metodo     string          `gorm:"type:varchar(20);not null"`
	Moneda     string          `gorm:"type:varchar(3);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Banco      *string         `gorm:"type:varchar(40)"`
	Referencia *string         `gorm:"type:varchar(40)"`
	Cedula     *string         `gorm:"type:varchar(20)"`
}

func (VentaPago) TableName() string { return "venta_pagos" }
