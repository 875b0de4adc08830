package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is a purchase from a supplier, the mirror of Venta: same discount
// encodings, same dual-currency totals, but its cash payments leave the
// drawer instead of entering it.
// Estado: "completada" | "anulada"
type Compra struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroOrden  int       `gorm:"uniqueIndex;not null"`
	SesionCajaID uuid.UUID `gorm:"type:uuid;index;not null"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`
	Proveedor    string    `gorm:"not null"`

	SubtotalUSD  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DescuentoUSD decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IVAUSD       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalUSD     decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	SubtotalBs  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DescuentoBs decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IVABs       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalBs     decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	TasaCambio decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'completada'"`
	CreatedAt  time.Time

	Items []CompraItem `gorm:"foreignKey:CompraID"`
	Pagos []CompraPago `gorm:"foreignKey:CompraID"`
}

func (Compra) TableName() string { return "compras" }

type CompraItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null"`

	Cantidad          decimal.Decimal  `gorm:"type:decimal(12,3);not null"`
	PrecioUnitarioUSD decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	TipoDescuento     *string          `gorm:"type:varchar(12)"`
	ValorDescuento    *decimal.Decimal `gorm:"type:decimal(12,4)"`
	AlicuotaIVA       decimal.Decimal  `gorm:"type:decimal(6,4);not null"`
	Regulado          bool             `gorm:"not null;default:false"`
	SubtotalUSD       decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
}

func (CompraItem) TableName() string { return "compra_items" }

type CompraPago struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID uuid.UUID `gorm:"type:uuid;index;not null"`

	Metodo     string          `gorm:"type:varchar(20);not null"`
	Moneda     string          `gorm:"type:varchar(3);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Banco      *string         `gorm:"type:varchar(40)"`
	Referencia *string         `gorm:"type:varchar(40)"`
}

func (CompraPago) TableName() string { return "compra_pagos" }
