package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja represents the lifecycle of a register session. The register
// opens with a counted float in both currencies and a snapshot of the
// exchange rate that stays fixed for every document of the session.
// Estado: "abierta" | "cerrando" | "cerrada"
type SesionCaja struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Host      string    `gorm:"type:varchar(40);not null;index"`
	Secuencia int       `gorm:"not null"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null"`

	SaldoInicialBs  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	SaldoInicialUSD decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TasaCambio      decimal.Decimal `gorm:"type:decimal(14,4);not null"`

	Estado        string `gorm:"type:varchar(20);not null;default:'abierta'"`
	Observaciones *string
	AbiertaEn     time.Time
	CerradaEn     *time.Time

	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
	Arqueo      []ArqueoDetalle  `gorm:"foreignKey:SesionCajaID"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// MovimientoCaja is an immutable event in the register ledger. Cancellations
// create inverse entries; nothing is ever updated or deleted.
// Tipo: "venta" | "compra" | "entrada_manual" | "salida_manual" |
// "cobro_deuda" | "abono_deuda" | "anulacion"
type MovimientoCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo         string          `gorm:"type:varchar(20);not null"`
	Metodo       *string         `gorm:"type:varchar(20)"`
	Moneda       string          `gorm:"type:varchar(3);not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Concepto     string          `gorm:"not null"`
	// ReferenciaID links to the originating Venta, Compra or Deuda
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }

// ArqueoDetalle persists one bucket of the closing count: expected vs
// counted per (etiqueta, moneda), written only when the session closes.
type ArqueoDetalle struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Etiqueta     string          `gorm:"type:varchar(30);not null"`
	Moneda       string          `gorm:"type:varchar(3);not null"`
	Esperado     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Contado      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Delta        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt    time.Time
}

func (ArqueoDetalle) TableName() string { return "arqueo_detalles" }
