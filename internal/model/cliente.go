package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is a registered customer. The credit limit is fixed in USD so it
// survives devaluation; the running debt accumulates in Bs at each sale's
// rate snapshot.
type Cliente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cedula   string    `gorm:"uniqueIndex;not null"`
	Nombre   string    `gorm:"index;not null"`
	Telefono *string
	Email    *string

	LimiteCreditoUSD decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeudaActualBs    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
