package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TasaCambio is one historical value of the Bs/USD rate. The newest row is
// the current rate; documents and sessions snapshot it, never reference it.
type TasaCambio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Valor        decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Fuente       string          `gorm:"type:varchar(20);not null;default:'manual'"`
	UsuarioID    *uuid.UUID      `gorm:"type:uuid"`
	VigenteDesde time.Time       `gorm:"index"`
	CreatedAt    time.Time
}

func (TasaCambio) TableName() string { return "tasas_cambio" }
