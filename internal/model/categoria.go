package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categoria classifies products and owns their tax treatment: the IVA
// alícuota and the regulado flag. A regulated category's products quedan
// fuera del IVA por completo, not merely zero-rated.
type Categoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	AlicuotaIVA decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0.16"`
	Regulada    bool            `gorm:"not null;default:false"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }
