package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item. Prices are canonically in USD; the Bs price is
// always derived at display/sale time through the session's rate snapshot.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	CategoriaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	PrecioUSD   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoUSD    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Unidad      string          `gorm:"not null;default:'unidad'"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (Producto) TableName() string { return "productos" }

// HistorialPrecio records every price change, manual or from the bulk
// adjustment tool, for audit.
type HistorialPrecio struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	PrecioAnteriorUSD decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioNuevoUSD    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo            string          `gorm:"not null"`
	UsuarioID         uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt         time.Time
}

func (HistorialPrecio) TableName() string { return "historial_precios" }
