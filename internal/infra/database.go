package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches GORM
// cannot express (sequences for ticket/orden/sesión numbering).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates the schema and the numbering sequences. Safe to
// re-run on an already-migrated database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Producto{},
		&model.HistorialPrecio{},
		&model.Cliente{},
		&model.TasaCambio{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.ArqueoDetalle{},
		&model.Venta{},
		&model.VentaItem{},
		&model.VentaPago{},
		&model.Compra{},
		&model.CompraItem{},
		&model.CompraPago{},
		&model.Deuda{},
		&model.AbonoDeuda{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle:
// the PostgreSQL sequences behind ticket, orden and sesión numbering.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE SEQUENCE IF NOT EXISTS ventas_numero_ticket_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS compras_numero_orden_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS sesiones_caja_secuencia_seq START 1`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql, err)
		}
	}
	return nil
}
