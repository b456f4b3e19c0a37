// Package database wires up the optional GORM connection used to
// persist a completed run's report rows.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oiltrace/tanksim/internal/adapters/persistence"
	"github.com/oiltrace/tanksim/internal/infrastructure/config"
)

// NewConnection opens a GORM connection for the configured driver.
func NewConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "tanksim.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// NewTestConnection opens an in-memory SQLite database, migrated and
// ready for a test to use directly.
func NewTestConnection() (*gorm.DB, error) {
	db, err := NewConnection(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate test database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates every report table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.RunModel{},
		&persistence.EventLogModel{},
		&persistence.DailySummaryModel{},
		&persistence.CargoReportModel{},
		&persistence.TankFillDetailModel{},
		&persistence.TankSnapshotModel{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
