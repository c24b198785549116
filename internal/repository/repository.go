// Package repository owns the lifecycle of the shared gorm store handle.
// Concrete persistence adapters live in the subpackages directory and record;
// each receives the handle at construction instead of reaching for a global.
package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
)

// Open connects to the backing PostgreSQL store and runs schema migration.
func Open(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate brings the schema up to date for all persisted entities.
// Split out from Open so tests can run it against other gorm dialects.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&sensor.User{}, &sensor.Sensor{}, &sensor.Record{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}

// Close releases the underlying SQL connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql handle: %w", err)
	}

	return sqlDB.Close()
}
