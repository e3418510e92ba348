// Package db opens and migrates the gorm store handle.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authentity "shop_backend/internal/feature/auth/domain/entity"
	productentity "shop_backend/internal/feature/product/domain/entity"
)

const (
	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// NewGormConfig returns the gorm settings shared by production and tests.
// TranslateError lets adapters match gorm.ErrDuplicatedKey regardless of dialect.
func NewGormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// OpenPostgres is the production Opener.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), NewGormConfig())
}

// Open connects to the store, retrying until it is reachable, and migrates the
// schema when runMigrations is set.
func Open(dsn string, runMigrations bool) (*gorm.DB, error) {
	db, err := ConnectWithRetry(dsn, connectTimeout, retryInterval, OpenPostgres)
	if err != nil {
		return nil, err
	}
	if runMigrations {
		if err := Migrate(db); err != nil {
			_ = Close(db)
			return nil, err
		}
	}
	return db, nil
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", interval)
		time.Sleep(interval)
	}
}

// Migrate creates or updates the users and products tables, including the
// unique indexes on users.email and products.sku.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&authentity.User{}, &productentity.Product{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
