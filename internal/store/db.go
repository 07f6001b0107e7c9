// Package store implements the document-store collaborator over GORM with a
// pure-Go SQLite driver. This file contains database bootstrapping and schema
// migration; store.go provides the generic per-collection operations.
package store

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
)

// Open opens (or creates) the SQLite database at path and applies PRAGMAs.
func Open(path string) (*gorm.DB, error) {
	// Fail early if the parent directory does not exist instead of the
	// opaque sqlite "out of memory (14)".
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	// TranslateError is left off on purpose: the raw sqlite message names the
	// violated column ("UNIQUE constraint failed: users.email"), which the
	// terminal error mapping needs to answer "Duplicate value for email".
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for every collection.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.Customer{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Faq{},
		&domain.DiscountCode{},
		&domain.Notification{},
		&domain.InventoryItem{},
		&domain.IdempotencyKey{},
	)
}
