// Package dbtest opens migrated in-memory sqlite databases for package tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tyrehub/catalog/internal/db"
)

// Open returns a gorm handle and a sqlx handle over the same fresh database.
// The pool is pinned to one connection so every query sees the same
// in-memory schema.
func Open(t *testing.T) (*gorm.DB, *sqlx.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(context.Background(), gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb, sqlx.NewDb(sqlDB, "sqlite3")
}

// Count returns the number of rows in model's table.
func Count(t *testing.T, gdb *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}
