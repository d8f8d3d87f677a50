// Package testutil holds helpers shared by repository and HTTP tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated in-memory database that lives until the test ends.
// The pool is pinned to one connection because every ":memory:" connection is a separate database.
func NewSQLiteDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.ModelRegistry...); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// DiscardLogger drops everything below error level.
func DiscardLogger() *log.Logger {
	return log.NewLogger(io.Discard, slog.LevelError)
}
