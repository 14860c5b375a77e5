// Package testutil provides the shared harness for repository and service
// integration tests. Tests that need a real database are skipped unless
// TEST_POSTGRES_DSN points at a disposable Postgres instance.
package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/studyhall/lms-backend/internal/data/db"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

var (
	dbOnce sync.Once
	shared *gorm.DB
	dbErr  error
)

// DB returns a migrated connection to the test database, skipping the test
// when TEST_POSTGRES_DSN is unset. The connection is shared across tests;
// isolation comes from Tx.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping database test")
	}

	dbOnce.Do(func() {
		gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
			DisableForeignKeyConstraintWhenMigrating: true,
			TranslateError:                           true,
		})
		if err != nil {
			dbErr = err
			return
		}
		if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			dbErr = err
			return
		}
		if err := db.AutoMigrate(gdb); err != nil {
			dbErr = err
			return
		}
		shared = gdb
	})
	if dbErr != nil {
		t.Fatalf("open test database: %v", dbErr)
	}
	return shared
}

// Tx begins a transaction that is rolled back when the test finishes, so
// tests never observe each other's rows.
func Tx(t *testing.T, gdb *gorm.DB) *gorm.DB {
	t.Helper()

	tx := gdb.Begin()
	if tx.Error != nil {
		t.Fatalf("begin test transaction: %v", tx.Error)
	}
	t.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}

// Logger returns a logger suitable for tests.
func Logger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("build test logger: %v", err)
	}
	return log
}
