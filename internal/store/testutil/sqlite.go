// Package testutil opens throwaway in-memory databases for store tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

// Open returns a migrated in-memory sqlite database with a single
// connection. The caller closes it.
func Open() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Event{}, &model.Swap{}, &model.RelayerState{}); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// NewDB returns a database private to the test, closed on cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := Open()
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
