package migration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/piprapay/ppgateway/internal/shared/logger"
)

func openFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "billing.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	db := openFileDB(t)
	ctx := context.Background()
	s := NewGooseStrategy("sqlite", logger.NewDiscardLogger())

	require.NoError(t, s.Migrate(ctx, db))

	version, err := s.GetVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"clients", "invoices", "transactions", "client_ledger", "payment_receipts"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// running again is a no-op
	require.NoError(t, s.Migrate(ctx, db))

	require.NoError(t, s.MigrateDown(ctx, db, 1))
	assert.False(t, db.Migrator().HasTable("payment_receipts"))
}

func TestGooseStrategy_ReceiptUniqueOnPPID(t *testing.T) {
	db := openFileDB(t)
	ctx := context.Background()
	require.NoError(t, NewGooseStrategy("sqlite", logger.NewDiscardLogger()).Migrate(ctx, db))

	insert := "INSERT INTO payment_receipts (pp_id, gateway, transaction_id, invoice_id, amount) VALUES (?, ?, ?, ?, ?)"
	require.NoError(t, db.Exec(insert, "PP-1", "piprapay", 1, 1, "5.00").Error)
	assert.Error(t, db.Exec(insert, "PP-1", "piprapay", 2, 1, "5.00").Error)
}

func TestNewManager_StrategySelection(t *testing.T) {
	log := logger.NewDiscardLogger()

	assert.Equal(t, "gorm_auto_migrate", NewManager("sqlite", ":memory:", log).GetStrategy().GetName())
	assert.Equal(t, "goose", NewManager("sqlite", "/var/lib/ppgateway.db", log).GetStrategy().GetName())
	assert.Equal(t, "goose", NewManager("mysql", "billing", log).GetStrategy().GetName())
}
