// Package migration brings the billing schema up to date.
package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for real databases and auto-migration for an
// in-memory sqlite store, which has no history worth versioning.
func NewManager(driver, database string, log logger.Interface) *Manager {
	var strategy Strategy = NewGooseStrategy(driver, log)
	if driver == "sqlite" && database == ":memory:" {
		strategy = NewGormAutoMigrateStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(ctx, db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
