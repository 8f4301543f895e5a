package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tvmanager/internal/shared/logger"
)

const (
	StrategyGoose = "goose"
	StrategyGorm  = "gorm_auto_migrate"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager creates a migration manager for the named strategy. Goose is
// used unless gorm_auto_migrate is requested.
func NewManager(strategyName string, log logger.Interface) *Manager {
	var strategy Strategy
	switch strings.ToLower(strategyName) {
	case StrategyGorm, "gorm", "auto":
		strategy = NewGormAutoMigrateStrategy(log)
	default:
		strategy = NewGooseStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.Named("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB, models ...interface{}) error {
	m.logger.Debugw("starting database migration",
		"strategy", m.strategy.GetName(),
		"models_count", len(models))

	if err := m.strategy.Migrate(db, models...); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
