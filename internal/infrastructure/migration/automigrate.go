package migration

import (
	"fmt"

	"gorm.io/gorm"

	"tvmanager/internal/infrastructure/persistence/models"
	"tvmanager/internal/shared/logger"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.KVEntryModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the GORM models
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: log.Named("migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	if len(models) == 0 {
		models = AutoMigrateModels()
	}
	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
