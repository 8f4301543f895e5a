package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tvmanager/internal/domain/setting"
	"tvmanager/internal/infrastructure/persistence/mappers"
	"tvmanager/internal/shared/logger"
)

// SettingBlobRepository implements setting.Repository
type SettingBlobRepository struct {
	store  kvEntryStore
	logger logger.Interface
}

// NewSettingBlobRepository creates a new SettingBlobRepository
func NewSettingBlobRepository(db *gorm.DB, log logger.Interface) setting.Repository {
	return &SettingBlobRepository{
		store:  kvEntryStore{db: db},
		logger: log.Named("setting_repository"),
	}
}

func (r *SettingBlobRepository) Load(ctx context.Context) (*setting.AppSettings, error) {
	var record mappers.SettingsRecord
	if err := r.store.get(ctx, SettingsKey, &record); err != nil {
		if errors.Is(err, errEntryNotFound) {
			return nil, setting.ErrSettingsNotFound
		}
		return nil, err
	}
	return mappers.ToSettingsDomain(&record)
}

func (r *SettingBlobRepository) Save(ctx context.Context, s *setting.AppSettings) error {
	if err := r.store.put(ctx, SettingsKey, mappers.ToSettingsRecord(s)); err != nil {
		r.logger.Errorw("failed to save settings", "error", err)
		return err
	}
	return nil
}
