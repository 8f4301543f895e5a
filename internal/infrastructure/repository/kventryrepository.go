package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tvmanager/internal/infrastructure/persistence/models"
)

// Storage keys of the persisted documents.
const (
	ClientsKey  = "gerenciador_tv_clients_v2"
	SettingsKey = "gerenciador_tv_settings_v1"
)

var errEntryNotFound = errors.New("entry not found")

// kvEntryStore reads and writes whole JSON documents in kv_entries
type kvEntryStore struct {
	db *gorm.DB
}

// get decodes the document stored under key into dest
func (s kvEntryStore) get(ctx context.Context, key string, dest any) error {
	var model models.KVEntryModel

	err := s.db.WithContext(ctx).
		Where("entry_key = ?", key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errEntryNotFound
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(model.Value, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// put replaces the document stored under key in a single statement
func (s kvEntryStore) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	model := &models.KVEntryModel{
		EntryKey: key,
		Value:    datatypes.JSON(data),
		Version:  1,
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      gorm.Expr("excluded.value"),
			"version":    gorm.Expr("kv_entries.version + 1"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// version returns the write counter of key, zero when absent
func (s kvEntryStore) version(ctx context.Context, key string) (int, error) {
	var model models.KVEntryModel
	err := s.db.WithContext(ctx).Select("version").Where("entry_key = ?", key).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s version: %w", key, err)
	}
	return model.Version, nil
}
