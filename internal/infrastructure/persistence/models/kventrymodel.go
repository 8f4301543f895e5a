package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntryModel is the GORM model for kv_entries table. Each row holds one
// JSON document under a fixed key.
type KVEntryModel struct {
	EntryKey  string         `gorm:"column:entry_key;type:varchar(100);primaryKey"`
	Value     datatypes.JSON `gorm:"column:value;type:json;not null"`
	Version   int            `gorm:"column:version;not null;default:1"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (KVEntryModel) TableName() string {
	return "kv_entries"
}
