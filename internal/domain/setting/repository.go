package setting

import (
	"context"
)

// Repository defines the interface for application settings persistence
type Repository interface {
	// Load returns the stored settings or ErrSettingsNotFound
	Load(ctx context.Context) (*AppSettings, error)

	// Save replaces the stored settings
	Save(ctx context.Context, settings *AppSettings) error
}
