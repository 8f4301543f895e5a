// Package setting manages the persisted message templates.
package setting

import (
	"context"
	"errors"

	"tvmanager/internal/domain/setting"
	apperrors "tvmanager/internal/shared/errors"
	"tvmanager/internal/shared/logger"
	"tvmanager/internal/shared/utils/logutil"
)

const logPreviewLength = 40

// Service loads and updates application settings
type Service struct {
	repo   setting.Repository
	logger logger.Interface
}

// NewService creates a new settings service
func NewService(repo setting.Repository, log logger.Interface) *Service {
	return &Service{
		repo:   repo,
		logger: log.Named("settings"),
	}
}

// Load returns the stored settings. Missing or unreadable settings fall back
// to the defaults.
func (s *Service) Load(ctx context.Context) *setting.AppSettings {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, setting.ErrSettingsNotFound) {
			s.logger.Warnw("failed to load settings, using defaults", "error", err)
		}
		return setting.DefaultAppSettings()
	}
	if err := settings.Validate(); err != nil {
		s.logger.Warnw("stored settings are invalid, using defaults", "error", err)
		return setting.DefaultAppSettings()
	}
	return settings
}

// Save validates and stores settings
func (s *Service) Save(ctx context.Context, settings *setting.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeValidation, "invalid settings", err)
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.Errorw("failed to save settings", "error", err)
		return apperrors.Wrap(apperrors.ErrorTypeInternal, "failed to save settings", err)
	}
	return nil
}

// UpdateTemplate replaces one template and stores the result
func (s *Service) UpdateTemplate(ctx context.Context, kind setting.TemplateKind, text string) (*setting.AppSettings, error) {
	updated, err := s.Load(ctx).WithTemplate(kind, text)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeValidation, "invalid template", err)
	}
	if err := s.Save(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Infow("message template updated",
		"kind", kind,
		"preview", logutil.TruncateForLog(text, logPreviewLength),
	)
	return updated, nil
}

// Reset restores and stores the default templates
func (s *Service) Reset(ctx context.Context) (*setting.AppSettings, error) {
	defaults := setting.DefaultAppSettings()
	if err := s.Save(ctx, defaults); err != nil {
		return nil, err
	}
	s.logger.Infow("message templates reset to defaults")
	return defaults, nil
}
