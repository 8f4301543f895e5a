package setting

import "errors"

var (
	// ErrSettingsNotFound is returned when no settings were ever saved
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrInvalidTemplateKind is returned for an unknown template kind
	ErrInvalidTemplateKind = errors.New("invalid template kind")

	// ErrEmptyTemplate is returned when a template is blank
	ErrEmptyTemplate = errors.New("template cannot be empty")

	// ErrTemplateTooLong is returned when a template exceeds MaxTemplateLength
	ErrTemplateTooLong = errors.New("template is too long")
)
