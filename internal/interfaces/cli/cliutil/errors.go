package cliutil

import (
	"fmt"

	apperrors "tvmanager/internal/shared/errors"
)

const (
	ExitOK = iota
	ExitFailure
	ExitInvalidInput
	ExitNotFound
	ExitConflict
)

// Describe renders err as a single line for the terminal.
func Describe(err error) string {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return fmt.Sprintf("error: %v", err)
	}

	var prefix string
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		prefix = "invalid input"
	case apperrors.ErrorTypeNotFound:
		prefix = "not found"
	case apperrors.ErrorTypeConflict:
		prefix = "conflict"
	default:
		prefix = "error"
	}

	msg := fmt.Sprintf("%s: %s", prefix, appErr.Message)
	if appErr.Details != "" {
		msg += " (" + appErr.Details + ")"
	}
	return msg
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case apperrors.IsValidationError(err):
		return ExitInvalidInput
	case apperrors.IsNotFoundError(err):
		return ExitNotFound
	case apperrors.IsConflictError(err):
		return ExitConflict
	default:
		return ExitFailure
	}
}
