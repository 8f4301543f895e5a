package client

import (
	"errors"
	"fmt"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrClientExists      = errors.New("client already exists")
	ErrInvalidDuration   = errors.New("cycle duration must be a positive number of months")
	ErrNegativeValue     = errors.New("value cannot be negative")
	ErrMissingStartDate  = errors.New("start date is required")
	ErrEmptyHistory      = errors.New("renewal history cannot be empty")
	ErrHistoryOutOfOrder = errors.New("renewal history must be in chronological order")
)

func ErrNotFound(clientID string) error {
	return fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
}
