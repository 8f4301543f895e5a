package client

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tvmanager/internal/shared/biztime"
	"tvmanager/internal/shared/id"
)

// Renewal is one recorded payment event. It is immutable once appended to a
// client's history.
type Renewal struct {
	id             string
	startDate      time.Time
	endDate        time.Time
	durationMonths int
	value          decimal.Decimal
	createdAt      time.Time
}

func newRenewal(startDate, endDate time.Time, durationMonths int, value decimal.Decimal, createdAt time.Time) (Renewal, error) {
	rid, err := id.NewRenewalID()
	if err != nil {
		return Renewal{}, err
	}
	return Renewal{
		id:             rid,
		startDate:      biztime.Truncate(startDate),
		endDate:        biztime.Truncate(endDate),
		durationMonths: durationMonths,
		value:          value,
		createdAt:      createdAt.UTC(),
	}, nil
}

// ReconstructRenewal rebuilds a renewal from persistence or an import.
func ReconstructRenewal(
	renewalID string,
	startDate, endDate time.Time,
	durationMonths int,
	value decimal.Decimal,
	createdAt time.Time,
) (Renewal, error) {
	if renewalID == "" {
		return Renewal{}, fmt.Errorf("renewal ID is required")
	}
	if durationMonths <= 0 {
		return Renewal{}, ErrInvalidDuration
	}
	if value.IsNegative() {
		return Renewal{}, ErrNegativeValue
	}
	if createdAt.IsZero() {
		return Renewal{}, fmt.Errorf("renewal creation time is required")
	}

	return Renewal{
		id:             renewalID,
		startDate:      biztime.Truncate(startDate),
		endDate:        biztime.Truncate(endDate),
		durationMonths: durationMonths,
		value:          value,
		createdAt:      createdAt.UTC(),
	}, nil
}

func (r Renewal) ID() string {
	return r.id
}

// StartDate returns the first day of the renewed cycle.
func (r Renewal) StartDate() time.Time {
	return r.startDate
}

// EndDate returns the expiration date the renewal set.
func (r Renewal) EndDate() time.Time {
	return r.endDate
}

func (r Renewal) DurationMonths() int {
	return r.durationMonths
}

func (r Renewal) Value() decimal.Decimal {
	return r.value
}

// CreatedAt returns when the payment was recorded.
func (r Renewal) CreatedAt() time.Time {
	return r.createdAt
}
