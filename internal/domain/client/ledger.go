package client

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tvmanager/internal/shared/biztime"
)

// RenewalAnchor returns the date a renewal recorded at now would start from.
// A lapsed cycle restarts today; a running one is extended from its current
// expiration so no paid time is lost.
func (c *Client) RenewalAnchor(now time.Time) time.Time {
	if DeriveStatus(c, now).IsLapsed() {
		return biztime.Today(now)
	}
	return c.expirationDate
}

// RecordRenewal registers a payment of value covering durationMonths. Each
// call is a separate payment event: calling it twice extends the cycle twice.
// The start date and cycle length move to the renewed cycle; the cycle price
// is left as it is. Invalid input leaves the client unchanged.
func (c *Client) RecordRenewal(durationMonths int, value decimal.Decimal, now time.Time) (Renewal, error) {
	if err := validateCycle(durationMonths, value); err != nil {
		return Renewal{}, err
	}

	anchor := c.RenewalAnchor(now)
	expiration, err := biztime.AddCalendarMonths(anchor, durationMonths)
	if err != nil {
		return Renewal{}, fmt.Errorf("failed to derive expiration date: %w", err)
	}

	renewal, err := newRenewal(anchor, expiration, durationMonths, value, now)
	if err != nil {
		return Renewal{}, err
	}

	c.renewalHistory = append(c.renewalHistory, renewal)
	c.totalPaidValue = c.totalPaidValue.Add(value)
	c.startDate = anchor
	c.cycleDurationMonths = durationMonths
	c.expirationDate = expiration
	c.SetActive(true)

	return renewal, nil
}
