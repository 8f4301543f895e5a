package client

import (
	"time"

	vo "tvmanager/internal/domain/client/valueobjects"
	"tvmanager/internal/shared/biztime"
)

type statusRule struct {
	status  vo.ClientStatus
	matches func(c *Client, today time.Time) bool
}

// statusRules is evaluated top to bottom; the first match wins. The last
// rule always matches.
var statusRules = []statusRule{
	{
		status: vo.StatusInactive,
		matches: func(c *Client, _ time.Time) bool {
			return c.IsManuallyDeactivated()
		},
	},
	{
		// Expiring today still counts as active.
		status: vo.StatusActive,
		matches: func(c *Client, today time.Time) bool {
			return biztime.DayDifference(c.expirationDate, today) >= 0
		},
	},
	{
		// Only a message sent on or after the expiration date counts.
		status: vo.StatusMessageSent,
		matches: func(c *Client, _ time.Time) bool {
			if c.lastMessageDate == nil {
				return false
			}
			return biztime.DayDifference(biztime.DateOf(*c.lastMessageDate), c.expirationDate) >= 0
		},
	},
	{
		status: vo.StatusExpired,
		matches: func(*Client, time.Time) bool {
			return true
		},
	},
}

// DeriveStatus classifies c as of now.
func DeriveStatus(c *Client, now time.Time) vo.ClientStatus {
	today := biztime.Today(now)
	for _, rule := range statusRules {
		if rule.matches(c, today) {
			return rule.status
		}
	}
	return vo.StatusExpired
}

// Status is a shorthand for DeriveStatus(c, now).
func (c *Client) Status(now time.Time) vo.ClientStatus {
	return DeriveStatus(c, now)
}

// DaysUntilExpiration returns the calendar days left in the current cycle;
// negative once expired.
func (c *Client) DaysUntilExpiration(now time.Time) int {
	return biztime.DayDifference(c.expirationDate, biztime.Today(now))
}
