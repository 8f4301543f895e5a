package client

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	vo "tvmanager/internal/domain/client/valueobjects"
	"tvmanager/internal/shared/biztime"
)

// RollingWindowDays is the span, in calendar days, of both the forecast and
// the trailing revenue windows.
const RollingWindowDays = 30

// DashboardStats is a point-in-time rollup of the client collection.
type DashboardStats struct {
	ClientCount       int
	ActiveCount       int
	ExpiredCount      int
	MessageSentCount  int
	InactiveCount     int
	RevenueForecast   decimal.Decimal
	TotalRevenue      decimal.Decimal
	AverageRevenue    decimal.Decimal
	RevenueLast30Days decimal.Decimal
}

// ComputeStats aggregates clients as of now.
//
// The forecast sums the cycle price of every client that is not manually
// deactivated and whose expiration falls within the next 30 days, which
// includes clients that are already overdue.
func ComputeStats(clients []*Client, now time.Time) DashboardStats {
	today := biztime.Today(now)
	statuses := lo.CountValues(lo.Map(clients, func(c *Client, _ int) vo.ClientStatus {
		return DeriveStatus(c, now)
	}))

	stats := DashboardStats{
		ClientCount:       len(clients),
		ActiveCount:       statuses[vo.StatusActive],
		ExpiredCount:      statuses[vo.StatusExpired],
		MessageSentCount:  statuses[vo.StatusMessageSent],
		InactiveCount:     statuses[vo.StatusInactive],
		RevenueForecast:   decimal.Zero,
		TotalRevenue:      decimal.Zero,
		AverageRevenue:    decimal.Zero,
		RevenueLast30Days: decimal.Zero,
	}

	for _, c := range clients {
		stats.TotalRevenue = stats.TotalRevenue.Add(c.totalPaidValue)

		if DeriveStatus(c, now) != vo.StatusInactive &&
			biztime.DayDifference(c.expirationDate, today) <= RollingWindowDays {
			stats.RevenueForecast = stats.RevenueForecast.Add(c.cycleValue)
		}

		for _, r := range c.renewalHistory {
			if biztime.DayDifference(today, biztime.DateOf(r.createdAt)) <= RollingWindowDays {
				stats.RevenueLast30Days = stats.RevenueLast30Days.Add(r.value)
			}
		}
	}

	if len(clients) > 0 {
		stats.AverageRevenue = stats.TotalRevenue.Div(decimal.NewFromInt(int64(len(clients))))
	}

	return stats
}
