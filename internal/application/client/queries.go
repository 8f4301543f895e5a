package client

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/cases"

	"tvmanager/internal/domain/client"
	"tvmanager/internal/shared/biztime"
	"tvmanager/internal/shared/utils"
)

// UrgencyWindowDays is how many days before expiration a client starts
// showing up in the default list.
const UrgencyWindowDays = 3

// Now returns the current instant of the store's clock.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

func (s *Store) Get(_ context.Context, id string) (*client.Client, error) {
	if err := utils.ValidateID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, ok := findClient(s.clients, id)
	if !ok {
		return nil, notFound(id)
	}
	return c.Clone(), nil
}

// List returns copies of the clients matching filter, ordered by expiration
// date with the earliest first.
func (s *Store) List(_ context.Context, filter ListFilter) []*client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	search := strings.TrimSpace(filter.Search)
	folder := cases.Fold()
	needle := folder.String(search)

	matched := lo.Filter(s.clients, func(c *client.Client, _ int) bool {
		if search != "" {
			return strings.Contains(folder.String(c.Name()), needle) ||
				strings.Contains(folder.String(c.PanelUsername()), needle) ||
				strings.Contains(c.WhatsAppNumber(), search)
		}
		if filter.All {
			return true
		}
		return isUrgent(c, now)
	})

	result := cloneAll(matched)
	slices.SortStableFunc(result, func(a, b *client.Client) int {
		return a.ExpirationDate().Compare(b.ExpirationDate())
	})
	return result
}

// isUrgent reports whether c expires within the urgency window or already
// expired, ignoring manually deactivated clients.
func isUrgent(c *client.Client, now time.Time) bool {
	return !c.IsManuallyDeactivated() &&
		biztime.DaysSince(c.ExpirationDate(), now) >= -UrgencyWindowDays
}

// Transactions returns every recorded payment, newest first.
func (s *Store) Transactions(_ context.Context) []client.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return client.Transactions(s.clients)
}

// Stats computes dashboard statistics over the current collection.
func (s *Store) Stats(_ context.Context) client.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return client.ComputeStats(s.clients, s.clock.Now())
}

// Snapshot returns a deep copy of the whole collection in storage order.
func (s *Store) Snapshot(_ context.Context) []*client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.clients)
}
