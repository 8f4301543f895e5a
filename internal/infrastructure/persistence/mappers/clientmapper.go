package mappers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tvmanager/internal/domain/client"
	"tvmanager/internal/shared/biztime"
)

// ClientRecord is the stored JSON shape of a client. Dates use YYYY-MM-DD,
// timestamps RFC3339.
type ClientRecord struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	WhatsApp        string           `json:"whatsapp"`
	User            string           `json:"user,omitempty"`
	Value           decimal.Decimal  `json:"value"`
	DurationMonths  int              `json:"durationMonths"`
	StartDate       string           `json:"startDate"`
	ExpirationDate  string           `json:"expirationDate"`
	TotalPaidValue  *decimal.Decimal `json:"totalPaidValue,omitempty"`
	LastMessageDate *string          `json:"lastMessageDate,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
	RenewalHistory  []RenewalRecord  `json:"renewalHistory,omitempty"`
}

// RenewalRecord is the stored JSON shape of a renewal
type RenewalRecord struct {
	ID             string          `json:"id"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	DurationMonths int             `json:"durationMonths"`
	Value          decimal.Decimal `json:"value"`
	CreatedAt      string          `json:"createdAt"`
}

// ClientMapper provides methods for converting between domain and records
type ClientMapper interface {
	ToDomain(record *ClientRecord) (*client.Client, error)
	ToRecord(c *client.Client) *ClientRecord
	ToRecords(clients []*client.Client) []*ClientRecord
}

// ClientMapperImpl implements ClientMapper
type ClientMapperImpl struct{}

// NewClientMapper creates a new ClientMapper
func NewClientMapper() ClientMapper {
	return &ClientMapperImpl{}
}

// ToDomain converts a record into a client. Records written before renewals
// were tracked get one renewal covering their current cycle and worth the
// stored paid total, or one cycle price when no total was stored. A missing
// paid total is taken from the history. Renewal dates left blank fall back to
// the client's current cycle.
func (m *ClientMapperImpl) ToDomain(record *ClientRecord) (*client.Client, error) {
	if record == nil {
		return nil, fmt.Errorf("client record is nil")
	}

	start, err := biztime.ParseDate(record.StartDate)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", record.ID, err)
	}
	expiration, err := biztime.ParseDate(record.ExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", record.ID, err)
	}

	history := make([]client.Renewal, 0, len(record.RenewalHistory))
	for _, rr := range record.RenewalHistory {
		r, err := renewalToDomain(rr, start, expiration)
		if err != nil {
			return nil, fmt.Errorf("client %s: %w", record.ID, err)
		}
		history = append(history, r)
	}
	if len(history) == 0 {
		paid := record.Value
		if record.TotalPaidValue != nil {
			paid = *record.TotalPaidValue
		}
		r, err := client.ReconstructRenewal(
			"legacy-"+record.ID, start, expiration, record.DurationMonths, paid, start,
		)
		if err != nil {
			return nil, fmt.Errorf("client %s: %w", record.ID, err)
		}
		history = append(history, r)
	}

	total := decimal.Zero
	for _, r := range history {
		total = total.Add(r.Value())
	}
	if record.TotalPaidValue != nil {
		total = *record.TotalPaidValue
	}

	var lastMessage *time.Time
	if record.LastMessageDate != nil && *record.LastMessageDate != "" {
		ts, err := biztime.ParseTimestamp(*record.LastMessageDate)
		if err != nil {
			return nil, fmt.Errorf("client %s: %w", record.ID, err)
		}
		lastMessage = &ts
	}

	return client.ReconstructClient(client.ReconstructParams{
		ID:                  record.ID,
		Name:                record.Name,
		WhatsAppNumber:      record.WhatsApp,
		PanelUsername:       record.User,
		CycleValue:          record.Value,
		CycleDurationMonths: record.DurationMonths,
		StartDate:           start,
		ExpirationDate:      expiration,
		TotalPaidValue:      total,
		LastMessageDate:     lastMessage,
		IsActiveFlag:        record.IsActive,
		RenewalHistory:      history,
	})
}

// ToRecord converts a client into its stored shape
func (m *ClientMapperImpl) ToRecord(c *client.Client) *ClientRecord {
	if c == nil {
		return nil
	}

	total := c.TotalPaidValue()
	record := &ClientRecord{
		ID:             c.ID(),
		Name:           c.Name(),
		WhatsApp:       c.WhatsAppNumber(),
		User:           c.PanelUsername(),
		Value:          c.CycleValue(),
		DurationMonths: c.CycleDurationMonths(),
		StartDate:      biztime.FormatDate(c.StartDate()),
		ExpirationDate: biztime.FormatDate(c.ExpirationDate()),
		TotalPaidValue: &total,
		IsActive:       c.IsActiveFlag(),
	}
	if ts := c.LastMessageDate(); ts != nil {
		formatted := biztime.FormatTimestamp(*ts)
		record.LastMessageDate = &formatted
	}
	for _, r := range c.RenewalHistory() {
		record.RenewalHistory = append(record.RenewalHistory, RenewalRecord{
			ID:             r.ID(),
			StartDate:      biztime.FormatDate(r.StartDate()),
			EndDate:        biztime.FormatDate(r.EndDate()),
			DurationMonths: r.DurationMonths(),
			Value:          r.Value(),
			CreatedAt:      biztime.FormatTimestamp(r.CreatedAt()),
		})
	}
	return record
}

// ToRecords converts a client list
func (m *ClientMapperImpl) ToRecords(clients []*client.Client) []*ClientRecord {
	records := make([]*ClientRecord, 0, len(clients))
	for _, c := range clients {
		records = append(records, m.ToRecord(c))
	}
	return records
}

func renewalToDomain(rr RenewalRecord, cycleStart, cycleEnd time.Time) (client.Renewal, error) {
	start, err := parseDateOr(rr.StartDate, cycleStart)
	if err != nil {
		return client.Renewal{}, err
	}
	end, err := parseDateOr(rr.EndDate, cycleEnd)
	if err != nil {
		return client.Renewal{}, err
	}
	createdAt := start
	if rr.CreatedAt != "" {
		if createdAt, err = biztime.ParseTimestamp(rr.CreatedAt); err != nil {
			return client.Renewal{}, err
		}
	}
	return client.ReconstructRenewal(rr.ID, start, end, rr.DurationMonths, rr.Value, createdAt)
}

func parseDateOr(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return biztime.ParseDate(raw)
}
