package client

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tvmanager/internal/shared/biztime"
	"tvmanager/internal/shared/id"
)

// Client is the aggregate root for one subscription relationship.
type Client struct {
	id                  string
	name                string
	whatsAppNumber      string
	panelUsername       string
	cycleValue          decimal.Decimal
	cycleDurationMonths int
	startDate           time.Time
	expirationDate      time.Time
	totalPaidValue      decimal.Decimal
	lastMessageDate     *time.Time
	isActiveFlag        *bool
	renewalHistory      []Renewal
}

// NewClientParams holds the fields supplied when a client is registered.
type NewClientParams struct {
	ID                  string // optional, generated when empty
	Name                string
	WhatsAppNumber      string
	PanelUsername       string
	CycleValue          decimal.Decimal
	CycleDurationMonths int
	StartDate           time.Time
}

// NewClient registers a client. The expiration date is derived from the
// start date and the cycle length, and the first payment is recorded as the
// initial renewal.
func NewClient(p NewClientParams, now time.Time) (*Client, error) {
	if err := validateCycle(p.CycleDurationMonths, p.CycleValue); err != nil {
		return nil, err
	}
	if p.StartDate.IsZero() {
		return nil, ErrMissingStartDate
	}

	clientID := strings.TrimSpace(p.ID)
	if clientID == "" {
		generated, err := id.NewClientID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate client ID: %w", err)
		}
		clientID = generated
	}

	start := biztime.Truncate(p.StartDate)
	expiration, err := biztime.AddCalendarMonths(start, p.CycleDurationMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to derive expiration date: %w", err)
	}

	initial, err := newRenewal(start, expiration, p.CycleDurationMonths, p.CycleValue, now)
	if err != nil {
		return nil, err
	}

	active := true
	return &Client{
		id:                  clientID,
		name:                strings.TrimSpace(p.Name),
		whatsAppNumber:      strings.TrimSpace(p.WhatsAppNumber),
		panelUsername:       strings.TrimSpace(p.PanelUsername),
		cycleValue:          p.CycleValue,
		cycleDurationMonths: p.CycleDurationMonths,
		startDate:           start,
		expirationDate:      expiration,
		totalPaidValue:      p.CycleValue,
		isActiveFlag:        &active,
		renewalHistory:      []Renewal{initial},
	}, nil
}

// ReconstructParams carries every persisted field of a client.
type ReconstructParams struct {
	ID                  string
	Name                string
	WhatsAppNumber      string
	PanelUsername       string
	CycleValue          decimal.Decimal
	CycleDurationMonths int
	StartDate           time.Time
	ExpirationDate      time.Time
	TotalPaidValue      decimal.Decimal
	LastMessageDate     *time.Time
	IsActiveFlag        *bool
	RenewalHistory      []Renewal
}

// ReconstructClient rebuilds a client from persistence. The stored total
// must match the renewal history.
func ReconstructClient(p ReconstructParams) (*Client, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if err := validateCycle(p.CycleDurationMonths, p.CycleValue); err != nil {
		return nil, err
	}
	if p.StartDate.IsZero() || p.ExpirationDate.IsZero() {
		return nil, fmt.Errorf("client %s: start and expiration dates are required", p.ID)
	}
	if err := validateHistory(p.RenewalHistory); err != nil {
		return nil, fmt.Errorf("client %s: %w", p.ID, err)
	}
	if sum := sumValues(p.RenewalHistory); !sum.Equal(p.TotalPaidValue) {
		return nil, fmt.Errorf("client %s: total paid %s does not match renewal history sum %s",
			p.ID, p.TotalPaidValue, sum)
	}

	c := &Client{
		id:                  p.ID,
		name:                p.Name,
		whatsAppNumber:      p.WhatsAppNumber,
		panelUsername:       p.PanelUsername,
		cycleValue:          p.CycleValue,
		cycleDurationMonths: p.CycleDurationMonths,
		startDate:           biztime.Truncate(p.StartDate),
		expirationDate:      biztime.Truncate(p.ExpirationDate),
		totalPaidValue:      p.TotalPaidValue,
		renewalHistory:      slices.Clone(p.RenewalHistory),
	}
	if p.LastMessageDate != nil {
		ts := p.LastMessageDate.UTC()
		c.lastMessageDate = &ts
	}
	if p.IsActiveFlag != nil {
		flag := *p.IsActiveFlag
		c.isActiveFlag = &flag
	}
	return c, nil
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) WhatsAppNumber() string {
	return c.whatsAppNumber
}

func (c *Client) PanelUsername() string {
	return c.panelUsername
}

// CycleValue returns the price charged per renewal cycle.
func (c *Client) CycleValue() decimal.Decimal {
	return c.cycleValue
}

func (c *Client) CycleDurationMonths() int {
	return c.cycleDurationMonths
}

// StartDate returns the first day of the current cycle.
func (c *Client) StartDate() time.Time {
	return c.startDate
}

func (c *Client) ExpirationDate() time.Time {
	return c.expirationDate
}

// TotalPaidValue returns the sum of every recorded payment.
func (c *Client) TotalPaidValue() decimal.Decimal {
	return c.totalPaidValue
}

func (c *Client) LastMessageDate() *time.Time {
	if c.lastMessageDate == nil {
		return nil
	}
	ts := *c.lastMessageDate
	return &ts
}

// IsActiveFlag returns the manual activation flag. Nil means it was never set.
func (c *Client) IsActiveFlag() *bool {
	if c.isActiveFlag == nil {
		return nil
	}
	flag := *c.isActiveFlag
	return &flag
}

// IsManuallyDeactivated reports whether the flag is explicitly false.
func (c *Client) IsManuallyDeactivated() bool {
	return c.isActiveFlag != nil && !*c.isActiveFlag
}

// RenewalHistory returns the payments in the order they were recorded.
func (c *Client) RenewalHistory() []Renewal {
	return slices.Clone(c.renewalHistory)
}

// EditParams holds the fields a user may change on an existing client.
type EditParams struct {
	Name                string
	WhatsAppNumber      string
	PanelUsername       string
	CycleValue          decimal.Decimal
	CycleDurationMonths int
	StartDate           time.Time
}

// Edit replaces the editable fields and re-derives the expiration date.
// The renewal history and the paid total are left untouched.
func (c *Client) Edit(p EditParams) error {
	if err := validateCycle(p.CycleDurationMonths, p.CycleValue); err != nil {
		return err
	}
	if p.StartDate.IsZero() {
		return ErrMissingStartDate
	}

	start := biztime.Truncate(p.StartDate)
	expiration, err := biztime.AddCalendarMonths(start, p.CycleDurationMonths)
	if err != nil {
		return fmt.Errorf("failed to derive expiration date: %w", err)
	}

	c.name = strings.TrimSpace(p.Name)
	c.whatsAppNumber = strings.TrimSpace(p.WhatsAppNumber)
	c.panelUsername = strings.TrimSpace(p.PanelUsername)
	c.cycleValue = p.CycleValue
	c.cycleDurationMonths = p.CycleDurationMonths
	c.startDate = start
	c.expirationDate = expiration
	return nil
}

// ReplaceHistory swaps the renewal history and recomputes the paid total
// from it.
func (c *Client) ReplaceHistory(history []Renewal) error {
	if err := validateHistory(history); err != nil {
		return err
	}
	c.renewalHistory = slices.Clone(history)
	c.totalPaidValue = sumValues(history)
	return nil
}

// MarkContacted records an outbound message sent at ts.
func (c *Client) MarkContacted(ts time.Time) {
	at := ts.UTC()
	c.lastMessageDate = &at
}

// SetActive sets the manual activation flag explicitly.
func (c *Client) SetActive(active bool) {
	c.isActiveFlag = &active
}

// ToggleActive flips the manual flag. An unset flag counts as active, so the
// first toggle deactivates.
func (c *Client) ToggleActive() {
	c.SetActive(c.IsManuallyDeactivated())
}

// Clone returns a deep copy.
func (c *Client) Clone() *Client {
	cp := *c
	cp.lastMessageDate = c.LastMessageDate()
	cp.isActiveFlag = c.IsActiveFlag()
	cp.renewalHistory = slices.Clone(c.renewalHistory)
	return &cp
}

func validateCycle(durationMonths int, value decimal.Decimal) error {
	if durationMonths <= 0 {
		return ErrInvalidDuration
	}
	if value.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}

func validateHistory(history []Renewal) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}
	for i := 1; i < len(history); i++ {
		if history[i].createdAt.Before(history[i-1].createdAt) {
			return ErrHistoryOutOfOrder
		}
	}
	return nil
}

func sumValues(history []Renewal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range history {
		total = total.Add(r.value)
	}
	return total
}
