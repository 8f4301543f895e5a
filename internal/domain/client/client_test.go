package client

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvmanager/internal/shared/biztime"
	"tvmanager/internal/shared/id"
)

// --- helpers ---

// noonUTC is mid-morning in the business timezone, far from any day boundary.
func noonUTC(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 15, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestClient(t *testing.T, start time.Time, months int, value string) *Client {
	t.Helper()
	c, err := NewClient(NewClientParams{
		Name:                "Maria Souza",
		WhatsAppNumber:      "11988776655",
		PanelUsername:       "maria.tv",
		CycleValue:          dec(value),
		CycleDurationMonths: months,
		StartDate:           start,
	}, noonUTC(start.Year(), start.Month(), start.Day()))
	require.NoError(t, err)
	return c
}

// clientExpiringOn builds a client whose current cycle ends on expiration.
func clientExpiringOn(t *testing.T, expiration time.Time) *Client {
	t.Helper()
	return newTestClient(t, expiration.AddDate(0, -1, 0), 1, "50")
}

func boolPtr(b bool) *bool {
	return &b
}

// =====================================================================
// TestNewClient_*
// =====================================================================

func TestNewClient_ValidInput(t *testing.T) {
	now := noonUTC(2024, 6, 1)
	c, err := NewClient(NewClientParams{
		Name:                "  Maria Souza ",
		WhatsAppNumber:      "11988776655",
		PanelUsername:       "maria.tv",
		CycleValue:          dec("35.90"),
		CycleDurationMonths: 3,
		StartDate:           biztime.NewDate(2024, 6, 1),
	}, now)

	require.NoError(t, err)
	assert.True(t, id.IsPrefixed(c.ID(), id.PrefixClient), "ID should be generated")
	assert.Equal(t, "Maria Souza", c.Name())
	assert.Equal(t, biztime.NewDate(2024, 6, 1), c.StartDate())
	assert.Equal(t, biztime.NewDate(2024, 9, 1), c.ExpirationDate())
	assert.True(t, c.TotalPaidValue().Equal(dec("35.90")))
	require.NotNil(t, c.IsActiveFlag())
	assert.True(t, *c.IsActiveFlag())
	assert.Nil(t, c.LastMessageDate())

	history := c.RenewalHistory()
	require.Len(t, history, 1)
	assert.Equal(t, c.StartDate(), history[0].StartDate())
	assert.Equal(t, c.ExpirationDate(), history[0].EndDate())
	assert.Equal(t, 3, history[0].DurationMonths())
	assert.True(t, history[0].Value().Equal(dec("35.90")))
	assert.Equal(t, now, history[0].CreatedAt())
	assert.NotEmpty(t, history[0].ID())
}

func TestNewClient_KeepsSuppliedID(t *testing.T) {
	c, err := NewClient(NewClientParams{
		ID:                  "1718000000000",
		Name:                "Legacy",
		CycleValue:          dec("10"),
		CycleDurationMonths: 1,
		StartDate:           biztime.NewDate(2024, 1, 1),
	}, noonUTC(2024, 1, 1))

	require.NoError(t, err)
	assert.Equal(t, "1718000000000", c.ID())
}

func TestNewClient_ExpirationClampsToMonthEnd(t *testing.T) {
	c := newTestClient(t, biztime.NewDate(2024, 1, 31), 1, "50")
	assert.Equal(t, biztime.NewDate(2024, 2, 29), c.ExpirationDate())
}

func TestNewClient_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		params  NewClientParams
		wantErr error
	}{
		{
			name:    "zero duration",
			params:  NewClientParams{CycleValue: dec("10"), CycleDurationMonths: 0, StartDate: biztime.NewDate(2024, 1, 1)},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "negative duration",
			params:  NewClientParams{CycleValue: dec("10"), CycleDurationMonths: -2, StartDate: biztime.NewDate(2024, 1, 1)},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "negative value",
			params:  NewClientParams{CycleValue: dec("-0.01"), CycleDurationMonths: 1, StartDate: biztime.NewDate(2024, 1, 1)},
			wantErr: ErrNegativeValue,
		},
		{
			name:    "missing start date",
			params:  NewClientParams{CycleValue: dec("10"), CycleDurationMonths: 1},
			wantErr: ErrMissingStartDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.params, noonUTC(2024, 1, 1))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, c)
		})
	}
}

func TestNewClient_ZeroValueAllowed(t *testing.T) {
	c := newTestClient(t, biztime.NewDate(2024, 1, 1), 1, "0")
	assert.True(t, c.TotalPaidValue().IsZero())
}

// =====================================================================
// TestReconstructClient_*
// =====================================================================

func reconstructParams(t *testing.T) ReconstructParams {
	t.Helper()
	r1, err := ReconstructRenewal("r1", biztime.NewDate(2024, 1, 1), biztime.NewDate(2024, 2, 1), 1, dec("30"), noonUTC(2024, 1, 1))
	require.NoError(t, err)
	r2, err := ReconstructRenewal("r2", biztime.NewDate(2024, 2, 1), biztime.NewDate(2024, 3, 1), 1, dec("30.50"), noonUTC(2024, 1, 28))
	require.NoError(t, err)

	return ReconstructParams{
		ID:                  "cli_abc",
		Name:                "João",
		CycleValue:          dec("30"),
		CycleDurationMonths: 1,
		StartDate:           biztime.NewDate(2024, 2, 1),
		ExpirationDate:      biztime.NewDate(2024, 3, 1),
		TotalPaidValue:      dec("60.50"),
		RenewalHistory:      []Renewal{r1, r2},
	}
}

func TestReconstructClient_Valid(t *testing.T) {
	c, err := ReconstructClient(reconstructParams(t))
	require.NoError(t, err)
	assert.Equal(t, "cli_abc", c.ID())
	assert.Nil(t, c.IsActiveFlag(), "absent flag stays absent")
	assert.Len(t, c.RenewalHistory(), 2)
}

func TestReconstructClient_RejectsInconsistentTotal(t *testing.T) {
	p := reconstructParams(t)
	p.TotalPaidValue = dec("61")

	_, err := ReconstructClient(p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not match renewal history sum")
}

func TestReconstructClient_RejectsEmptyHistory(t *testing.T) {
	p := reconstructParams(t)
	p.RenewalHistory = nil
	p.TotalPaidValue = decimal.Zero

	_, err := ReconstructClient(p)
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestReconstructClient_RejectsUnorderedHistory(t *testing.T) {
	p := reconstructParams(t)
	p.RenewalHistory[0], p.RenewalHistory[1] = p.RenewalHistory[1], p.RenewalHistory[0]

	_, err := ReconstructClient(p)
	assert.ErrorIs(t, err, ErrHistoryOutOfOrder)
}

// =====================================================================
// Mutations
// =====================================================================

func TestClient_Edit_RederivesExpirationAndKeepsLedger(t *testing.T) {
	c := newTestClient(t, biztime.NewDate(2024, 1, 10), 1, "50")
	_, err := c.RecordRenewal(1, dec("50"), noonUTC(2024, 2, 1))
	require.NoError(t, err)

	err = c.Edit(EditParams{
		Name:                "Maria S.",
		WhatsAppNumber:      "11999990000",
		PanelUsername:       "maria2",
		CycleValue:          dec("60"),
		CycleDurationMonths: 2,
		StartDate:           biztime.NewDate(2024, 3, 5),
	})

	require.NoError(t, err)
	assert.Equal(t, "Maria S.", c.Name())
	assert.Equal(t, biztime.NewDate(2024, 5, 5), c.ExpirationDate())
	assert.Len(t, c.RenewalHistory(), 2)
	assert.True(t, c.TotalPaidValue().Equal(dec("100")))
}

func TestClient_Edit_InvalidInputLeavesClientUnchanged(t *testing.T) {
	c := newTestClient(t, biztime.NewDate(2024, 1, 10), 1, "50")
	before := c.Clone()

	err := c.Edit(EditParams{Name: "x", CycleValue: dec("-1"), CycleDurationMonths: 1, StartDate: biztime.NewDate(2024, 1, 1)})

	assert.ErrorIs(t, err, ErrNegativeValue)
	assert.Equal(t, before, c)
}

func TestClient_ReplaceHistory_RecomputesTotal(t *testing.T) {
	c := newTestClient(t, biztime.NewDate(2024, 1, 10), 1, "50")
	p := reconstructParams(t)

	require.NoError(t, c.ReplaceHistory(p.RenewalHistory))
	assert.True(t, c.TotalPaidValue().Equal(dec("60.50")))

	assert.ErrorIs(t, c.ReplaceHistory(nil), ErrEmptyHistory)
}

func TestClient_ToggleActive(t *testing.T) {
	p := reconstructParams(t)
	c, err := ReconstructClient(p)
	require.NoError(t, err)
	require.Nil(t, c.IsActiveFlag())

	c.ToggleActive()
	assert.Equal(t, boolPtr(false), c.IsActiveFlag(), "absent flag counts as active")

	c.ToggleActive()
	assert.Equal(t, boolPtr(true), c.IsActiveFlag())
}

func TestClient_MarkContacted(t *testing.T) {
	c := newTestClient(t, biztime.NewDate(2024, 1, 10), 1, "50")
	ts := time.Date(2024, 2, 12, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	c.MarkContacted(ts)

	require.NotNil(t, c.LastMessageDate())
	assert.True(t, ts.Equal(*c.LastMessageDate()))
	assert.Equal(t, time.UTC, c.LastMessageDate().Location())
}

func TestClient_CloneIsDeep(t *testing.T) {
	c := newTestClient(t, biztime.NewDate(2024, 1, 10), 1, "50")
	cp := c.Clone()

	_, err := cp.RecordRenewal(1, dec("50"), noonUTC(2024, 1, 20))
	require.NoError(t, err)
	cp.MarkContacted(noonUTC(2024, 1, 21))

	assert.Len(t, c.RenewalHistory(), 1)
	assert.Nil(t, c.LastMessageDate())
	assert.True(t, c.TotalPaidValue().Equal(dec("50")))
}
