package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tvmanager/internal/domain/client"
	vo "tvmanager/internal/domain/client/valueobjects"
	"tvmanager/internal/shared/biztime"
	apperrors "tvmanager/internal/shared/errors"
	"tvmanager/internal/shared/logger"
)

type mockClientRepository struct {
	mock.Mock
}

func (m *mockClientRepository) Load(ctx context.Context) ([]*client.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*client.Client), args.Error(1)
}

func (m *mockClientRepository) Save(ctx context.Context, clients []*client.Client) error {
	args := m.Called(ctx, clients)
	return args.Error(0)
}

// memRepository keeps the last saved collection.
type memRepository struct {
	saved []*client.Client
	saves int
}

func (r *memRepository) Load(context.Context) ([]*client.Client, error) {
	return r.saved, nil
}

func (r *memRepository) Save(_ context.Context, clients []*client.Client) error {
	r.saved = clients
	r.saves++
	return nil
}

var testNow = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *memRepository) {
	t.Helper()
	repo := &memRepository{}
	return Open(context.Background(), repo, biztime.NewFixedClock(testNow), logger.NewNop()), repo
}

func createCmd(name string, start time.Time, value string) CreateClientCommand {
	return CreateClientCommand{
		Name:                name,
		WhatsAppNumber:      "11988776655",
		PanelUsername:       name + ".tv",
		CycleValue:          decimal.RequireFromString(value),
		CycleDurationMonths: 1,
		StartDate:           start,
	}
}

func mustCreate(t *testing.T, s *Store, cmd CreateClientCommand) *client.Client {
	t.Helper()
	c, err := s.Create(context.Background(), cmd)
	require.NoError(t, err)
	return c
}

// =====================================================================
// Open
// =====================================================================

func TestOpen_LoadFailureStartsEmpty(t *testing.T) {
	repo := new(mockClientRepository)
	repo.On("Load", mock.Anything).Return(nil, errors.New("corrupt blob"))

	s := Open(context.Background(), repo, biztime.NewFixedClock(testNow), logger.NewNop())

	assert.Empty(t, s.Snapshot(context.Background()))
	repo.AssertExpectations(t)
}

// =====================================================================
// Create
// =====================================================================

func TestStore_Create(t *testing.T) {
	s, repo := newTestStore(t)

	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 6, 1), "35.90"))

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, biztime.NewDate(2024, 7, 1), c.ExpirationDate())
	assert.True(t, c.TotalPaidValue().Equal(decimal.RequireFromString("35.90")))
	require.Len(t, c.RenewalHistory(), 1)
	assert.Equal(t, testNow, c.RenewalHistory()[0].CreatedAt())
	assert.Equal(t, 1, repo.saves)
	assert.Len(t, repo.saved, 1)
}

func TestStore_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(cmd *CreateClientCommand)
	}{
		{name: "missing name", mod: func(cmd *CreateClientCommand) { cmd.Name = "" }},
		{name: "missing whatsapp", mod: func(cmd *CreateClientCommand) { cmd.WhatsAppNumber = "" }},
		{name: "zero months", mod: func(cmd *CreateClientCommand) { cmd.CycleDurationMonths = 0 }},
		{name: "negative value", mod: func(cmd *CreateClientCommand) { cmd.CycleValue = decimal.NewFromInt(-1) }},
		{name: "missing start date", mod: func(cmd *CreateClientCommand) { cmd.StartDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestStore(t)
			cmd := createCmd("ana", biztime.NewDate(2024, 6, 1), "35.90")
			tt.mod(&cmd)

			_, err := s.Create(context.Background(), cmd)

			assert.True(t, apperrors.IsValidationError(err), "got %v", err)
			assert.Zero(t, repo.saves)
			assert.Empty(t, s.Snapshot(context.Background()))
		})
	}
}

func TestStore_Create_DuplicateID(t *testing.T) {
	s, _ := newTestStore(t)
	cmd := createCmd("ana", biztime.NewDate(2024, 6, 1), "35.90")
	cmd.ID = "cli_fixed"
	mustCreate(t, s, cmd)

	_, err := s.Create(context.Background(), cmd)

	assert.True(t, apperrors.IsConflictError(err))
	assert.Len(t, s.Snapshot(context.Background()), 1)
}

func TestStore_SaveFailureLeavesCollectionUntouched(t *testing.T) {
	repo := new(mockClientRepository)
	repo.On("Load", mock.Anything).Return([]*client.Client{}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	s := Open(context.Background(), repo, biztime.NewFixedClock(testNow), logger.NewNop())

	_, err := s.Create(context.Background(), createCmd("ana", biztime.NewDate(2024, 6, 1), "10"))

	require.Error(t, err)
	assert.True(t, apperrors.IsInternalError(err))
	assert.Empty(t, s.Snapshot(context.Background()))
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestStore_RenewSaveFailureKeepsPreviousState(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 6, 10), "10"))

	failing := new(mockClientRepository)
	failing.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	s.repo = failing

	_, _, err := s.Renew(context.Background(), RenewClientCommand{ID: c.ID()})
	require.Error(t, err)

	got, err := s.Get(context.Background(), c.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ExpirationDate(), got.ExpirationDate())
	assert.Len(t, got.RenewalHistory(), 1)
	assert.True(t, got.TotalPaidValue().Equal(decimal.NewFromInt(10)))
}

// =====================================================================
// Update / Delete / Toggle / Contact
// =====================================================================

func TestStore_Update_PreservesLedger(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 6, 1), "10"))
	_, err := s.MarkContacted(context.Background(), c.ID(), time.Time{})
	require.NoError(t, err)

	updated, err := s.Update(context.Background(), UpdateClientCommand{
		ID:                  c.ID(),
		Name:                "Ana Paula",
		WhatsAppNumber:      "11900000000",
		CycleValue:          decimal.NewFromInt(20),
		CycleDurationMonths: 3,
		StartDate:           biztime.NewDate(2024, 5, 31),
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Name())
	assert.Equal(t, biztime.NewDate(2024, 8, 31), updated.ExpirationDate())
	assert.True(t, updated.TotalPaidValue().Equal(decimal.NewFromInt(10)))
	assert.NotNil(t, updated.LastMessageDate(), "last message date is preserved")
	assert.Equal(t, boolPtr(true), updated.IsActiveFlag())
}

func TestStore_Update_ReplacesHistory(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 6, 1), "10"))
	r, err := client.ReconstructRenewal("r1", biztime.NewDate(2024, 1, 1), biztime.NewDate(2024, 2, 1), 1,
		decimal.NewFromInt(99), time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	history := []client.Renewal{r}

	updated, err := s.Update(context.Background(), UpdateClientCommand{
		ID:                  c.ID(),
		Name:                c.Name(),
		WhatsAppNumber:      c.WhatsAppNumber(),
		CycleValue:          c.CycleValue(),
		CycleDurationMonths: c.CycleDurationMonths(),
		StartDate:           c.StartDate(),
		IsActive:            boolPtr(false),
		RenewalHistory:      &history,
	})

	require.NoError(t, err)
	assert.True(t, updated.TotalPaidValue().Equal(decimal.NewFromInt(99)))
	assert.Equal(t, vo.StatusInactive, updated.Status(testNow))
}

func TestStore_Update_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Update(context.Background(), UpdateClientCommand{
		ID: "cli_missing", Name: "x", WhatsAppNumber: "1", CycleValue: decimal.Zero,
		CycleDurationMonths: 1, StartDate: biztime.NewDate(2024, 1, 1),
	})

	assert.True(t, apperrors.IsNotFoundError(err))
	assert.ErrorIs(t, err, client.ErrClientNotFound)
}

func TestStore_Delete(t *testing.T) {
	s, repo := newTestStore(t)
	a := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 6, 1), "10"))
	b := mustCreate(t, s, createCmd("bia", biztime.NewDate(2024, 6, 1), "10"))

	require.NoError(t, s.Delete(context.Background(), a.ID()))

	remaining := s.Snapshot(context.Background())
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID(), remaining[0].ID())
	assert.Len(t, repo.saved, 1)

	assert.True(t, apperrors.IsNotFoundError(s.Delete(context.Background(), a.ID())))
}

func TestStore_ToggleActive(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 6, 1), "10"))

	off, err := s.ToggleActive(context.Background(), c.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusInactive, off.Status(testNow))

	on, err := s.ToggleActive(context.Background(), c.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, on.Status(testNow))
}

func TestStore_MarkContacted_MovesExpiredToMessageSent(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 4, 20), "10"))
	require.Equal(t, vo.StatusExpired, c.Status(testNow))

	contacted, err := s.MarkContacted(context.Background(), c.ID(), time.Time{})

	require.NoError(t, err)
	require.NotNil(t, contacted.LastMessageDate())
	assert.Equal(t, testNow, *contacted.LastMessageDate())
	assert.Equal(t, vo.StatusMessageSent, contacted.Status(testNow))
}

// =====================================================================
// Renew
// =====================================================================

func TestStore_Renew_DefaultsFromClient(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 5, 15), "35"))

	renewed, r, err := s.Renew(context.Background(), RenewClientCommand{ID: c.ID()})

	require.NoError(t, err)
	assert.Equal(t, 1, r.DurationMonths())
	assert.True(t, r.Value().Equal(decimal.NewFromInt(35)))
	assert.Equal(t, biztime.NewDate(2024, 7, 15), renewed.ExpirationDate())
	assert.True(t, renewed.TotalPaidValue().Equal(decimal.NewFromInt(70)))
}

func TestStore_Renew_ExplicitValues(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 3, 1), "35"))
	value := decimal.RequireFromString("90")

	renewed, r, err := s.Renew(context.Background(), RenewClientCommand{ID: c.ID(), DurationMonths: 3, Value: &value})

	require.NoError(t, err)
	assert.Equal(t, biztime.NewDate(2024, 6, 1), r.StartDate(), "expired clients restart today")
	assert.Equal(t, biztime.NewDate(2024, 9, 1), renewed.ExpirationDate())
	assert.Equal(t, 3, renewed.CycleDurationMonths())
}

func TestStore_Renew_InvalidInput(t *testing.T) {
	s, repo := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 5, 15), "35"))
	saves := repo.saves
	negative := decimal.NewFromInt(-1)

	_, _, err := s.Renew(context.Background(), RenewClientCommand{ID: c.ID(), Value: &negative})
	assert.True(t, apperrors.IsValidationError(err))

	_, _, err = s.Renew(context.Background(), RenewClientCommand{ID: c.ID(), DurationMonths: -1})
	assert.True(t, apperrors.IsValidationError(err))

	assert.Equal(t, saves, repo.saves)
}

// =====================================================================
// Queries
// =====================================================================

func TestStore_List(t *testing.T) {
	s, _ := newTestStore(t)
	soon := mustCreate(t, s, createCmd("soon", biztime.NewDate(2024, 5, 4), "10"))     // expires 06-04
	later := mustCreate(t, s, createCmd("later", biztime.NewDate(2024, 5, 20), "10"))  // expires 06-20
	overdue := mustCreate(t, s, createCmd("overdue", biztime.NewDate(2024, 4, 10), "10")) // expires 05-10
	off := mustCreate(t, s, createCmd("off", biztime.NewDate(2024, 4, 10), "10"))
	_, err := s.ToggleActive(context.Background(), off.ID())
	require.NoError(t, err)

	t.Run("urgent only by default", func(t *testing.T) {
		got := s.List(context.Background(), ListFilter{})
		assert.Equal(t, []string{overdue.ID(), soon.ID()}, ids(got))
	})

	t.Run("all sorted by expiration", func(t *testing.T) {
		got := s.List(context.Background(), ListFilter{All: true})
		require.Len(t, got, 4)
		assert.Equal(t, later.ID(), got[3].ID())
	})

	t.Run("search is case-insensitive and ignores urgency", func(t *testing.T) {
		got := s.List(context.Background(), ListFilter{Search: "LATER"})
		assert.Equal(t, []string{later.ID()}, ids(got))
	})

	t.Run("search matches whatsapp substring", func(t *testing.T) {
		got := s.List(context.Background(), ListFilter{Search: "98877"})
		assert.Len(t, got, 4)
	})
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 6, 1), "10"))

	got, err := s.Get(context.Background(), c.ID())
	require.NoError(t, err)
	got.SetActive(false)

	again, err := s.Get(context.Background(), c.ID())
	require.NoError(t, err)
	assert.False(t, again.IsManuallyDeactivated())

	_, err = s.Get(context.Background(), "")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestStore_StatsAndTransactions(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 5, 20), "100"))
	b := mustCreate(t, s, createCmd("bia", biztime.NewDate(2024, 5, 25), "200"))
	_, err := s.ToggleActive(context.Background(), b.ID())
	require.NoError(t, err)
	_, _, err = s.Renew(context.Background(), RenewClientCommand{ID: a.ID()})
	require.NoError(t, err)

	stats := s.Stats(context.Background())
	assert.Equal(t, 2, stats.ClientCount)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(400)))
	assert.True(t, stats.AverageRevenue.Equal(decimal.NewFromInt(200)))

	txs := s.Transactions(context.Background())
	assert.Len(t, txs, 3)
}

func TestStore_ReplaceAll(t *testing.T) {
	s, repo := newTestStore(t)
	mustCreate(t, s, createCmd("ana", biztime.NewDate(2024, 6, 1), "10"))

	other, err := client.NewClient(client.NewClientParams{
		ID: "1718000000000", Name: "Imported", CycleValue: decimal.NewFromInt(5),
		CycleDurationMonths: 1, StartDate: biztime.NewDate(2024, 6, 1),
	}, testNow)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceAll(context.Background(), []*client.Client{other}))
	assert.Equal(t, []string{"1718000000000"}, ids(s.Snapshot(context.Background())))
	assert.Len(t, repo.saved, 1)

	err = s.ReplaceAll(context.Background(), []*client.Client{other, other})
	assert.True(t, apperrors.IsConflictError(err))
}

func ids(clients []*client.Client) []string {
	out := make([]string, 0, len(clients))
	for _, c := range clients {
		out = append(out, c.ID())
	}
	return out
}

func boolPtr(b bool) *bool {
	return &b
}
