package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvmanager/internal/domain/client"
	"tvmanager/internal/shared/biztime"
)

var importNow = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

func TestExport_Format(t *testing.T) {
	c, err := client.NewClient(client.NewClientParams{
		ID:                  "cli_1",
		Name:                `Zé "da TV", filho`,
		WhatsAppNumber:      "11988887777",
		PanelUsername:       "ze",
		CycleValue:          decimal.RequireFromString("35.9"),
		CycleDurationMonths: 2,
		StartDate:           biztime.NewDate(2024, 5, 1),
	}, importNow)
	require.NoError(t, err)
	c.SetActive(false)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []*client.Client{c}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeffID,Nome,Usuario,WhatsApp,Valor,Meses,Inicio,Vencimento,TotalPago,Ativo\n"))
	assert.Contains(t, out, `cli_1,"Zé ""da TV"", filho",ze,11988887777,35.9,2,2024-05-01,2024-07-01,35.9,NAO`)
}

func TestExportImport_RoundTrip(t *testing.T) {
	a, err := client.NewClient(client.NewClientParams{
		Name: "Ana", WhatsAppNumber: "1", PanelUsername: "ana",
		CycleValue: decimal.RequireFromString("30"), CycleDurationMonths: 1, StartDate: biztime.NewDate(2024, 1, 31),
	}, importNow)
	require.NoError(t, err)
	_, err = a.RecordRenewal(1, decimal.RequireFromString("30"), importNow)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []*client.Client{a}))

	result, err := Import(&buf, importNow)
	require.NoError(t, err)
	require.Len(t, result.Clients, 1)
	got := result.Clients[0]

	assert.Equal(t, a.ID(), got.ID())
	assert.Equal(t, a.Name(), got.Name())
	assert.Equal(t, a.StartDate(), got.StartDate())
	assert.Equal(t, a.ExpirationDate(), got.ExpirationDate())
	assert.True(t, a.CycleValue().Equal(got.CycleValue()))
	assert.True(t, a.TotalPaidValue().Equal(got.TotalPaidValue()))
	assert.False(t, got.IsManuallyDeactivated())
	require.Len(t, got.RenewalHistory(), 1)
	assert.Equal(t, importNow, got.RenewalHistory()[0].CreatedAt())
}

func TestImport_Defaults(t *testing.T) {
	input := "ID,Nome,Usuario,WhatsApp,Valor,Meses,Inicio,Vencimento,TotalPago,Ativo\n" +
		",,,,\"25,50\",,,,,\n"

	result, err := Import(strings.NewReader(input), importNow)

	require.NoError(t, err)
	require.Len(t, result.Clients, 1)
	c := result.Clients[0]
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "Sem Nome", c.Name())
	assert.Equal(t, 1, c.CycleDurationMonths())
	assert.Equal(t, biztime.NewDate(2024, 6, 1), c.StartDate())
	assert.Equal(t, biztime.NewDate(2024, 7, 1), c.ExpirationDate())
	assert.True(t, c.CycleValue().Equal(decimal.RequireFromString("25.5")))
	assert.True(t, c.TotalPaidValue().Equal(decimal.RequireFromString("25.5")), "total falls back to value")
	assert.True(t, c.IsManuallyDeactivated(), "only SIM marks a client active")
}

func TestImport_SkipsShortBlankAndBadRows(t *testing.T) {
	input := "ID,Nome,Usuario,WhatsApp,Valor,Meses,Inicio,Vencimento,TotalPago,Ativo\n" +
		"\n" +
		"short,row\n" +
		"x1,Bad,u,1,10,1,01/05/2024,2024-06-01,10,SIM\n" +
		"x2,Good,u,1,10,1,2024-05-01,2024-06-01,40,SIM\n"

	result, err := Import(strings.NewReader(input), importNow)

	require.NoError(t, err)
	require.Len(t, result.Clients, 1)
	assert.Equal(t, "x2", result.Clients[0].ID())
	assert.True(t, result.Clients[0].TotalPaidValue().Equal(decimal.NewFromInt(40)))
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 4, result.Skipped[0].Line)
}

func TestImport_EmptyFile(t *testing.T) {
	_, err := Import(strings.NewReader(""), importNow)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Import(strings.NewReader("\ufeffID,Nome\n"), importNow)
	assert.ErrorIs(t, err, ErrEmptyFile)
}
