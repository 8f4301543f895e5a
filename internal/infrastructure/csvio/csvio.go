// Package csvio reads and writes the client spreadsheet backup.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tvmanager/internal/domain/client"
	"tvmanager/internal/shared/biztime"
	"tvmanager/internal/shared/id"
)

const (
	colID         = "ID"
	colName       = "Nome"
	colUser       = "Usuario"
	colWhatsApp   = "WhatsApp"
	colValue      = "Valor"
	colMonths     = "Meses"
	colStart      = "Inicio"
	colExpiration = "Vencimento"
	colTotalPaid  = "TotalPago"
	colActive     = "Ativo"

	activeYes = "SIM"
	activeNo  = "NAO"

	defaultName = "Sem Nome"
)

// Headers is the column order written by Export.
var Headers = []string{
	colID, colName, colUser, colWhatsApp, colValue,
	colMonths, colStart, colExpiration, colTotalPaid, colActive,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyFile is returned when the input has no data rows.
var ErrEmptyFile = errors.New("csv file is empty or has no data rows")

// Export writes clients as CSV, prefixed with a UTF-8 BOM so spreadsheet
// software detects the encoding.
func Export(w io.Writer, clients []*client.Client) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range clients {
		active := activeYes
		if c.IsManuallyDeactivated() {
			active = activeNo
		}
		err := cw.Write([]string{
			c.ID(),
			c.Name(),
			c.PanelUsername(),
			c.WhatsAppNumber(),
			c.CycleValue().String(),
			strconv.Itoa(c.CycleDurationMonths()),
			biztime.FormatDate(c.StartDate()),
			biztime.FormatDate(c.ExpirationDate()),
			c.TotalPaidValue().String(),
			active,
		})
		if err != nil {
			return fmt.Errorf("failed to write client %s: %w", c.ID(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RowError describes a row that could not be imported.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ImportResult holds the clients read from a file and the rows skipped.
type ImportResult struct {
	Clients []*client.Client
	Skipped []RowError
}

// Import reads clients from CSV. Columns are matched by header name; blank
// fields fall back to defaults and each client gets a single renewal worth
// its paid total, recorded at now.
func Import(r io.Reader, now time.Time) (*ImportResult, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	result := &ImportResult{}
	today := biztime.Today(now)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read csv: %w", err)
			}
			result.Skipped = append(result.Skipped, RowError{Line: parseErr.StartLine, Err: err})
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(record) < len(header) || isBlank(record) {
			continue
		}

		row := func(col string) string {
			if i, ok := index[col]; ok {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		c, err := clientFromRow(row, today, now)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}
		result.Clients = append(result.Clients, c)
	}

	if len(result.Clients) == 0 && len(result.Skipped) == 0 {
		return nil, ErrEmptyFile
	}
	return result, nil
}

func clientFromRow(row func(string) string, today, now time.Time) (*client.Client, error) {
	clientID := row(colID)
	if clientID == "" {
		generated, err := id.NewClientID()
		if err != nil {
			return nil, err
		}
		clientID = generated
	}

	name := row(colName)
	if name == "" {
		name = defaultName
	}

	value := parseAmount(row(colValue))
	totalPaid := parseAmount(row(colTotalPaid))
	if totalPaid.IsZero() {
		totalPaid = value
	}

	months, err := strconv.Atoi(row(colMonths))
	if err != nil || months <= 0 {
		months = 1
	}

	start := today
	if raw := row(colStart); raw != "" {
		if start, err = biztime.ParseDate(raw); err != nil {
			return nil, err
		}
	}

	var expiration time.Time
	if raw := row(colExpiration); raw != "" {
		if expiration, err = biztime.ParseDate(raw); err != nil {
			return nil, err
		}
	} else if expiration, err = biztime.AddCalendarMonths(start, months); err != nil {
		return nil, err
	}

	renewalID, err := id.NewRenewalID()
	if err != nil {
		return nil, err
	}
	initial, err := client.ReconstructRenewal(renewalID, start, expiration, months, totalPaid, now)
	if err != nil {
		return nil, err
	}

	active := strings.EqualFold(row(colActive), activeYes)
	return client.ReconstructClient(client.ReconstructParams{
		ID:                  clientID,
		Name:                name,
		WhatsAppNumber:      row(colWhatsApp),
		PanelUsername:       row(colUser),
		CycleValue:          value,
		CycleDurationMonths: months,
		StartDate:           start,
		ExpirationDate:      expiration,
		TotalPaidValue:      totalPaid,
		IsActiveFlag:        &active,
		RenewalHistory:      []client.Renewal{initial},
	})
}

// parseAmount accepts "35.90" and "35,90"; anything unparseable or negative
// counts as zero.
func parseAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
