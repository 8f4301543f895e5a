// Package spreadsheet renders the client collection as an XLSX workbook.
package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"tvmanager/internal/domain/client"
	"tvmanager/internal/shared/biztime"
)

const (
	ClientsSheet      = "Clientes"
	TransactionsSheet = "Transacoes"

	defaultSheet = "Sheet1"
)

var clientHeader = []string{
	"ID", "Nome", "Usuario", "WhatsApp", "Valor", "Meses",
	"Inicio", "Vencimento", "TotalPago", "Status",
}

var transactionHeader = []string{
	"Data", "Cliente", "ClienteID", "Valor", "Meses", "Inicio", "Fim",
}

// Export writes a workbook with one sheet for clients and one for the
// payment history. Status is derived as of now.
func Export(w io.Writer, clients []*client.Client, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	clientsIndex, err := f.NewSheet(ClientsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", ClientsSheet, err)
	}
	if _, err := f.NewSheet(TransactionsSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", TransactionsSheet, err)
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(clientsIndex)

	clientRows := make([][]any, 0, len(clients))
	for _, c := range clients {
		clientRows = append(clientRows, []any{
			c.ID(),
			c.Name(),
			c.PanelUsername(),
			c.WhatsAppNumber(),
			c.CycleValue().InexactFloat64(),
			c.CycleDurationMonths(),
			biztime.FormatDate(c.StartDate()),
			biztime.FormatDate(c.ExpirationDate()),
			c.TotalPaidValue().InexactFloat64(),
			c.Status(now).String(),
		})
	}
	if err := writeSheet(f, ClientsSheet, clientHeader, clientRows); err != nil {
		return err
	}

	txs := client.Transactions(clients)
	txRows := make([][]any, 0, len(txs))
	for _, tx := range txs {
		txRows = append(txRows, []any{
			biztime.FormatDate(biztime.DateOf(tx.Renewal.CreatedAt())),
			tx.ClientName,
			tx.ClientID,
			tx.Renewal.Value().InexactFloat64(),
			tx.Renewal.DurationMonths(),
			biztime.FormatDate(tx.Renewal.StartDate()),
			biztime.FormatDate(tx.Renewal.EndDate()),
		})
	}
	if err := writeSheet(f, TransactionsSheet, transactionHeader, txRows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
	}
	for r, values := range rows {
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, r+1, err)
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetColWidth(sheet, "A", lastCol, 16)
	_ = f.SetColWidth(sheet, "B", "B", 28)

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	return f.SetCellStyle(sheet, "A1", lastCol+"1", style)
}
