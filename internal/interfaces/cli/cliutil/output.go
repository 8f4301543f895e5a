package cliutil

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	vo "tvmanager/internal/domain/client/valueobjects"
	"tvmanager/internal/domain/message"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))

	statusStyles = map[vo.ClientStatus]lipgloss.Style{
		vo.StatusActive:      lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		vo.StatusMessageSent: lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
		vo.StatusExpired:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true),
		vo.StatusInactive:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")),
	}
)

// Table renders rows with a header as a bordered terminal table.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

// PrintTable writes a table, or a muted notice when there are no rows.
func PrintTable(w io.Writer, headers []string, rows [][]string, empty string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(empty))
		return
	}
	fmt.Fprintln(w, Table(headers, rows))
}

// Title renders a section heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Status renders a status with its colour.
func Status(s vo.ClientStatus) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(s.String())
	}
	return s.String()
}

// Money formats an amount the way clients see it.
func Money(v decimal.Decimal) string {
	return message.FormatCurrency(v)
}

// Days describes a signed day distance to expiration.
func Days(n int) string {
	switch {
	case n == 0:
		return "hoje"
	case n < 0:
		return strconv.Itoa(-n) + "d atrasado"
	default:
		return "em " + strconv.Itoa(n) + "d"
	}
}

// KeyValues renders aligned "key: value" lines.
func KeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, len([]rune(p[0])))
	}
	var sb strings.Builder
	for _, p := range pairs {
		key := p[0] + ":" + strings.Repeat(" ", width-len([]rune(p[0]))+1)
		sb.WriteString(mutedStyle.Render(key))
		sb.WriteString(p[1])
		sb.WriteByte('\n')
	}
	return sb.String()
}
