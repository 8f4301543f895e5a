// Package message renders the outreach messages sent to clients.
package message

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	textmessage "golang.org/x/text/message"
	"golang.org/x/text/number"

	"tvmanager/internal/domain/client"
	vo "tvmanager/internal/domain/client/valueobjects"
	"tvmanager/internal/domain/setting"
	"tvmanager/internal/shared/biztime"
)

// ErrNoTemplateForStatus is returned when clients in a status are not contacted.
var ErrNoTemplateForStatus = errors.New("no message template for status")

const (
	TagName       = "{{nome}}"
	TagUsername   = "{{usuario}}"
	TagExpiration = "{{vencimento}}"
	TagValue      = "{{valor}}"
)

// Placeholder describes one tag accepted in templates.
type Placeholder struct {
	Tag         string
	Description string
}

// Placeholders lists the supported tags.
func Placeholders() []Placeholder {
	return []Placeholder{
		{Tag: TagName, Description: "client name"},
		{Tag: TagUsername, Description: "panel username"},
		{Tag: TagExpiration, Description: "expiration date (dd/mm/yyyy)"},
		{Tag: TagValue, Description: "cycle value (R$ 0,00)"},
	}
}

var printer = textmessage.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency formats an amount in Brazilian reais, e.g. "R$ 35,90".
func FormatCurrency(v decimal.Decimal) string {
	return "R$ " + printer.Sprint(number.Decimal(v.Round(2).InexactFloat64(), number.Scale(2)))
}

// Render substitutes every known tag in tmpl with the client's data.
// Unknown tags are kept as they are.
func Render(tmpl string, c *client.Client) string {
	r := strings.NewReplacer(
		TagName, c.Name(),
		TagUsername, c.PanelUsername(),
		TagExpiration, c.ExpirationDate().Format(biztime.DisplayDateLayout),
		TagValue, FormatCurrency(c.CycleValue()),
	)
	return r.Replace(tmpl)
}

// SelectTemplate picks the template matching a status. Deactivated clients
// get no template.
func SelectTemplate(settings *setting.AppSettings, status vo.ClientStatus) (string, error) {
	switch status {
	case vo.StatusActive:
		return settings.Upcoming(), nil
	case vo.StatusExpired, vo.StatusMessageSent:
		return settings.Expired(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNoTemplateForStatus, status)
	}
}

// Compose selects the template for the client's status at now and renders it.
func Compose(settings *setting.AppSettings, c *client.Client, now time.Time) (string, error) {
	tmpl, err := SelectTemplate(settings, c.Status(now))
	if err != nil {
		return "", err
	}
	return Render(tmpl, c), nil
}
