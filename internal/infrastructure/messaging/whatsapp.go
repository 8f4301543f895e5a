// Package messaging builds click-to-chat links for outbound reminders.
package messaging

import (
	"errors"
	"net/url"
	"strings"

	"tvmanager/internal/shared/utils"
)

const (
	whatsAppBaseURL    = "https://wa.me/"
	DefaultCountryCode = "55"
)

// ErrNoPhoneDigits is returned when a phone number contains no digits.
var ErrNoPhoneDigits = errors.New("phone number has no digits")

// LinkBuilder builds WhatsApp links for a fixed country code.
type LinkBuilder struct {
	countryCode string
}

// NewLinkBuilder returns a builder for countryCode, falling back to Brazil
// when it is blank.
func NewLinkBuilder(countryCode string) *LinkBuilder {
	cc := utils.DigitsOnly(countryCode)
	if cc == "" {
		cc = DefaultCountryCode
	}
	return &LinkBuilder{countryCode: cc}
}

// Link returns https://wa.me/<country><digits>?text=<escaped text>.
// Non-digit characters in phone are dropped.
func (b *LinkBuilder) Link(phone, text string) (string, error) {
	digits := utils.DigitsOnly(phone)
	if digits == "" {
		return "", ErrNoPhoneDigits
	}

	var sb strings.Builder
	sb.WriteString(whatsAppBaseURL)
	sb.WriteString(b.countryCode)
	sb.WriteString(digits)
	if text != "" {
		sb.WriteString("?text=")
		sb.WriteString(url.QueryEscape(text))
	}
	return sb.String(), nil
}

// WhatsAppLink builds a link with the default country code.
func WhatsAppLink(phone, text string) (string, error) {
	return NewLinkBuilder(DefaultCountryCode).Link(phone, text)
}
