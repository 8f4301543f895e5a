package utils

import "strings"

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskPhone masks a phone number for safe logging, keeping the last four digits.
// Example: "(11) 98877-6655" -> "***6655"
func MaskPhone(phone string) string {
	digits := DigitsOnly(phone)
	if len(digits) <= 4 {
		return "***"
	}
	return "***" + digits[len(digits)-4:]
}
