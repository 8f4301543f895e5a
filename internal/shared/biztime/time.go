// Package biztime provides calendar arithmetic in the business timezone.
//
// Two kinds of values flow through the application:
// - calendar dates, stored as midnight UTC carrying the civil year/month/day
// - timestamps, stored as UTC instants
//
// A timestamp becomes a calendar date only through DateOf, which reads its
// civil date in the business timezone. Implicit Local timezone is prohibited.
package biztime

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "America/Sao_Paulo"

	// DateLayout is the storage and transport layout for calendar dates.
	DateLayout = "2006-01-02"

	// DisplayDateLayout is the pt-BR display layout.
	DisplayDateLayout = "02/01/2006"
)

var (
	ErrZeroDate      = errors.New("date is not set")
	ErrNegativeShift = errors.New("month shift cannot be negative")
)

var (
	bizLocation   *time.Location
	bizLocationMu sync.RWMutex
)

// Init initializes the business timezone. Should be called once at startup.
// If tz is empty, defaults to America/Sao_Paulo.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}

	bizLocationMu.Lock()
	bizLocation = loc
	bizLocationMu.Unlock()
	return nil
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location.
// If not explicitly initialized, automatically initializes with the default timezone.
func Location() *time.Location {
	bizLocationMu.RLock()
	loc := bizLocation
	bizLocationMu.RUnlock()
	if loc != nil {
		return loc
	}

	if err := Init(""); err != nil {
		panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
	}
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// NewDate builds a calendar date.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day, keeping the civil fields of t as they are.
func Truncate(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// DateOf returns the calendar date of a timestamp in the business timezone.
func DateOf(ts time.Time) time.Time {
	return Truncate(ts.In(Location()))
}

// Today returns the business calendar date of now.
func Today(now time.Time) time.Time {
	return DateOf(now)
}

// AddCalendarMonths advances a calendar date by n months. When the day of
// month does not exist in the target month it is clamped to the last day,
// so Jan 31 + 1 month is Feb 28 (or Feb 29 in leap years).
func AddCalendarMonths(date time.Time, n int) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, ErrZeroDate
	}
	if n < 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrNegativeShift, n)
	}

	d := Truncate(date)
	firstOfTarget := NewDate(d.Year(), d.Month(), 1).AddDate(0, n, 0)
	day := d.Day()
	if last := DaysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return NewDate(firstOfTarget.Year(), firstOfTarget.Month(), day), nil
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	return NewDate(year, month+1, 1).AddDate(0, 0, -1).Day()
}

// DayDifference returns a - b in whole calendar days, ignoring time of day.
// Positive when a is after b.
func DayDifference(a, b time.Time) int {
	return int(Truncate(a).Sub(Truncate(b)).Hours() / 24)
}

// DaysSince returns how many calendar days passed from date until today.
func DaysSince(date, now time.Time) int {
	return DayDifference(Today(now), date)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayout)
}

// CalculateExpiration returns startDate advanced by months, both as YYYY-MM-DD.
func CalculateExpiration(startDate string, months int) (string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return "", err
	}
	exp, err := AddCalendarMonths(start, months)
	if err != nil {
		return "", err
	}
	return FormatDate(exp), nil
}

// FormatDateBR formats a YYYY-MM-DD date or an RFC3339 timestamp as dd/MM/yyyy.
// Unparseable input is returned unchanged.
func FormatDateBR(raw string) string {
	if d, err := ParseDate(raw); err == nil {
		return d.Format(DisplayDateLayout)
	}
	if ts, err := ParseTimestamp(raw); err == nil {
		return DateOf(ts).Format(DisplayDateLayout)
	}
	return raw
}

// FormatTimestamp formats a UTC instant using RFC3339.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimestamp parses an RFC3339 timestamp, with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ToBizTimezone converts a UTC time to business timezone for display.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}
