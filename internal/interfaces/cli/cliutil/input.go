package cliutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"tvmanager/internal/shared/biztime"
	apperrors "tvmanager/internal/shared/errors"
)

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted by user")

// ParseMoney parses an amount written with either a dot or a comma as the
// decimal separator.
func ParseMoney(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError("invalid amount", raw)
	}
	return v, nil
}

// ParseDateFlag parses a YYYY-MM-DD flag value. An empty value means the
// business date of now.
func ParseDateFlag(raw string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return biztime.Today(now), nil
	}
	d, err := biztime.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

// Confirm asks a yes/no question on out and reads the answer from in.
// Only "s", "sim", "y" and "yes" count as agreement.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [s/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmDestructive guards operations that discard data. It passes when
// assumeYes is set, asks on an interactive terminal and refuses otherwise.
func ConfirmDestructive(in io.Reader, out io.Writer, assumeYes bool, question string) error {
	if assumeYes {
		return nil
	}
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return apperrors.NewValidationError("confirmation required", "pass --yes to run non-interactively")
	}
	ok, err := Confirm(in, out, question)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}
