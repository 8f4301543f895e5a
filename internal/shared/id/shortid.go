package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

const (
	PrefixClient = "cli"
)

// Generate creates a random short ID with the specified length using Base62 encoding.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	shortID, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + shortID, nil
}

// NewClientID generates a client identifier such as "cli_xK9mP2vL3nQa".
func NewClientID() (string, error) {
	return GenerateWithPrefix(PrefixClient, DefaultLength)
}

// NewRenewalID generates a time-ordered renewal identifier (UUIDv7), so
// sorting renewal IDs follows the order they were recorded in.
func NewRenewalID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate renewal id: %w", err)
	}
	return u.String(), nil
}

// IsPrefixed reports whether s looks like "prefix_shortid" for the given prefix.
func IsPrefixed(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"_")
	if !ok || rest == "" {
		return false
	}
	return strings.Trim(rest, alphabet) == ""
}
