package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	s, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, s, DefaultLength)

	s, err = Generate(5)
	require.NoError(t, err)
	assert.Len(t, s, 5)
}

func TestNewClientID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		cid, err := NewClientID()
		require.NoError(t, err)
		assert.True(t, IsPrefixed(cid, PrefixClient), cid)
		assert.False(t, seen[cid], "duplicate id %s", cid)
		seen[cid] = true
	}
}

func TestNewRenewalID_IsVersion7(t *testing.T) {
	rid, err := NewRenewalID()
	require.NoError(t, err)

	parsed, err := uuid.Parse(rid)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestIsPrefixed(t *testing.T) {
	assert.True(t, IsPrefixed("cli_abc123", "cli"))
	assert.False(t, IsPrefixed("cli_", "cli"))
	assert.False(t, IsPrefixed("abc123", "cli"))
	assert.False(t, IsPrefixed("cli_abc-123", "cli"))
}
