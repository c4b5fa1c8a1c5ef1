package ptt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n7mf/soundmodem/internal/ptt"
)

// TestNewNonePolicyIsNoop covers the default policy: no hardware is
// touched and Key/Unkey/Close always succeed.
func TestNewNonePolicyIsNoop(t *testing.T) {
	k, err := ptt.New(ptt.Policy{Kind: ptt.None})
	require.NoError(t, err)

	assert.NoError(t, k.Key(t.Context()))
	assert.NoError(t, k.Unkey(t.Context()))
	assert.NoError(t, k.Close())
}

// TestNewUnknownKindDefaultsToNoop mirrors modem.ParsePreset's
// out-of-range fallback: an unrecognized Kind value still yields a
// working (no-op) Keyer rather than an error.
func TestNewUnknownKindDefaultsToNoop(t *testing.T) {
	k, err := ptt.New(ptt.Policy{Kind: ptt.Kind(99)})
	require.NoError(t, err)
	assert.NoError(t, k.Key(t.Context()))
	assert.NoError(t, k.Unkey(t.Context()))
}
