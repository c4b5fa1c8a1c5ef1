package status_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n7mf/soundmodem/internal/status"
)

func TestLogFileNameFormatsStrftimePattern(t *testing.T) {
	at := time.Date(2026, time.July, 31, 14, 5, 9, 0, time.UTC)
	name, err := status.LogFileName("%Y%m%d-%H%M%S.log", at)
	require.NoError(t, err)
	assert.Equal(t, "20260731-140509.log", name)
}

func TestLogFileNameRejectsMalformedPattern(t *testing.T) {
	_, err := status.LogFileName("%", time.Now())
	assert.Error(t, err)
}
