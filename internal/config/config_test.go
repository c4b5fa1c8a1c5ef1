package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n7mf/soundmodem/internal/config"
	"github.com/n7mf/soundmodem/internal/modem"
	"github.com/n7mf/soundmodem/internal/ptt"
)

// TestDefaultConfigMatchesPresetTable covers §8: loading the embedded
// default config and selecting each of the four presets reproduces the
// exact parameter table in §6.
func TestDefaultConfigMatchesPresetTable(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	want := map[string]modem.Parameters{
		"normal":     modem.PresetParameters(modem.PresetNormal),
		"fast":       modem.PresetParameters(modem.PresetFast),
		"fastest":    modem.PresetParameters(modem.PresetFastest),
		"ultrasonic": modem.PresetParameters(modem.PresetUltrasonic),
	}

	for name, wantParams := range want {
		t.Run(name, func(t *testing.T) {
			got := cfg.Parameters(name)
			assert.Equal(t, wantParams.FreqStartBin, got.FreqStartBin)
			assert.Equal(t, wantParams.FreqDeltaBins, got.FreqDeltaBins)
			assert.Equal(t, wantParams.FramesPerTx, got.FramesPerTx)
			assert.Equal(t, wantParams.BytesPerTx, got.BytesPerTx)
			assert.Equal(t, wantParams.Volume, got.Volume)
			assert.Equal(t, wantParams.EccBytesPerTx, got.EccBytesPerTx)
			assert.Equal(t, wantParams.SampleRateIn, got.SampleRateIn)
			assert.Equal(t, wantParams.SamplesPerFrame, got.SamplesPerFrame)
			assert.Equal(t, modem.FixedLength, got.TxMode)
		})
	}
}

// TestUnknownPresetFallsBackToFast covers the documented fallback for a
// preset name absent from the table.
func TestUnknownPresetFallsBackToFast(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	got := cfg.Parameters("no-such-preset")
	want := cfg.Parameters("fast")
	assert.Equal(t, want, got)
}

// TestLoadRoundTripsCustomFile covers Load against a file on disk,
// confirming a written-out custom config round-trips through YAML.
func TestLoadRoundTripsCustomFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	custom := []byte(`
sample_rate_in: 44100
sample_rate_out: 44100
samples_per_frame: 512
ecc_bytes_per_tx: 16
tx_mode: variable
default_preset: mine
presets:
  - name: mine
    freq_delta_bins: 2
    freq_start_bin: 100
    frames_per_tx: 4
    bytes_per_tx: 2
    volume: 75
ptt:
  policy: gpio
  gpio_chip: gpiochip1
  gpio_line: 5
`)
	require.NoError(t, os.WriteFile(path, custom, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	params := cfg.Parameters("mine")
	assert.Equal(t, 100, params.FreqStartBin)
	assert.Equal(t, 2, params.FreqDeltaBins)
	assert.Equal(t, 4, params.FramesPerTx)
	assert.Equal(t, 2, params.BytesPerTx)
	assert.Equal(t, 75, params.Volume)
	assert.Equal(t, modem.VariableLength, params.TxMode)

	policy := cfg.PTTPolicy()
	assert.Equal(t, ptt.GPIO, policy.Kind)
	assert.Equal(t, "gpiochip1", policy.GPIOChip)
	assert.Equal(t, 5, policy.GPIOLine)
}

// TestLoadMissingFileFails covers §7's ConfigLoadFailed path: a missing
// file is a hard error, not a silent fallback.
func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
