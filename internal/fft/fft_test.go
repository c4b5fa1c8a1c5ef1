package fft_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n7mf/soundmodem/internal/fft"
)

func TestRejectsNonPowerOfTwo(t *testing.T) {
	_, err := fft.NewPlan(100)
	assert.ErrorIs(t, err, fft.ErrSizeNotPowerOfTwo)
}

func TestDCBinCarriesConstantSignal(t *testing.T) {
	plan, err := fft.NewPlan(64)
	require.NoError(t, err)
	samples := make([]float64, 64)
	for i := range samples {
		samples[i] = 1
	}
	spectrum, err := plan.Forward(samples)
	require.NoError(t, err)
	assert.InDelta(t, 64, real(spectrum[0]), 1e-9)
	for i := 1; i < len(spectrum); i++ {
		assert.InDelta(t, 0, real(spectrum[i]), 1e-9)
		assert.InDelta(t, 0, imag(spectrum[i]), 1e-9)
	}
}

func TestPureToneShowsUpAtExpectedBin(t *testing.T) {
	const n = 256
	plan, err := fft.NewPlan(n)
	require.NoError(t, err)

	const bin = 10
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * float64(bin) * float64(i) / float64(n))
	}

	power, err := plan.PowerSpectrumFolded(samples)
	require.NoError(t, err)

	peak := 0
	for i, p := range power {
		if p > power[peak] {
			peak = i
		}
	}
	assert.Equal(t, bin, peak)
}

func TestSilenceHasNearZeroPower(t *testing.T) {
	plan, err := fft.NewPlan(128)
	require.NoError(t, err)
	power, err := plan.PowerSpectrumFolded(make([]float64, 128))
	require.NoError(t, err)
	assert.Less(t, fft.TotalPower(power), 1e-10)
}

func TestCachedPlanReusesSameInstance(t *testing.T) {
	p1, err := fft.CachedPlan(1024)
	require.NoError(t, err)
	p2, err := fft.CachedPlan(1024)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}
