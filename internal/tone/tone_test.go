package tone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/n7mf/soundmodem/internal/tone"
)

func TestSpreadModeChannelCount(t *testing.T) {
	table := tone.New(tone.Params{
		SampleRate:      48000,
		SamplesPerFrame: 1024,
		FreqStartBin:    40,
		FreqDeltaBins:   1,
		BytesPerTx:      3,
		Mode:            tone.Spread,
	})
	assert.Equal(t, 24, table.NBits())
	assert.Len(t, table.Mark(0), 1024)
	assert.Len(t, table.Space(0), 1024)
}

func TestOneHotModeChannelCount(t *testing.T) {
	table := tone.New(tone.Params{
		SampleRate:      48000,
		SamplesPerFrame: 1024,
		FreqStartBin:    40,
		FreqDeltaBins:   1,
		BytesPerTx:      3,
		Mode:            tone.OneHot,
	})
	assert.Equal(t, 96, table.NBits())
	assert.Equal(t, 1, table.D0())
}

func TestOneHotBinLayout(t *testing.T) {
	table := tone.New(tone.Params{
		SampleRate:      48000,
		SamplesPerFrame: 1024,
		FreqStartBin:    40,
		FreqDeltaBins:   1,
		BytesPerTx:      1,
		Mode:            tone.OneHot,
	})
	assert.Equal(t, 40, table.OneHotBin(0, false, 0))
	assert.Equal(t, 55, table.OneHotBin(0, false, 15))
	assert.Equal(t, 56, table.OneHotBin(0, true, 0))
	assert.Equal(t, 71, table.OneHotBin(0, true, 15))
}

func TestEnvelopeScaleRampsUpAndDown(t *testing.T) {
	const total = 1000
	assert.Equal(t, float64(0), tone.EnvelopeScale(0, total))
	assert.InDelta(t, 1, tone.EnvelopeScale(total/2, total), 1e-9)
	assert.Less(t, tone.EnvelopeScale(total-1, total), 0.01)
}

func TestEnvelopeScaleFullAmplitudeInMiddle(t *testing.T) {
	assert.Equal(t, float64(1), tone.EnvelopeScale(500, 1000))
}
