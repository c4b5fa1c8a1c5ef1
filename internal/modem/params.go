// Package modem implements the MFSK transmit/receive pipeline: framing,
// bit-to-tone mapping, the spectral receiver state machine, and the
// controller that ties them to the Reed-Solomon codec.
package modem

import (
	"math"

	"github.com/n7mf/soundmodem/internal/tone"
)

// TxMode selects the framing layout used for a transmission.
type TxMode int

const (
	// FixedLength always sends a constant-size data block; the
	// payload is zero-padded, and the receiver doesn't need a
	// length field.
	FixedLength TxMode = iota
	// VariableLength prefixes the payload with a Reed-Solomon
	// protected length byte.
	VariableLength
)

const (
	// MaxPayloadLength is the largest payload this protocol carries
	// in one transmission; longer inputs are truncated.
	MaxPayloadLength = 140
	// FixedDataLength is the data-block size used by FixedLength mode.
	FixedDataLength = 82
	// MarkerFrames is the number of audio frames held for the start
	// (and, in VariableLength mode, end) marker.
	MarkerFrames = 16
	// MarkerBits is the number of bit channels the marker pattern uses.
	MarkerBits = 16
	// stepsPerFrame is the sub-frame granularity the receiver's
	// offset search scans at.
	stepsPerFrame = 16
)

// Parameters holds one modem configuration. Changes are staged and
// applied only at the next re-initialization (see Controller.Reinit).
type Parameters struct {
	SampleRateIn    float64
	SampleRateOut   float64
	SamplesPerFrame int

	FreqStartBin      int
	FreqDeltaBins     int
	FramesPerTx       int
	BytesPerTx        int
	EccBytesPerTx     int // parity length used only in FixedLength mode
	PostMarkerFrames  int // retained for parity with the reference design; 0 by default
	Volume            int // 0..100
	TxMode            TxMode
	PermutePhases     bool
	PermutePhaseSeed  int64
}

// DefaultParameters returns sane values matching the "Fast" preset.
func DefaultParameters() Parameters {
	return PresetParameters(PresetFast)
}

// HzPerFrame returns the FFT bin width for the capture side.
func (p Parameters) HzPerFrame() float64 {
	return p.SampleRateIn / float64(p.SamplesPerFrame)
}

// ToneMode derives the bit-to-tone mapping variant from FreqDeltaBins:
// spread mode needs distinct frequencies per bit, so it only applies
// when channels are spaced more than one bin apart; freq_delta_bins=1
// packs bits into 16-bin one-hot groups instead.
func (p Parameters) ToneMode() tone.Mode {
	if p.FreqDeltaBins <= 1 {
		return tone.OneHot
	}
	return tone.Spread
}

// SamplesPerFrameOut returns the playback-side frame length, resampled
// from SamplesPerFrame when SampleRateOut differs from SampleRateIn.
func (p Parameters) SamplesPerFrameOut() int {
	ratio := p.SampleRateOut / p.SampleRateIn
	return int(math.Round(ratio * float64(p.SamplesPerFrame)))
}

// EccLenForLength returns the variable-mode parity length for a
// payload of l bytes: max(4, 2*floor(l/5)).
func EccLenForLength(l int) int {
	e := 2 * (l / 5)
	if e < 4 {
		return 4
	}
	return e
}

// ToneParams builds the tone.Params a Table should be constructed with
// for this modem's data channel (one tone-group's worth of channels).
func (p Parameters) ToneParams() tone.Params {
	return tone.Params{
		SampleRate:      p.SampleRateOut,
		SamplesPerFrame: p.SamplesPerFrameOut(),
		FreqStartBin:    p.FreqStartBin,
		FreqDeltaBins:   p.FreqDeltaBins,
		BytesPerTx:      p.BytesPerTx,
		Mode:            p.ToneMode(),
		PermutePhases:   p.PermutePhases,
		PermuteSeed:     p.PermutePhaseSeed,
	}
}

// MarkerToneParams builds the tone.Params for the 16-channel marker
// pattern, which always uses the spread-mode-style mark/space tones
// regardless of the data channel's mapping mode.
func (p Parameters) MarkerToneParams() tone.Params {
	return tone.Params{
		SampleRate:      p.SampleRateOut,
		SamplesPerFrame: p.SamplesPerFrameOut(),
		FreqStartBin:    p.FreqStartBin,
		FreqDeltaBins:   p.FreqDeltaBins,
		BytesPerTx:      MarkerBits / 8,
		Mode:            tone.Spread,
	}
}

// MarkerToneParamsCapture is the capture-rate equivalent of
// MarkerToneParams, used by the receiver to locate marker bins.
func (p Parameters) MarkerToneParamsCapture() tone.Params {
	return tone.Params{
		SampleRate:      p.SampleRateIn,
		SamplesPerFrame: p.SamplesPerFrame,
		FreqStartBin:    p.FreqStartBin,
		FreqDeltaBins:   p.FreqDeltaBins,
		BytesPerTx:      MarkerBits / 8,
		Mode:            tone.Spread,
	}
}
