// Package tone builds the precomputed per-channel sine waveforms and
// amplitude envelope used by the transmit pipeline's bit-to-tone
// mapping, and the framing-parameter derivations shared by the
// transmitter and receiver.
package tone

import (
	"math"
	"math/rand"
)

// Mode selects how data bits are mapped onto simultaneous tones.
type Mode int

const (
	// Spread assigns one mark/space frequency pair to every data bit.
	Spread Mode = iota
	// OneHot packs each byte into two 4-bit nibbles, each selecting
	// one of 16 candidate bins.
	OneHot
)

// Params configures a Table.
type Params struct {
	SampleRate      float64
	SamplesPerFrame int
	FreqStartBin    int
	FreqDeltaBins   int
	BytesPerTx      int
	Mode            Mode
	// PermutePhases enables shuffling the per-channel phase offsets to
	// reduce crest factor. Off by default for reproducible output;
	// when enabled, PermuteSeed makes the permutation deterministic.
	PermutePhases bool
	PermuteSeed   int64
}

// Table holds the precomputed waveforms for one set of modem parameters.
type Table struct {
	params     Params
	nBits      int
	d0         int
	hzPerFrame float64

	// Spread mode.
	marks  [][]float64
	spaces [][]float64

	// OneHot mode: one waveform per bin slot.
	tones [][]float64
}

// NBits returns the number of bit (spread mode) or bin (one-hot mode)
// channels this table was built for.
func (t *Table) NBits() int { return t.nBits }

// D0 returns the space/nibble-unit bin shift for this table.
func (t *Table) D0() int { return t.d0 }

// HzPerFrame returns sample_rate/samples_per_frame, the FFT bin width.
func (t *Table) HzPerFrame() float64 { return t.hzPerFrame }

// D0For returns the space/nibble-unit bin shift for a given channel
// spacing: half the spacing, minimum 1.
func D0For(freqDeltaBins int) int {
	d := freqDeltaBins / 2
	if d < 1 {
		d = 1
	}
	return d
}

// MarkBin returns the absolute FFT bin a spread-mode mark channel k
// maps to, for the given frequency plan.
func MarkBin(freqStartBin, freqDeltaBins, k int) int {
	return freqStartBin + k*freqDeltaBins
}

// SpaceBin returns the absolute FFT bin a spread-mode space channel k
// maps to.
func SpaceBin(freqStartBin, freqDeltaBins, k int) int {
	return MarkBin(freqStartBin, freqDeltaBins, k) + D0For(freqDeltaBins)
}

// OneHotBinIndex returns the absolute FFT bin for one-hot byte group
// byteIndex, nibble selector (false=low, true=high), and 4-bit value.
func OneHotBinIndex(freqStartBin, byteIndex int, high bool, value int) int {
	base := freqStartBin + 32*byteIndex + value
	if high {
		base += 16
	}
	return base
}

// New builds a Table for the given parameters.
func New(p Params) *Table {
	hz := p.SampleRate / float64(p.SamplesPerFrame)

	t := &Table{params: p, hzPerFrame: hz}

	switch p.Mode {
	case OneHot:
		t.d0 = 1
		t.nBits = p.BytesPerTx * 32
		phases := phaseOffsets(t.nBits, p.PermutePhases, p.PermuteSeed)
		t.tones = make([][]float64, t.nBits)
		for k := 0; k < t.nBits; k++ {
			bin := p.FreqStartBin + k
			t.tones[k] = sineWave(float64(bin)*hz, phases[k], p.SampleRate, p.SamplesPerFrame)
		}
	default: // Spread
		t.d0 = D0For(p.FreqDeltaBins)
		t.nBits = p.BytesPerTx * 8
		phases := phaseOffsets(t.nBits, p.PermutePhases, p.PermuteSeed)
		t.marks = make([][]float64, t.nBits)
		t.spaces = make([][]float64, t.nBits)
		for k := 0; k < t.nBits; k++ {
			markBin := MarkBin(p.FreqStartBin, p.FreqDeltaBins, k)
			spaceBin := SpaceBin(p.FreqStartBin, p.FreqDeltaBins, k)
			t.marks[k] = sineWave(float64(markBin)*hz, phases[k], p.SampleRate, p.SamplesPerFrame)
			t.spaces[k] = sineWave(float64(spaceBin)*hz, phases[k], p.SampleRate, p.SamplesPerFrame)
		}
	}
	return t
}

// Mark returns the precomputed mark waveform for bit channel k (spread mode).
func (t *Table) Mark(k int) []float64 { return t.marks[k] }

// Space returns the precomputed space waveform for bit channel k (spread mode).
func (t *Table) Space(k int) []float64 { return t.spaces[k] }

// Tone returns the precomputed waveform for bin slot k (one-hot mode).
func (t *Table) Tone(k int) []float64 { return t.tones[k] }

// BinOf returns the absolute FFT bin a spread-mode mark channel k maps to.
func (t *Table) BinOf(k int) int {
	return MarkBin(t.params.FreqStartBin, t.params.FreqDeltaBins, k)
}

// OneHotBin returns the absolute FFT bin for one-hot byte group j, nibble
// selector (false=low, true=high), and 4-bit value.
func (t *Table) OneHotBin(byteIndex int, high bool, value int) int {
	return OneHotBinIndex(t.params.FreqStartBin, byteIndex, high, value)
}

func sineWave(freqHz, phase, sampleRate float64, n int) []float64 {
	w := make([]float64, n)
	omega := 2 * math.Pi * freqHz / sampleRate
	for i := range w {
		w[i] = math.Sin(omega*float64(i) + phase)
	}
	return w
}

func phaseOffsets(nBits int, permute bool, seed int64) []float64 {
	offsets := make([]float64, nBits)
	for k := range offsets {
		offsets[k] = math.Pi * float64(k) / float64(nBits)
	}
	if permute {
		r := rand.New(rand.NewSource(seed))
		r.Shuffle(len(offsets), func(i, j int) {
			offsets[i], offsets[j] = offsets[j], offsets[i]
		})
	}
	return offsets
}

// EnvelopeScale returns the linear fade-in/fade-out amplitude scalar
// for the sample at globalSampleIndex within a tone-group that spans
// totalSamplesInGroup samples: a ramp over the first and last 15% of
// the group, full amplitude in between. This is what keeps tone-group
// boundaries from splattering into adjacent frequency bins.
func EnvelopeScale(globalSampleIndex, totalSamplesInGroup int) float64 {
	const frac = 0.15
	total := float64(totalSamplesInGroup)
	k := float64(globalSampleIndex)
	rampLen := frac * total
	if rampLen == 0 {
		return 1
	}
	nEnd := total - rampLen
	switch {
	case k < rampLen:
		return k / rampLen
	case k > nEnd:
		return (total - k) / rampLen
	default:
		return 1
	}
}
