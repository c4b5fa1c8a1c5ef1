package modem

// Preset identifies one of the built-in frequency-plan/timing presets
// exposed on the CLI (-t flag).
type Preset int

const (
	PresetNormal Preset = iota
	PresetFast
	PresetFastest
	PresetUltrasonic
)

// presetRow mirrors one row of the CLI preset table.
type presetRow struct {
	freqDelta     int
	freqStart     int
	framesPerTx   int
	bytesPerTx    int
	volume        int
}

var presetRows = map[Preset]presetRow{
	PresetNormal:     {freqDelta: 1, freqStart: 40, framesPerTx: 9, bytesPerTx: 3, volume: 50},
	PresetFast:       {freqDelta: 1, freqStart: 40, framesPerTx: 6, bytesPerTx: 3, volume: 50},
	PresetFastest:    {freqDelta: 1, freqStart: 40, framesPerTx: 3, bytesPerTx: 3, volume: 50},
	PresetUltrasonic: {freqDelta: 1, freqStart: 320, framesPerTx: 9, bytesPerTx: 3, volume: 50},
}

// PresetParameters builds a Parameters value for the named preset, with
// the audio plumbing defaults (48kHz, 1024-sample frames, 32 fixed-mode
// parity bytes) that every preset shares.
func PresetParameters(p Preset) Parameters {
	row := presetRows[p]
	return Parameters{
		SampleRateIn:    48000,
		SampleRateOut:   48000,
		SamplesPerFrame: 1024,
		FreqStartBin:    row.freqStart,
		FreqDeltaBins:   row.freqDelta,
		FramesPerTx:     row.framesPerTx,
		BytesPerTx:      row.bytesPerTx,
		EccBytesPerTx:   32,
		Volume:          row.volume,
		TxMode:          FixedLength,
	}
}

// String renders the preset's canonical CLI name.
func (p Preset) String() string {
	switch p {
	case PresetNormal:
		return "normal"
	case PresetFast:
		return "fast"
	case PresetFastest:
		return "fastest"
	case PresetUltrasonic:
		return "ultrasonic"
	default:
		return "unknown"
	}
}

// ParsePreset maps a CLI -t index to a Preset, defaulting to PresetFast
// (matching the reference host's default) for out-of-range values.
func ParsePreset(n int) Preset {
	switch n {
	case 0:
		return PresetNormal
	case 2:
		return PresetFastest
	case 3:
		return PresetUltrasonic
	default:
		return PresetFast
	}
}
