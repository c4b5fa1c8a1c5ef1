package modem

import (
	"math"

	"github.com/n7mf/soundmodem/internal/tone"
)

// TransmitResult is everything Transmit produced: the PCM burst to
// push to the playback sink, the encoded buffer it carries (useful for
// tests and loopback verification), and whether the payload was
// truncated to MaxPayloadLength. In FixedLength mode, payload bytes
// past FixedDataLength are also dropped; Truncated is not set for that.
type TransmitResult struct {
	PCM       []int16
	Encoded   []byte
	Truncated bool
}

// Transmit builds the full PCM burst for payload under parameters p:
// markers, optional post-marker, the data tone-groups, and (in
// VariableLength mode) a trailing end marker.
func Transmit(payload []byte, p Parameters) (TransmitResult, error) {
	encoded, _, err := buildEncodedBuffer(payload, p)
	truncated := err == ErrPayloadTruncated
	if err != nil && !truncated {
		return TransmitResult{}, err
	}

	dataTable := tone.New(p.ToneParams())
	markerTable := tone.New(p.MarkerToneParams())

	nOut := p.SamplesPerFrameOut()
	nDataGroups := ceilDiv(len(encoded), p.BytesPerTx) + 2
	postMarkerEnd := MarkerFrames + p.PostMarkerFrames
	dataEnd := postMarkerEnd + nDataGroups*p.FramesPerTx
	totalFrames := dataEnd
	if p.TxMode == VariableLength {
		totalFrames += MarkerFrames
	}

	pcm := make([]int16, 0, totalFrames*nOut)
	for frameIdx := 0; frameIdx < totalFrames; frameIdx++ {
		var block []int16
		switch {
		case frameIdx < MarkerFrames:
			block = markerFrame(markerTable, nOut, p.Volume, false, frameIdx, MarkerFrames)
		case frameIdx < postMarkerEnd:
			block = markerFrame(markerTable, nOut, p.Volume, true, frameIdx-MarkerFrames, p.PostMarkerFrames)
		case frameIdx < dataEnd:
			local := frameIdx - postMarkerEnd
			itx := local / p.FramesPerTx
			cycle := local % p.FramesPerTx
			dataOffset := itx * p.BytesPerTx
			block = dataFrame(encoded, dataOffset, cycle, dataTable, p, nOut)
		default:
			block = markerFrame(markerTable, nOut, p.Volume, true, frameIdx-dataEnd, MarkerFrames)
		}
		pcm = append(pcm, block...)
	}

	return TransmitResult{PCM: pcm, Encoded: encoded, Truncated: truncated}, nil
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// markerFrame synthesizes one frame of the 16-channel marker pattern:
// even channels mark / odd channels space, or the reverse when
// inverted (post-marker, end-marker). cycle/groupFrames fade the whole
// marker/post-marker/end-marker group in and out over its first and
// last 15%, the same envelope dataFrame applies to data tone-groups.
func markerFrame(table *tone.Table, n, volume int, inverted bool, cycle, groupFrames int) []int16 {
	sum := make([]float64, n)
	totalSamplesInGroup := groupFrames * n
	for k := 0; k < MarkerBits; k++ {
		isMark := k%2 == 0
		if inverted {
			isMark = !isMark
		}
		var wf []float64
		if isMark {
			wf = table.Mark(k)
		} else {
			wf = table.Space(k)
		}
		addEnveloped(sum, wf, cycle, n, totalSamplesInGroup)
	}
	return toPCM(sum, MarkerBits, volume)
}

// dataFrame synthesizes one frame of a held data tone-group, applying
// the fade-in/fade-out envelope and the current bit-to-tone mapping.
func dataFrame(encoded []byte, dataOffset, cycle int, table *tone.Table, p Parameters, n int) []int16 {
	sum := make([]float64, n)
	totalSamplesInGroup := p.FramesPerTx * n

	byteAt := func(idx int) byte {
		if dataOffset+idx < 0 || dataOffset+idx >= len(encoded) {
			return 0
		}
		return encoded[dataOffset+idx]
	}

	var activeTones int
	switch p.ToneMode() {
	case tone.Spread:
		nBits := p.BytesPerTx * 8
		activeTones = nBits
		for bitIdx := 0; bitIdx < nBits; bitIdx++ {
			byteVal := byteAt(bitIdx / 8)
			bit := (byteVal >> uint(bitIdx%8)) & 1
			var wf []float64
			if bit == 1 {
				wf = table.Mark(bitIdx)
			} else {
				wf = table.Space(bitIdx)
			}
			addEnveloped(sum, wf, cycle, n, totalSamplesInGroup)
		}
	default: // OneHot
		activeTones = p.BytesPerTx * 2
		for j := 0; j < p.BytesPerTx; j++ {
			byteVal := byteAt(j)
			low := int(byteVal & 0xF)
			high := int(byteVal >> 4)
			addEnveloped(sum, table.Tone(j*32+low), cycle, n, totalSamplesInGroup)
			addEnveloped(sum, table.Tone(j*32+16+high), cycle, n, totalSamplesInGroup)
		}
	}
	return toPCM(sum, activeTones, p.Volume)
}

func addEnveloped(dst, wf []float64, cycle, frameLen, totalSamplesInGroup int) {
	base := cycle * frameLen
	for i := 0; i < frameLen; i++ {
		scale := tone.EnvelopeScale(base+i, totalSamplesInGroup)
		dst[i] += wf[i] * scale
	}
}

// toPCM normalizes by the number of simultaneously summed tones,
// applies the volume scalar, and quantizes to 16-bit signed PCM.
func toPCM(sum []float64, nTones, volume int) []int16 {
	norm := 1.0
	if nTones > 0 {
		norm = 1.0 / float64(nTones)
	}
	vol := float64(volume) / 100.0
	out := make([]int16, len(sum))
	for i, v := range sum {
		s := v * norm * vol * 32000
		if s > 32767 {
			s = 32767
		} else if s < -32768 {
			s = -32768
		}
		out[i] = int16(math.Round(s))
	}
	return out
}
