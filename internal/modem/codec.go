package modem

import (
	"errors"

	"github.com/n7mf/soundmodem/internal/rs"
)

// lengthCodecEccBytes is the parity length of the 1-byte length
// codeword used in VariableLength mode.
const lengthCodecEccBytes = 2

// ErrPayloadTruncated is reported (not fatal) when a payload longer
// than MaxPayloadLength was truncated before encoding.
var ErrPayloadTruncated = errors.New("modem: payload truncated to 140 bytes")

// codecSet bundles the Reed-Solomon codecs a single transmission uses.
// Both codecs are rebuilt whenever the payload length changes, since
// they're keyed on (msgLength, eccLength).
type codecSet struct {
	data   *rs.Codec
	length *rs.Codec // VariableLength length-field codec; buildEncodedBuffer leaves it nil
}

// buildEncodedBuffer lays out the codeword(s) for payload under mode,
// truncating to MaxPayloadLength first. It returns the full encoded
// buffer ready for transmission and, in FixedLength mode, the data
// codec used to build it. In VariableLength mode the returned codecSet
// is empty; variableLengthCodecsFor rebuilds those codecs from the
// length byte.
func buildEncodedBuffer(payload []byte, p Parameters) ([]byte, codecSet, error) {
	truncated := payload
	var truncErr error
	if len(truncated) > MaxPayloadLength {
		truncated = truncated[:MaxPayloadLength]
		truncErr = ErrPayloadTruncated
	}

	if p.TxMode == VariableLength {
		return buildVariableLength(truncated, p), codecSet{}, truncErr
	}
	buf, cs, err := buildFixedLength(truncated, p)
	if err != nil {
		return nil, cs, err
	}
	return buf, cs, truncErr
}

func buildFixedLength(payload []byte, p Parameters) ([]byte, codecSet, error) {
	dataCodec, err := rs.New(FixedDataLength, p.EccBytesPerTx)
	if err != nil {
		return nil, codecSet{}, err
	}
	msg := make([]byte, FixedDataLength)
	copy(msg, payload)
	encoded, err := dataCodec.Encode(msg)
	if err != nil {
		return nil, codecSet{}, err
	}
	return encoded, codecSet{data: dataCodec}, nil
}

func buildVariableLength(payload []byte, p Parameters) []byte {
	l := len(payload)
	lengthCodec, _ := rs.New(1, lengthCodecEccBytes)
	lengthCodeword, _ := lengthCodec.Encode([]byte{byte(l)})

	eccLen := EccLenForLength(l)
	dataCodec, _ := rs.New(l, eccLen)
	dataCodeword, _ := dataCodec.Encode(payload)

	out := make([]byte, 0, len(lengthCodeword)+len(dataCodeword))
	out = append(out, lengthCodeword...)
	out = append(out, dataCodeword...)
	return out
}

// variableLengthCodecsFor reconstructs the codecs needed to decode a
// VariableLength transmission once the length byte L is known.
func variableLengthCodecsFor(l int) (lengthCodec, dataCodec *rs.Codec, err error) {
	lengthCodec, err = rs.New(1, lengthCodecEccBytes)
	if err != nil {
		return nil, nil, err
	}
	dataCodec, err = rs.New(l, EccLenForLength(l))
	if err != nil {
		return nil, nil, err
	}
	return lengthCodec, dataCodec, nil
}
