package rs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/n7mf/soundmodem/internal/rs"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msgLen := rapid.IntRange(0, 250).Draw(t, "msgLen")
		eccLen := rapid.IntRange(2, 255-msgLen).Draw(t, "eccLen")

		codec, err := rs.New(msgLen, eccLen)
		require.NoError(t, err)

		msg := rapid.SliceOfN(rapid.Byte(), msgLen, msgLen).Draw(t, "msg")
		encoded, err := codec.Encode(msg)
		require.NoError(t, err)
		require.Len(t, encoded, msgLen+eccLen)

		decoded, err := codec.Decode(encoded, nil)
		require.NoError(t, err)
		assert.Equal(t, msg, decoded)
	})
}

func TestCorrectsUpToHalfEccErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msgLen := rapid.IntRange(1, 100).Draw(t, "msgLen")
		eccLen := rapid.IntRange(4, 40).Draw(t, "eccLen")
		if msgLen+eccLen >= 256 {
			t.Skip()
		}
		codec, err := rs.New(msgLen, eccLen)
		require.NoError(t, err)

		msg := rapid.SliceOfN(rapid.Byte(), msgLen, msgLen).Draw(t, "msg")
		encoded, err := codec.Encode(msg)
		require.NoError(t, err)

		maxCorrectable := eccLen / 2
		numFlips := rapid.IntRange(0, maxCorrectable).Draw(t, "numFlips")

		corrupted := append([]byte(nil), encoded...)
		positions := rapid.Permutation(indices(len(corrupted))).Draw(t, "positions")[:numFlips]
		for _, p := range positions {
			flip := rapid.Uint8Range(1, 255).Draw(t, "flip")
			corrupted[p] ^= flip
		}

		decoded, err := codec.Decode(corrupted, nil)
		require.NoError(t, err)
		assert.Equal(t, msg, decoded)
	})
}

func TestTooManyErrorsNeverSilentlyWrong(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msgLen := rapid.IntRange(1, 100).Draw(t, "msgLen")
		eccLen := rapid.IntRange(4, 40).Draw(t, "eccLen")
		if msgLen+eccLen >= 256 {
			t.Skip()
		}
		codec, err := rs.New(msgLen, eccLen)
		require.NoError(t, err)

		msg := rapid.SliceOfN(rapid.Byte(), msgLen, msgLen).Draw(t, "msg")
		encoded, err := codec.Encode(msg)
		require.NoError(t, err)

		numFlips := eccLen/2 + 1
		corrupted := append([]byte(nil), encoded...)
		positions := rapid.Permutation(indices(len(corrupted))).Draw(t, "positions")[:numFlips]
		for _, p := range positions {
			flip := rapid.Uint8Range(1, 255).Draw(t, "flip")
			corrupted[p] ^= flip
		}

		decoded, err := codec.Decode(corrupted, nil)
		if err == nil {
			// A decode that reports success must still have recovered the
			// original message: silently returning a wrong same-length
			// message is the one outcome that's never acceptable.
			assert.Equal(t, msg, decoded)
		}
	})
}

func TestEncodeRejectsWrongLength(t *testing.T) {
	codec, err := rs.New(10, 4)
	require.NoError(t, err)
	_, err = codec.Encode(make([]byte, 9))
	assert.ErrorIs(t, err, rs.ErrInvalidParams)
}

func TestNewRejectsOverflow(t *testing.T) {
	_, err := rs.New(250, 10)
	assert.ErrorIs(t, err, rs.ErrInvalidParams)

	_, err = rs.New(10, 0)
	assert.ErrorIs(t, err, rs.ErrInvalidParams)
}

func TestNoErrorsReturnsMessageUnchanged(t *testing.T) {
	codec, err := rs.New(5, 6)
	require.NoError(t, err)
	msg := []byte{1, 2, 3, 4, 5}
	encoded, err := codec.Encode(msg)
	require.NoError(t, err)
	decoded, err := codec.Decode(encoded, nil)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
