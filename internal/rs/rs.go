// Package rs implements a systematic Reed-Solomon codec over GF(2^8),
// following the classic Berlekamp-Massey/Forney decoder (the same
// algorithm as Phil Karn's reference implementation): syndromes,
// Forney syndromes to factor out known erasures, Berlekamp-Massey to
// find the error+erasure locator, Chien search for roots, and Forney's
// formula for error magnitudes.
package rs

import (
	"errors"

	"github.com/n7mf/soundmodem/internal/gf"
	"github.com/n7mf/soundmodem/internal/poly"
)

// ErrInvalidParams is returned by New when msgLength + eccLength would
// not fit in a single GF(2^8) block (< 256 symbols).
var ErrInvalidParams = errors.New("rs: msg_length + ecc_length must be < 256 and ecc_length >= 1")

// ErrTooManyErrors is returned by Decode when the number of errors and
// erasures exceeds what ecc_length can correct.
var ErrTooManyErrors = errors.New("rs: too many errors/erasures to correct")

// ErrDecodeFailed is returned by Decode when the locator's root count
// doesn't match its degree, or when the corrected codeword still has
// nonzero syndromes.
var ErrDecodeFailed = errors.New("rs: decode failed")

// Codec is a Reed-Solomon encoder/decoder for a fixed (msgLength, eccLength).
type Codec struct {
	msgLength int
	eccLength int
	generator []byte // cached generator polynomial, high-degree-first, length eccLength+1
}

// New constructs a codec for messages of msgLength bytes protected by
// eccLength parity bytes. msgLength + eccLength must be < 256.
func New(msgLength, eccLength int) (*Codec, error) {
	if eccLength < 1 || msgLength < 0 || msgLength+eccLength >= 256 {
		return nil, ErrInvalidParams
	}
	return &Codec{
		msgLength: msgLength,
		eccLength: eccLength,
		generator: generatorPoly(eccLength),
	}, nil
}

// MsgLength returns the configured message length in bytes.
func (c *Codec) MsgLength() int { return c.msgLength }

// EccLength returns the configured parity length in bytes.
func (c *Codec) EccLength() int { return c.eccLength }

// generatorPoly builds g(x) = product_{i=0}^{eccLength-1} (x + 2^i),
// which in GF(2^8) (addition == subtraction) is the textbook
// g(x) = product (x - 2^i).
func generatorPoly(eccLength int) []byte {
	g := []byte{1}
	for i := 0; i < eccLength; i++ {
		g = poly.Mul(g, []byte{1, gf.Pow(2, i)})
	}
	return g
}

// Encode returns the systematic codeword [message][parity] for msg,
// which must be exactly msgLength bytes.
func (c *Codec) Encode(msg []byte) ([]byte, error) {
	if len(msg) != c.msgLength {
		return nil, ErrInvalidParams
	}
	out := make([]byte, c.msgLength+c.eccLength)
	copy(out, msg)
	for i := 0; i < c.msgLength; i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(c.generator); j++ {
			out[i+j] ^= gf.Mul(c.generator[j], coef)
		}
	}
	// The division above leaves the quotient in the message region;
	// restore the message so the codeword is [message][parity].
	copy(out, msg)
	return out, nil
}

// Decode recovers the message from an encoded [message][parity] buffer
// of length msgLength+eccLength, optionally given known erasure
// positions (indices into encoded). Returns the decoded message
// (without parity) or a decode error.
func (c *Codec) Decode(encoded []byte, erasurePositions []int) ([]byte, error) {
	n := c.msgLength + c.eccLength
	if len(encoded) != n {
		return nil, ErrInvalidParams
	}
	if len(erasurePositions) > c.eccLength {
		return nil, ErrTooManyErrors
	}

	work := append([]byte(nil), encoded...)
	for _, p := range erasurePositions {
		work[p] = 0
	}

	synd := c.syndromes(work)
	if allZero(synd) {
		return append([]byte(nil), work[:c.msgLength]...), nil
	}

	forney := forneySyndromes(synd, erasurePositions, n)

	erasureLoc := errataLocator(reversePositions(erasurePositions, n))
	errLoc, err := findErrorLocator(forney, c.eccLength, erasureLoc, len(erasurePositions))
	if err != nil {
		return nil, err
	}

	reversedLoc := reverseBytes(errLoc)
	errPos, ok := findErrors(reversedLoc, n)
	if !ok {
		return nil, ErrDecodeFailed
	}

	allPos := append(append([]int(nil), erasurePositions...), errPos...)
	corrected, err := correctErrata(work, synd, allPos)
	if err != nil {
		return nil, err
	}

	finalSynd := c.syndromes(corrected)
	if !allZero(finalSynd) {
		return nil, ErrDecodeFailed
	}

	return corrected[:c.msgLength], nil
}

func (c *Codec) syndromes(msg []byte) []byte {
	s := make([]byte, c.eccLength)
	for i := range s {
		s[i] = poly.Eval(msg, gf.Pow(2, i))
	}
	return s
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// forneySyndromes removes known-erasure contributions from the
// syndromes so Berlekamp-Massey only has to find unknown errors.
func forneySyndromes(synd []byte, erasurePositions []int, msgLen int) []byte {
	fsynd := append([]byte(nil), synd...)
	for _, p := range erasurePositions {
		x := gf.Pow(2, msgLen-1-p)
		for j := 0; j < len(fsynd)-1; j++ {
			fsynd[j] = gf.Mul(fsynd[j], x) ^ fsynd[j+1]
		}
	}
	return fsynd
}

func reversePositions(positions []int, msgLen int) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		out[i] = msgLen - 1 - p
	}
	return out
}

// errataLocator builds the product of (2^p * x + 1) for each position p.
func errataLocator(positions []int) []byte {
	loc := []byte{1}
	for _, p := range positions {
		loc = poly.Mul(loc, []byte{gf.Pow(2, p), 1})
	}
	return loc
}

// findErrorLocator runs Berlekamp-Massey over the Forney syndromes,
// seeded with the known erasure locator, for eccLength-eraseCount steps.
func findErrorLocator(forney []byte, eccLength int, erasureLoc []byte, eraseCount int) ([]byte, error) {
	errLoc := append([]byte(nil), erasureLoc...)
	oldLoc := append([]byte(nil), erasureLoc...)

	for i := 0; i < eccLength-eraseCount; i++ {
		k := eraseCount + i
		delta := forney[k]
		for j := 1; j < len(errLoc); j++ {
			delta ^= gf.Mul(errLoc[len(errLoc)-1-j], forney[k-j])
		}
		oldLoc = append(oldLoc, 0)
		if delta != 0 {
			if len(oldLoc) > len(errLoc) {
				newLoc := poly.Scale(oldLoc, delta)
				oldLoc = poly.Scale(errLoc, gf.Inverse(delta))
				errLoc = newLoc
			}
			errLoc = poly.Add(errLoc, poly.Scale(oldLoc, delta))
		}
	}

	errLoc = dropLeadingZeros(errLoc)
	errs := len(errLoc) - 1
	if (errs-eraseCount)*2+eraseCount > eccLength {
		return nil, ErrTooManyErrors
	}
	return errLoc, nil
}

func dropLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0 {
		i++
	}
	return b[i:]
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// findErrors runs a Chien search: evaluates the reversed locator at
// every 2^i for i in [0, msgLen) and reports the roots as positions.
func findErrors(reversedLoc []byte, msgLen int) ([]int, bool) {
	want := len(reversedLoc) - 1
	var positions []int
	for i := 0; i < msgLen; i++ {
		if poly.Eval(reversedLoc, gf.Pow(2, i)) == 0 {
			positions = append(positions, msgLen-1-i)
		}
	}
	return positions, len(positions) == want
}

// correctErrata computes error magnitudes via Forney's formula and
// XORs them into the message at the given positions (errors ∪ erasures).
func correctErrata(msg []byte, synd []byte, positions []int) ([]byte, error) {
	if len(positions) == 0 {
		return append([]byte(nil), msg...), nil
	}

	coefPos := make([]int, len(positions))
	for i, p := range positions {
		coefPos[i] = len(msg) - 1 - p
	}

	errLoc := errataLocator(coefPos)

	// Shift the syndrome polynomial up by one degree (a trailing zero in
	// high-degree-first order) so Forney's formula below, which scales
	// by X_i, yields the error magnitude for syndromes taken at 2^0.
	reversedSynd := append(reverseBytes(synd), 0)
	_, errEvalRev := poly.Div(poly.Mul(reversedSynd, errLoc), errEvalDivisor(len(errLoc)-1))
	errEval := reverseBytes(errEvalRev)

	x := make([]byte, len(coefPos))
	for i, p := range coefPos {
		l := 255 - p
		x[i] = gf.Pow(2, -l)
	}

	magnitudes := make([]byte, len(msg))
	for i, xi := range x {
		xiInv := gf.Inverse(xi)
		errLocPrime := byte(1)
		for j, xj := range x {
			if j == i {
				continue
			}
			errLocPrime = gf.Mul(errLocPrime, gf.Sub(1, gf.Mul(xiInv, xj)))
		}
		if errLocPrime == 0 {
			return nil, ErrDecodeFailed
		}
		y := poly.Eval(reverseBytes(errEval), xiInv)
		y = gf.Mul(xi, y)
		magnitudes[positions[i]] = gf.Div(y, errLocPrime)
	}

	return poly.Add(msg, magnitudes), nil
}

// errEvalDivisor returns x^(nsym+1) as a high-degree-first polynomial,
// used to take the remainder of synd(x)*errLoc(x) modulo x^(nsym+1).
func errEvalDivisor(nsym int) []byte {
	d := make([]byte, nsym+2)
	d[0] = 1
	return d
}
