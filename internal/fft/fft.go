// Package fft implements a cached, power-of-two radix-2 FFT used by the
// receive pipeline's per-frame spectral analysis.
package fft

import (
	"errors"
	"math"
	"math/bits"
	"sync"
)

// ErrSizeNotPowerOfTwo is returned by NewPlan for sizes this radix-2
// implementation cannot factor.
var ErrSizeNotPowerOfTwo = errors.New("fft: size must be a power of two")

// Plan holds the precomputed bit-reversal permutation and twiddle
// factors for a fixed transform size, the way a Cooley-Tukey FFT's
// per-call allocations are normally hoisted out of the hot path.
type Plan struct {
	n        int
	bitrev   []int
	twiddles []complex128
}

var (
	planCacheMu sync.Mutex
	planCache   = make(map[int]*Plan)
)

// CachedPlan returns a shared Plan for n, building and caching it on
// first use. Modem frames are a fixed size for the life of a session,
// so every caller after the first hits the cache.
func CachedPlan(n int) (*Plan, error) {
	planCacheMu.Lock()
	defer planCacheMu.Unlock()
	if p, ok := planCache[n]; ok {
		return p, nil
	}
	p, err := NewPlan(n)
	if err != nil {
		return nil, err
	}
	planCache[n] = p
	return p, nil
}

// NewPlan builds a Plan for a transform of size n, which must be a
// power of two.
func NewPlan(n int) (*Plan, error) {
	if n < 2 || bits.OnesCount(uint(n)) != 1 {
		return nil, ErrSizeNotPowerOfTwo
	}
	p := &Plan{n: n}
	p.bitrev = bitReversalPermutation(n)
	p.twiddles = make([]complex128, n/2)
	for k := range p.twiddles {
		phase := -2 * math.Pi * float64(k) / float64(n)
		p.twiddles[k] = complex(math.Cos(phase), math.Sin(phase))
	}
	return p, nil
}

// Size returns the transform length the plan was built for.
func (p *Plan) Size() int { return p.n }

func bitReversalPermutation(n int) []int {
	logN := bits.TrailingZeros(uint(n))
	rev := make([]int, n)
	for i := range rev {
		rev[i] = int(bits.Reverse(uint(i)) >> (bits.UintSize - logN))
	}
	return rev
}

// Forward computes the discrete Fourier transform of real-valued
// samples (length must equal the plan's size, zero-padded by the
// caller otherwise), returning the full complex spectrum.
func (p *Plan) Forward(samples []float64) ([]complex128, error) {
	if len(samples) != p.n {
		return nil, errors.New("fft: input length does not match plan size")
	}
	buf := make([]complex128, p.n)
	for i, v := range samples {
		buf[p.bitrev[i]] = complex(v, 0)
	}

	for size := 2; size <= p.n; size *= 2 {
		half := size / 2
		stride := p.n / size
		for start := 0; start < p.n; start += size {
			for k := 0; k < half; k++ {
				twiddle := p.twiddles[k*stride]
				even := buf[start+k]
				odd := buf[start+k+half] * twiddle
				buf[start+k] = even + odd
				buf[start+k+half] = even - odd
			}
		}
	}
	return buf, nil
}

// PowerSpectrumFolded computes the magnitude-squared spectrum of
// samples and folds the upper half onto the lower half, P[i] += P[N-i]
// for i in [1, N/2), matching a real-valued signal's conjugate
// symmetry. The result has length N/2+1; only it (not the discarded
// upper half) carries information for a real input.
func (p *Plan) PowerSpectrumFolded(samples []float64) ([]float64, error) {
	spectrum, err := p.Forward(samples)
	if err != nil {
		return nil, err
	}
	full := make([]float64, p.n)
	for i, c := range spectrum {
		full[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	for i := 1; i < p.n/2; i++ {
		full[i] += full[p.n-i]
	}
	return full[:p.n/2+1], nil
}

// TotalPower sums a power spectrum, used by the silence detector.
func TotalPower(spectrum []float64) float64 {
	var total float64
	for _, v := range spectrum {
		total += v
	}
	return total
}
