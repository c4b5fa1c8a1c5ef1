// Package poly implements polynomial arithmetic over GF(2^8), with
// coefficients stored highest-degree-first in plain byte slices.
package poly

import "github.com/n7mf/soundmodem/internal/gf"

// Add returns a+b (which is also a-b in GF(2^8)), padding the shorter
// operand with leading zeros.
func Add(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out[n-len(a):], a)
	for i, bv := range b {
		out[n-len(b)+i] ^= bv
	}
	return out
}

// Scale multiplies every coefficient of a by the scalar s.
func Scale(a []byte, s byte) []byte {
	out := make([]byte, len(a))
	for i, c := range a {
		out[i] = gf.Mul(c, s)
	}
	return out
}

// Mul returns the product a*b.
func Mul(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] ^= gf.Mul(av, bv)
		}
	}
	return out
}

// Eval evaluates a(x) at x using Horner's method.
func Eval(a []byte, x byte) byte {
	var y byte
	for _, c := range a {
		y = gf.Mul(y, x) ^ c
	}
	return y
}

// Div performs synthetic division, returning quotient and remainder
// such that a = q*b + r.
func Div(a, b []byte) (q, r []byte) {
	out := append([]byte(nil), a...)
	normalizer := b[0]
	for i := 0; i <= len(a)-len(b); i++ {
		coef := out[i]
		if normalizer != 1 {
			coef = gf.Div(coef, normalizer)
			out[i] = coef
		}
		if coef == 0 {
			continue
		}
		for j := 1; j < len(b); j++ {
			if b[j] != 0 {
				out[i+j] ^= gf.Mul(b[j], coef)
			}
		}
	}
	separator := len(out) - len(b) + 1
	return out[:separator], out[separator:]
}
