// Package gf implements arithmetic over GF(2^8) with the generator
// polynomial x^8 + x^4 + x^3 + x^2 + 1 (0x11D) and primitive element 2,
// the field used by the Reed-Solomon codec.
package gf

// Poly is the primitive (generator) polynomial for the field.
const Poly = 0x11d

// N is the number of nonzero field elements, 2^8 - 1.
const N = 255

var expTable [2*N + 1]byte // antilog, extended so indices never need modding twice
var logTable [N + 1]byte

func init() {
	sr := 1
	for i := 0; i < N; i++ {
		expTable[i] = byte(sr)
		logTable[sr] = byte(i)
		sr <<= 1
		if sr&0x100 != 0 {
			sr ^= Poly
		}
	}
	for i := N; i < len(expTable); i++ {
		expTable[i] = expTable[i-N]
	}
}

// Add returns a XOR b, which is both addition and subtraction in GF(2^8).
func Add(a, b byte) byte {
	return a ^ b
}

// Sub is an alias for Add: subtraction is XOR in characteristic 2.
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a*b in the field.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div returns a/b in the field. Dividing by zero returns 0; callers
// that must distinguish that case should check b == 0 themselves.
func Div(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])-int(logTable[b])+N]
}

// Pow returns a^e in the field.
func Pow(a byte, e int) byte {
	if a == 0 {
		if e == 0 {
			return 1
		}
		return 0
	}
	e = e % N
	if e < 0 {
		e += N
	}
	return expTable[(int(logTable[a])*e)%N]
}

// Inverse returns the multiplicative inverse of a. a must be nonzero.
func Inverse(a byte) byte {
	return Pow(a, N-1)
}

// Exp returns alpha^i (the antilog table), for i in [0, 2N].
func Exp(i int) byte {
	for i < 0 {
		i += N
	}
	return expTable[i%N]
}

// Log returns log_alpha(a) for nonzero a.
func Log(a byte) byte {
	return logTable[a]
}
