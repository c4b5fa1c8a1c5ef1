package gf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/n7mf/soundmodem/internal/gf"
)

func TestMulInverseIsOne(t *testing.T) {
	for a := 1; a < 256; a++ {
		inv := gf.Inverse(byte(a))
		assert.Equalf(t, byte(1), gf.Mul(byte(a), inv), "a=%d inv=%d", a, inv)
	}
}

func TestMulCommutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Byte().Draw(t, "a")
		b := rapid.Byte().Draw(t, "b")
		assert.Equal(t, gf.Mul(a, b), gf.Mul(b, a))
	})
}

func TestPow2To255IsOne(t *testing.T) {
	assert.Equal(t, byte(1), gf.Pow(2, 255))
}

func TestAddIsXor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Byte().Draw(t, "a")
		b := rapid.Byte().Draw(t, "b")
		assert.Equal(t, a^b, gf.Add(a, b))
		assert.Equal(t, gf.Add(a, b), gf.Sub(a, b))
	})
}

func TestDivUndoesMul(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Uint8Range(1, 255).Draw(t, "a")
		b := rapid.Uint8Range(1, 255).Draw(t, "b")
		product := gf.Mul(a, b)
		assert.Equal(t, a, gf.Div(product, b))
	})
}

func TestZeroAnnihilates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Byte().Draw(t, "a")
		assert.Equal(t, byte(0), gf.Mul(a, 0))
		assert.Equal(t, byte(0), gf.Mul(0, a))
	})
}
