package poly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/n7mf/soundmodem/internal/gf"
	"github.com/n7mf/soundmodem/internal/poly"
)

func TestAddIsSelfInverse(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	sum := poly.Add(a, b)
	back := poly.Add(sum, b)
	assert.Equal(t, []byte{0, 0, 0}, poly.Add(a, a))
	assert.Equal(t, []byte{1, 2, 3}, back)
}

func TestEvalConstant(t *testing.T) {
	assert.Equal(t, byte(7), poly.Eval([]byte{7}, 42))
}

func TestMulEvalHomomorphism(t *testing.T) {
	a := []byte{1, 2}
	b := []byte{3, 4}
	prod := poly.Mul(a, b)
	x := byte(9)
	assert.Equal(t, gf.Mul(poly.Eval(a, x), poly.Eval(b, x)), poly.Eval(prod, x))
}

func TestDivExact(t *testing.T) {
	// (x - a^0) = {1, a^0} = {1, 1}
	g := []byte{1, 1}
	msg := poly.Mul([]byte{1, 2, 3}, g)
	q, r := poly.Div(msg, g)
	assert.Equal(t, []byte{1, 2, 3}, q)
	for _, c := range r {
		assert.Equal(t, byte(0), c)
	}
}

func TestScaleByOneIsIdentity(t *testing.T) {
	a := []byte{5, 6, 7}
	assert.Equal(t, a, poly.Scale(a, 1))
}
