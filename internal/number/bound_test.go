package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrdering(t *testing.T) {
	assert.True(t, NegInf.Less(FromInt64(-1000000)))
	assert.True(t, FromInt64(5).Less(PosInf))
	assert.True(t, FromInt64(3).Equal(FromInt64(3)))
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, FromInt64(7), FromInt64(3).Add(FromInt64(4)))
	assert.Equal(t, PosInf, PosInf.Add(FromInt64(4)))
	assert.Equal(t, NegInf, FromInt64(4).Add(NegInf))
	assert.Equal(t, FromInt64(-4), FromInt64(4).Neg())
	assert.Equal(t, NegInf, PosInf.Neg())
}

func TestMulSignRules(t *testing.T) {
	assert.Equal(t, PosInf, PosInf.Mul(FromInt64(3)))
	assert.Equal(t, NegInf, PosInf.Mul(FromInt64(-3)))
	assert.Equal(t, Zero, PosInf.Mul(Zero))
	assert.Equal(t, NegInf, NegInf.Mul(FromInt64(2)))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, FromInt64(2), Min(FromInt64(2), FromInt64(5)))
	assert.Equal(t, FromInt64(5), Max(FromInt64(2), FromInt64(5)))
	assert.Equal(t, NegInf, Min(NegInf, FromInt64(5)))
	assert.Equal(t, PosInf, Max(FromInt64(5), PosInf))
}

func TestAddInfinitiesPanicsOnUndefinedCase(t *testing.T) {
	assert.Panics(t, func() { PosInf.Add(NegInf) })
}
