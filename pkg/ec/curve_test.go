package ec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurveValidation(t *testing.T) {
	_, err := NewCurve("even", bi(10), bi(1), bi(1))
	assert.ErrorIs(t, err, ErrInvalidCurve)

	_, err = NewCurve("tiny", bi(3), bi(1), bi(1))
	assert.ErrorIs(t, err, ErrInvalidCurve)

	_, err = NewCurve("nil", bi(11), nil, bi(1))
	assert.ErrorIs(t, err, ErrInvalidCurve)

	// coefficients are reduced
	c, err := NewCurve("reduced", bi(11), bi(-1), bi(23))
	require.NoError(t, err)
	assert.Equal(t, int64(10), c.A().Int64())
	assert.Equal(t, int64(1), c.B().Int64())
	assert.Equal(t, 4, c.BitSize())
}

func TestSingular(t *testing.T) {
	assert.True(t, mustCurve(t, 11, 0, 0).IsSingular())
	// 4*0 + 27 = 27 = 5 mod 11
	assert.False(t, mustCurve(t, 11, 0, 1).IsSingular())
}

func TestNewPoint(t *testing.T) {
	c := mustCurve(t, 11, 0, 1)

	P, err := c.NewPoint(bi(0), bi(1))
	require.NoError(t, err)
	assert.False(t, P.IsInfinity())
	assert.Same(t, c, P.Curve())

	_, err = c.NewPoint(bi(0), bi(2))
	assert.ErrorIs(t, err, ErrPointNotOnCurve)

	// out of field coordinates are rejected rather than reduced
	_, err = c.NewPoint(bi(11), bi(1))
	assert.ErrorIs(t, err, ErrPointNotOnCurve)
}

func TestPointAccessorsCopy(t *testing.T) {
	c := mustCurve(t, 11, 0, 1)
	P := mustPoint(t, c, 0, 1)

	x := P.X()
	x.SetInt64(5)
	assert.Equal(t, int64(0), P.X().Int64())

	O := c.Infinity()
	assert.Nil(t, O.X())
	assert.Nil(t, O.Y())
	assert.Equal(t, 0, O.XOrZero().Sign())
	assert.Equal(t, "O", O.String())
}

func TestCurveEqual(t *testing.T) {
	c1 := mustCurve(t, 11, 0, 1)
	c2, err := NewCurve("other name", big.NewInt(11), big.NewInt(0), big.NewInt(12))
	require.NoError(t, err)
	assert.True(t, c1.Equal(c2))
	assert.False(t, c1.Equal(mustCurve(t, 11, 0, 2)))
	assert.False(t, c1.Equal(nil))
}
