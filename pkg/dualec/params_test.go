package dualec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/dualec/pkg/ec"
)

func TestDemoParams(t *testing.T) {
	params, key := mustDemo(t)
	assert.Equal(t, 256, params.ChunkBits())
	assert.Equal(t, CoupledControl, params.Layout)
	assert.Equal(t, "secp256r1_twist", params.Pair.Twist.Name())
	assert.True(t, params.Pair.IsQuadraticTwist())
	require.NoError(t, ValidateKey(params, key))

	for _, pt := range []*ec.Point{params.P1, params.Q1} {
		assert.True(t, params.Pair.Base.IsOnCurve(pt.X(), pt.Y()))
	}
	for _, pt := range []*ec.Point{params.P2, params.Q2} {
		assert.True(t, params.Pair.Twist.IsOnCurve(pt.X(), pt.Y()))
	}
}

func TestValidateKey(t *testing.T) {
	params, key := mustDemo(t)

	err := ValidateKey(params, &BackdoorKey{BD1: key.BD1, BD2: new(big.Int).Add(key.BD2, big.NewInt(1))})
	assert.ErrorIs(t, err, ErrMissingBackdoor)

	err = ValidateKey(params, &BackdoorKey{BD1: big.NewInt(2), BD2: key.BD2})
	assert.ErrorIs(t, err, ErrMissingBackdoor)

	assert.ErrorIs(t, ValidateKey(params, nil), ErrMissingBackdoor)
	assert.ErrorIs(t, ValidateKey(params, &BackdoorKey{BD1: key.BD1}), ErrMissingBackdoor)
}

func TestNewParamsValidation(t *testing.T) {
	params, _ := mustDemo(t)
	pair := params.Pair

	// a point on the wrong curve
	_, err := NewParams(pair, params.P2, params.Q1, params.P2, params.Q2, CoupledControl)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewParams(pair, params.P1, pair.Base.Infinity(), params.P2, params.Q2, CoupledControl)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewParams(pair, params.P1, params.Q1, params.P2, nil, CoupledControl)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewParams(pair, params.P1, params.Q1, params.P2, params.Q2, ControlLayout(7))
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewParams(nil, params.P1, params.Q1, params.P2, params.Q2, CoupledControl)
	assert.ErrorIs(t, err, ErrInvalidParams)

	// 4 is a square, so that pair is no twist at all
	square, err := ec.NewTwistPair(pair.Base, big.NewInt(4))
	require.NoError(t, err)
	_, err = NewParams(square, params.P1, params.Q1, params.P2, params.Q2, CoupledControl)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestLayouts(t *testing.T) {
	assert.Equal(t, CoupledControl, DefaultLayout(256))
	assert.Equal(t, SplitControl, DefaultLayout(384))

	for _, l := range []ControlLayout{CoupledControl, SplitControl} {
		got, err := ParseLayout(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err := ParseLayout("both")
	assert.ErrorIs(t, err, ErrInvalidParams)

	// bit 0 drives the update in both layouts; bit 1 only matters when split
	params, _ := mustDemo(t)
	split := withLayout(t, params, SplitControl)
	s := big.NewInt(0b10)
	assert.Equal(t, BaseBranch, params.updateBranch(s))
	assert.Equal(t, BaseBranch, params.outputBranch(s))
	assert.Equal(t, BaseBranch, split.updateBranch(s))
	assert.Equal(t, TwistBranch, split.outputBranch(s))
}
