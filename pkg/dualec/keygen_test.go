package dualec

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/dualec/pkg/ec"
)

func TestGenerateBackdoorP256(t *testing.T) {
	base, err := ec.NamedCurve("secp256r1")
	require.NoError(t, err)

	params, key, err := GenerateBackdoor(nil, base, nil, DefaultLayout(base.BitSize()))
	require.NoError(t, err)

	// 2 is a square mod the P-256 prime and 3 is not.
	assert.Equal(t, int64(3), params.Pair.D().Int64())
	require.NoError(t, ValidateKey(params, key))

	seed, err := rand.Int(rand.Reader, params.FieldOrder())
	require.NoError(t, err)
	truth := mustGenerate(t, params, seed, 1024)
	pred, err := Predict(context.Background(), params, key, mustPrefix(t, truth, 512), 1024,
		DefaultVerifyConfig())
	require.NoError(t, err)
	assert.True(t, pred.Stream.Equal(truth))
}

func TestGenerateBackdoorSecp256k1(t *testing.T) {
	base, err := ec.NamedCurve("secp256k1")
	require.NoError(t, err)

	params, key, err := GenerateBackdoor(rand.Reader, base, nil, CoupledControl)
	require.NoError(t, err)
	require.NoError(t, ValidateKey(params, key))
	assert.Equal(t, 0, params.Pair.Twist.A().Sign())

	truth := mustGenerate(t, params, big.NewInt(77), 768)
	pred, err := Predict(context.Background(), params, key, mustPrefix(t, truth, 512), 768,
		DefaultVerifyConfig())
	require.NoError(t, err)
	assert.True(t, pred.Stream.Equal(truth))
}

func TestGenerateBackdoorP384Split(t *testing.T) {
	if testing.Short() {
		t.Skip("P-384 key generation and prediction is slow")
	}
	base, err := ec.NamedCurve("secp384r1")
	require.NoError(t, err)

	params, key, err := GenerateBackdoor(nil, base, nil, DefaultLayout(base.BitSize()))
	require.NoError(t, err)
	assert.Equal(t, SplitControl, params.Layout)
	assert.Equal(t, 384, params.ChunkBits())

	// Each candidate chunk is usable with probability 1/2, so a seed can
	// fail. A wrong stream is never acceptable.
	matches := 0
	for seed := int64(1); seed <= 4; seed++ {
		truth := mustGenerate(t, params, big.NewInt(seed), 16*384)
		pred, err := Predict(context.Background(), params, key, mustPrefix(t, truth, 12*384),
			16*384, DefaultVerifyConfig())
		if errors.Is(err, ErrPredictionFailed) {
			continue
		}
		require.NoError(t, err)
		require.True(t, pred.Stream.Equal(truth), "seed %d", seed)
		matches++
	}
	assert.Positive(t, matches)
}

func TestGenerateBackdoorRejectsSquareFactor(t *testing.T) {
	base, err := ec.NamedCurve("secp256r1")
	require.NoError(t, err)
	_, _, err = GenerateBackdoor(nil, base, big.NewInt(4), CoupledControl)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, _, err = GenerateBackdoor(nil, base, big.NewInt(0), CoupledControl)
	assert.ErrorIs(t, err, ec.ErrInvalidTwistFactor)
}
