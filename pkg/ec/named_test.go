package ec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedCurves(t *testing.T) {
	assert.Equal(t, []string{"secp256k1", "secp256r1", "secp384r1"}, CurveNames())

	for _, name := range []string{"secp256r1", "P-256", "prime256v1", "secp384r1", "p384", "secp256k1"} {
		c, err := NamedCurve(name)
		require.NoError(t, err, name)
		assert.False(t, c.IsSingular(), name)

		G, err := NamedGenerator(name)
		require.NoError(t, err, name)
		assert.True(t, c.IsOnCurve(G.X(), G.Y()), name)
	}

	k1, err := NamedCurve("secp256k1")
	require.NoError(t, err)
	assert.Equal(t, 0, k1.A().Sign())
	assert.Equal(t, int64(7), k1.B().Int64())

	p384, err := NamedCurve("P-384")
	require.NoError(t, err)
	assert.Equal(t, 384, p384.BitSize())
}

func TestNamedCurveUnknown(t *testing.T) {
	_, err := NamedCurve("curve25519")
	assert.ErrorIs(t, err, ErrUnknownCurve)
	_, err = NamedGenerator("brainpool")
	assert.ErrorIs(t, err, ErrUnknownCurve)
}
