package dualec

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/dualec/pkg/bitstream"
)

// testVector is one entry of testdata/vectors.yaml.
type testVector struct {
	Seed   string `yaml:"seed"`
	Length int    `yaml:"length"`
	Layout string `yaml:"layout"`
	Hex    string `yaml:"hex"`
}

func loadTestVectors(t *testing.T) []testVector {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "vectors.yaml"))
	require.NoError(t, err)
	var vectors []testVector
	require.NoError(t, yaml.Unmarshal(data, &vectors))
	require.NotEmpty(t, vectors)
	return vectors
}

func mustDemo(t testing.TB) (*Params, *BackdoorKey) {
	t.Helper()
	params, key, err := DemoP256()
	require.NoError(t, err)
	return params, key
}

// withLayout copies params with a different control layout.
func withLayout(t testing.TB, params *Params, layout ControlLayout) *Params {
	t.Helper()
	out, err := NewParams(params.Pair, params.P1, params.Q1, params.P2, params.Q2, layout)
	require.NoError(t, err)
	return out
}

func mustGenerate(t testing.TB, params *Params, seed *big.Int, length int) *bitstream.Stream {
	t.Helper()
	s, err := Generate(params, seed, length)
	require.NoError(t, err)
	require.Equal(t, length, s.Len())
	return s
}

func mustPrefix(t testing.TB, s *bitstream.Stream, n int) *bitstream.Stream {
	t.Helper()
	p, err := s.Prefix(n)
	require.NoError(t, err)
	return p
}

func mustHex(t testing.TB, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok, s)
	return v
}

func readTestdata(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	return string(data), err
}
