package bitstream

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	s, err := Parse(" 1011001 \n")
	require.NoError(t, err)
	assert.Equal(t, 7, s.Len())
	assert.Equal(t, "1011001", s.String())

	b, err := s.Bit(2)
	require.NoError(t, err)
	assert.Equal(t, uint(1), b)
	b, err = s.Bit(1)
	require.NoError(t, err)
	assert.Equal(t, uint(0), b)

	_, err = s.Bit(7)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Parse("10201")
	assert.ErrorIs(t, err, ErrInvalidBit)

	empty, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, "", empty.String())
}

func TestAppendElementPadsLeft(t *testing.T) {
	s := New()
	require.NoError(t, s.AppendElement(big.NewInt(5), 8))
	require.NoError(t, s.AppendElement(big.NewInt(0), 4))
	require.NoError(t, s.AppendElement(big.NewInt(15), 4))
	assert.Equal(t, "0000010100001111", s.String())
	assert.Equal(t, []byte{0x05, 0x0f}, s.Bytes())
	assert.Equal(t, "050f", s.Hex())

	err := s.AppendElement(big.NewInt(16), 4)
	assert.ErrorIs(t, err, ErrOutOfRange)
	err = s.AppendElement(big.NewInt(-1), 4)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 16, s.Len())
}

func TestZeroValueStream(t *testing.T) {
	var s Stream
	require.NoError(t, s.AppendElement(big.NewInt(1), 3))
	assert.Equal(t, "001", s.String())
}

func TestElementRoundTrip(t *testing.T) {
	const width = 256
	values := []*big.Int{
		new(big.Int).SetBytes([]byte("first chunk value")),
		big.NewInt(0),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1)),
	}

	s := New()
	for _, v := range values {
		require.NoError(t, s.AppendElement(v, width))
	}
	require.Equal(t, 3*width, s.Len())

	for i, v := range values {
		got, err := s.Element(i, width)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Cmp(v), "chunk %d", i)
	}
	chunks := s.Chunks(width)
	require.Len(t, chunks, 3)

	_, err := s.Element(3, width)
	assert.ErrorIs(t, err, ErrOutOfRange)

	// a trailing partial chunk is not decoded
	p, err := s.Prefix(2*width + 10)
	require.NoError(t, err)
	assert.Equal(t, 2, p.NumChunks(width))
	assert.Len(t, p.Chunks(width), 2)
}

func TestPrefixConcatEqual(t *testing.T) {
	s, err := Parse("110100111")
	require.NoError(t, err)

	head, err := s.Prefix(4)
	require.NoError(t, err)
	assert.Equal(t, "1101", head.String())

	tail, err := Parse("00111")
	require.NoError(t, err)
	joined := head.Concat(tail)
	assert.True(t, joined.Equal(s))
	assert.Equal(t, -1, joined.FirstDifference(s))

	// the source streams are untouched
	assert.Equal(t, "1101", head.String())
	assert.Equal(t, "00111", tail.String())

	other, err := Parse("110100101")
	require.NoError(t, err)
	assert.False(t, other.Equal(s))
	assert.Equal(t, 7, other.FirstDifference(s))

	shorter, err := s.Prefix(8)
	require.NoError(t, err)
	assert.False(t, shorter.Equal(s))
	assert.Equal(t, -1, shorter.FirstDifference(s))

	_, err = s.Prefix(10)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestFromBytes(t *testing.T) {
	s, err := FromBytes([]byte{0xa5, 0xf0}, 12)
	require.NoError(t, err)
	assert.Equal(t, "101001011111", s.String())
	assert.Equal(t, []byte{0xa5, 0xf0}, s.Bytes())

	_, err = FromBytes([]byte{0x00}, 9)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
