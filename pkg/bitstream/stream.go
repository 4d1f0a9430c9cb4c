// Package bitstream holds DRBG output as a packed, arbitrary-length sequence
// of bits and converts between fixed-width big-endian chunks and integers.
package bitstream

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrOutOfRange is returned for positions, chunk indices or values that
	// do not fit the stream.
	ErrOutOfRange = errors.New("bitstream: out of range")

	// ErrInvalidBit is returned by Parse for characters other than '0' and '1'.
	ErrInvalidBit = errors.New("bitstream: invalid bit character")
)

// Stream is a finite bit sequence. Bit 0 is the first bit produced. The zero
// value is an empty stream ready to use.
type Stream struct {
	set *bitset.BitSet
	n   uint
}

// New returns an empty stream.
func New() *Stream {
	return &Stream{set: bitset.New(0)}
}

// Parse reads a string of '0' and '1' characters. Surrounding whitespace is
// ignored.
func Parse(s string) (*Stream, error) {
	s = strings.TrimSpace(s)
	st := &Stream{set: bitset.New(uint(len(s)))}
	for i, ch := range s {
		switch ch {
		case '0':
		case '1':
			st.set.Set(uint(i))
		default:
			return nil, fmt.Errorf("%w %q at %d", ErrInvalidBit, ch, i)
		}
	}
	st.n = uint(len(s))
	return st, nil
}

// FromBytes takes the first nbits bits of b, most significant bit of each
// byte first.
func FromBytes(b []byte, nbits int) (*Stream, error) {
	if nbits < 0 || nbits > 8*len(b) {
		return nil, fmt.Errorf("%w: %d bits from %d bytes", ErrOutOfRange, nbits, len(b))
	}
	st := &Stream{set: bitset.New(uint(nbits)), n: uint(nbits)}
	for i := 0; i < nbits; i++ {
		if b[i/8]&(0x80>>(i%8)) != 0 {
			st.set.Set(uint(i))
		}
	}
	return st, nil
}

func (s *Stream) bits() *bitset.BitSet {
	if s.set == nil {
		s.set = bitset.New(0)
	}
	return s.set
}

// Len is the number of bits in the stream.
func (s *Stream) Len() int { return int(s.n) }

// Bit returns bit i as 0 or 1.
func (s *Stream) Bit(i int) (uint, error) {
	if i < 0 || uint(i) >= s.n {
		return 0, fmt.Errorf("%w: bit %d of %d", ErrOutOfRange, i, s.n)
	}
	if s.bits().Test(uint(i)) {
		return 1, nil
	}
	return 0, nil
}

// AppendElement appends x as a big-endian field of exactly width bits, zero
// padded on the left.
func (s *Stream) AppendElement(x *big.Int, width int) error {
	if width < 0 || x.Sign() < 0 || x.BitLen() > width {
		return fmt.Errorf("%w: value of %d bits in a %d-bit chunk", ErrOutOfRange, x.BitLen(), width)
	}
	set := s.bits()
	base := s.n
	for j := 0; j < x.BitLen(); j++ {
		if x.Bit(j) == 1 {
			set.Set(base + uint(width-1-j))
		}
	}
	s.n += uint(width)
	return nil
}

// Element returns chunk i of the given width as an integer. Only complete
// chunks can be read.
func (s *Stream) Element(i, width int) (*big.Int, error) {
	if i < 0 || width <= 0 || uint((i+1)*width) > s.n {
		return nil, fmt.Errorf("%w: chunk %d of width %d in %d bits", ErrOutOfRange, i, width, s.n)
	}
	x := new(big.Int)
	set := s.bits()
	start := uint(i * width)
	for j := 0; j < width; j++ {
		if set.Test(start + uint(j)) {
			x.SetBit(x, width-1-j, 1)
		}
	}
	return x, nil
}

// NumChunks is the number of complete chunks of the given width.
func (s *Stream) NumChunks(width int) int {
	if width <= 0 {
		return 0
	}
	return int(s.n) / width
}

// Chunks decodes every complete chunk. A trailing partial chunk is dropped.
func (s *Stream) Chunks(width int) []*big.Int {
	n := s.NumChunks(width)
	out := make([]*big.Int, 0, n)
	for i := 0; i < n; i++ {
		x, _ := s.Element(i, width)
		out = append(out, x)
	}
	return out
}

// Prefix returns a new stream holding the first n bits.
func (s *Stream) Prefix(n int) (*Stream, error) {
	if n < 0 || uint(n) > s.n {
		return nil, fmt.Errorf("%w: prefix %d of %d", ErrOutOfRange, n, s.n)
	}
	out := &Stream{set: bitset.New(uint(n)), n: uint(n)}
	set := s.bits()
	for i, ok := set.NextSet(0); ok && i < uint(n); i, ok = set.NextSet(i + 1) {
		out.set.Set(i)
	}
	return out, nil
}

// Concat returns a new stream with the bits of s followed by those of o.
func (s *Stream) Concat(o *Stream) *Stream {
	out := &Stream{set: s.bits().Clone(), n: s.n}
	set := o.bits()
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		out.set.Set(s.n + i)
	}
	out.n += o.n
	return out
}

// Equal reports whether both streams hold the same bits.
func (s *Stream) Equal(o *Stream) bool {
	if s.n != o.n {
		return false
	}
	a, b := s.bits(), o.bits()
	if a.Count() != b.Count() {
		return false
	}
	for i, ok := a.NextSet(0); ok; i, ok = a.NextSet(i + 1) {
		if !b.Test(i) {
			return false
		}
	}
	return true
}

// FirstDifference returns the index of the first bit where the streams
// differ, comparing only their common length, or -1 when that range matches.
func (s *Stream) FirstDifference(o *Stream) int {
	n := s.n
	if o.n < n {
		n = o.n
	}
	a, b := s.bits(), o.bits()
	for i := uint(0); i < n; i++ {
		if a.Test(i) != b.Test(i) {
			return int(i)
		}
	}
	return -1
}

// String renders the stream as '0' and '1' characters.
func (s *Stream) String() string {
	var sb strings.Builder
	sb.Grow(int(s.n))
	set := s.bits()
	for i := uint(0); i < s.n; i++ {
		if set.Test(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Bytes packs the stream most significant bit first. The last byte is padded
// with zero bits.
func (s *Stream) Bytes() []byte {
	out := make([]byte, (s.n+7)/8)
	set := s.bits()
	for i, ok := set.NextSet(0); ok && i < s.n; i, ok = set.NextSet(i + 1) {
		out[i/8] |= 0x80 >> (i % 8)
	}
	return out
}

// Hex is the hex encoding of Bytes.
func (s *Stream) Hex() string {
	return hex.EncodeToString(s.Bytes())
}
