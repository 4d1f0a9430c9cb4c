package dualec

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/mahdiidarabi/dualec/pkg/bitstream"
)

var (
	// ErrSeedOutOfRange is returned for seeds outside [0, p).
	ErrSeedOutOfRange = errors.New("dualec: seed out of range")

	// ErrInvalidLength is returned for negative lengths, or a prediction
	// length shorter than the observed prefix.
	ErrInvalidLength = errors.New("dualec: invalid length")
)

// Generator is the Dual-EC state machine. Each step first updates the state
// and then derives one chunk from the new state. A Generator is not safe for
// concurrent use.
type Generator struct {
	params *Params
	s      *big.Int

	// pending holds bytes of the last chunk not yet handed out by Read.
	pending []byte
}

var _ io.Reader = (*Generator)(nil)

// NewGenerator starts a generator at seed, which must lie in [0, p).
func NewGenerator(params *Params, seed *big.Int) (*Generator, error) {
	if seed == nil || seed.Sign() < 0 || seed.Cmp(params.Pair.Base.P()) >= 0 {
		return nil, fmt.Errorf("%w: seed must be in [0, p)", ErrSeedOutOfRange)
	}
	return &Generator{params: params, s: new(big.Int).Set(seed)}, nil
}

// Next runs one step and returns the output value, a field element.
func (g *Generator) Next() *big.Int {
	g.s = g.params.update(g.s)
	return g.params.output(g.s)
}

// State returns a copy of the current internal state.
func (g *Generator) State() *big.Int {
	return new(big.Int).Set(g.s)
}

// Read fills b with output. Each chunk is serialized big-endian in
// ceil(ChunkBits/8) bytes, so for fields whose size is a multiple of eight the
// byte stream equals the bit stream. It never returns an error.
func (g *Generator) Read(b []byte) (int, error) {
	chunkBytes := (g.params.ChunkBits() + 7) / 8
	n := 0
	for n < len(b) {
		if len(g.pending) == 0 {
			g.pending = g.Next().FillBytes(make([]byte, chunkBytes))
		}
		c := copy(b[n:], g.pending)
		g.pending = g.pending[c:]
		n += c
	}
	return n, nil
}

// appendChunks adds steps full chunks to out.
func (g *Generator) appendChunks(out *bitstream.Stream, steps int) error {
	width := g.params.ChunkBits()
	for i := 0; i < steps; i++ {
		if err := out.AppendElement(g.Next(), width); err != nil {
			return err
		}
	}
	return nil
}

// Generate returns the first length bits produced from seed. The last chunk
// is truncated when length is not a multiple of the chunk width.
func Generate(params *Params, seed *big.Int, length int) (*bitstream.Stream, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	g, err := NewGenerator(params, seed)
	if err != nil {
		return nil, err
	}

	width := params.ChunkBits()
	out := bitstream.New()
	if err := g.appendChunks(out, (length+width-1)/width); err != nil {
		return nil, err
	}
	return out.Prefix(length)
}
