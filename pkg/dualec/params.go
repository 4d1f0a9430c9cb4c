package dualec

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/mahdiidarabi/dualec/pkg/ec"
)

// ErrInvalidParams is returned when generator parameters are inconsistent.
var ErrInvalidParams = errors.New("dualec: invalid parameters")

// ControlLayout selects which low-order state bits pick the curve branch for
// the state update and for the output.
type ControlLayout int

const (
	// CoupledControl uses bit 0 of the state for both decisions.
	CoupledControl ControlLayout = iota

	// SplitControl uses bit 0 for the update and bit 1 for the output.
	SplitControl
)

// splitLayoutAbove is the field size beyond which DefaultLayout splits the
// control bits.
const splitLayoutAbove = 256

// DefaultLayout returns CoupledControl for fields of up to 256 bits and
// SplitControl for wider ones.
func DefaultLayout(chunkBits int) ControlLayout {
	if chunkBits > splitLayoutAbove {
		return SplitControl
	}
	return CoupledControl
}

func (l ControlLayout) String() string {
	switch l {
	case CoupledControl:
		return "coupled"
	case SplitControl:
		return "split"
	default:
		return fmt.Sprintf("ControlLayout(%d)", int(l))
	}
}

// ParseLayout is the inverse of ControlLayout.String.
func ParseLayout(s string) (ControlLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coupled":
		return CoupledControl, nil
	case "split":
		return SplitControl, nil
	}
	return 0, fmt.Errorf("%w: unknown control layout %q", ErrInvalidParams, s)
}

// Branch names the curve a step ran on.
type Branch int

const (
	// BaseBranch uses P1/Q1 on the base curve.
	BaseBranch Branch = iota

	// TwistBranch uses P2/Q2 on the twist.
	TwistBranch
)

func (b Branch) String() string {
	if b == TwistBranch {
		return "twist"
	}
	return "base"
}

// Params are the public generator parameters. They are immutable once built
// and may be shared between goroutines.
type Params struct {
	Pair *ec.TwistPair

	P1, Q1 *ec.Point // on Pair.Base
	P2, Q2 *ec.Point // on Pair.Twist

	Layout ControlLayout
}

// NewParams checks that the points sit on the curves they are used with and
// that the pair is a genuine quadratic twist.
func NewParams(pair *ec.TwistPair, p1, q1, p2, q2 *ec.Point, layout ControlLayout) (*Params, error) {
	if pair == nil || pair.Base == nil || pair.Twist == nil {
		return nil, fmt.Errorf("%w: missing curve pair", ErrInvalidParams)
	}
	if !pair.IsQuadraticTwist() {
		return nil, fmt.Errorf("%w: twist factor %s is a square mod p",
			ErrInvalidParams, pair.D().Text(16))
	}
	if layout != CoupledControl && layout != SplitControl {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, layout)
	}

	checks := []struct {
		name  string
		pt    *ec.Point
		curve *ec.Curve
	}{
		{"P1", p1, pair.Base},
		{"Q1", q1, pair.Base},
		{"P2", p2, pair.Twist},
		{"Q2", q2, pair.Twist},
	}
	for _, c := range checks {
		if c.pt == nil || c.pt.IsInfinity() {
			return nil, fmt.Errorf("%w: %s is missing or the point at infinity",
				ErrInvalidParams, c.name)
		}
		if !c.pt.Curve().Equal(c.curve) || !c.curve.IsOnCurve(c.pt.X(), c.pt.Y()) {
			return nil, fmt.Errorf("%w: %s is not on %s", ErrInvalidParams,
				c.name, c.curve.Name())
		}
	}

	return &Params{Pair: pair, P1: p1, Q1: q1, P2: p2, Q2: q2, Layout: layout}, nil
}

// ChunkBits is the width of one output chunk, the bit length of p.
func (p *Params) ChunkBits() int { return p.Pair.Base.BitSize() }

// FieldOrder returns a copy of p.
func (p *Params) FieldOrder() *big.Int { return p.Pair.Base.P() }

func (p *Params) updateBranch(s *big.Int) Branch {
	return Branch(s.Bit(0))
}

func (p *Params) outputBranch(s *big.Int) Branch {
	if p.Layout == SplitControl {
		return Branch(s.Bit(1))
	}
	return Branch(s.Bit(0))
}

// advance maps s to x(s*P1), or to Project(x(s*P2)) on the twist branch.
func (p *Params) advance(s *big.Int, b Branch) *big.Int {
	if b == TwistBranch {
		return p.Pair.Project(p.Pair.Twist.ScalarMult(p.P2, s).XOrZero())
	}
	return p.Pair.Base.ScalarMult(p.P1, s).XOrZero()
}

// emit maps s to x(s*Q1), or to Project(x(s*Q2)) on the twist branch.
func (p *Params) emit(s *big.Int, b Branch) *big.Int {
	if b == TwistBranch {
		return p.Pair.Project(p.Pair.Twist.ScalarMult(p.Q2, s).XOrZero())
	}
	return p.Pair.Base.ScalarMult(p.Q1, s).XOrZero()
}

func (p *Params) update(s *big.Int) *big.Int {
	return p.advance(s, p.updateBranch(s))
}

func (p *Params) output(s *big.Int) *big.Int {
	return p.emit(s, p.outputBranch(s))
}

func (p *Params) String() string {
	return fmt.Sprintf("%s d=%s layout=%v", p.Pair.Base.Name(),
		p.Pair.D().Text(10), p.Layout)
}
