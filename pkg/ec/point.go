package ec

import (
	"fmt"
	"math/big"
)

// Point is an immutable element of a curve group: either an affine point or
// the point at infinity. It refers to its curve without owning it.
type Point struct {
	curve *Curve
	x, y  *big.Int
	inf   bool
}

// Curve returns the curve the point belongs to.
func (p *Point) Curve() *Curve { return p.curve }

// IsInfinity reports whether p is the group identity.
func (p *Point) IsInfinity() bool { return p.inf }

// X returns a copy of the x-coordinate, or nil for the point at infinity.
func (p *Point) X() *big.Int {
	if p.inf {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y-coordinate, or nil for the point at infinity.
func (p *Point) Y() *big.Int {
	if p.inf {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// XOrZero returns the x-coordinate, mapping the point at infinity to 0.
func (p *Point) XOrZero() *big.Int {
	if p.inf {
		return new(big.Int)
	}
	return new(big.Int).Set(p.x)
}

// Equal reports whether p and q are the same point on equal curves.
func (p *Point) Equal(q *Point) bool {
	if !p.curve.Equal(q.curve) {
		return false
	}
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

func (p *Point) String() string {
	if p.inf {
		return "O"
	}
	return fmt.Sprintf("(%s, %s)", p.x.Text(16), p.y.Text(16))
}
