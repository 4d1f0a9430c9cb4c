package ec

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/dualec/internal/modmath"
)

// ErrInvalidTwistFactor is returned when the twist factor is 0 mod p.
var ErrInvalidTwistFactor = errors.New("ec: twist factor must be nonzero mod p")

// BuildTwist returns the curve y^2 = x^3 + d^2*a*x + d^3*b over the field of
// base.
func BuildTwist(base *Curve, d *big.Int, name string) (*Curve, error) {
	if d == nil {
		return nil, ErrInvalidTwistFactor
	}
	dm := new(big.Int).Mod(d, base.p)
	if dm.Sign() == 0 {
		return nil, ErrInvalidTwistFactor
	}

	d2 := new(big.Int).Mul(dm, dm)
	d3 := new(big.Int).Mul(d2, dm)
	a2 := d2.Mul(d2, base.a)
	b2 := d3.Mul(d3, base.b)
	return NewCurve(name, base.p, a2, b2)
}

// TwistPair couples a base curve with its twist by d. A twist x-coordinate x2
// stands for the field value x2*d^-1, which is how the generator and the
// predictor move values between the two groups.
type TwistPair struct {
	Base  *Curve
	Twist *Curve

	d    *big.Int
	dInv *big.Int
}

// NewTwistPair builds the twist of base by d and names it "<base>_twist".
func NewTwistPair(base *Curve, d *big.Int) (*TwistPair, error) {
	twist, err := BuildTwist(base, d, base.name+"_twist")
	if err != nil {
		return nil, err
	}
	dm := new(big.Int).Mod(d, base.p)
	dInv, err := modmath.ModInverse(dm, base.p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTwistFactor, err)
	}
	return &TwistPair{Base: base, Twist: twist, d: dm, dInv: dInv}, nil
}

// D returns a copy of the twist factor.
func (t *TwistPair) D() *big.Int { return new(big.Int).Set(t.d) }

// DInv returns a copy of d^-1 mod p.
func (t *TwistPair) DInv() *big.Int { return new(big.Int).Set(t.dInv) }

// Embed maps a field value u to the twist x-coordinate u*d mod p.
func (t *TwistPair) Embed(u *big.Int) *big.Int {
	x := new(big.Int).Mul(u, t.d)
	return x.Mod(x, t.Base.p)
}

// Project maps a twist x-coordinate x2 to the field value x2*d^-1 mod p.
func (t *TwistPair) Project(x2 *big.Int) *big.Int {
	u := new(big.Int).Mul(x2, t.dInv)
	return u.Mod(u, t.Base.p)
}

// IsQuadraticTwist reports whether d is a non-residue. Only then does every
// x with nonzero rhs have a point on exactly one of Base (at x) and Twist
// (at Embed(x)); for a residue d the two curves are isomorphic.
func (t *TwistPair) IsQuadraticTwist() bool {
	l, err := modmath.Legendre(t.d, t.Base.p)
	return err == nil && l == -1
}
