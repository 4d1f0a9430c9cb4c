package ec

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrPointNotOnCurve is returned when explicit coordinates do not satisfy
	// the curve equation.
	ErrPointNotOnCurve = errors.New("ec: point is not on curve")

	// ErrInvalidCurve is returned for a malformed curve definition.
	ErrInvalidCurve = errors.New("ec: invalid curve")
)

var (
	bigOne   = big.NewInt(1)
	bigTwo   = big.NewInt(2)
	bigThree = big.NewInt(3)
	bigFour  = big.NewInt(4)
	bigEight = big.NewInt(8)
)

// Curve is a short-Weierstrass curve y^2 = x^3 + a*x + b over the prime field
// of order p. A Curve is immutable once built and safe to share between
// goroutines.
type Curve struct {
	name string
	p    *big.Int
	a    *big.Int
	b    *big.Int
}

// NewCurve builds a curve from its field modulus and coefficients. The
// coefficients are reduced mod p. p is assumed prime and the curve is assumed
// non-singular; IsSingular can be used to check the latter.
func NewCurve(name string, p, a, b *big.Int) (*Curve, error) {
	if p == nil || a == nil || b == nil {
		return nil, fmt.Errorf("%w: nil parameter", ErrInvalidCurve)
	}
	if p.Cmp(bigThree) <= 0 || p.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be an odd prime > 3", ErrInvalidCurve)
	}
	return &Curve{
		name: name,
		p:    new(big.Int).Set(p),
		a:    new(big.Int).Mod(a, p),
		b:    new(big.Int).Mod(b, p),
	}, nil
}

// Name returns the curve's label.
func (c *Curve) Name() string { return c.name }

// P returns a copy of the field modulus.
func (c *Curve) P() *big.Int { return new(big.Int).Set(c.p) }

// A returns a copy of the linear coefficient.
func (c *Curve) A() *big.Int { return new(big.Int).Set(c.a) }

// B returns a copy of the constant coefficient.
func (c *Curve) B() *big.Int { return new(big.Int).Set(c.b) }

// BitSize is the bit length of the field modulus.
func (c *Curve) BitSize() int { return c.p.BitLen() }

// InField reports whether 0 <= v < p.
func (c *Curve) InField(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(c.p) < 0
}

// RHS evaluates x^3 + a*x + b mod p.
func (c *Curve) RHS(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Mul(r, x)
	ax := new(big.Int).Mul(c.a, x)
	r.Add(r, ax)
	r.Add(r, c.b)
	return r.Mod(r, c.p)
}

// IsOnCurve reports whether (x, y) satisfies the curve equation.
func (c *Curve) IsOnCurve(x, y *big.Int) bool {
	if !c.InField(x) || !c.InField(y) {
		return false
	}
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, c.p)
	return y2.Cmp(c.RHS(x)) == 0
}

// IsSingular reports whether 4a^3 + 27b^2 = 0 mod p.
func (c *Curve) IsSingular() bool {
	a3 := new(big.Int).Exp(c.a, bigThree, c.p)
	a3.Mul(a3, bigFour)
	b2 := new(big.Int).Mul(c.b, c.b)
	b2.Mul(b2, big.NewInt(27))
	a3.Add(a3, b2)
	return a3.Mod(a3, c.p).Sign() == 0
}

// Infinity returns the identity element of the curve group.
func (c *Curve) Infinity() *Point {
	return &Point{curve: c, inf: true}
}

// NewPoint returns the affine point (x, y) after checking it lies on c.
func (c *Curve) NewPoint(x, y *big.Int) (*Point, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("%w: nil coordinate", ErrPointNotOnCurve)
	}
	if !c.IsOnCurve(x, y) {
		return nil, fmt.Errorf("%w: %s", ErrPointNotOnCurve, c.name)
	}
	return c.point(new(big.Int).Set(x), new(big.Int).Set(y)), nil
}

// point wraps already reduced coordinates without copying or validation.
func (c *Curve) point(x, y *big.Int) *Point {
	return &Point{curve: c, x: x, y: y}
}

// Equal reports whether two curves have the same field and coefficients.
func (c *Curve) Equal(o *Curve) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil {
		return false
	}
	return c.p.Cmp(o.p) == 0 && c.a.Cmp(o.a) == 0 && c.b.Cmp(o.b) == 0
}

func (c *Curve) String() string {
	return fmt.Sprintf("%s: y^2 = x^3 + %s*x + %s mod %s", c.name,
		c.a.Text(16), c.b.Text(16), c.p.Text(16))
}
