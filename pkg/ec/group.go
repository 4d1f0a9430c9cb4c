package ec

import (
	"math/big"
)

// GroupOps is the group law of a curve. Every argument must be a point of the
// curve implementing the interface.
type GroupOps interface {
	// Add returns p + q.
	Add(p, q *Point) *Point

	// Double returns 2p.
	Double(p *Point) *Point

	// Neg returns -p.
	Neg(p *Point) *Point

	// ScalarMult returns k*p. k may be zero or negative.
	ScalarMult(p *Point, k *big.Int) *Point
}

var _ GroupOps = (*Curve)(nil)

// inv returns v^-1 mod p. v is nonzero by construction at every call site.
func (c *Curve) inv(v *big.Int) *big.Int {
	return new(big.Int).ModInverse(v, c.p)
}

func (c *Curve) mod(v *big.Int) *big.Int {
	return v.Mod(v, c.p)
}

// Neg returns -p.
func (c *Curve) Neg(p *Point) *Point {
	if p.inf {
		return c.Infinity()
	}
	y := new(big.Int).Sub(c.p, p.y)
	return c.point(new(big.Int).Set(p.x), c.mod(y))
}

// Add returns p + q using the affine chord rule.
func (c *Curve) Add(p, q *Point) *Point {
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}
	if p.x.Cmp(q.x) == 0 {
		sum := new(big.Int).Add(p.y, q.y)
		if c.mod(sum).Sign() == 0 {
			return c.Infinity()
		}
		return c.Double(p)
	}

	num := new(big.Int).Sub(q.y, p.y)
	den := new(big.Int).Sub(q.x, p.x)
	lambda := num.Mul(num, c.inv(c.mod(den)))
	c.mod(lambda)

	return c.finishAffine(lambda, p, q.x)
}

// Double returns 2p using the affine tangent rule.
func (c *Curve) Double(p *Point) *Point {
	if p.inf || p.y.Sign() == 0 {
		return c.Infinity()
	}

	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, bigThree)
	num.Add(num, c.a)
	den := new(big.Int).Lsh(p.y, 1)
	lambda := num.Mul(num, c.inv(c.mod(den)))
	c.mod(lambda)

	return c.finishAffine(lambda, p, p.x)
}

// finishAffine computes x3 = l^2 - x1 - x2 and y3 = l(x1 - x3) - y1.
func (c *Curve) finishAffine(lambda *big.Int, p *Point, x2 *big.Int) *Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.x)
	x3.Sub(x3, x2)
	c.mod(x3)

	y3 := new(big.Int).Sub(p.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.y)
	c.mod(y3)

	return c.point(x3, y3)
}

// ScalarMult returns k*p by left-to-right double-and-add. The ladder runs in
// Jacobian coordinates so only the final conversion needs an inversion.
func (c *Curve) ScalarMult(p *Point, k *big.Int) *Point {
	if p.inf || k.Sign() == 0 {
		return c.Infinity()
	}
	if k.Sign() < 0 {
		p = c.Neg(p)
		k = new(big.Int).Neg(k)
	}

	base := c.toJacobian(p)
	acc := jacobian{x: new(big.Int), y: new(big.Int), z: new(big.Int)}
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = c.jacDouble(acc)
		if k.Bit(i) == 1 {
			acc = c.jacAdd(acc, base)
		}
	}
	return c.fromJacobian(acc)
}

// jacobian holds (X, Y, Z) representing the affine point (X/Z^2, Y/Z^3).
// Z = 0 is the point at infinity.
type jacobian struct {
	x, y, z *big.Int
}

func (j jacobian) isInfinity() bool { return j.z.Sign() == 0 }

func (c *Curve) toJacobian(p *Point) jacobian {
	if p.inf {
		return jacobian{x: new(big.Int), y: new(big.Int), z: new(big.Int)}
	}
	return jacobian{
		x: new(big.Int).Set(p.x),
		y: new(big.Int).Set(p.y),
		z: big.NewInt(1),
	}
}

func (c *Curve) fromJacobian(j jacobian) *Point {
	if j.isInfinity() {
		return c.Infinity()
	}
	zinv := c.inv(j.z)
	zinv2 := new(big.Int).Mul(zinv, zinv)
	c.mod(zinv2)

	x := new(big.Int).Mul(j.x, zinv2)
	c.mod(x)
	y := new(big.Int).Mul(j.y, zinv2)
	y.Mul(y, zinv)
	c.mod(y)
	return c.point(x, y)
}

// jacDouble: S = 4XY^2, M = 3X^2 + aZ^4, X' = M^2 - 2S,
// Y' = M(S - X') - 8Y^4, Z' = 2YZ.
func (c *Curve) jacDouble(j jacobian) jacobian {
	if j.isInfinity() || j.y.Sign() == 0 {
		return jacobian{x: new(big.Int), y: new(big.Int), z: new(big.Int)}
	}

	yy := new(big.Int).Mul(j.y, j.y)
	c.mod(yy)

	s := new(big.Int).Mul(j.x, yy)
	s.Mul(s, bigFour)
	c.mod(s)

	zz := new(big.Int).Mul(j.z, j.z)
	c.mod(zz)
	m := new(big.Int).Mul(j.x, j.x)
	m.Mul(m, bigThree)
	if c.a.Sign() != 0 {
		az4 := new(big.Int).Mul(zz, zz)
		az4.Mul(az4, c.a)
		m.Add(m, az4)
	}
	c.mod(m)

	x3 := new(big.Int).Mul(m, m)
	x3.Sub(x3, new(big.Int).Lsh(s, 1))
	c.mod(x3)

	yyyy := new(big.Int).Mul(yy, yy)
	yyyy.Mul(yyyy, bigEight)
	y3 := new(big.Int).Sub(s, x3)
	y3.Mul(y3, m)
	y3.Sub(y3, yyyy)
	c.mod(y3)

	z3 := new(big.Int).Mul(j.y, j.z)
	z3.Mul(z3, bigTwo)
	c.mod(z3)

	return jacobian{x: x3, y: y3, z: z3}
}

// jacAdd: U1 = X1Z2^2, U2 = X2Z1^2, S1 = Y1Z2^3, S2 = Y2Z1^3, H = U2 - U1,
// R = S2 - S1, X3 = R^2 - H^3 - 2U1H^2, Y3 = R(U1H^2 - X3) - S1H^3,
// Z3 = Z1Z2H.
func (c *Curve) jacAdd(p, q jacobian) jacobian {
	if p.isInfinity() {
		return q
	}
	if q.isInfinity() {
		return p
	}

	z1z1 := new(big.Int).Mul(p.z, p.z)
	c.mod(z1z1)
	z2z2 := new(big.Int).Mul(q.z, q.z)
	c.mod(z2z2)

	u1 := new(big.Int).Mul(p.x, z2z2)
	c.mod(u1)
	u2 := new(big.Int).Mul(q.x, z1z1)
	c.mod(u2)

	s1 := new(big.Int).Mul(p.y, q.z)
	s1.Mul(s1, z2z2)
	c.mod(s1)
	s2 := new(big.Int).Mul(q.y, p.z)
	s2.Mul(s2, z1z1)
	c.mod(s2)

	if u1.Cmp(u2) == 0 {
		if s1.Cmp(s2) != 0 {
			return jacobian{x: new(big.Int), y: new(big.Int), z: new(big.Int)}
		}
		return c.jacDouble(p)
	}

	h := new(big.Int).Sub(u2, u1)
	c.mod(h)
	r := new(big.Int).Sub(s2, s1)
	c.mod(r)

	hh := new(big.Int).Mul(h, h)
	c.mod(hh)
	hhh := new(big.Int).Mul(h, hh)
	c.mod(hhh)
	v := new(big.Int).Mul(u1, hh)
	c.mod(v)

	x3 := new(big.Int).Mul(r, r)
	x3.Sub(x3, hhh)
	x3.Sub(x3, new(big.Int).Lsh(v, 1))
	c.mod(x3)

	y3 := new(big.Int).Sub(v, x3)
	y3.Mul(y3, r)
	y3.Sub(y3, new(big.Int).Mul(s1, hhh))
	c.mod(y3)

	z3 := new(big.Int).Mul(p.z, q.z)
	z3.Mul(z3, h)
	c.mod(z3)

	return jacobian{x: x3, y: y3, z: z3}
}
