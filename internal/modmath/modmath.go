// Package modmath implements the prime-field helpers used by the curve layer:
// Legendre symbol, modular inverse and exponentiation, non-residue search and
// Tonelli-Shanks square roots.
//
// None of these routines are constant time.
package modmath

import (
	"errors"
	"math/big"
)

var (
	// ErrInvalidModulus is returned when the modulus is not an odd integer > 2.
	ErrInvalidModulus = errors.New("modmath: modulus must be an odd integer greater than 2")

	// ErrNotInvertible is returned when gcd(a, p) != 1.
	ErrNotInvertible = errors.New("modmath: element is not invertible")

	// ErrNotAQuadraticResidue is returned by SqrtMod for a non-residue input.
	// Callers are expected to test residuosity first.
	ErrNotAQuadraticResidue = errors.New("modmath: not a quadratic residue")

	// ErrNoRootFound signals a Tonelli-Shanks refinement that could not make
	// progress. It cannot happen for a prime modulus and a residue input.
	ErrNoRootFound = errors.New("modmath: tonelli-shanks found no root")
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

func checkModulus(p *big.Int) error {
	if p == nil || p.Cmp(two) <= 0 || p.Bit(0) == 0 {
		return ErrInvalidModulus
	}
	return nil
}

// Mod returns a mod p in [0, p).
func Mod(a, p *big.Int) *big.Int {
	return new(big.Int).Mod(a, p)
}

// Exp returns a^e mod p.
func Exp(a, e, p *big.Int) *big.Int {
	return new(big.Int).Exp(a, e, p)
}

// Legendre returns the Legendre symbol (a|p) as -1, 0 or 1, computed with
// Euler's criterion. p is assumed prime; only its oddness is checked.
func Legendre(a, p *big.Int) (int, error) {
	if err := checkModulus(p); err != nil {
		return 0, err
	}
	r := Mod(a, p)
	if r.Sign() == 0 {
		return 0, nil
	}

	// (p-1)/2
	e := new(big.Int).Rsh(p, 1)
	v := Exp(r, e, p)
	if v.Cmp(one) == 0 {
		return 1, nil
	}
	return -1, nil
}

// IsQuadraticResidue reports whether a is a nonzero square mod p.
func IsQuadraticResidue(a, p *big.Int) (bool, error) {
	l, err := Legendre(a, p)
	if err != nil {
		return false, err
	}
	return l == 1, nil
}

// ModInverse returns a^-1 mod p.
func ModInverse(a, p *big.Int) (*big.Int, error) {
	if p == nil || p.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	r := Mod(a, p)
	if r.Sign() == 0 {
		return nil, ErrNotInvertible
	}
	inv := new(big.Int).ModInverse(r, p)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	return inv, nil
}

// FindQuadraticNonResidue returns the smallest z >= 2 with (z|p) = -1.
func FindQuadraticNonResidue(p *big.Int) (*big.Int, error) {
	if err := checkModulus(p); err != nil {
		return nil, err
	}
	for z := big.NewInt(2); z.Cmp(p) < 0; z.Add(z, one) {
		l, err := Legendre(z, p)
		if err != nil {
			return nil, err
		}
		if l == -1 {
			return z, nil
		}
	}
	return nil, ErrNoRootFound
}

// SqrtMod returns x with x^2 = n (mod p) using Tonelli-Shanks. Only one of the
// two roots is returned; the other is p - x.
func SqrtMod(n, p *big.Int) (*big.Int, error) {
	l, err := Legendre(n, p)
	if err != nil {
		return nil, err
	}
	if l == 0 {
		return new(big.Int), nil
	}
	if l != 1 {
		return nil, ErrNotAQuadraticResidue
	}
	a := Mod(n, p)

	// p-1 = q * 2^s with q odd
	q := new(big.Int).Sub(p, one)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	z, err := FindQuadraticNonResidue(p)
	if err != nil {
		return nil, err
	}

	c := Exp(z, q, p)
	x := Exp(a, new(big.Int).Rsh(new(big.Int).Add(q, one), 1), p)
	t := Exp(a, q, p)
	m := s

	for t.Cmp(one) != 0 {
		// least i with t^(2^i) = 1
		i := 0
		tmp := new(big.Int).Set(t)
		for tmp.Cmp(one) != 0 && i < m {
			tmp.Mul(tmp, tmp).Mod(tmp, p)
			i++
		}
		if i == m {
			return nil, ErrNoRootFound
		}

		e := new(big.Int).Lsh(one, uint(m-i-1))
		b := Exp(c, e, p)
		bb := new(big.Int).Mul(b, b)
		bb.Mod(bb, p)

		x.Mul(x, b).Mod(x, p)
		t.Mul(t, bb).Mod(t, p)
		c = bb
		m = i
	}
	return x, nil
}
