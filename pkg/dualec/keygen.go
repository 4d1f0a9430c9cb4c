package dualec

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/mahdiidarabi/dualec/internal/modmath"
	"github.com/mahdiidarabi/dualec/pkg/ec"
)

// GenerateBackdoor builds fresh parameters over base together with their
// backdoor. Q1 and Q2 are random points, the scalars are random in [1, p) and
// P = bd*Q on each curve. A nil d selects the smallest quadratic non-residue
// mod p, and a nil rng selects crypto/rand.
func GenerateBackdoor(rng io.Reader, base *ec.Curve, d *big.Int, layout ControlLayout) (*Params, *BackdoorKey, error) {
	if rng == nil {
		rng = rand.Reader
	}
	p := base.P()

	if d == nil {
		var err error
		if d, err = modmath.FindQuadraticNonResidue(p); err != nil {
			return nil, nil, fmt.Errorf("pick twist factor: %w", err)
		}
	}
	pair, err := ec.NewTwistPair(base, d)
	if err != nil {
		return nil, nil, err
	}
	if !pair.IsQuadraticTwist() {
		return nil, nil, fmt.Errorf("%w: twist factor %s is a square mod p",
			ErrInvalidParams, d.Text(10))
	}

	q1, p1, bd1, err := backdooredPair(rng, pair.Base)
	if err != nil {
		return nil, nil, fmt.Errorf("base curve: %w", err)
	}
	q2, p2, bd2, err := backdooredPair(rng, pair.Twist)
	if err != nil {
		return nil, nil, fmt.Errorf("twist: %w", err)
	}

	params, err := NewParams(pair, p1, q1, p2, q2, layout)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("Generated parameters %v", params)
	return params, &BackdoorKey{BD1: bd1, BD2: bd2}, nil
}

// backdooredPair returns a random Q, a random scalar bd and P = bd*Q.
func backdooredPair(rng io.Reader, c *ec.Curve) (q, p *ec.Point, bd *big.Int, err error) {
	q, err = ec.RandomPoint(c, rng, 0)
	if err != nil {
		return nil, nil, nil, err
	}

	limit := new(big.Int).Sub(c.P(), big.NewInt(1))
	bd, err = rand.Int(rng, limit)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("sample scalar: %w", err)
	}
	bd.Add(bd, big.NewInt(1))

	p = c.ScalarMult(q, bd)
	if p.IsInfinity() {
		return nil, nil, nil, fmt.Errorf("%w: bd*Q is the point at infinity", ErrInvalidParams)
	}
	return q, p, bd, nil
}
