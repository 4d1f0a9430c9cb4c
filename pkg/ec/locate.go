package ec

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/mahdiidarabi/dualec/internal/modmath"
)

// DefaultRandomPointTries bounds RandomPoint's rejection sampling. Each try
// succeeds with probability close to 1/2.
const DefaultRandomPointTries = 256

var (
	// ErrNotOnCurve is returned by PointFromX when no point has the given
	// x-coordinate. It is an expected outcome, not a failure of the caller.
	ErrNotOnCurve = errors.New("ec: no point with that x-coordinate")

	// ErrExhaustedRetries is returned when RandomPoint gives up.
	ErrExhaustedRetries = errors.New("ec: random point search exhausted retries")
)

// PointFromX returns a point of c with the given x-coordinate. When two
// points exist only one of them is returned and callers must not depend on
// which. An x outside [0, p) has no point.
func PointFromX(c *Curve, x *big.Int) (*Point, error) {
	if !c.InField(x) {
		return nil, ErrNotOnCurve
	}

	rhs := c.RHS(x)
	if rhs.Sign() == 0 {
		return c.point(new(big.Int).Set(x), new(big.Int)), nil
	}

	l, err := modmath.Legendre(rhs, c.p)
	if err != nil {
		return nil, err
	}
	if l != 1 {
		return nil, ErrNotOnCurve
	}

	y, err := modmath.SqrtMod(rhs, c.p)
	if err != nil {
		return nil, fmt.Errorf("sqrt of curve rhs: %w", err)
	}
	return c.point(new(big.Int).Set(x), y), nil
}

// RandomPoint samples x uniformly from [0, p) until PointFromX succeeds. A nil
// reader selects crypto/rand and maxTries <= 0 selects
// DefaultRandomPointTries.
func RandomPoint(c *Curve, r io.Reader, maxTries int) (*Point, error) {
	if r == nil {
		r = rand.Reader
	}
	if maxTries <= 0 {
		maxTries = DefaultRandomPointTries
	}

	for i := 0; i < maxTries; i++ {
		x, err := rand.Int(r, c.p)
		if err != nil {
			return nil, fmt.Errorf("sample x: %w", err)
		}
		pt, err := PointFromX(c, x)
		if errors.Is(err, ErrNotOnCurve) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return pt, nil
	}
	return nil, fmt.Errorf("%w after %d tries on %s", ErrExhaustedRetries, maxTries, c.name)
}
