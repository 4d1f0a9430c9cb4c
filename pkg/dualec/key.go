package dualec

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrMissingBackdoor is returned when prediction is requested without a key
// or the key does not match the parameters.
var ErrMissingBackdoor = errors.New("dualec: missing or invalid backdoor key")

// BackdoorKey holds the discrete logs bd1*Q1 = P1 and bd2*Q2 = P2. Only the
// predictor needs it.
type BackdoorKey struct {
	BD1 *big.Int
	BD2 *big.Int
}

// ValidateKey checks that key relates the generator points of params. Only
// x-coordinates are compared since the predictor never uses y.
func ValidateKey(params *Params, key *BackdoorKey) error {
	if key == nil || key.BD1 == nil || key.BD2 == nil {
		return fmt.Errorf("%w: key is incomplete", ErrMissingBackdoor)
	}

	base, twist := params.Pair.Base, params.Pair.Twist
	got1 := base.ScalarMult(params.Q1, key.BD1)
	if got1.IsInfinity() || got1.X().Cmp(params.P1.X()) != 0 {
		return fmt.Errorf("%w: bd1*Q1 != P1", ErrMissingBackdoor)
	}
	got2 := twist.ScalarMult(params.Q2, key.BD2)
	if got2.IsInfinity() || got2.X().Cmp(params.P2.X()) != 0 {
		return fmt.Errorf("%w: bd2*Q2 != P2", ErrMissingBackdoor)
	}
	return nil
}
