package dualec

import (
	"math/big"

	"github.com/mahdiidarabi/dualec/pkg/bitstream"
)

// VerifyConfig tunes how much evidence the predictor needs before it trusts a
// recovered state.
type VerifyConfig struct {
	// VerifyChunks is how many observed chunks after the candidate must be
	// reproduced. Fewer are used when the observed prefix ends sooner, but
	// never zero. Values below 1 mean 1.
	VerifyChunks int

	// MaxCandidates caps how many chunk positions are tried (0 = all).
	MaxCandidates int

	// AllowUnverified accepts a state recovered from a single observed chunk
	// with nothing to check it against. Only honoured for CoupledControl,
	// where recovery from one chunk is exact.
	AllowUnverified bool
}

// DefaultVerifyConfig checks one chunk ahead and scans every position.
func DefaultVerifyConfig() VerifyConfig {
	return VerifyConfig{
		VerifyChunks:    1,
		MaxCandidates:   0,
		AllowUnverified: false,
	}
}

func (c VerifyConfig) verifyChunks() int {
	if c.VerifyChunks < 1 {
		return 1
	}
	return c.VerifyChunks
}

// Prediction is the result of a successful Predict call.
type Prediction struct {
	// Stream is the observed prefix followed by the predicted continuation.
	Stream *bitstream.Stream

	// CandidateIndex is the chunk the state was recovered from.
	CandidateIndex int

	// Branch is the curve the candidate chunk was found on.
	Branch Branch

	// RecoveredState is the generator state right after the candidate chunk
	// was produced.
	RecoveredState *big.Int

	// Verified is false only for AllowUnverified predictions.
	Verified bool

	// VerifiedChunks is how many observed chunks the state reproduced.
	VerifiedChunks int
}
