package dualec

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/dualec/pkg/bitstream"
	"github.com/mahdiidarabi/dualec/pkg/ec"
)

var (
	// ErrPredictionFailed means no candidate chunk produced a state that
	// reproduced the observed output. It is an expected outcome.
	ErrPredictionFailed = errors.New("dualec: prediction failed")

	// ErrAmbiguousOrMissingPoint means a chunk had a point on neither the
	// base curve nor the twist. The chunk is skipped.
	ErrAmbiguousOrMissingPoint = errors.New("dualec: chunk has no point on curve or twist")

	// ErrInsufficientOutput means the observed prefix is too short.
	ErrInsufficientOutput = errors.New("dualec: insufficient observed output")

	// ErrInvariantViolation means an accepted prediction disagrees with the
	// observed bits. It indicates a bug, not bad luck.
	ErrInvariantViolation = errors.New("dualec: internal invariant violated")
)

// RecoverState turns one output chunk r back into the generator state that
// follows it. It returns the branch r was emitted on.
//
// The output is x(s*Q) on one of the two curves. Lifting r to a point R gives
// +-s*Q, and bd*R = +-s*P has the x-coordinate the next update would compute.
// Which root of y is picked does not matter because only x is used.
//
// With SplitControl the result is the true next state only when bits 0 and 1
// of s agree; callers must verify it.
func RecoverState(params *Params, key *BackdoorKey, r *big.Int) (*big.Int, Branch, error) {
	pair := params.Pair
	if !pair.Base.InField(r) {
		return nil, 0, fmt.Errorf("%w: chunk is not a field element", ErrAmbiguousOrMissingPoint)
	}

	pt, err := ec.PointFromX(pair.Base, r)
	switch {
	case err == nil:
		return pair.Base.ScalarMult(pt, key.BD1).XOrZero(), BaseBranch, nil
	case !errors.Is(err, ec.ErrNotOnCurve):
		return nil, 0, err
	}

	pt, err = ec.PointFromX(pair.Twist, pair.Embed(r))
	switch {
	case err == nil:
		s := pair.Twist.ScalarMult(pt, key.BD2).XOrZero()
		return pair.Project(s), TwistBranch, nil
	case errors.Is(err, ec.ErrNotOnCurve):
		return nil, 0, ErrAmbiguousOrMissingPoint
	default:
		return nil, 0, err
	}
}

// resume emits chunks starting from a recovered state. The first chunk is the
// output of s itself; later chunks come from ordinary generator steps.
type resume struct {
	params *Params
	first  *big.Int
	gen    *Generator
}

func newResume(params *Params, s *big.Int) *resume {
	return &resume{
		params: params,
		first:  params.output(s),
		gen:    &Generator{params: params, s: new(big.Int).Set(s)},
	}
}

func (r *resume) next() *big.Int {
	if r.first != nil {
		x := r.first
		r.first = nil
		return x
	}
	return r.gen.Next()
}

// Predict recovers the generator state from observed output and returns the
// first length bits of the stream.
//
// Args:
//   - ctx: checked between candidate chunks.
//   - params, key: public parameters and the matching backdoor.
//   - observed: a prefix of the generator output, at least one chunk long.
//   - length: total bits wanted, at least observed.Len().
//   - cfg: verification policy.
//
// Returns:
//   - the prediction, or ErrPredictionFailed when no candidate verified.
func Predict(ctx context.Context, params *Params, key *BackdoorKey,
	observed *bitstream.Stream, length int, cfg VerifyConfig) (*Prediction, error) {

	if key == nil || key.BD1 == nil || key.BD2 == nil {
		return nil, ErrMissingBackdoor
	}
	if length < observed.Len() {
		return nil, fmt.Errorf("%w: want %d bits but observed %d", ErrInvalidLength,
			length, observed.Len())
	}

	width := params.ChunkBits()
	avail := observed.NumChunks(width)
	if avail == 0 {
		return nil, fmt.Errorf("%w: need %d bits, have %d", ErrInsufficientOutput,
			width, observed.Len())
	}
	if avail == 1 {
		if !cfg.AllowUnverified || params.Layout != CoupledControl {
			return nil, fmt.Errorf("%w: need a second chunk to verify against",
				ErrInsufficientOutput)
		}
		return predictUnverified(params, key, observed, length)
	}

	// The last chunk can only serve as verification data.
	candidates := avail - 1
	if cfg.MaxCandidates > 0 && cfg.MaxCandidates < candidates {
		candidates = cfg.MaxCandidates
	}

	for i := 0; i < candidates; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := observed.Element(i, width)
		if err != nil {
			return nil, err
		}
		s, branch, err := RecoverState(params, key, r)
		if errors.Is(err, ErrAmbiguousOrMissingPoint) {
			log.Warnf("Chunk %d: %v", i, err)
			continue
		}
		if err != nil {
			return nil, err
		}

		checks := avail - 1 - i
		if k := cfg.verifyChunks(); k < checks {
			checks = k
		}
		if !reproduces(params, s, observed, i+1, checks) {
			log.Debugf("Chunk %d (%v): recovered state rejected", i, branch)
			continue
		}

		log.Infof("Chunk %d (%v): state verified against %d chunk(s)", i, branch, checks)
		stream, err := assemble(params, s, observed, i, length)
		if err != nil {
			return nil, err
		}
		return &Prediction{
			Stream:         stream,
			CandidateIndex: i,
			Branch:         branch,
			RecoveredState: s,
			Verified:       true,
			VerifiedChunks: checks,
		}, nil
	}

	return nil, fmt.Errorf("%w: %d candidate chunk(s) tried", ErrPredictionFailed, candidates)
}

func predictUnverified(params *Params, key *BackdoorKey, observed *bitstream.Stream,
	length int) (*Prediction, error) {

	r, err := observed.Element(0, params.ChunkBits())
	if err != nil {
		return nil, err
	}
	s, branch, err := RecoverState(params, key, r)
	if err != nil {
		return nil, err
	}

	log.Infof("Chunk 0 (%v): accepting unverified state", branch)
	stream, err := assemble(params, s, observed, 0, length)
	if err != nil {
		return nil, err
	}
	return &Prediction{
		Stream:         stream,
		CandidateIndex: 0,
		Branch:         branch,
		RecoveredState: s,
	}, nil
}

// reproduces reports whether resuming from s yields observed chunks
// from..from+count-1.
func reproduces(params *Params, s *big.Int, observed *bitstream.Stream, from, count int) bool {
	width := params.ChunkBits()
	res := newResume(params, s)
	for j := 0; j < count; j++ {
		want, err := observed.Element(from+j, width)
		if err != nil {
			return false
		}
		if res.next().Cmp(want) != 0 {
			return false
		}
	}
	return true
}

// assemble keeps the observed chunks up to and including candidate, appends
// the continuation from s and checks the result against every observed bit.
func assemble(params *Params, s *big.Int, observed *bitstream.Stream, candidate,
	length int) (*bitstream.Stream, error) {

	width := params.ChunkBits()
	keep := (candidate + 1) * width
	out, err := observed.Prefix(keep)
	if err != nil {
		return nil, err
	}

	res := newResume(params, s)
	for out.Len() < length {
		if err := out.AppendElement(res.next(), width); err != nil {
			return nil, err
		}
	}
	if out.Len() > length {
		if out, err = out.Prefix(length); err != nil {
			return nil, err
		}
	}

	if i := out.FirstDifference(observed); i >= 0 {
		log.Warnf("Accepted state disagrees with observed bit %d", i)
		return nil, fmt.Errorf("%w: prediction differs from observed bit %d",
			ErrInvariantViolation, i)
	}
	log.Debugf("Recovered state %v", newLogClosure(func() string {
		return s.Text(16)
	}))
	return out, nil
}
