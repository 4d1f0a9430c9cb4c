// Package experiment runs many independent generate-then-predict trials
// against one set of backdoored parameters and tallies the outcomes.
package experiment

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/sync/errgroup"

	"github.com/mahdiidarabi/dualec/pkg/dualec"
)

// ErrInvalidConfig is returned by Run for unusable settings.
var ErrInvalidConfig = errors.New("experiment: invalid config")

// Config controls a batch of trials.
type Config struct {
	// Trials is the number of independent seeds to try.
	Trials int

	// Workers bounds parallelism (0 = runtime.NumCPU()).
	Workers int

	// Length is the number of bits generated and predicted per trial.
	Length int

	// PrefixChunks is how many chunks the predictor observes.
	PrefixChunks int

	// MasterSeed makes the per-trial seeds reproducible. When empty, seeds
	// come from crypto/rand.
	MasterSeed []byte

	// CorruptKey adds one to both backdoor scalars, which should make every
	// trial fail.
	CorruptKey bool

	// Verify is passed to the predictor.
	Verify dualec.VerifyConfig
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Trials:       100,
		Workers:      0, // Auto-detect
		Length:       2048,
		PrefixChunks: 2,
		Verify:       dualec.DefaultVerifyConfig(),
	}
}

// Summary tallies trial outcomes.
type Summary struct {
	Trials     int
	Matches    int
	Failures   int
	Mismatches int
	Errors     int
	Elapsed    time.Duration
}

// MatchRate is the fraction of trials whose prediction equalled the
// generated stream.
func (s *Summary) MatchRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Matches) / float64(s.Trials)
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d trials: %d match, %d failed, %d mismatch, %d error (%.2f%%) in %v",
		s.Trials, s.Matches, s.Failures, s.Mismatches, s.Errors, 100*s.MatchRate(), s.Elapsed)
}

// TrialSeed derives the seed of trial n from master with HKDF-SHA256, info
// "trial-<n>". The output is reduced mod p after drawing 64 extra bits so the
// bias is negligible.
func TrialSeed(master []byte, n int, p *big.Int) (*big.Int, error) {
	r := hkdf.New(sha256.New, master, nil, []byte(fmt.Sprintf("trial-%d", n)))
	buf := make([]byte, (p.BitLen()+7)/8+8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("derive seed %d: %w", n, err)
	}
	seed := new(big.Int).SetBytes(buf)
	return seed.Mod(seed, p), nil
}

func (cfg *Config) validate(params *dualec.Params) error {
	switch {
	case cfg.Trials <= 0:
		return fmt.Errorf("%w: trials must be positive", ErrInvalidConfig)
	case cfg.PrefixChunks <= 0:
		return fmt.Errorf("%w: prefix chunks must be positive", ErrInvalidConfig)
	case cfg.PrefixChunks*params.ChunkBits() > cfg.Length:
		return fmt.Errorf("%w: a %d-chunk prefix does not fit in %d bits",
			ErrInvalidConfig, cfg.PrefixChunks, cfg.Length)
	}
	return nil
}

// Run executes cfg.Trials trials on a pool of workers. Each trial picks a
// seed, generates cfg.Length bits, hands the first cfg.PrefixChunks chunks to
// the predictor and compares its answer with the generated stream.
//
// Args:
//   - ctx: Context for cancellation.
//   - params, key: the parameters under test and their backdoor.
//   - cfg: trial settings.
//   - reg: where to register metrics; may be nil.
//
// Returns:
//   - Summary of all trials, or an error if the run was cancelled or
//     misconfigured.
func Run(ctx context.Context, params *dualec.Params, key *dualec.BackdoorKey, cfg Config,
	reg prometheus.Registerer) (*Summary, error) {

	if err := cfg.validate(params); err != nil {
		return nil, err
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	numWorkers := cfg.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if cfg.CorruptKey {
		key = &dualec.BackdoorKey{
			BD1: new(big.Int).Add(key.BD1, big.NewInt(1)),
			BD2: new(big.Int).Add(key.BD2, big.NewInt(1)),
		}
	}
	log.Infof("Running %d trials on %d workers (%v, prefix %d chunks)",
		cfg.Trials, numWorkers, params, cfg.PrefixChunks)

	start := time.Now()
	var matches, failures, mismatches, errs int64
	g, gctx := errgroup.WithContext(ctx)

	work := make(chan int, numWorkers*10)
	g.Go(func() error {
		defer close(work)
		for n := 0; n < cfg.Trials; n++ {
			select {
			case work <- n:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			for n := range work {
				t0 := time.Now()
				outcome, err := runTrial(gctx, params, key, &cfg, n)
				if err != nil {
					return err
				}
				m.duration.Observe(time.Since(t0).Seconds())
				m.trials.WithLabelValues(outcome).Inc()

				switch outcome {
				case OutcomeMatch:
					atomic.AddInt64(&matches, 1)
				case OutcomeFailed:
					atomic.AddInt64(&failures, 1)
				case OutcomeMismatch:
					atomic.AddInt64(&mismatches, 1)
				default:
					atomic.AddInt64(&errs, 1)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Trials:     cfg.Trials,
		Matches:    int(matches),
		Failures:   int(failures),
		Mismatches: int(mismatches),
		Errors:     int(errs),
		Elapsed:    time.Since(start),
	}
	log.Infof("Experiment done: %v", summary)
	return summary, nil
}

// runTrial returns the outcome of trial n. Only cancellation is returned as
// an error; every other failure is an outcome.
func runTrial(ctx context.Context, params *dualec.Params, key *dualec.BackdoorKey,
	cfg *Config, n int) (string, error) {

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var seed *big.Int
	var err error
	if len(cfg.MasterSeed) > 0 {
		seed, err = TrialSeed(cfg.MasterSeed, n, params.FieldOrder())
	} else {
		seed, err = rand.Int(rand.Reader, params.FieldOrder())
	}
	if err != nil {
		log.Errorf("Trial %d: %v", n, err)
		return OutcomeError, nil
	}

	truth, err := dualec.Generate(params, seed, cfg.Length)
	if err != nil {
		log.Errorf("Trial %d: generate: %v", n, err)
		return OutcomeError, nil
	}
	observed, err := truth.Prefix(cfg.PrefixChunks * params.ChunkBits())
	if err != nil {
		log.Errorf("Trial %d: %v", n, err)
		return OutcomeError, nil
	}

	pred, err := dualec.Predict(ctx, params, key, observed, cfg.Length, cfg.Verify)
	switch {
	case err == nil && pred.Stream.Equal(truth):
		log.Debugf("Trial %d: match from chunk %d", n, pred.CandidateIndex)
		return OutcomeMatch, nil
	case err == nil:
		log.Warnf("Trial %d: prediction differs from generated stream", n)
		return OutcomeMismatch, nil
	case errors.Is(err, dualec.ErrPredictionFailed):
		log.Debugf("Trial %d: %v", n, err)
		return OutcomeFailed, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "", err
	default:
		log.Errorf("Trial %d: %v", n, err)
		return OutcomeError, nil
	}
}
