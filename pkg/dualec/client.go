package dualec

import (
	"context"
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/dualec/pkg/bitstream"
)

// Client provides a high-level API over one set of parameters.
type Client struct {
	params *Params
	key    *BackdoorKey
	verify VerifyConfig
}

// NewClient creates a client for params with the default verification
// policy and no backdoor.
func NewClient(params *Params) *Client {
	return &Client{
		params: params,
		verify: DefaultVerifyConfig(),
	}
}

// WithKey sets the backdoor used by Predict.
func (c *Client) WithKey(key *BackdoorKey) *Client {
	c.key = key
	return c
}

// WithVerifyConfig sets the verification policy.
func (c *Client) WithVerifyConfig(cfg VerifyConfig) *Client {
	c.verify = cfg
	return c
}

// Params returns the client's parameters.
func (c *Client) Params() *Params { return c.params }

// Generate returns length bits of output from seed.
func (c *Client) Generate(seed *big.Int, length int) (*bitstream.Stream, error) {
	return Generate(c.params, seed, length)
}

// Predict extends observed to length bits.
//
// Args:
//   - ctx: Context for cancellation.
//   - observed: Observed prefix of the generator output.
//   - length: Total number of bits wanted.
//
// Returns:
//   - Prediction if a candidate verified, error otherwise.
func (c *Client) Predict(ctx context.Context, observed *bitstream.Stream, length int) (*Prediction, error) {
	if c.key == nil {
		return nil, fmt.Errorf("%w: client has no key", ErrMissingBackdoor)
	}
	return Predict(ctx, c.params, c.key, observed, length, c.verify)
}

// PredictHex is Predict for an observed prefix given as a '0'/'1' string.
// The result is returned as hex.
func (c *Client) PredictHex(ctx context.Context, observedBits string, length int) (string, error) {
	observed, err := bitstream.Parse(observedBits)
	if err != nil {
		return "", fmt.Errorf("failed to parse observed bits: %w", err)
	}
	pred, err := c.Predict(ctx, observed, length)
	if err != nil {
		return "", err
	}
	return pred.Stream.Hex(), nil
}
