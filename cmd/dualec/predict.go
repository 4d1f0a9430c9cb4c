package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mahdiidarabi/dualec/pkg/bitstream"
	"github.com/mahdiidarabi/dualec/pkg/dualec"
)

// predictCmd defines the configuration options for the predict command.
type predictCmd struct {
	paramsSource
	Observed        string `short:"o" long:"observed" description:"Observed output as a string of 0 and 1" required:"true"`
	Length          int    `short:"l" long:"length" description:"Total number of bits to predict"`
	Verify          int    `long:"verify" description:"Observed chunks a recovered state must reproduce"`
	MaxCandidates   int    `long:"max-candidates" description:"Chunk positions to try (0 = all)"`
	AllowUnverified bool   `long:"allow-unverified" description:"Accept a single-chunk recovery that cannot be checked"`
	Hex             bool   `long:"hex" description:"Print the stream as hex instead of bits"`
}

var predictCfg = predictCmd{
	Length: defaultLength,
	Verify: 1,
}

// Execute is the main entry point for the command. It's invoked by the parser.
func (cmd *predictCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) > 0 {
		return errors.New("predict takes no arguments")
	}

	params, key, err := cmd.load()
	if err != nil {
		return err
	}
	if key == nil {
		return fmt.Errorf("%w: the parameter file has no backdoor section",
			dualec.ErrMissingBackdoor)
	}
	observed, err := bitstream.Parse(cmd.Observed)
	if err != nil {
		return err
	}

	client := dualec.NewClient(params).
		WithKey(key).
		WithVerifyConfig(dualec.VerifyConfig{
			VerifyChunks:    cmd.Verify,
			MaxCandidates:   cmd.MaxCandidates,
			AllowUnverified: cmd.AllowUnverified,
		})

	pred, err := client.Predict(context.Background(), observed, cmd.Length)
	if err != nil {
		return err
	}

	fmt.Printf("[+] Recovered state from chunk %d (%v branch)\n", pred.CandidateIndex, pred.Branch)
	fmt.Printf("    State: 0x%s\n", pred.RecoveredState.Text(16))
	if pred.Verified {
		fmt.Printf("    Verified against %d observed chunk(s)\n", pred.VerifiedChunks)
	} else {
		fmt.Println("    Not verified")
	}
	printStream("Prediction", pred.Stream, cmd.Hex)
	return nil
}
