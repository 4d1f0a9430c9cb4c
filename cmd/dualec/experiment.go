package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mahdiidarabi/dualec/internal/experiment"
)

// experimentCmd defines the configuration options for the experiment command.
type experimentCmd struct {
	paramsSource
	Trials       int    `short:"n" long:"trials" description:"Number of independent trials"`
	Workers      int    `short:"w" long:"workers" description:"Parallel workers (0 = number of CPUs)"`
	Length       int    `short:"l" long:"length" description:"Bits generated per trial"`
	PrefixChunks int    `long:"prefix-chunks" description:"Chunks shown to the predictor"`
	Verify       int    `long:"verify" description:"Observed chunks a recovered state must reproduce"`
	MasterSeed   string `long:"master-seed" description:"Hex master seed for reproducible trial seeds"`
	CorruptKey   bool   `long:"corrupt-key" description:"Perturb the backdoor; every trial should then fail"`
}

var experimentCfg = func() experimentCmd {
	def := experiment.DefaultConfig()
	return experimentCmd{
		Trials:       def.Trials,
		Workers:      def.Workers,
		Length:       def.Length,
		PrefixChunks: def.PrefixChunks,
		Verify:       def.Verify.VerifyChunks,
	}
}()

// Execute is the main entry point for the command. It's invoked by the parser.
func (cmd *experimentCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) > 0 {
		return errors.New("experiment takes no arguments")
	}

	params, key, err := cmd.load()
	if err != nil {
		return err
	}
	if key == nil {
		return errors.New("the parameter file has no backdoor section")
	}

	ecfg := experiment.DefaultConfig()
	ecfg.Trials = cmd.Trials
	ecfg.Workers = cmd.Workers
	ecfg.Length = cmd.Length
	ecfg.PrefixChunks = cmd.PrefixChunks
	ecfg.Verify.VerifyChunks = cmd.Verify
	ecfg.CorruptKey = cmd.CorruptKey
	if cmd.MasterSeed != "" {
		if ecfg.MasterSeed, err = hex.DecodeString(cmd.MasterSeed); err != nil {
			return fmt.Errorf("master seed: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	summary, err := experiment.Run(context.Background(), params, key, ecfg, reg)
	if err != nil {
		return err
	}

	if mfs, err := reg.Gather(); err == nil {
		for _, mf := range mfs {
			log.Debugf("Metric %s: %d series", mf.GetName(), len(mf.GetMetric()))
		}
	}

	fmt.Printf("[+] %v\n", summary)
	fmt.Printf("    Matches:    %d\n", summary.Matches)
	fmt.Printf("    Failures:   %d\n", summary.Failures)
	fmt.Printf("    Mismatches: %d\n", summary.Mismatches)
	fmt.Printf("    Errors:     %d\n", summary.Errors)
	return nil
}
