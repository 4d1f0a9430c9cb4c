package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/mahdiidarabi/dualec/pkg/bitstream"
	"github.com/mahdiidarabi/dualec/pkg/dualec"
)

const (
	defaultLogLevel = "warn"
	defaultLength   = 2048
)

// globalConfig holds the options shared by every command.
type globalConfig struct {
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical, off}"`
}

var cfg = &globalConfig{
	DebugLevel: defaultLogLevel,
}

// setupGlobalConfig applies the global options. Every command calls it
// before doing any work.
func setupGlobalConfig() error {
	return setLogLevels(cfg.DebugLevel)
}

// paramsSource selects the parameters a command works on.
type paramsSource struct {
	ParamsFile string `short:"p" long:"params" description:"YAML parameter file"`
	Demo       bool   `long:"demo" description:"Use the built-in secp256r1 demonstration parameters"`
}

// load returns the selected parameters and, when present, their backdoor.
func (s *paramsSource) load() (*dualec.Params, *dualec.BackdoorKey, error) {
	var (
		params *dualec.Params
		key    *dualec.BackdoorKey
		err    error
	)
	switch {
	case s.Demo && s.ParamsFile != "":
		return nil, nil, errors.New("--demo and --params are mutually exclusive")
	case s.Demo:
		params, key, err = dualec.DemoP256()
	case s.ParamsFile != "":
		params, key, err = dualec.LoadParams(s.ParamsFile)
	default:
		return nil, nil, errors.New("one of --demo or --params is required")
	}
	if err != nil {
		return nil, nil, err
	}

	log.Debugf("Parameters: %v", newLogClosure(func() string {
		return spew.Sdump(params)
	}))
	return params, key, nil
}

// parseInt accepts decimal or 0x-prefixed hex.
func parseInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

// printStream writes a stream as bits, or as hex when asHex is set.
func printStream(label string, s *bitstream.Stream, asHex bool) {
	if asHex {
		fmt.Printf("%s: %s\n", label, s.Hex())
		return
	}
	fmt.Printf("%s: %s\n", label, s.String())
}
