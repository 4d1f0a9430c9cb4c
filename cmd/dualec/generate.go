package main

import (
	"errors"

	"github.com/mahdiidarabi/dualec/pkg/dualec"
)

// generateCmd defines the configuration options for the generate command.
type generateCmd struct {
	paramsSource
	Seed   string `short:"s" long:"seed" description:"Seed, decimal or 0x-prefixed hex, in [0, p)" required:"true"`
	Length int    `short:"l" long:"length" description:"Number of bits to generate"`
	Hex    bool   `long:"hex" description:"Print the stream as hex instead of bits"`
}

var generateCfg = generateCmd{
	Length: defaultLength,
}

// Execute is the main entry point for the command. It's invoked by the parser.
func (cmd *generateCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) > 0 {
		return errors.New("generate takes no arguments")
	}

	params, _, err := cmd.load()
	if err != nil {
		return err
	}
	seed, err := parseInt(cmd.Seed)
	if err != nil {
		return err
	}

	out, err := dualec.NewClient(params).Generate(seed, cmd.Length)
	if err != nil {
		return err
	}
	log.Infof("Generated %d bits from %v", out.Len(), params)
	printStream("Output", out, cmd.Hex)
	return nil
}
