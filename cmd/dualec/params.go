package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mahdiidarabi/dualec/pkg/dualec"
)

// paramsCmd defines the configuration options for the params command.
type paramsCmd struct {
	paramsSource
	WithKey bool `long:"with-key" description:"Include the backdoor in the printed parameters"`
}

var paramsCfg = paramsCmd{}

// Execute is the main entry point for the command. It's invoked by the parser.
func (cmd *paramsCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) > 0 {
		return errors.New("params takes no arguments")
	}

	params, key, err := cmd.load()
	if err != nil {
		return err
	}

	fmt.Printf("# base %s, twist %s, %d-bit chunks, %v control\n",
		params.Pair.Base.Name(), params.Pair.Twist.Name(), params.ChunkBits(), params.Layout)
	if key != nil {
		fmt.Println("# backdoor: valid")
	}
	if !cmd.WithKey {
		key = nil
	}
	return dualec.WriteParams(os.Stdout, params, key)
}
