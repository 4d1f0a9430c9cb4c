package main

import (
	"errors"
	"io"
	"math/big"
	"os"

	"github.com/mahdiidarabi/dualec/pkg/dualec"
	"github.com/mahdiidarabi/dualec/pkg/ec"
)

// keygenCmd defines the configuration options for the keygen command.
type keygenCmd struct {
	Curve  string `short:"c" long:"curve" description:"Base curve name"`
	Twist  string `long:"twist" description:"Twist factor d (default: smallest non-residue mod p)"`
	Layout string `long:"layout" description:"Control bit layout {coupled, split} (default depends on the field size)"`
	Out    string `long:"out" description:"Write the parameters here instead of stdout"`
}

var keygenCfg = keygenCmd{
	Curve: "secp256r1",
}

// Execute is the main entry point for the command. It's invoked by the parser.
func (cmd *keygenCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) > 0 {
		return errors.New("keygen takes no arguments")
	}

	base, err := ec.NamedCurve(cmd.Curve)
	if err != nil {
		return err
	}

	var d *big.Int
	if cmd.Twist != "" {
		if d, err = parseInt(cmd.Twist); err != nil {
			return err
		}
	}
	layout := dualec.DefaultLayout(base.BitSize())
	if cmd.Layout != "" {
		if layout, err = dualec.ParseLayout(cmd.Layout); err != nil {
			return err
		}
	}

	params, key, err := dualec.GenerateBackdoor(nil, base, d, layout)
	if err != nil {
		return err
	}
	log.Infof("Generated backdoored parameters: %v", params)

	var w io.Writer = os.Stdout
	if cmd.Out != "" {
		f, err := os.OpenFile(cmd.Out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return dualec.WriteParams(w, params, key)
}
