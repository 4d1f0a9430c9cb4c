// Command dualec generates Dual-EC output over a curve and its twist and
// predicts it with the backdoor.
package main

import (
	"os"
	"path/filepath"
	"strings"

	flags "github.com/jessevdk/go-flags"
)

// realMain is the real main function for the utility. It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName, parserFlags)
	parser.AddGroup("Global Options", "", cfg)
	parser.AddCommand("generate",
		"Generate output from a seed", "", &generateCfg)
	parser.AddCommand("predict",
		"Recover the state from observed output and predict the rest",
		"Recover the state from observed output and predict the rest.  "+
			"The observed bits must cover at least two chunks unless "+
			"--allow-unverified is given.", &predictCfg)
	parser.AddCommand("keygen",
		"Create backdoored parameters for a named curve",
		"Create backdoored parameters for a named curve and print them "+
			"as YAML, backdoor included.", &keygenCfg)
	parser.AddCommand("experiment",
		"Run many generate and predict trials and report the match rate",
		"", &experimentCfg)
	parser.AddCommand("params",
		"Print parameters as YAML", "", &paramsCfg)

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		} else {
			log.Error(err)
		}
		return err
	}
	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
