package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/btcsuite/btclog"

	"github.com/mahdiidarabi/dualec/internal/experiment"
	"github.com/mahdiidarabi/dualec/pkg/dualec"
)

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = btclog.NewBackend(os.Stderr)

var (
	log     = backendLog.Logger("DCLI")
	drecLog = backendLog.Logger("DREC")
	exprLog = backendLog.Logger("EXPR")
)

// Initialize package-global logger variables.
func init() {
	dualec.UseLogger(drecLog)
	experiment.UseLogger(exprLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"DCLI": log,
	"DREC": drecLog,
	"EXPR": exprLog,
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) error {
	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("the specified debug level [%v] is invalid, "+
			"supported subsystems are %v", logLevel, supportedSubsystems())
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}

// logClosure is used to provide a closure over expensive logging operations
// so they aren't performed when the logging level doesn't warrant it.
type logClosure func() string

func (c logClosure) String() string {
	return c()
}

func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}
