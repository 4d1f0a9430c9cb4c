package experiment

import (
	"github.com/btcsuite/btclog"
)

// log is a logger that is initialized with no output filters. The package
// does not log anything until the caller calls UseLogger.
var log = btclog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
