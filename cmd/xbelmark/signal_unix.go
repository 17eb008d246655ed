//go:build !windows

package main

import (
	"os"
	"syscall"
)

// cancelSignals stop a running command. SIGHUP covers a closed terminal
// while paste waits on a slow title fetch.
var cancelSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
