//go:build windows

package main

import "os"

// cancelSignals stop a running command. Only os.Interrupt is delivered on
// Windows.
var cancelSignals = []os.Signal{os.Interrupt}
