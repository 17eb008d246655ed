package main

import (
	"context"
	"os/signal"
)

// notifyContext returns a context canceled by the first of cancelSignals.
// The title fetch and the opener loop watch it. Call stop to release the
// signal handler.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, cancelSignals...)
}
