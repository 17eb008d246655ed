package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/atotto/clipboard"

	"github.com/alnah/go-xbelmark/internal/config"
	"github.com/alnah/go-xbelmark/internal/process"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the clipboard, the network and external programs.
type Environment struct {
	Now        func() time.Time
	Stdout     io.Writer
	Stderr     io.Writer
	Clipboard  func() (string, error)
	FetchTitle func(ctx context.Context, uri string, timeout time.Duration) (string, error)
	Open       func(ctx context.Context, command string, hrefs []string) error
	LookPath   func(file string) (string, error)
	Config     *config.Config // used when no config file is named
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Clipboard:  clipboard.ReadAll,
		FetchTitle: fetchTitle,
		Open: func(ctx context.Context, command string, hrefs []string) error {
			return process.Opener{Command: command}.Open(ctx, hrefs)
		},
		LookPath: exec.LookPath,
		Config:   config.DefaultConfig(),
	}
}
