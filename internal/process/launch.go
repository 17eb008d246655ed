// Package process spawns the external opener used by "xbelmark open".
package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	ErrEmptyCommand = errors.New("empty opener command")
	ErrOpenerFailed = errors.New("opener failed")
)

// Opener runs a command once per bookmark address.
type Opener struct {
	// Command is split on whitespace; the address is appended as the last
	// argument.
	Command string
}

// Open runs the opener for each href in order and waits for it to exit.
// It stops at the first failure. Cancelling ctx kills the running opener
// and its process group.
func (o Opener) Open(ctx context.Context, hrefs []string) error {
	argv := strings.Fields(o.Command)
	if len(argv) == 0 {
		return ErrEmptyCommand
	}

	for _, href := range hrefs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := run(ctx, argv, href); err != nil {
			return err
		}
	}
	return nil
}

func run(ctx context.Context, argv []string, href string) error {
	args := append(argv[1:len(argv):len(argv)], href)
	cmd := exec.CommandContext(ctx, argv[0], args...) // #nosec G204 -- opener is user configured
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%w: %s %s: %v: %s", ErrOpenerFailed, argv[0], href, err, msg)
		}
		return fmt.Errorf("%w: %s %s: %v", ErrOpenerFailed, argv[0], href, err)
	}
	return nil
}
