//go:build !windows

package process

// Notes:
// - Tests use small shell scripts written to t.TempDir() as the opener.
// - KillProcessGroup is exercised through context cancellation only; it is
//   never called with a real PID outside a test-owned process group.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "opener.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil { // #nosec G306 -- test script must be executable
		t.Fatalf("setup: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestOpener_Open - Spawning the opener per href
// ---------------------------------------------------------------------------

func TestOpener_Open(t *testing.T) {
	t.Parallel()

	t.Run("runs once per href in order", func(t *testing.T) {
		t.Parallel()

		logPath := filepath.Join(t.TempDir(), "log")
		script := writeScript(t, `echo "$1 $2" >> "`+logPath+`"`)

		o := Opener{Command: script + " --new-tab"}
		hrefs := []string{"https://one.example", "https://two.example"}
		if err := o.Open(context.Background(), hrefs); err != nil {
			t.Fatalf("Open() unexpected error: %v", err)
		}

		got, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("reading log: %v", err)
		}
		want := "--new-tab https://one.example\n--new-tab https://two.example\n"
		if string(got) != want {
			t.Errorf("opener calls = %q, want %q", got, want)
		}
	})

	t.Run("no hrefs runs nothing", func(t *testing.T) {
		t.Parallel()

		o := Opener{Command: "/nonexistent/opener"}
		if err := o.Open(context.Background(), nil); err != nil {
			t.Errorf("Open() unexpected error: %v", err)
		}
	})

	t.Run("empty command", func(t *testing.T) {
		t.Parallel()

		err := Opener{Command: "  "}.Open(context.Background(), []string{"x"})
		if !errors.Is(err, ErrEmptyCommand) {
			t.Errorf("Open() error = %v, want ErrEmptyCommand", err)
		}
	})

	t.Run("failing opener stops and reports output", func(t *testing.T) {
		t.Parallel()

		logPath := filepath.Join(t.TempDir(), "log")
		script := writeScript(t, `echo "$1" >> "`+logPath+`"; echo "cannot open" >&2; exit 3`)

		err := Opener{Command: script}.Open(context.Background(), []string{"a", "b"})
		if !errors.Is(err, ErrOpenerFailed) {
			t.Fatalf("Open() error = %v, want ErrOpenerFailed", err)
		}
		if !strings.Contains(err.Error(), "cannot open") {
			t.Errorf("error = %q, want opener output", err.Error())
		}
		got, _ := os.ReadFile(logPath)
		if string(got) != "a\n" {
			t.Errorf("opener calls = %q, want only the first href", got)
		}
	})

	t.Run("missing executable", func(t *testing.T) {
		t.Parallel()

		err := Opener{Command: "/nonexistent/opener"}.Open(context.Background(), []string{"x"})
		if !errors.Is(err, ErrOpenerFailed) {
			t.Errorf("Open() error = %v, want ErrOpenerFailed", err)
		}
	})
}

func TestOpener_Open_Cancelled(t *testing.T) {
	t.Parallel()

	t.Run("already cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Opener{Command: "/bin/true"}.Open(ctx, []string{"x"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Open() error = %v, want context.Canceled", err)
		}
	})

	t.Run("cancelled while running kills the opener", func(t *testing.T) {
		t.Parallel()

		script := writeScript(t, "sleep 30")
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := Opener{Command: script}.Open(ctx, []string{"x"})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Open() error = %v, want context.DeadlineExceeded", err)
		}
		if elapsed := time.Since(start); elapsed > 10*time.Second {
			t.Errorf("Open() took %v, opener was not killed", elapsed)
		}
	})
}
