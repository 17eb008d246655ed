package main

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-xbelmark/internal/process"
)

const openBookmarks = `<xbel version="1.0">
  <bookmark href="https://one.example"><title>One</title></bookmark>
  <folder><title>F</title><bookmark href="https://two.example"/></folder>
</xbel>`

// ---------------------------------------------------------------------------
// TestOpen - Printing and opening bookmark addresses
// ---------------------------------------------------------------------------

func TestOpen_PrintsWithoutCommand(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "b.xbel", openBookmarks)
	env := newTestEnv(t)

	if code := runMain([]string{"xbelmark", "open", path}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, env.stderr)
	}
	if got := env.stdout.String(); got != "https://one.example\nhttps://two.example\n" {
		t.Errorf("stdout = %q", got)
	}
	if len(env.opened) != 0 {
		t.Errorf("opener called with %q", env.opened)
	}
}

func TestOpen_RunsCommand(t *testing.T) {
	t.Parallel()

	t.Run("from flag", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "b.xbel", openBookmarks)
		env := newTestEnv(t)

		args := []string{"xbelmark", "open", "--command", "firefox --new-tab", path}
		if code := runMain(args, env.Environment); code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, env.stderr)
		}
		if env.command != "firefox --new-tab" {
			t.Errorf("command = %q", env.command)
		}
		want := []string{"https://one.example", "https://two.example"}
		if !reflect.DeepEqual(env.opened, want) {
			t.Errorf("opened = %q, want %q", env.opened, want)
		}
	})

	t.Run("from config", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "b.xbel", openBookmarks)
		env := newTestEnv(t)
		env.Config.Open.Command = "xdg-open"

		if code := runMain([]string{"xbelmark", "open", path}, env.Environment); code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, env.stderr)
		}
		if env.command != "xdg-open" || len(env.opened) != 2 {
			t.Errorf("command = %q, opened = %q", env.command, env.opened)
		}
	})

	t.Run("opener failure", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "b.xbel", openBookmarks)
		env := newTestEnv(t)
		env.Open = func(context.Context, string, []string) error {
			return fmt.Errorf("%w: x https://one.example: exit status 1", process.ErrOpenerFailed)
		}

		code := runMain([]string{"xbelmark", "open", "--command", "x", path}, env.Environment)
		if code != ExitGeneral {
			t.Errorf("runMain() = %d, want %d", code, ExitGeneral)
		}
	})
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       func(dir string) []string
		wantCode   int
		wantStderr string
	}{
		{
			name:       "no file",
			args:       func(string) []string { return nil },
			wantCode:   ExitUsage,
			wantStderr: "no bookmark file specified",
		},
		{
			name:       "missing file",
			args:       func(dir string) []string { return []string{dir + "/none.xbel"} },
			wantCode:   ExitIO,
			wantStderr: "reading bookmarks",
		},
		{
			name: "not xbel",
			args: func(dir string) []string {
				return []string{writeFile(t, dir, "x.xbel", "<opml/>")}
			},
			wantCode:   ExitUsage,
			wantStderr: "malformed bookmark",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			args := append([]string{"xbelmark", "open"}, tt.args(t.TempDir())...)
			code := runMain(args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", env.stderr, tt.wantStderr)
			}
		})
	}
}
