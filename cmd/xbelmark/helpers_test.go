package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-xbelmark/internal/config"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// testEnv is an Environment with captured output and fake side effects.
type testEnv struct {
	*Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	mu      sync.Mutex
	opened  []string
	command string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Now:       func() time.Time { return fixedNow },
		Stdout:    te.stdout,
		Stderr:    te.stderr,
		Clipboard: func() (string, error) { return "", errors.New("no clipboard in tests") },
		FetchTitle: func(context.Context, string, time.Duration) (string, error) {
			return "", ErrNoTitle
		},
		LookPath: func(file string) (string, error) {
			return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
		},
		Config: config.DefaultConfig(),
	}
	te.Open = func(_ context.Context, command string, hrefs []string) error {
		te.mu.Lock()
		defer te.mu.Unlock()
		te.command = command
		te.opened = append(te.opened, hrefs...)
		return nil
	}
	return te
}

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}
