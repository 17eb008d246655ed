package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	xbelmark "github.com/alnah/go-xbelmark"
)

// ErrNoBookmarkFile is returned when open gets no XBEL file.
var ErrNoBookmarkFile = errors.New("no bookmark file specified")

// runOpen prints or opens every bookmark address of an XBEL file.
func runOpen(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseOpenFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: expected one .xbel file, got %d arguments", ErrNoBookmarkFile, len(positional))
	}

	cfg, err := resolveConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	command := flags.command
	if command == "" {
		command = cfg.Open.Command
	}

	f, err := os.Open(positional[0])
	if err != nil {
		return fmt.Errorf("reading bookmarks: %w", err)
	}
	defer f.Close()

	hrefs, err := xbelmark.BookmarkHrefs(f)
	if err != nil {
		return fmt.Errorf("%s: %w", positional[0], err)
	}

	if command == "" {
		for _, href := range hrefs {
			fmt.Fprintln(env.Stdout, href)
		}
		return nil
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Opening %d bookmark(s) with %s\n", len(hrefs), command)
	}
	return env.Open(ctx, command, hrefs)
}
