package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	xbelmark "github.com/alnah/go-xbelmark"
	"github.com/alnah/go-xbelmark/internal/config"
	"github.com/alnah/go-xbelmark/internal/fileutil"
	"github.com/alnah/go-xbelmark/internal/hints"
)

// Sentinel errors for the paste command.
var (
	ErrReadClipboard = errors.New("failed to read clipboard")
	ErrEmptyURI      = errors.New("no address to bookmark")
	ErrOutputDir     = errors.New("output directory not found")
	ErrWriteBookmark = errors.New("failed to write bookmark file")
)

// runPaste saves one address as a bookmark file.
func runPaste(ctx context.Context, args []string, env *Environment) error {
	flags, fs, err := parsePasteFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergePasteFlags(flags, fs.Changed, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := xbelmark.ParseFormat(cfg.Paste.Format)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForFormat(formatNames()))
	}

	uri, err := resolveURI(flags.uri, env)
	if err != nil {
		return err
	}
	bm, err := xbelmark.NewBookmark(uri, flags.title)
	if err != nil {
		return err
	}
	if bm.Title == "" {
		bm.Title = resolveTitle(ctx, bm.URI, flags, cfg, env)
	}

	var opts []xbelmark.EncodeOption
	if cfg.Paste.Added {
		opts = append(opts, xbelmark.WithAdded(env.Now()))
	}
	if cfg.Paste.Indent > 0 {
		opts = append(opts, xbelmark.WithIndent(cfg.Paste.Indent))
	}
	text, err := bm.Text(format, opts...)
	if err != nil {
		return err
	}

	if flags.stdout {
		fmt.Fprintln(env.Stdout, text)
		return nil
	}

	path, err := writeBookmark(cfg, format, bm, text)
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", path)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "%s %q -> %s\n", format, bm.Title, bm.URI)
	}
	return nil
}

// mergePasteFlags applies explicitly set flags over cfg (CLI wins).
func mergePasteFlags(flags *pasteFlags, changed func(string) bool, cfg *config.Config) {
	if changed("format") {
		cfg.Paste.Format = flags.format
	}
	if changed("output") {
		cfg.Paste.OutputDir = flags.output
	}
	if changed("indent") {
		cfg.Paste.Indent = flags.indent
	}
	if flags.spaces {
		cfg.Paste.PreserveSpaces = true
	}
	if flags.added {
		cfg.Paste.Added = true
	}
	if flags.noFetch {
		off := false
		cfg.Paste.FetchTitle = &off
	}
}

func formatNames() []string {
	var names []string
	for _, f := range xbelmark.Formats() {
		names = append(names, f.String())
	}
	return names
}

// resolveURI returns the --uri value, or the clipboard content.
func resolveURI(flagURI string, env *Environment) (string, error) {
	if flagURI != "" {
		return flagURI, nil
	}
	text, err := env.Clipboard()
	if err != nil {
		return "", fmt.Errorf("%w: %v%s", ErrReadClipboard, err, hints.ForClipboard())
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: clipboard is empty%s", ErrEmptyURI, hints.ForClipboard())
	}
	return text, nil
}

// resolveTitle fetches the page title, falling back to the address.
// Fetch failures are warnings, never errors.
func resolveTitle(ctx context.Context, uri string, flags *pasteFlags, cfg *config.Config, env *Environment) string {
	if !cfg.Paste.FetchTitleEnabled() || !fileutil.IsURL(uri) {
		return uri
	}

	start := time.Now()
	title, err := env.FetchTitle(ctx, uri, cfg.Paste.TimeoutDuration())
	if err != nil {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "warning: %v%s\n", err, hints.ForTitleFetch())
		}
		return uri
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Fetched title in %v\n", time.Since(start).Round(time.Millisecond))
	}
	return title
}

// writeBookmark writes text to a new file named after the bookmark.
func writeBookmark(cfg *config.Config, format xbelmark.Format, bm xbelmark.Bookmark, text string) (string, error) {
	dir := cfg.Paste.OutputDir
	if dir == "" {
		dir = "."
	}
	if !fileutil.DirExists(dir) {
		return "", fmt.Errorf("%w: %s%s", ErrOutputDir, dir, hints.ForOutputDirectory())
	}

	namer := xbelmark.FileNamer{
		Reserved:       cfg.Paste.ReservedChars,
		PreserveSpaces: cfg.Paste.PreserveSpaces,
	}
	path := filepath.Join(dir, namer.FileName(format, bm.Title, bm.URI))

	if err := fileutil.WriteNew(path, text); err != nil {
		hint := hints.ForOutputDirectory()
		if errors.Is(err, fileutil.ErrFileExists) {
			hint = hints.ForFileExists()
		}
		return "", fmt.Errorf("%w: %w%s", ErrWriteBookmark, err, hint)
	}
	return path, nil
}
