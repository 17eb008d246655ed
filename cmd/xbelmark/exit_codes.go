package main

import (
	"errors"
	"os"

	xbelmark "github.com/alnah/go-xbelmark"
	"github.com/alnah/go-xbelmark/internal/config"
	"github.com/alnah/go-xbelmark/internal/fileutil"
	"github.com/alnah/go-xbelmark/internal/process"
)

// Exit codes for xbelmark CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful command
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied, clipboard
	ExitTransform = 4 // Stylesheet, input document or transform errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Transform errors (exit 4), checked first since they may wrap I/O errors
	if errors.Is(err, xbelmark.ErrStylesheetLoad) ||
		errors.Is(err, xbelmark.ErrInputDocumentLoad) ||
		errors.Is(err, xbelmark.ErrTransformExecution) {
		return ExitTransform
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fileutil.ErrFileExists) ||
		errors.Is(err, ErrReadClipboard) ||
		errors.Is(err, ErrOutputDir) ||
		errors.Is(err, ErrWriteBookmark) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, xbelmark.ErrInvalidFormat) ||
		errors.Is(err, xbelmark.ErrInvalidURI) ||
		errors.Is(err, xbelmark.ErrMalformedBookmark) ||
		errors.Is(err, xbelmark.ErrMalformedParameterList) ||
		errors.Is(err, ErrEmptyURI) ||
		errors.Is(err, ErrNoStylesheet) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoBookmarkFile) ||
		errors.Is(err, process.ErrEmptyCommand) {
		return ExitUsage
	}

	return ExitGeneral
}
