// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-xbelmark/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForClipboard returns hints for clipboard read errors.
// Headless sessions and containers have no clipboard to read from.
func ForClipboard() string {
	var hints []string

	headless := os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
	if IsInContainer() || headless {
		hints = append(hints, "no clipboard available here, pass the address with --uri")
	} else {
		hints = append(hints, "install xclip, xsel or wl-clipboard")
	}

	return formatHints(hints)
}

// ForTitleFetch returns a hint for page title fetch failures.
func ForTitleFetch() string {
	return format("pass --title, or raise the timeout with XBELMARK_TIMEOUT")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/xbelmark/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/xbelmark") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory errors.
func ForOutputDirectory() string {
	return format("check the directory exists and is writable")
}

// ForFileExists returns a hint when a bookmark file would be overwritten.
func ForFileExists() string {
	return format("remove the file, pass --title with another name, or use --stdout")
}

// ForFormat lists the accepted bookmark formats.
func ForFormat(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForStylesheet returns a hint for stylesheet load errors.
func ForStylesheet() string {
	return format("the stylesheet must be an XSLT 1.0 xsl:stylesheet or a literal result element")
}

// ForStylesheetName lists the built-in stylesheet names.
func ForStylesheetName(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("built-in stylesheets: " + strings.Join(available, ", ") + "; or pass a file path")
}

// ForParams returns a hint for malformed parameter lists.
func ForParams() string {
	return format("use --param NAME VALUE or -p NAME=VALUE")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
