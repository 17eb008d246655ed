package xbelmark

import (
	"fmt"
	"strings"
)

// Format identifies a bookmark text representation.
type Format int

// Supported bookmark formats.
const (
	FormatURL  Format = iota + 1 // Internet Shortcut (.url)
	FormatXBEL                   // XML Bookmark Exchange Language (.xbel)
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatXBEL

// Formats returns every supported format in declaration order.
func Formats() []Format {
	return []Format{FormatURL, FormatXBEL}
}

// String returns the format name as written on the command line.
func (f Format) String() string {
	switch f {
	case FormatURL:
		return "URL"
	case FormatXBEL:
		return "XBEL"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatURL:
		return "url"
	case FormatXBEL:
		return "xbel"
	default:
		return ""
	}
}

// Valid reports whether f is one of the declared formats.
func (f Format) Valid() bool {
	return f == FormatURL || f == FormatXBEL
}

// ParseFormat resolves a format name, case-insensitively.
// An empty name yields DefaultFormat.
func ParseFormat(name string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "":
		return DefaultFormat, nil
	case "URL":
		return FormatURL, nil
	case "XBEL":
		return FormatXBEL, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be URL or XBEL)", ErrInvalidFormat, name)
	}
}
