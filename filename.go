package xbelmark

import (
	"regexp"
	"strings"
)

// DefaultReservedChars are the characters Windows forbids in file names.
// They are replaced on every platform so generated names stay portable.
const DefaultReservedChars = `<>:"/\|?*`

// whitespaceRun matches any run of whitespace, Unicode spaces included.
// \s alone is ASCII only and skips \v.
var whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

// FileNamer derives bookmark file names from titles.
// The zero value replaces DefaultReservedChars and turns whitespace into
// underscores.
type FileNamer struct {
	// Reserved lists the characters replaced with an underscore.
	// Empty means DefaultReservedChars.
	Reserved string
	// PreserveSpaces collapses whitespace runs to a single space instead of
	// an underscore.
	PreserveSpaces bool
}

// Sanitize returns a file-system-safe base name for input.
// Every whitespace run becomes one space or one underscore, then every
// reserved character becomes an underscore. It never fails.
func (n FileNamer) Sanitize(input string) string {
	sep := "_"
	if n.PreserveSpaces {
		sep = " "
	}
	name := whitespaceRun.ReplaceAllString(input, sep)

	reserved := n.Reserved
	if reserved == "" {
		reserved = DefaultReservedChars
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(reserved, r) {
			return '_'
		}
		return r
	}, name)
}

// Name returns the sanitized title, or the sanitized uri when the title is
// blank.
func (n FileNamer) Name(title, uri string) string {
	if strings.TrimSpace(title) == "" {
		return n.Sanitize(uri)
	}
	return n.Sanitize(title)
}

// FileName returns Name(title, uri) with the extension of format appended.
func (n FileNamer) FileName(format Format, title, uri string) string {
	return n.Name(title, uri) + "." + format.Extension()
}

// SanitizeFileName sanitizes input with the default reserved characters.
func SanitizeFileName(input string, preserveSpaces bool) string {
	return FileNamer{PreserveSpaces: preserveSpaces}.Sanitize(input)
}
