package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed stylesheets/*.xsl
var stylesheets embed.FS

// EmbeddedLoader loads stylesheets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStylesheet loads an embedded stylesheet by name.
func (e *EmbeddedLoader) LoadStylesheet(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := stylesheets.ReadFile("stylesheets/" + name + ".xsl")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStylesheetNotFound, name)
	}

	return string(content), nil
}

// Names lists the embedded stylesheet names.
func (e *EmbeddedLoader) Names() []string {
	entries, err := fs.ReadDir(stylesheets, "stylesheets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".xsl"))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ StylesheetLoader = (*EmbeddedLoader)(nil)
