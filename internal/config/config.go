// Package config loads xbelmark defaults from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-xbelmark/internal/fileutil"
	"github.com/alnah/go-xbelmark/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory under the user config dir searched for configs.
const AppDir = "xbelmark"

// Field length limits.
const (
	MaxPathLength       = 4096 // PATH_MAX on Linux
	MaxFormatLength     = 10   // "URL", "XBEL"
	MaxReservedLength   = 64   // reserved file name characters
	MaxDurationLength   = 20   // "10s", "1m30s"
	MaxCommandLength    = 1024 // opener command line
	MaxParamNameLength  = 100  // xsl:param name
	MaxParamValueLength = 2048 // xsl:param value
	MaxIndent           = 8    // XBEL indent width
)

// Config holds the defaults of every command.
type Config struct {
	Paste PasteConfig `yaml:"paste"`
	XSLT  XSLTConfig  `yaml:"xslt"`
	Open  OpenConfig  `yaml:"open"`
}

// PasteConfig defines how bookmarks are written.
type PasteConfig struct {
	Format         string `yaml:"format"`         // "URL" or "XBEL" (default: "XBEL")
	OutputDir      string `yaml:"outputDir"`      // Empty = current directory
	PreserveSpaces bool   `yaml:"preserveSpaces"` // Keep spaces in file names
	ReservedChars  string `yaml:"reservedChars"`  // Empty = <>:"/\|?*
	Added          bool   `yaml:"added"`          // Stamp added="..." on XBEL bookmarks
	Indent         int    `yaml:"indent"`         // XBEL indent width, 0 = compact
	FetchTitle     *bool  `yaml:"fetchTitle"`     // Fetch the page <title> (default: true)
	Timeout        string `yaml:"timeout"`        // Title fetch timeout (default: "10s")
}

// XSLTConfig defines transform defaults.
type XSLTConfig struct {
	Stylesheet    string            `yaml:"stylesheet"`    // Path or built-in name, used when --xsl is omitted
	StylesheetDir string            `yaml:"stylesheetDir"` // {name}.xsl files that override built-in names
	Params        map[string]string `yaml:"params"`        // Overridden by command line params
}

// OpenConfig defines how bookmarks are opened.
type OpenConfig struct {
	Command string `yaml:"command"` // Empty = print hrefs
}

// FetchTitleEnabled reports whether paste should fetch page titles.
func (p PasteConfig) FetchTitleEnabled() bool {
	return p.FetchTitle == nil || *p.FetchTitle
}

// TimeoutDuration returns the parsed title fetch timeout.
// Call Validate first; an invalid value yields DefaultTimeout.
func (p PasteConfig) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(p.Timeout); err == nil && d > 0 {
		return d
	}
	return DefaultTimeout
}

// DefaultTimeout bounds the page title fetch.
const DefaultTimeout = 10 * time.Second

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	p := c.Paste
	if err := validateFieldLength("paste.format", p.Format, MaxFormatLength); err != nil {
		return err
	}
	if p.Format != "" {
		switch strings.ToUpper(p.Format) {
		case "URL", "XBEL":
		default:
			return fmt.Errorf("%w: paste.format %q (must be URL or XBEL)", ErrInvalidValue, p.Format)
		}
	}
	if err := validateFieldLength("paste.outputDir", p.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("paste.reservedChars", p.ReservedChars, MaxReservedLength); err != nil {
		return err
	}
	if p.Indent < 0 || p.Indent > MaxIndent {
		return fmt.Errorf("%w: paste.indent must be between 0 and %d, got %d", ErrInvalidValue, MaxIndent, p.Indent)
	}
	if err := validateFieldLength("paste.timeout", p.Timeout, MaxDurationLength); err != nil {
		return err
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: paste.timeout %q (use a positive duration like 10s)", ErrInvalidValue, p.Timeout)
		}
	}

	if err := validateFieldLength("xslt.stylesheet", c.XSLT.Stylesheet, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("xslt.stylesheetDir", c.XSLT.StylesheetDir, MaxPathLength); err != nil {
		return err
	}
	for name, value := range c.XSLT.Params {
		if name == "" {
			return fmt.Errorf("%w: xslt.params has an empty name", ErrInvalidValue)
		}
		if err := validateFieldLength("xslt.params name", name, MaxParamNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("xslt.params[%s]", name), value, MaxParamValueLength); err != nil {
			return err
		}
	}

	return validateFieldLength("open.command", c.Open.Command, MaxCommandLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the built-in defaults: XBEL output in the current
// directory, underscores for spaces, title fetching on.
func DefaultConfig() *Config {
	return &Config{
		Paste: PasteConfig{Format: "XBEL", Timeout: "10s"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the locations tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
