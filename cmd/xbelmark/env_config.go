package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-xbelmark/internal/config"
	"github.com/alnah/go-xbelmark/internal/hints"
)

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string        // XBELMARK_CONFIG: config file name or path
	Format     string        // XBELMARK_FORMAT: URL or XBEL
	OutputDir  string        // XBELMARK_OUTPUT_DIR: where paste writes files
	Timeout    time.Duration // XBELMARK_TIMEOUT: page title fetch timeout
	Stylesheet string        // XBELMARK_STYLESHEET: default XSLT stylesheet
	Opener     string        // XBELMARK_OPENER: command used by open
}

// knownEnvVars lists valid XBELMARK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"XBELMARK_CONFIG":     true,
	"XBELMARK_FORMAT":     true,
	"XBELMARK_OUTPUT_DIR": true,
	"XBELMARK_TIMEOUT":    true,
	"XBELMARK_STYLESHEET": true,
	"XBELMARK_OPENER":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("XBELMARK_CONFIG"),
		Format:     os.Getenv("XBELMARK_FORMAT"),
		OutputDir:  os.Getenv("XBELMARK_OUTPUT_DIR"),
		Stylesheet: os.Getenv("XBELMARK_STYLESHEET"),
		Opener:     os.Getenv("XBELMARK_OPENER"),
	}

	// Invalid or non-positive durations are ignored.
	if timeout := os.Getenv("XBELMARK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized XBELMARK_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "XBELMARK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with set environment variables.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Format != "" {
		cfg.Paste.Format = env.Format
	}
	if env.OutputDir != "" {
		cfg.Paste.OutputDir = env.OutputDir
	}
	if env.Timeout > 0 {
		cfg.Paste.Timeout = env.Timeout.String()
	}
	if env.Stylesheet != "" {
		cfg.XSLT.Stylesheet = env.Stylesheet
	}
	if env.Opener != "" {
		cfg.Open.Command = env.Opener
	}
}

// resolveConfig loads the named config file, falling back to XBELMARK_CONFIG
// and then to the environment's config, and applies environment overrides.
// The returned config is a private copy.
func resolveConfig(name string, env *Environment) (*config.Config, error) {
	vars := loadEnvConfig()
	if name == "" {
		name = vars.ConfigPath
	}

	var cfg *config.Config
	switch {
	case name != "":
		loaded, err := config.LoadConfig(name)
		if err != nil {
			hint := ""
			if errors.Is(err, config.ErrConfigNotFound) {
				hint = hints.ForConfigNotFound(config.SearchPaths(name))
			}
			return nil, fmt.Errorf("loading config: %w%s", err, hint)
		}
		cfg = loaded
	case env.Config != nil:
		c := *env.Config
		c.XSLT.Params = make(map[string]string, len(env.Config.XSLT.Params))
		for k, v := range env.Config.XSLT.Params {
			c.XSLT.Params[k] = v
		}
		cfg = &c
	default:
		cfg = config.DefaultConfig()
	}

	applyEnvConfig(vars, cfg)
	return cfg, nil
}
