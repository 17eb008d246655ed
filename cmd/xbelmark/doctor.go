package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-xbelmark/internal/assets"
	"github.com/alnah/go-xbelmark/internal/config"
	"github.com/alnah/go-xbelmark/internal/fileutil"
	"github.com/alnah/go-xbelmark/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Clipboard clipboardInfo `json:"clipboard"`
	Opener    openerInfo    `json:"opener"`
	Config    configInfo    `json:"config"`
	Env       envInfo       `json:"environment"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// clipboardInfo holds clipboard tool detection results.
type clipboardInfo struct {
	Available bool   `json:"available"`
	Tool      string `json:"tool,omitempty"`
	Path      string `json:"path,omitempty"`
}

// openerInfo holds the configured opener and where it resolves.
type openerInfo struct {
	Command string `json:"command,omitempty"`
	Path    string `json:"path,omitempty"`
	Found   bool   `json:"found"`
}

// configInfo holds the effective configuration checks.
type configInfo struct {
	Source        string   `json:"source"` // config name or "defaults"
	Loaded        bool     `json:"loaded"`
	Format        string   `json:"format,omitempty"`
	OutputDir     string   `json:"output_dir,omitempty"`
	StylesheetDir string   `json:"stylesheet_dir,omitempty"`
	Stylesheets   []string `json:"stylesheets,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	Headless      bool   `json:"headless"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	result := runDoctor(flags.config, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkEnvironment(result)
	checkClipboard(result, env.LookPath)
	if cfg := checkConfig(result, configName, env); cfg != nil {
		checkOpener(result, cfg.Open.Command, env.LookPath)
	}

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEnvironment detects container, CI and headless sessions.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		result.Env.Headless = os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// clipboardTools returns the programs the clipboard reader shells out to,
// in lookup order. Empty means the platform reads the clipboard natively.
func clipboardTools() []string {
	switch runtime.GOOS {
	case "windows":
		return nil
	case "darwin":
		return []string{"pbpaste"}
	default:
		tools := []string{"xclip", "xsel"}
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			tools = append([]string{"wl-paste"}, tools...)
		}
		return tools
	}
}

// checkClipboard looks for a program able to read the clipboard.
// A missing clipboard is a warning: paste still works with --uri.
func checkClipboard(result *doctorResult, lookPath func(string) (string, error)) {
	tools := clipboardTools()
	if len(tools) == 0 {
		result.Clipboard.Available = true
		result.Clipboard.Tool = "native"
		return
	}

	for _, tool := range tools {
		if path, err := lookPath(tool); err == nil {
			result.Clipboard.Available = true
			result.Clipboard.Tool = tool
			result.Clipboard.Path = path
			break
		}
	}

	switch {
	case !result.Clipboard.Available:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No clipboard tool found (looked for %s). Pass addresses with --uri", strings.Join(tools, ", ")))
	case result.Env.Headless:
		result.Warnings = append(result.Warnings,
			"No display session. Clipboard reads will fail, pass addresses with --uri")
	}
}

// checkConfig resolves the effective config and checks the paths it names.
// Returns nil when the config cannot be used.
func checkConfig(result *doctorResult, name string, env *Environment) *config.Config {
	result.Config.Source = name
	if result.Config.Source == "" {
		result.Config.Source = os.Getenv("XBELMARK_CONFIG")
	}
	if result.Config.Source == "" {
		result.Config.Source = "defaults"
	}

	cfg, err := resolveConfig(name, env)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		result.Errors = append(result.Errors, firstLine(err.Error()))
		return nil
	}
	result.Config.Loaded = true
	result.Config.Format = cfg.Paste.Format
	result.Config.OutputDir = cfg.Paste.OutputDir

	if dir := cfg.Paste.OutputDir; dir != "" && !fileutil.DirExists(dir) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory does not exist: %s", dir))
	}

	resolver, err := assets.NewResolver(cfg.XSLT.StylesheetDir)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Stylesheet directory unusable: %v", err))
		return cfg
	}
	result.Config.Stylesheets = resolver.Names()
	if resolver.HasCustomLoader() {
		result.Config.StylesheetDir = cfg.XSLT.StylesheetDir
	}

	if ss := cfg.XSLT.Stylesheet; ss != "" && !fileutil.FileExists(ss) {
		if !assets.IsAssetName(ss) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Default stylesheet not found: %s", ss))
		} else if _, err := resolver.LoadStylesheet(ss); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Default stylesheet %q: %v", ss, err))
		}
	}

	return cfg
}

// checkOpener resolves the opener program on PATH.
func checkOpener(result *doctorResult, command string, lookPath func(string) (string, error)) {
	result.Opener.Command = command
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return
	}

	path, err := lookPath(fields[0])
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Opener %q not found on PATH", fields[0]))
		return
	}
	result.Opener.Found = true
	result.Opener.Path = path
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "xbelmark doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Clipboard")
	switch {
	case r.Clipboard.Path != "":
		fmt.Fprintf(w, "  [OK] %s at %s\n", r.Clipboard.Tool, r.Clipboard.Path)
	case r.Clipboard.Available:
		fmt.Fprintf(w, "  [OK] %s\n", r.Clipboard.Tool)
	default:
		fmt.Fprintln(w, "  [WARN] Not available")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
	if r.Config.Loaded {
		fmt.Fprintf(w, "  [OK] Format: %s\n", r.Config.Format)
		if r.Config.OutputDir != "" {
			fmt.Fprintf(w, "  [OK] Output directory: %s\n", r.Config.OutputDir)
		}
		if r.Config.StylesheetDir != "" {
			fmt.Fprintf(w, "  [OK] Stylesheet directory: %s\n", r.Config.StylesheetDir)
		}
		if len(r.Config.Stylesheets) > 0 {
			fmt.Fprintf(w, "  [OK] Built-in stylesheets: %s\n", strings.Join(r.Config.Stylesheets, ", "))
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not loaded")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Opener")
	switch {
	case r.Opener.Command == "":
		fmt.Fprintln(w, "  [OK] None configured, open prints addresses")
	case r.Opener.Found:
		fmt.Fprintf(w, "  [OK] %s (%s)\n", r.Opener.Command, r.Opener.Path)
	default:
		fmt.Fprintf(w, "  [ERROR] %s\n", r.Opener.Command)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Env.Headless {
		fmt.Fprintln(w, "  [OK] Display: none")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
