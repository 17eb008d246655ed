package main

// Notes:
// - Scripts are checked for the markers each shell needs, not byte for byte
// - The command registry is built from the real FlagSets, so flag
//   expectations here double as a check that completion follows the parsers

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script generation per shell
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash",
			shell: ShellBash,
			wantContains: []string{
				"_xbelmark_completions",
				"complete -o filenames -F _xbelmark_completions xbelmark",
				`-f|--format) COMPREPLY=($(compgen -W "URL XBEL" -- "${cur}"))`,
				`-o|--output) COMPREPLY=($(compgen -d -- "${cur}"))`,
				`--xsl) COMPREPLY=($(compgen -f -X '!*.@(xsl|xslt)' -- "${cur}"))`,
				"--no-fetch",
				"--param",
			},
		},
		{
			name:  "zsh",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef xbelmark",
				"_describe 'command' commands",
				"'paste:Save the clipboard address as a bookmark file'",
				"_arguments",
				"'(-f --format)'{-f,--format}",
				":format:(URL XBEL)",
				"'*'{-p,--set}",
				"'*--param",
				`'*:file:_files -g "*.(xbel)"'`,
				"'1:argument:(bash zsh fish)'",
			},
		},
		{
			name:  "fish",
			shell: ShellFish,
			wantContains: []string{
				"complete -c xbelmark -f",
				"__fish_xbelmark_needs_command",
				"__fish_xbelmark_using_command",
				"complete -c xbelmark -n '__fish_xbelmark_using_command paste' -s f -l format",
				"-x -a 'URL XBEL'",
				"-l xsl",
				"-a '(__fish_complete_directories)'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%q) error: %v", tt.shell, err)
			}

			output := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q", want)
				}
			}
			for _, cmd := range getCommands() {
				if !strings.Contains(output, cmd.Name) {
					t.Errorf("output missing command %q", cmd.Name)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{"powershell", "", "BASH"} {
		var buf bytes.Buffer
		err := GenerateCompletion(&buf, shell)
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("GenerateCompletion(%q) error = %v, want ErrUnsupportedShell", shell, err)
		}
		if buf.Len() != 0 {
			t.Errorf("GenerateCompletion(%q) wrote %q, want nothing", shell, buf.String())
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - The completion command
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no shell prints usage", wantCode: ExitSuccess, wantStdout: "Usage: xbelmark completion <shell>"},
		{name: "bash", args: []string{"bash"}, wantCode: ExitSuccess, wantStdout: "_xbelmark_completions"},
		{name: "unknown shell", args: []string{"tcsh"}, wantCode: ExitUsage, wantStderr: "unsupported shell"},
		{name: "two shells", args: []string{"bash", "zsh"}, wantCode: ExitUsage, wantStderr: "one shell name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			code := runMain(append([]string{"xbelmark", "completion"}, tt.args...), env.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", env.stdout, tt.wantStdout)
			}
			if !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", env.stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Registry built from the FlagSets
// ---------------------------------------------------------------------------

func findCommand(t *testing.T, name string) commandDef {
	t.Helper()

	for _, c := range getCommands() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("command %q not in registry", name)
	return commandDef{}
}

func findFlag(t *testing.T, c commandDef, long string) flagDef {
	t.Helper()

	for _, f := range c.Flags {
		if f.Long == long {
			return f
		}
	}
	t.Fatalf("command %q has no --%s", c.Name, long)
	return flagDef{}
}

func TestGetCommands_Names(t *testing.T) {
	t.Parallel()

	var names []string
	for _, c := range getCommands() {
		names = append(names, c.Name)
		if !isCommand(c.Name) {
			t.Errorf("registry command %q is not dispatched by runMain", c.Name)
		}
	}
	want := []string{"paste", "xslt", "open", "doctor", "completion", "version", "help"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("commands = %q, want %q", names, want)
	}
}

func TestGetCommands_FlagTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command   string
		flag      string
		wantShort string
		wantType  flagType
		wantGlob  string
		repeat    bool
	}{
		{command: "paste", flag: "format", wantShort: "f", wantType: flagEnum},
		{command: "paste", flag: "output", wantShort: "o", wantType: flagDir},
		{command: "paste", flag: "indent", wantType: flagInt},
		{command: "paste", flag: "no-fetch", wantType: flagBool},
		{command: "paste", flag: "uri", wantShort: "u", wantType: flagString},
		{command: "paste", flag: "config", wantShort: "c", wantType: flagFile, wantGlob: "*.yaml,*.yml"},
		{command: "xslt", flag: "xsl", wantType: flagFile, wantGlob: "*.xsl,*.xslt"},
		{command: "xslt", flag: "in", wantType: flagFile, wantGlob: "*.xbel,*.xml"},
		{command: "xslt", flag: "output", wantShort: "o", wantType: flagFile, wantGlob: "*"},
		{command: "xslt", flag: "set", wantShort: "p", wantType: flagString, repeat: true},
		{command: "xslt", flag: "param", wantType: flagString, repeat: true},
		{command: "open", flag: "command", wantType: flagString},
		{command: "doctor", flag: "json", wantType: flagBool},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			t.Parallel()

			f := findFlag(t, findCommand(t, tt.command), tt.flag)
			if f.Short != tt.wantShort {
				t.Errorf("short = %q, want %q", f.Short, tt.wantShort)
			}
			if f.Type != tt.wantType {
				t.Errorf("type = %v, want %v", f.Type, tt.wantType)
			}
			if f.FileGlob != tt.wantGlob {
				t.Errorf("glob = %q, want %q", f.FileGlob, tt.wantGlob)
			}
			if f.Repeat != tt.repeat {
				t.Errorf("repeat = %v, want %v", f.Repeat, tt.repeat)
			}
		})
	}
}

func TestGlobExts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		glob string
		want []string
	}{
		{"*.yaml,*.yml", []string{"yaml", "yml"}},
		{"*.xbel", []string{"xbel"}},
		{"*", nil},
		{"", nil},
	}

	for _, tt := range tests {
		if got := globExts(tt.glob); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("globExts(%q) = %q, want %q", tt.glob, got, tt.want)
		}
	}
}
