package main

import (
	"errors"
	"io"
	"reflect"
	"testing"

	flag "github.com/spf13/pflag"

	xbelmark "github.com/alnah/go-xbelmark"
)

// ---------------------------------------------------------------------------
// TestExtractParamPairs - Two-value --param scanning
// ---------------------------------------------------------------------------

func TestExtractParamPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantPairs []string
		wantRest  []string
		wantErr   bool
	}{
		{
			name:     "no params",
			args:     []string{"--xsl", "a.xsl", "in.xml"},
			wantRest: []string{"--xsl", "a.xsl", "in.xml"},
		},
		{
			name:      "params between flags",
			args:      []string{"--param", "title", "My Links", "--xsl", "a.xsl", "--param", "n", "2"},
			wantPairs: []string{"title", "My Links", "n", "2"},
			wantRest:  []string{"--xsl", "a.xsl"},
		},
		{
			name:      "value looking like a flag",
			args:      []string{"--param", "sep", "-v"},
			wantPairs: []string{"sep", "-v"},
		},
		{
			name:     "terminator stops scanning",
			args:     []string{"--", "--param", "a", "b"},
			wantRest: []string{"--", "--param", "a", "b"},
		},
		{
			name:    "missing value",
			args:    []string{"--param", "title"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pairs, rest, err := extractParamPairs(tt.args)
			if tt.wantErr {
				if !errors.Is(err, xbelmark.ErrMalformedParameterList) {
					t.Errorf("error = %v, want ErrMalformedParameterList", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(pairs, tt.wantPairs) {
				t.Errorf("pairs = %q, want %q", pairs, tt.wantPairs)
			}
			if !reflect.DeepEqual(rest, tt.wantRest) {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseFlags - Per-command flag sets
// ---------------------------------------------------------------------------

func TestParsePasteFlags(t *testing.T) {
	t.Parallel()

	f, fs, err := parsePasteFlags([]string{"-f", "url", "--uri", "https://x.example", "-s", "--stdout", "--indent", "2", "-q"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.format != "url" || f.uri != "https://x.example" || !f.spaces || !f.stdout || f.indent != 2 || !f.common.quiet {
		t.Errorf("parsePasteFlags() = %+v", f)
	}
	if !fs.Changed("format") || fs.Changed("output") {
		t.Error("Changed() does not reflect the given flags")
	}

	if _, _, err := parsePasteFlags([]string{"stray"}, io.Discard); !errors.Is(err, ErrUsage) {
		t.Errorf("positional argument error = %v, want ErrUsage", err)
	}
	if _, _, err := parsePasteFlags([]string{"--indent", "x"}, io.Discard); !errors.Is(err, ErrUsage) {
		t.Errorf("bad int error = %v, want ErrUsage", err)
	}
	if _, _, err := parsePasteFlags([]string{"--help"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("--help error = %v, want flag.ErrHelp", err)
	}
}

func TestParseXSLTFlags(t *testing.T) {
	t.Parallel()

	args := []string{"--xsl", "s.xsl", "--param", "a", "1", "-p", "b=2", "--set", "c=x=y", "-o", "out.html", "in.xml"}
	f, positional, err := parseXSLTFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.stylesheet != "s.xsl" || f.output != "out.html" {
		t.Errorf("parseXSLTFlags() = %+v", f)
	}
	if !reflect.DeepEqual(f.pairs, []string{"a", "1"}) {
		t.Errorf("pairs = %q", f.pairs)
	}
	if !reflect.DeepEqual(f.assignments, []string{"b=2", "c=x=y"}) {
		t.Errorf("assignments = %q", f.assignments)
	}
	if !reflect.DeepEqual(positional, []string{"in.xml"}) {
		t.Errorf("positional = %q", positional)
	}
}

func TestParseOpenFlags(t *testing.T) {
	t.Parallel()

	f, positional, err := parseOpenFlags([]string{"--command", "firefox --new-tab", "b.xbel"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.command != "firefox --new-tab" {
		t.Errorf("command = %q", f.command)
	}
	if !reflect.DeepEqual(positional, []string{"b.xbel"}) {
		t.Errorf("positional = %q", positional)
	}
}
