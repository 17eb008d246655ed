package xslt

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    float64
	}{
		{"bookmark", 0},
		{"@href", 0},
		{"child::title", 0},
		{"processing-instruction('x')", 0},
		{"*", -0.5},
		{"@*", -0.5},
		{"text()", -0.5},
		{"node()", -0.5},
		{"x:*", -0.25},
		{"xbel/bookmark", 0.5},
		{"bookmark[@href]", 0.5},
		{"/", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			if got := defaultPriority(tt.pattern); got != tt.want {
				t.Errorf("defaultPriority(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestSplitPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		match   string
		want    []string
		wantErr bool
	}{
		{
			name:  "single alternative",
			match: "bookmark",
			want:  []string{"bookmark"},
		},
		{
			name:  "two alternatives",
			match: "bookmark|folder",
			want:  []string{"bookmark", "folder"},
		},
		{
			name:  "bar inside predicate string is kept",
			match: "a|b[@x='|']",
			want:  []string{"a", "b[@x='|']"},
		},
		{
			name:  "bar inside predicate is kept",
			match: "a[b|c]|d",
			want:  []string{"a[b|c]", "d"},
		},
		{
			name:    "unbalanced bracket",
			match:   "a[b",
			wantErr: true,
		},
		{
			name:    "unterminated string",
			match:   "a[@x='y]",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := splitPattern(tt.match)
			if tt.wantErr {
				if !errors.Is(err, ErrStylesheet) {
					t.Fatalf("splitPattern(%q) error = %v, want ErrStylesheet", tt.match, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitPattern(%q) unexpected error: %v", tt.match, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitPattern(%q) = %q, want %q", tt.match, got, tt.want)
			}
		})
	}
}

func TestParseAVT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []avtPart
		wantErr bool
	}{
		{
			name:  "plain text",
			input: "index.html",
			want:  []avtPart{{text: "index.html"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "single expression",
			input: "{@href}",
			want:  []avtPart{{expr: "@href", isExpr: true}},
		},
		{
			name:  "text around expression",
			input: "#{ $id }-x",
			want: []avtPart{
				{text: "#"},
				{expr: "$id", isExpr: true},
				{text: "-x"},
			},
		},
		{
			name:  "escaped braces",
			input: "{{literal}}",
			want:  []avtPart{{text: "{literal}"}},
		},
		{
			name:  "brace inside string literal",
			input: "{concat('}', @a)}",
			want:  []avtPart{{expr: "concat('}', @a)", isExpr: true}},
		},
		{
			name:    "unclosed brace",
			input:   "{@href",
			wantErr: true,
		},
		{
			name:    "stray closing brace",
			input:   "a}b",
			wantErr: true,
		},
		{
			name:    "empty expression",
			input:   "{ }",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseAVT(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrStylesheet) {
					t.Fatalf("parseAVT(%q) error = %v, want ErrStylesheet", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAVT(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAVT(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
