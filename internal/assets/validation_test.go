package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple name", input: "html"},
		{name: "hyphen and underscore", input: "my-list_v2"},
		{name: "mixed case", input: "Markdown"},
		{name: "empty", input: "", wantErr: true},
		{name: "extension", input: "html.xsl", wantErr: true},
		{name: "parent traversal", input: "../secret", wantErr: true},
		{name: "forward slash", input: "a/b", wantErr: true},
		{name: "backslash", input: `a\b`, wantErr: true},
		{name: "space", input: "my list", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr != errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if IsAssetName(tt.input) == tt.wantErr {
				t.Errorf("IsAssetName(%q) = %v, want %v", tt.input, !tt.wantErr, !tt.wantErr)
			}
		})
	}
}
