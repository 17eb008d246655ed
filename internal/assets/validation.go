package assets

import (
	"fmt"
	"regexp"
)

// assetName allows letters, digits, hyphens and underscores only.
var assetName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName checks that name is a bare stylesheet name.
// Returns ErrInvalidAssetName for empty names and for names with path
// separators, dots or other characters that could escape a directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if !assetName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// IsAssetName reports whether name would pass ValidateAssetName.
func IsAssetName(name string) bool {
	return assetName.MatchString(name)
}
