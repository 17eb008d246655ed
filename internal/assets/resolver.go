package assets

import "errors"

// Resolver looks stylesheets up in a user directory first and falls back
// to the embedded set.
type Resolver struct {
	custom StylesheetLoader // nil if no directory configured
}

// NewResolver creates a Resolver. An empty dir uses embedded stylesheets
// only. Returns ErrInvalidBasePath if dir is set but not a directory.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{}

	if dir != "" {
		fsLoader, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// LoadStylesheet loads a stylesheet, trying the user directory first.
// Only ErrStylesheetNotFound falls through; validation and read errors
// are returned as is.
func (r *Resolver) LoadStylesheet(name string) (string, error) {
	if r.custom == nil {
		return LoadStylesheet(name)
	}

	content, err := r.custom.LoadStylesheet(name)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrStylesheetNotFound) {
		return "", err
	}

	return LoadStylesheet(name)
}

// Names lists the embedded stylesheet names.
func (r *Resolver) Names() []string {
	return Names()
}

// HasCustomLoader returns true if a user directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ StylesheetLoader = (*Resolver)(nil)
