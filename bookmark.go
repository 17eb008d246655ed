package xbelmark

import (
	"fmt"
	"net/url"
	"strings"
)

// Bookmark is a single web resource reference.
type Bookmark struct {
	URI   string // absolute URI, already escaped
	Title string // may be empty
}

// NewBookmark returns a Bookmark after checking that uri is absolute.
// Surrounding whitespace is removed from both fields.
func NewBookmark(uri, title string) (Bookmark, error) {
	uri = strings.TrimSpace(uri)
	u, err := url.Parse(uri)
	if err != nil {
		return Bookmark{}, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if !u.IsAbs() {
		return Bookmark{}, fmt.Errorf("%w: %q is not absolute", ErrInvalidURI, uri)
	}
	return Bookmark{URI: uri, Title: strings.TrimSpace(title)}, nil
}

// Text encodes the bookmark in the given format.
func (b Bookmark) Text(format Format, opts ...EncodeOption) (string, error) {
	return Encode(format, b.URI, b.Title, opts...)
}
