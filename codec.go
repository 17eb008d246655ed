package xbelmark

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"gopkg.in/ini.v1"

	"github.com/alnah/go-xbelmark/internal/dateutil"
)

// Internet Shortcut layout.
const (
	urlSection = "InternetShortcut"
	urlKey     = "URL"
)

// XBEL document constants.
const (
	xbelVersion    = "1.0"
	xmlDeclaration = `version="1.0" encoding="UTF-8"`
)

// encodeOptions holds optional encoder behavior.
type encodeOptions struct {
	added  time.Time
	indent int
}

// EncodeOption configures Encode.
type EncodeOption func(*encodeOptions)

// WithAdded stamps an XBEL bookmark with an added="..." creation timestamp.
// The URL format ignores it.
func WithAdded(t time.Time) EncodeOption {
	return func(o *encodeOptions) {
		o.added = t
	}
}

// WithIndent pretty-prints XBEL output with the given number of spaces.
// Zero (the default) keeps the document on a single line after the
// declaration.
func WithIndent(spaces int) EncodeOption {
	return func(o *encodeOptions) {
		if spaces > 0 {
			o.indent = spaces
		}
	}
}

// Encode returns the text of a bookmark for uri and title in the given format.
// The uri is written as-is; callers pass an absolute, escaped URI.
// Returns ErrInvalidFormat if format is not a declared Format.
func Encode(format Format, uri, title string, opts ...EncodeOption) (string, error) {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatURL:
		return encodeURL(uri), nil
	case FormatXBEL:
		return encodeXBEL(uri, title, &o)
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

func encodeURL(uri string) string {
	return "[" + urlSection + "]\n" + urlKey + "=" + uri
}

func encodeXBEL(uri, title string, o *encodeOptions) (string, error) {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	doc.CreateProcInst("xml", xmlDeclaration)
	doc.CreateText("\n")

	root := doc.CreateElement("xbel")
	root.CreateAttr("version", xbelVersion)

	bookmark := root.CreateElement("bookmark")
	bookmark.CreateAttr("href", uri)
	if !o.added.IsZero() {
		bookmark.CreateAttr("added", dateutil.FormatDateTime(o.added))
	}
	titleEl := bookmark.CreateElement("title")
	titleEl.SetText(title)

	if o.indent > 0 {
		doc.Indent(o.indent)
	}
	if title == "" {
		// keep <title></title> rather than <title/>
		titleEl.AddChild(etree.NewText(""))
	}

	text, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("writing XBEL: %w", err)
	}
	return strings.TrimRight(text, "\n"), nil
}

// Decode reads a bookmark back from its text.
// URL text carries no title, so the returned Title is empty for FormatURL.
func Decode(format Format, text string) (Bookmark, error) {
	switch format {
	case FormatURL:
		return decodeURL(text)
	case FormatXBEL:
		return decodeXBEL(text)
	default:
		return Bookmark{}, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

func decodeURL(text string) (Bookmark, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		KeyValueDelimiters:  "=",
	}, []byte(text))
	if err != nil {
		return Bookmark{}, fmt.Errorf("%w: %v", ErrMalformedBookmark, err)
	}

	section, err := cfg.GetSection(urlSection)
	if err != nil {
		return Bookmark{}, fmt.Errorf("%w: missing [%s] section", ErrMalformedBookmark, urlSection)
	}
	key, err := section.GetKey(urlKey)
	if err != nil || key.String() == "" {
		return Bookmark{}, fmt.Errorf("%w: missing %s key", ErrMalformedBookmark, urlKey)
	}
	return Bookmark{URI: key.String()}, nil
}

func decodeXBEL(text string) (Bookmark, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return Bookmark{}, fmt.Errorf("%w: %v", ErrMalformedBookmark, err)
	}

	bookmarks, err := xbelBookmarks(doc)
	if err != nil {
		return Bookmark{}, err
	}
	if len(bookmarks) == 0 {
		return Bookmark{}, fmt.Errorf("%w: no bookmark element", ErrMalformedBookmark)
	}

	b := bookmarks[0]
	var title string
	if t := b.SelectElement("title"); t != nil {
		title = t.Text()
	}
	return Bookmark{URI: b.SelectAttrValue("href", ""), Title: title}, nil
}

// BookmarkHrefs returns the href of every bookmark in an XBEL document, in
// document order, with surrounding whitespace removed. Bookmarks without an
// href are skipped.
func BookmarkHrefs(r io.Reader) ([]string, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBookmark, err)
	}

	bookmarks, err := xbelBookmarks(doc)
	if err != nil {
		return nil, err
	}

	hrefs := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		if href := strings.TrimSpace(b.SelectAttrValue("href", "")); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs, nil
}

// xbelBookmarks returns every bookmark element under the xbel root in
// document order.
func xbelBookmarks(doc *etree.Document) ([]*etree.Element, error) {
	root := doc.Root()
	if root == nil || root.Tag != "xbel" {
		return nil, fmt.Errorf("%w: root element is not xbel", ErrMalformedBookmark)
	}
	return collectBookmarks(root, nil), nil
}

// collectBookmarks appends the bookmarks below el to found, depth first.
// etree's ".//" path groups matches by depth, so it cannot be used here.
func collectBookmarks(el *etree.Element, found []*etree.Element) []*etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == "bookmark" {
			found = append(found, c)
			continue
		}
		found = collectBookmarks(c, found)
	}
	return found
}
