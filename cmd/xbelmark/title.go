package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for page title fetching.
var (
	ErrTitleFetch = errors.New("failed to fetch page title")
	ErrNoTitle    = errors.New("page has no title")
)

// maxTitleBody bounds how much of a page is read looking for <title>.
const maxTitleBody = 1 << 20

// fetchTitle downloads uri and returns the text of its <title> element with
// whitespace collapsed. Only http and https addresses are fetched.
func fetchTitle(ctx context.Context, uri string, timeout time.Duration) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitleFetch, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %s scheme is not fetched", ErrNoTitle, u.Scheme)
	}

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitleFetch, err)
	}
	req.Header.Set("User-Agent", "xbelmark/"+Version)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitleFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s: status %d", ErrTitleFetch, uri, resp.StatusCode)
	}

	title, err := extractTitle(io.LimitReader(resp.Body, maxTitleBody))
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, uri)
	}
	return title, nil
}

// extractTitle returns the first non-blank <title> text in an HTML stream.
// Titles inside <svg> are skipped.
func extractTitle(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	inTitle, svgDepth := false, 0
	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", fmt.Errorf("%w: %v", ErrTitleFetch, err)
			}
			if title := collapse(b.String()); title != "" {
				return title, nil
			}
			return "", ErrNoTitle
		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Svg:
				svgDepth++
			case atom.Title:
				inTitle = svgDepth == 0
				b.Reset()
			case atom.Body:
				if title := collapse(b.String()); title != "" {
					return title, nil
				}
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Svg:
				if svgDepth > 0 {
					svgDepth--
				}
			case atom.Title:
				if inTitle {
					if title := collapse(b.String()); title != "" {
						return title, nil
					}
				}
				inTitle = false
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
