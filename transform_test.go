package xbelmark

// Notes:
// - Stylesheets and inputs are written to t.TempDir() for the path-based
//   API; TransformReader covers in-memory content
// - The date/time extension is reached through DateTimeNamespace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-xbelmark/internal/assets"
)

const testXBEL = `<?xml version="1.0" encoding="UTF-8"?>
<xbel version="1.0">
  <bookmark href="https://example.com" added="2023-01-02T03:04:05+00:00"><title>Example Site</title></bookmark>
  <bookmark href="https://go.dev" added="2023-01-02"><title>Go</title></bookmark>
</xbel>`

const listStylesheet = `<xsl:stylesheet version="1.0"
    xmlns:xsl="http://www.w3.org/1999/XSL/Transform"
    xmlns:dt="ext://xbelmark/datetime">
  <xsl:output method="text"/>
  <xsl:param name="heading" select="'Bookmarks'"/>
  <xsl:template match="/">
    <xsl:value-of select="$heading"/>
    <xsl:text>&#10;</xsl:text>
    <xsl:for-each select="xbel/bookmark">
      <xsl:value-of select="dt:dateTimeToUnix(@added)"/>
      <xsl:text> </xsl:text>
      <xsl:value-of select="title"/>
      <xsl:text>&#10;</xsl:text>
    </xsl:for-each>
  </xsl:template>
</xsl:stylesheet>`

// writeFiles writes name/content pairs to a temp dir and returns the dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestApply(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"list.xsl":       listStylesheet,
		"bookmarks.xbel": testXBEL,
	})
	xsl := filepath.Join(dir, "list.xsl")
	in := filepath.Join(dir, "bookmarks.xbel")

	tests := []struct {
		name   string
		params ParameterMap
		want   string
	}{
		{
			name: "default parameter",
			want: "Bookmarks\n1672628645 Example Site\n1672617600 Go\n",
		},
		{
			name:   "bound parameter",
			params: ParameterMap{"heading": "Links"},
			want:   "Links\n1672628645 Example Site\n1672617600 Go\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Apply(xsl, in, tt.params)
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransform_Errors(t *testing.T) {
	t.Parallel()

	badDate := strings.Replace(testXBEL, `added="2023-01-02"`, `added="yesterday"`, 1)
	dir := writeFiles(t, map[string]string{
		"list.xsl":     listStylesheet,
		"broken.xsl":   "<xsl:stylesheet",
		"plain.xml":    "<notxsl/>",
		"good.xbel":    testXBEL,
		"broken.xbel":  "<xbel><bookmark>",
		"baddate.xbel": badDate,
	})
	path := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		name    string
		req     TransformRequest
		wantErr error
	}{
		{
			name:    "missing stylesheet",
			req:     TransformRequest{StylesheetPath: path("missing.xsl"), InputPath: path("good.xbel")},
			wantErr: ErrStylesheetLoad,
		},
		{
			name:    "malformed stylesheet",
			req:     TransformRequest{StylesheetPath: path("broken.xsl"), InputPath: path("good.xbel")},
			wantErr: ErrStylesheetLoad,
		},
		{
			name:    "not a stylesheet",
			req:     TransformRequest{StylesheetPath: path("plain.xml"), InputPath: path("good.xbel")},
			wantErr: ErrStylesheetLoad,
		},
		{
			name:    "missing input",
			req:     TransformRequest{StylesheetPath: path("list.xsl"), InputPath: path("missing.xbel")},
			wantErr: ErrInputDocumentLoad,
		},
		{
			name:    "malformed input",
			req:     TransformRequest{StylesheetPath: path("list.xsl"), InputPath: path("broken.xbel")},
			wantErr: ErrInputDocumentLoad,
		},
		{
			name:    "extension function fails",
			req:     TransformRequest{StylesheetPath: path("list.xsl"), InputPath: path("baddate.xbel")},
			wantErr: ErrTransformExecution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Transform(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Transform() error = %v, want %v", err, tt.wantErr)
			}
			if got != "" {
				t.Errorf("Transform() returned partial output %q", got)
			}
		})
	}
}

func TestTransformReader(t *testing.T) {
	t.Parallel()

	t.Run("html output", func(t *testing.T) {
		t.Parallel()

		xsl := `<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:param name="title"/>
  <xsl:template match="/">
    <html><head><title><xsl:value-of select="$title"/></title></head>
    <body><ul><xsl:apply-templates select="//bookmark"/></ul></body></html>
  </xsl:template>
  <xsl:template match="bookmark">
    <li><a href="{@href}"><xsl:value-of select="title"/></a></li>
  </xsl:template>
</xsl:stylesheet>`

		got, err := TransformReader(strings.NewReader(xsl), strings.NewReader(testXBEL), ParameterMap{"title": "Mine"})
		if err != nil {
			t.Fatalf("TransformReader() unexpected error: %v", err)
		}
		for _, want := range []string{
			"<title>Mine</title>",
			`<li><a href="https://example.com">Example Site</a></li>`,
			`<li><a href="https://go.dev">Go</a></li>`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("TransformReader() = %q, missing %q", got, want)
			}
		}
		if strings.HasPrefix(got, "<?xml") {
			t.Errorf("TransformReader() wrote an XML declaration for HTML output: %q", got)
		}
	})

	t.Run("undeclared extension function", func(t *testing.T) {
		t.Parallel()

		xsl := `<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform"
    xmlns:x="ext://unknown">
  <xsl:template match="/"><xsl:value-of select="x:nothing()"/></xsl:template>
</xsl:stylesheet>`

		_, err := TransformReader(strings.NewReader(xsl), strings.NewReader(testXBEL), nil)
		if !errors.Is(err, ErrTransformExecution) {
			t.Errorf("TransformReader() error = %v, want ErrTransformExecution", err)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		t.Parallel()

		_, err := TransformReader(strings.NewReader(listStylesheet), strings.NewReader("not xml <"), nil)
		if !errors.Is(err, ErrInputDocumentLoad) {
			t.Errorf("TransformReader() error = %v, want ErrInputDocumentLoad", err)
		}
	})
}

func TestTransformReader_BuiltInStylesheets(t *testing.T) {
	t.Parallel()

	const nested = `<?xml version="1.0" encoding="UTF-8"?>
<xbel version="1.0">
  <bookmark href="https://example.com"><title>Example   Site</title></bookmark>
  <folder>
    <title>Tools</title>
    <bookmark href="https://go.dev"><title>Go</title></bookmark>
    <separator/>
    <bookmark href="https://pkg.go.dev"/>
  </folder>
</xbel>`

	run := func(t *testing.T, name string, params ParameterMap) string {
		t.Helper()

		src, err := assets.LoadStylesheet(name)
		if err != nil {
			t.Fatalf("LoadStylesheet(%q) error: %v", name, err)
		}
		got, err := TransformReader(strings.NewReader(src), strings.NewReader(nested), params)
		if err != nil {
			t.Fatalf("TransformReader(%q) unexpected error: %v", name, err)
		}
		return got
	}

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		want := "# Links\n\n" +
			"- [Example Site](https://example.com)\n" +
			"\n## Tools\n\n" +
			"- [Go](https://go.dev)\n" +
			"- [https://pkg.go.dev](https://pkg.go.dev)\n"
		if got := run(t, "markdown", ParameterMap{"heading": "Links"}); got != want {
			t.Errorf("markdown = %q, want %q", got, want)
		}
	})

	t.Run("html", func(t *testing.T) {
		t.Parallel()

		got := run(t, "html", nil)
		for _, want := range []string{
			"<h1>Bookmarks</h1>",
			`<a href="https://example.com">Example   Site</a>`,
			"Tools",
			`<a href="https://go.dev">Go</a>`,
			`<a href="https://pkg.go.dev">https://pkg.go.dev</a>`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("html output missing %q:\n%s", want, got)
			}
		}
		if strings.Count(got, "<ul>") != 2 {
			t.Errorf("html output has %d lists, want 2:\n%s", strings.Count(got, "<ul>"), got)
		}
	})
}
