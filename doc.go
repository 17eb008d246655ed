// Package xbelmark writes single web bookmarks as files and transforms
// XBEL bookmark collections with XSLT.
//
// # Quick Start
//
// Turn an address and a title into file content and a safe file name:
//
//	b, err := xbelmark.NewBookmark("https://example.com", "Example Site")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := b.Text(xbelmark.FormatXBEL, xbelmark.WithAdded(time.Now()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name := xbelmark.FileNamer{}.FileName(xbelmark.FormatXBEL, b.Title, b.URI)
//	os.WriteFile(name, []byte(text), 0o644)
//
// # Formats
//
// Two formats are supported:
//
//   - FormatURL: the Windows Internet Shortcut, an INI file with a single
//     [InternetShortcut] section holding the URL key. Titles are not stored.
//   - FormatXBEL: an XBEL 1.0 document holding one bookmark element with a
//     title child and an optional added timestamp.
//
// Encode and Decode convert between a (URI, title) pair and file content.
// Decoding an encoded bookmark always yields the original URI, and the
// original title for XBEL. BookmarkHrefs lists every bookmark address of a
// full XBEL collection, folders included.
//
// # File Names
//
// FileNamer maps a title to a name that is valid on Windows, macOS and
// Linux: every whitespace run becomes one underscore (or one space with
// PreserveSpaces) and every reserved character becomes an underscore. When
// the title is blank the URI is used instead.
//
// # Transforms
//
// Transform, Apply and TransformReader run an XSLT 1.0 stylesheet over a
// document with a set of string parameters:
//
//	params, err := xbelmark.ParseParamAssignments([]string{"heading=Reading list"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html, err := xbelmark.Apply("list.xsl", "bookmarks.xbel", params)
//
// Every stylesheet can call the date/time extension function, which turns
// an ISO 8601 timestamp into seconds since the Unix epoch:
//
//	<xsl:stylesheet version="1.0"
//	    xmlns:xsl="http://www.w3.org/1999/XSL/Transform"
//	    xmlns:dt="ext://xbelmark/datetime">
//	  ...
//	  <xsl:value-of select="dt:dateTimeToUnix(string(@added))"/>
//
// Errors wrap ErrStylesheetLoad, ErrInputDocumentLoad or
// ErrTransformExecution so callers can tell which stage failed.
package xbelmark
