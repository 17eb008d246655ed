// Package assets provides the XSLT stylesheets bundled with xbelmark.
//
// # Loader Architecture
//
//	StylesheetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in stylesheets (html, markdown, tsv)
//	    ├── FilesystemLoader  - {name}.xsl files in a user directory
//	    └── Resolver          - both, user directory first
//
// A stylesheet name is a bare word such as "html": no extension, no path
// separators. Names are validated before any lookup.
//
// # Security
//
// FilesystemLoader resolves symlinks and verifies paths stay within its
// base directory.
package assets
