// Package web provides embedded assets: the static files of the docs site
// and studio, and the default documentation content tree.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree, served at /static/.
// Release builds add the vendored HTMX script under static/js/.
//
//go:embed all:static
var StaticFS embed.FS

// DocsFS embeds the web/docs/ content tree: menus.yaml, guides, reference
// sections and library spec files. Used when neither DOCS_DIR nor S3 is
// configured.
//
//go:embed all:docs
var DocsFS embed.FS
