// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the docs site and
// the studio dashboard. It supports full-page and HTMX partial rendering,
// automatically detecting the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/dustin/go-humanize"

	"docstudio/internal/connstr"
	"docstudio/internal/middleware"
	"docstudio/internal/navmenu"
	"docstudio/internal/session"
)

//go:embed templates/docs/*.html templates/studio/*.html
var templateFS embed.FS

// layouts are the template directories; every page in a directory is
// paired with that directory's base.html.
var layouts = []string{"docs", "studio"}

// PageData holds all data passed to templates.
type PageData struct {
	Title     string          // Page title for <title> tag
	Section   string          // Active nav entry
	Nav       navmenu.Element // Docs navigation menu variant (docs pages only)
	NavItems  []NavItem       // Links listed under a guide or reference menu
	EditLink  string          // "Edit this page" target (docs pages only)
	Session   *session.Data   // Current dashboard session (nil if locked)
	CSRFToken string          // CSRF token for forms and HTMX headers
	Data      map[string]any  // Page-specific data
	Flashes   []Flash         // One-time notification messages
}

// NavItem is one link of a guide or reference menu.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer executes the parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// standalone pages carry their own <html> and skip the layout base.
var standalone = map[string]bool{
	"login": true,
}

func funcs(devMode bool) template.FuncMap {
	return template.FuncMap{
		"activeClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
		"isDev":     func() bool { return devMode },
		"safeHTML":  func(s string) template.HTML { return template.HTML(s) }, // Markdown from the content tree
		"humanTime": humanize.Time,
		"tabLabel":  connstr.Label,
		"lines":     func(s string) []string { return strings.Split(s, "\n") },
	}
}

// New parses every embedded page. In dev mode pages load HTMX from the CDN
// instead of the vendored copy under /static/.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	fm := funcs(devMode)
	for _, dir := range layouts {
		if err := r.parseLayout(dir, fm); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// parseLayout pairs each page of dir with dir/base.html. Page names are
// global across layouts.
func (rn *Renderer) parseLayout(dir string, fm template.FuncMap) error {
	root := path.Join("templates", dir)
	entries, err := fs.ReadDir(templateFS, root)
	if err != nil {
		return fmt.Errorf("read %s templates: %w", dir, err)
	}
	base := path.Join(root, "base.html")

	for _, e := range entries {
		file := e.Name()
		if e.IsDir() || file == "base.html" {
			continue
		}
		name := strings.TrimSuffix(file, ".html")
		if _, dup := rn.templates[name]; dup {
			return fmt.Errorf("template %s defined in more than one layout", name)
		}

		files := []string{base, path.Join(root, file)}
		rootTmpl := "base.html"
		if standalone[name] {
			files, rootTmpl = files[1:], file
		}
		tmpl, err := template.New(rootTmpl).Funcs(fm).ParseFS(templateFS, files...)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", file, err)
		}
		rn.templates[name] = tmpl
	}
	return nil
}

// Page writes name with a 200: the "content" block alone for HTMX
// requests, the whole layout otherwise.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	execName := rootName(name)
	if isHTMX(r) {
		execName = "content"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("render page failed", "template", name, "block", execName, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Render executes the full layout of a page into w. Used for pages that are
// stored in the page cache.
func (rn *Renderer) Render(w io.Writer, name string, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, rootName(name), data)
}

// rootName is the template to execute for a full page.
func rootName(name string) string {
	if standalone[name] {
		return name + ".html"
	}
	return "base.html"
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
