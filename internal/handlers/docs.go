// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"docstudio/internal/cache"
	"docstudio/internal/docs"
	"docstudio/internal/navmenu"
	"docstudio/internal/render"
)

// Docs groups handlers for the public documentation site. Rendered pages
// go through the Valkey page cache; a miss renders the page with the menu
// variant the page lives under.
type Docs struct {
	renderer  *render.Renderer
	menus     *navmenu.Table
	guides    *docs.Guides
	libraries *docs.Libraries
	pageCache *cache.PageCache
}

// NewDocs creates a new Docs handler group. pageCache may be nil, which
// disables caching.
func NewDocs(renderer *render.Renderer, menus *navmenu.Table, guides *docs.Guides, libraries *docs.Libraries, pageCache *cache.PageCache) *Docs {
	return &Docs{
		renderer:  renderer,
		menus:     menus,
		guides:    guides,
		libraries: libraries,
		pageCache: pageCache,
	}
}

// Home renders the docs landing page under the home menu.
func (d *Docs) Home(w http.ResponseWriter, r *http.Request) {
	ctx := navmenu.WithMenu(r.Context(), navmenu.MenuHome, nil)
	d.cached(w, r.WithContext(ctx), cache.HomeKey(), func() (string, *render.PageData, error) {
		return "home", &render.PageData{
			Title:   "Documentation",
			Section: "home",
			Data: map[string]any{
				"Guides":     d.menus.OfType(navmenu.TypeGuide),
				"References": d.menus.OfType(navmenu.TypeReference),
			},
		}, nil
	})
}

// Guide renders /guides/{section} and /guides/{section}/*.
func (d *Docs) Guide(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	slug := strings.Trim(chi.URLParam(r, "*"), "/")

	menu, ok := d.guideMenu(section)
	if !ok {
		d.NotFound(w, r)
		return
	}
	ctx := navmenu.WithMenu(r.Context(), menu.ID, menu.Refs)

	d.cached(w, r.WithContext(ctx), cache.GuideKey(section, slug), func() (string, *render.PageData, error) {
		guide, err := d.guides.StaticProps(section, slug)
		if err != nil {
			return "", nil, err
		}
		slugs, err := d.guides.StaticPaths(section)
		if err != nil {
			return "", nil, err
		}

		items := make([]render.NavItem, 0, len(slugs))
		for _, s := range slugs {
			items = append(items, render.NavItem{
				Label:  guideLabel(s),
				Href:   strings.TrimRight(menu.Path+"/"+s, "/"),
				Active: s == slug,
			})
		}

		title := guide.Frontmatter.Title
		if title == "" {
			title = menu.Title
		}
		return "guide", &render.PageData{
			Title:    title,
			Section:  section,
			NavItems: items,
			EditLink: guide.EditLink,
			Data:     map[string]any{"Guide": guide},
		}, nil
	})
}

// Reference renders /reference/{lib} and /reference/{lib}/{slug}.
func (d *Docs) Reference(w http.ResponseWriter, r *http.Request) {
	lib := chi.URLParam(r, "lib")
	sectionSlug := chi.URLParam(r, "slug")

	ref, ok := d.libraries.Get(lib)
	if !ok {
		d.NotFound(w, r)
		return
	}
	ctx := navmenu.WithMenu(r.Context(), ref.Menu.ID, nil)

	d.cached(w, r.WithContext(ctx), cache.RefKey(lib, sectionSlug), func() (string, *render.PageData, error) {
		page, err := ref.StaticProps(sectionSlug)
		if err != nil {
			return "", nil, err
		}

		items := make([]render.NavItem, 0, len(ref.Sections))
		for _, s := range ref.Sections {
			items = append(items, render.NavItem{
				Label:  s.Title,
				Href:   "/reference/" + lib + "/" + s.Slug,
				Active: s.Slug == page.Section.Slug,
			})
		}

		return "reference", &render.PageData{
			Title:    page.Section.Title,
			Section:  lib,
			NavItems: items,
			Data:     map[string]any{"Page": page},
		}, nil
	})
}

// NotFound renders the docs 404 page under the home menu.
func (d *Docs) NotFound(w http.ResponseWriter, r *http.Request) {
	d.renderer.PageStatus(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: "Page not found",
		Nav:   d.menus.ForID(navmenu.MenuHome, nil),
		Data:  map[string]any{"Path": r.URL.Path},
	})
}

// cached serves key from the page cache, or runs build, renders the full
// layout and stores the result. A docs.ErrNotFound from build becomes a 404.
func (d *Docs) cached(w http.ResponseWriter, r *http.Request, key string, build func() (string, *render.PageData, error)) {
	ctx := r.Context()

	if d.pageCache != nil {
		if html, ok := d.pageCache.Get(ctx, key); ok {
			writeHTML(w, html)
			return
		}
	}

	name, data, err := build()
	if errors.Is(err, docs.ErrNotFound) {
		d.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("build docs page failed", "error", err, "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data.Nav = d.nav(ctx)

	var buf bytes.Buffer
	if err := d.renderer.Render(&buf, name, data); err != nil {
		slog.Error("render docs page failed", "error", err, "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if d.pageCache != nil {
		d.pageCache.Set(ctx, key, buf.Bytes())
	}
	writeHTML(w, buf.Bytes())
}

// nav builds the menu variant recorded in ctx.
func (d *Docs) nav(ctx context.Context) navmenu.Element {
	id, refData := navmenu.FromContext(ctx)
	return d.menus.ForID(id, refData)
}

// guideMenu finds the guide menu whose path is /guides/<section>.
func (d *Docs) guideMenu(section string) (navmenu.Menu, bool) {
	want := "/guides/" + section
	for _, m := range d.menus.OfType(navmenu.TypeGuide) {
		if m.Path == want {
			return m, true
		}
	}
	return navmenu.Menu{}, false
}

// guideLabel turns a guide slug into a sidebar label.
func guideLabel(slug string) string {
	if slug == "" {
		return "Overview"
	}
	label := strings.ReplaceAll(path.Base(slug), "-", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}
