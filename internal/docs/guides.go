// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package docs loads the documentation content tree: Markdown guides with
// YAML frontmatter, and reference pages assembled from a common-sections
// table plus a library spec file. The tree is read through fs.FS so it can
// come from the embedded copy, a local checkout or an S3 bucket.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"docstudio/internal/markdown"
)

// ErrNotFound is returned when a requested guide or reference section does
// not exist.
var ErrNotFound = errors.New("docs page not found")

const guidesDir = "guides"

// Frontmatter is the YAML header of a guide.
type Frontmatter struct {
	Title       string   `yaml:"title" json:"title"`
	Subtitle    string   `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	HideToc     bool     `yaml:"hideToc,omitempty" json:"hide_toc,omitempty"`
	TocVideo    string   `yaml:"tocVideo,omitempty" json:"toc_video,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Guide is a rendered guide page.
type Guide struct {
	Section     string
	Slug        string // "" for the section index
	Frontmatter Frontmatter
	HTML        string
	EditLink    string
}

// Guides reads guide pages from guides/<section>/ in fsys.
type Guides struct {
	fsys     fs.FS
	editBase string
}

// NewGuides creates a guide loader. editBase, when set, prefixes the path
// of each source file to form its "edit this page" link.
func NewGuides(fsys fs.FS, editBase string) *Guides {
	return &Guides{fsys: fsys, editBase: strings.TrimRight(editBase, "/")}
}

// StaticPaths lists the slugs of every guide in a section, sorted. The
// section index is the empty slug; nested directories produce
// slash-separated slugs.
func (g *Guides) StaticPaths(section string) ([]string, error) {
	if !validSegment(section) {
		return nil, fmt.Errorf("%w: section %q", ErrNotFound, section)
	}
	root := path.Join(guidesDir, section)

	var slugs []string
	err := fs.WalkDir(g.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		rel := strings.TrimSuffix(strings.TrimPrefix(p, root+"/"), ".md")
		if rel == "index" {
			rel = ""
		} else {
			rel = strings.TrimSuffix(rel, "/index")
		}
		slugs = append(slugs, rel)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: section %q", ErrNotFound, section)
	}
	if err != nil {
		return nil, fmt.Errorf("walk guides %s: %w", section, err)
	}
	sort.Strings(slugs)
	return slugs, nil
}

// StaticProps loads and renders one guide.
func (g *Guides) StaticProps(section, slug string) (*Guide, error) {
	slug = strings.Trim(slug, "/")
	if !validSegment(section) || (slug != "" && !fs.ValidPath(slug)) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, section, slug)
	}

	file, src, err := g.read(section, slug)
	if err != nil {
		return nil, err
	}

	guide := &Guide{Section: section, Slug: slug}
	body, err := markdown.SplitFrontmatter(src, &guide.Frontmatter)
	if err != nil {
		return nil, fmt.Errorf("guide %s: %w", file, err)
	}
	html, err := markdown.ToHTML(string(body))
	if err != nil {
		return nil, fmt.Errorf("render guide %s: %w", file, err)
	}
	guide.HTML = html
	if g.editBase != "" {
		guide.EditLink = g.editBase + "/" + file
	}
	return guide, nil
}

// read tries <slug>.md, then <slug>/index.md.
func (g *Guides) read(section, slug string) (string, []byte, error) {
	base := path.Join(guidesDir, section, slug)
	candidates := []string{base + ".md", path.Join(base, "index.md")}
	if slug == "" {
		candidates = candidates[1:]
	}
	for _, name := range candidates {
		src, err := fs.ReadFile(g.fsys, name)
		if err == nil {
			return name, src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("read guide %s: %w", name, err)
		}
	}
	return "", nil, fmt.Errorf("%w: %s/%s", ErrNotFound, section, slug)
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
