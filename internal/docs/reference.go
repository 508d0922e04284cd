// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"docstudio/internal/markdown"
	"docstudio/internal/navmenu"
	"docstudio/internal/slug"
)

// Section kinds in a common-sections table.
const (
	SectionCategory   = "category"
	SectionMarkdown   = "markdown"
	SectionFunction   = "function"
	SectionCLICommand = "cli-command"
)

// Section is one entry of a common-sections table. Categories only group
// their items and never become pages.
type Section struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	Type     string    `json:"type"`
	Product  string    `json:"product,omitempty"`
	Excludes []string  `json:"excludes,omitempty"`
	Items    []Section `json:"items,omitempty"`
}

// FlattenSections walks the table depth-first and returns every page
// section. Categories are dropped but their items kept; a non-category
// section with items is followed by its items. Missing slugs are derived
// from the title and never collide with another section's slug.
func FlattenSections(sections []Section) []Section {
	seen := slug.NewSet()
	reserveSlugs(sections, seen)
	return flatten(sections, seen)
}

func reserveSlugs(sections []Section, seen *slug.Set) {
	for _, s := range sections {
		if s.Slug != "" {
			seen.Reserve(s.Slug)
		}
		reserveSlugs(s.Items, seen)
	}
}

func flatten(sections []Section, seen *slug.Set) []Section {
	var out []Section
	for _, s := range sections {
		if s.Type != SectionCategory {
			page := s
			page.Items = nil
			if page.Slug == "" {
				page.Slug = seen.Unique(page.Title)
			}
			out = append(out, page)
		}
		out = append(out, flatten(s.Items, seen)...)
	}
	return out
}

// Reference is one loaded reference library.
type Reference struct {
	Menu     navmenu.Menu
	Spec     Spec
	Sections []Section
	fsys     fs.FS
}

// RefPage is the data of one reference page.
type RefPage struct {
	Library  string
	Section  Section
	Command  *Command
	Function *Function
	HTML     string
}

// LoadReference reads the sections table and spec file named by a
// reference menu. Sections excluding this menu are left out.
func LoadReference(fsys fs.FS, menu navmenu.Menu) (*Reference, error) {
	raw, err := fs.ReadFile(fsys, menu.CommonSectionsFile)
	if err != nil {
		return nil, fmt.Errorf("read sections %s: %w", menu.CommonSectionsFile, err)
	}
	var tree []Section
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode sections %s: %w", menu.CommonSectionsFile, err)
	}

	raw, err = fs.ReadFile(fsys, menu.SpecFile)
	if err != nil {
		return nil, fmt.Errorf("read spec %s: %w", menu.SpecFile, err)
	}
	ref := &Reference{Menu: menu, fsys: fsys}
	if err := yaml.Unmarshal(raw, &ref.Spec); err != nil {
		return nil, fmt.Errorf("decode spec %s: %w", menu.SpecFile, err)
	}

	for _, s := range FlattenSections(tree) {
		if slices.Contains(s.Excludes, string(menu.ID)) {
			continue
		}
		ref.Sections = append(ref.Sections, s)
	}
	return ref, nil
}

// Library is the path segment of the reference, e.g. "cli".
func (r *Reference) Library() string {
	return strings.Trim(r.Menu.Path, "/")
}

// StaticPaths lists the slug of every page section.
func (r *Reference) StaticPaths() []string {
	out := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		out = append(out, s.Slug)
	}
	return out
}

// StaticProps builds the page for a section slug. An empty slug selects the
// first section.
func (r *Reference) StaticProps(sectionSlug string) (*RefPage, error) {
	if len(r.Sections) == 0 {
		return nil, fmt.Errorf("%w: %s has no sections", ErrNotFound, r.Library())
	}
	idx := 0
	if sectionSlug != "" {
		idx = slices.IndexFunc(r.Sections, func(s Section) bool { return s.Slug == sectionSlug })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, r.Library(), sectionSlug)
		}
	}

	page := &RefPage{Library: r.Library(), Section: r.Sections[idx]}
	var src string
	switch page.Section.Type {
	case SectionCLICommand:
		page.Command = r.Spec.command(page.Section.ID)
		if page.Command != nil {
			src = commandMarkdown(page.Command)
		}
	case SectionFunction:
		page.Function = r.Spec.function(page.Section.ID)
		if page.Function != nil {
			src = functionMarkdown(page.Function)
		}
	default:
		var err error
		src, err = r.sectionMarkdown(page.Section)
		if err != nil {
			return nil, err
		}
	}

	html, err := markdown.ToHTML(src)
	if err != nil {
		return nil, fmt.Errorf("render %s/%s: %w", r.Library(), page.Section.Slug, err)
	}
	page.HTML = html
	return page, nil
}

// sectionMarkdown reads ref/<library>/<id>.md; a missing file is an empty
// section.
func (r *Reference) sectionMarkdown(s Section) (string, error) {
	name := path.Join("ref", r.Library(), s.ID+".md")
	raw, err := fs.ReadFile(r.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(raw), nil
}

func commandMarkdown(c *Command) string {
	var b strings.Builder
	if c.Summary != "" {
		b.WriteString(c.Summary + "\n\n")
	}
	if c.Description != "" {
		b.WriteString(c.Description + "\n\n")
	}
	if c.Usage != "" {
		b.WriteString("```sh\n" + c.Usage + "\n```\n\n")
	}
	if len(c.Flags) > 0 {
		b.WriteString("| Flag | Description | Default |\n| --- | --- | --- |\n")
		for _, f := range c.Flags {
			name := "`" + f.Name + "`"
			if f.Required {
				name += " (required)"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", name, escapeCell(f.Description), escapeCell(f.DefaultValue))
		}
	}
	return b.String()
}

func functionMarkdown(f *Function) string {
	var b strings.Builder
	if f.Description != "" {
		b.WriteString(f.Description + "\n\n")
	}
	if f.Notes != "" {
		b.WriteString(f.Notes + "\n\n")
	}
	if len(f.Params) > 0 {
		b.WriteString("## Parameters\n\n")
		for _, p := range f.Params {
			opt := ""
			if p.Optional {
				opt = ", optional"
			}
			fmt.Fprintf(&b, "- `%s` (%s%s): %s\n", p.Name, p.Type, opt, p.Description)
		}
		b.WriteString("\n")
	}
	for _, ex := range f.Examples {
		fmt.Fprintf(&b, "### %s\n\n", ex.Name)
		if ex.Description != "" {
			b.WriteString(ex.Description + "\n\n")
		}
		b.WriteString(ex.Code + "\n\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

// Libraries holds every reference library named in a menu table.
type Libraries struct {
	byLibrary map[string]*Reference
}

// LoadLibraries loads the reference library of every reference menu.
func LoadLibraries(fsys fs.FS, table *navmenu.Table) (*Libraries, error) {
	libs := &Libraries{byLibrary: make(map[string]*Reference)}
	for _, m := range table.OfType(navmenu.TypeReference) {
		ref, err := LoadReference(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", m.ID, err)
		}
		libs.byLibrary[ref.Library()] = ref
	}
	return libs, nil
}

// Get returns the library whose path segment is lib.
func (l *Libraries) Get(lib string) (*Reference, bool) {
	ref, ok := l.byLibrary[lib]
	return ref, ok
}
