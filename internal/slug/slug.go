// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL path segments for reference sections whose
// table entry carries no explicit slug.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// separators matches every run of characters that cannot appear in a slug.
// Dots and parentheses in titles such as "auth.signUp()" become hyphens.
var separators = regexp.MustCompile(`[^a-z0-9]+`)

// valid matches a well-formed slug.
var valid = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Generate turns a section title into a slug.
// Example: "Create a user: auth.signUp()" → "create-a-user-auth-signup"
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is a slug Generate could have produced.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// Set hands out slugs that are unique within one reference library.
type Set struct {
	taken map[string]bool
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{taken: make(map[string]bool)}
}

// Reserve marks an explicit slug as taken.
func (s *Set) Reserve(slug string) {
	s.taken[slug] = true
}

// Unique returns Generate(title), suffixed with -2, -3, ... when an
// earlier section already holds it. An untitled section gets "section".
func (s *Set) Unique(title string) string {
	base := Generate(title)
	if base == "" {
		base = "section"
	}
	out := base
	for n := 2; s.taken[out]; n++ {
		out = base + "-" + strconv.Itoa(n)
	}
	s.taken[out] = true
	return out
}
