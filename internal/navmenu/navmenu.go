// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package navmenu resolves the docs navigation menu for a page. Menus are
// static descriptors loaded once from a YAML table; each page names the
// menu it lives under and the descriptor's type decides which of three
// fixed variants is rendered.
package navmenu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMenu is returned by Lookup for an identifier not in the table.
	ErrUnknownMenu = errors.New("unknown menu")

	// ErrUnknownMenuType signals a descriptor with a type outside the closed
	// set. It is a defect in the static menu table.
	ErrUnknownMenuType = errors.New("unknown menu type")

	// ErrInvalidTable is returned when a menu table fails validation.
	ErrInvalidTable = errors.New("invalid menu table")
)

// MenuID identifies a navigation menu.
type MenuID string

const (
	MenuHome           MenuID = "home"
	MenuGettingStarted MenuID = "gettingstarted"
	MenuDatabase       MenuID = "database"
	MenuAuth           MenuID = "auth"
	MenuStorage        MenuID = "storage"
	MenuCLI            MenuID = "cli"
	MenuRefCLI         MenuID = "reference_cli"
	MenuRefKotlinV2    MenuID = "reference_kotlin_v2"
)

// Type is the presentation variant of a menu.
type Type string

const (
	TypeHome      Type = "home"
	TypeGuide     Type = "guide"
	TypeReference Type = "reference"
)

// Menu is the static descriptor of one navigation menu.
type Menu struct {
	ID                 MenuID `yaml:"id" json:"id"`
	Type               Type   `yaml:"type" json:"type"`
	Title              string `yaml:"title" json:"title"`
	Path               string `yaml:"path,omitempty" json:"path,omitempty"`
	CommonSectionsFile string `yaml:"commonSectionsFile,omitempty" json:"common_sections_file,omitempty"`
	SpecFile           string `yaml:"specFile,omitempty" json:"spec_file,omitempty"`
	// Kind of reference page: "cli" or "client-lib". Reference menus only.
	RefType string `yaml:"refType,omitempty" json:"ref_type,omitempty"`
	// Default reference links of a guide menu.
	Refs []RefItem `yaml:"refs,omitempty" json:"refs,omitempty"`
}

// Table is an immutable, validated set of menu descriptors.
type Table struct {
	menus []Menu
	byID  map[MenuID]int
}

// NewTable validates menus and builds a lookup table. The table must hold
// a home menu, unique ids and only known types; reference menus must name
// their base path, sections file and spec file.
func NewTable(menus []Menu) (*Table, error) {
	t := &Table{
		menus: make([]Menu, len(menus)),
		byID:  make(map[MenuID]int, len(menus)),
	}
	copy(t.menus, menus)

	for i, m := range t.menus {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: menu #%d has no id", ErrInvalidTable, i)
		}
		if _, dup := t.byID[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate menu id %q", ErrInvalidTable, m.ID)
		}
		switch m.Type {
		case TypeHome, TypeGuide:
		case TypeReference:
			if m.Path == "" || m.SpecFile == "" || m.CommonSectionsFile == "" {
				return nil, fmt.Errorf("%w: reference menu %q needs path, specFile and commonSectionsFile", ErrInvalidTable, m.ID)
			}
		default:
			return nil, fmt.Errorf("%w: %w %q in menu %q", ErrInvalidTable, ErrUnknownMenuType, m.Type, m.ID)
		}
		t.byID[m.ID] = i
	}

	if _, ok := t.byID[MenuHome]; !ok {
		return nil, fmt.Errorf("%w: no %q menu", ErrInvalidTable, MenuHome)
	}
	return t, nil
}

// Lookup returns the descriptor for id.
func (t *Table) Lookup(id MenuID) (Menu, error) {
	i, ok := t.byID[id]
	if !ok {
		return Menu{}, fmt.Errorf("%w: %q", ErrUnknownMenu, id)
	}
	return t.menus[i], nil
}

// Resolve returns the descriptor for id, or the home descriptor when id is
// not in the table.
func (t *Table) Resolve(id MenuID) Menu {
	if m, err := t.Lookup(id); err == nil {
		return m
	}
	return t.menus[t.byID[MenuHome]]
}

// Menus returns the descriptors in table order.
func (t *Table) Menus() []Menu {
	out := make([]Menu, len(t.menus))
	copy(out, t.menus)
	return out
}

// OfType returns the descriptors with the given type, in table order.
func (t *Table) OfType(typ Type) []Menu {
	var out []Menu
	for _, m := range t.menus {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}
