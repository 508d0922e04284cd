package navmenu

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// file is the on-disk shape of the menu table.
type file struct {
	Menus []Menu `yaml:"menus"`
}

// Load parses and validates a YAML menu table.
func Load(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode menus: %w", err)
	}
	return NewTable(f.Menus)
}

// LoadFS reads the menu table named name from fsys.
func LoadFS(fsys fs.FS, name string) (*Table, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open menus: %w", err)
	}
	defer f.Close()
	return Load(f)
}

type ctxKey struct{}

type selection struct {
	id      MenuID
	refData []RefItem
}

// WithMenu records the menu a page lives under.
func WithMenu(ctx context.Context, id MenuID, refData []RefItem) context.Context {
	return context.WithValue(ctx, ctxKey{}, selection{id: id, refData: refData})
}

// FromContext returns the menu recorded by WithMenu. Without one it yields
// MenuHome.
func FromContext(ctx context.Context) (MenuID, []RefItem) {
	sel, ok := ctx.Value(ctxKey{}).(selection)
	if !ok {
		return MenuHome, nil
	}
	return sel.id, sel.refData
}
