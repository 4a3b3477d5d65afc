package menu

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a path names no item.
	ErrNotFound = errors.New("menu item not found")
	// ErrSubmenu is returned when a path ends on an item with children.
	ErrSubmenu = errors.New("menu item opens a submenu")
)

// Entry is a row of a menu: either a Separator or an *Item.
type Entry interface {
	isEntry()
}

// Separator is a horizontal rule between groups of items.
type Separator struct{}

func (Separator) isEntry() {}

// Item is a selectable row.
type Item struct {
	Name     string
	Icon     string
	Shortcut string   // Accelerator hint shown on the right, e.g. "Ctrl+N"
	Link     string   // External URL opened instead of a program
	Bold     bool     // Default item
	Disabled bool     // Rendered greyed out; selecting does nothing
	Launch   []string // Program name followed by its arguments
	Action   func()
	Children []Entry
}

func (*Item) isEntry() {}

// IsParent reports whether the item opens a submenu.
func (i *Item) IsParent() bool {
	return len(i.Children) > 0
}

// Launcher opens programs by name.
type Launcher interface {
	Open(name string, args ...string) bool
}

// Find walks entries by item name and returns the item at path. Names match
// case-insensitively.
func Find(entries []Entry, path []string) (*Item, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrNotFound)
	}
	level := entries
	var item *Item
	for depth, name := range path {
		item = nil
		for _, e := range level {
			if it, ok := e.(*Item); ok && strings.EqualFold(it.Name, name) {
				item = it
				break
			}
		}
		if item == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(path[:depth+1], " > "))
		}
		level = item.Children
	}
	return item, nil
}

// Select activates the item at path. Disabled items do nothing. A leaf runs
// its Action and then opens its Launch program through launcher.
func Select(entries []Entry, path []string, launcher Launcher) (*Item, error) {
	item, err := Find(entries, path)
	if err != nil {
		return nil, err
	}
	if item.Disabled {
		return item, nil
	}
	if item.IsParent() {
		return item, fmt.Errorf("%w: %s", ErrSubmenu, item.Name)
	}

	if item.Action != nil {
		item.Action()
	}
	if len(item.Launch) > 0 && launcher != nil {
		if !launcher.Open(item.Launch[0], item.Launch[1:]...) {
			return item, fmt.Errorf("menu item %q: program %q is not registered", item.Name, item.Launch[0])
		}
	}
	return item, nil
}

// Row is a flattened menu line for list-style renderers.
type Row struct {
	Depth     int      `json:"depth" yaml:"depth"`
	Path      []string `json:"path,omitempty" yaml:"path,omitempty"`
	Label     string   `json:"label" yaml:"label"`
	Icon      string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Shortcut  string   `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	Separator bool     `json:"separator,omitempty" yaml:"separator,omitempty"`
	Parent    bool     `json:"parent,omitempty" yaml:"parent,omitempty"`
	Disabled  bool     `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Bold      bool     `json:"bold,omitempty" yaml:"bold,omitempty"`
}

// Flatten lists every entry depth-first.
func Flatten(entries []Entry) []Row {
	var rows []Row
	flatten(entries, nil, &rows)
	return rows
}

func flatten(entries []Entry, prefix []string, rows *[]Row) {
	for _, e := range entries {
		switch v := e.(type) {
		case Separator:
			*rows = append(*rows, Row{Depth: len(prefix), Separator: true})
		case *Item:
			path := append(append([]string(nil), prefix...), v.Name)
			label := v.Name
			if v.IsParent() {
				label += " →"
			}
			*rows = append(*rows, Row{
				Depth:    len(prefix),
				Path:     path,
				Label:    label,
				Icon:     v.Icon,
				Shortcut: v.Shortcut,
				Parent:   v.IsParent(),
				Disabled: v.Disabled,
				Bold:     v.Bold,
			})
			if v.IsParent() {
				flatten(v.Children, path, rows)
			}
		}
	}
}
