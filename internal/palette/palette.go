// Package palette shows the start menu in an external dmenu-style picker
// (rofi, fuzzel, wofi or dmenu) so it can be driven from a global hotkey.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the picker closes without a selection.
var ErrCancelled = errors.New("palette cancelled")

// Item is one row handed to a picker.
type Item struct {
	Label    string
	Icon     string
	Path     []string // start menu path; nil for navigation rows
	Parent   bool     // opens a submenu
	Back     bool     // returns to the enclosing level
	Divider  bool     // non-selectable separator
	Disabled bool     // shown but not selectable
}

func (i Item) selectable() bool {
	return !i.Divider && !i.Disabled
}

// Backend shows items and returns the chosen one.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
}

var backendOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// DetectBackend returns the first picker found in PATH.
func DetectBackend() (string, error) {
	for _, name := range backendOrder {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendOrder, ", "))
}

// NewBackend creates a backend by name: auto, rofi, fuzzel, wofi or dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	var p *picker
	switch name {
	case "rofi":
		p = &picker{command: "rofi", kind: kindRofi, markup: true, icons: true, index: true}
	case "fuzzel":
		p = &picker{command: "fuzzel", kind: kindFuzzel, icons: true, index: true}
	case "wofi":
		p = &picker{command: "wofi", kind: kindWofi, markup: true}
	case "dmenu":
		p = &picker{command: "dmenu", kind: kindDmenu}
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(backendOrder, ", "))
	}
	if _, err := lookPath(p.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", p.command)
	}
	return p, nil
}
