package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type pickerKind int

const (
	kindRofi pickerKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// picker drives any dmenu-compatible program over stdin/stdout.
type picker struct {
	command string
	kind    pickerKind
	markup  bool // labels are pango markup
	icons   bool
	index   bool // prints the row index instead of its text
}

// runPicker is swapped in tests.
var runPicker = func(command string, args []string, input string) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// 1 is "nothing chosen", 130 is Ctrl+C.
			if code := exitErr.ExitCode(); code == 1 || code == 130 {
				return "", ErrCancelled
			}
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %s", command, msg)
		}
		return "", fmt.Errorf("%s failed: %w", command, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (p *picker) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	labels := p.labels(items)

	out, err := runPicker(p.command, p.args(prompt, items), p.input(items, labels))
	if err != nil {
		return Item{}, err
	}
	if out == "" {
		return Item{}, ErrCancelled
	}

	item, err := p.parse(out, items, labels)
	if err != nil {
		return Item{}, err
	}
	if !item.selectable() {
		return Item{}, ErrCancelled
	}
	return item, nil
}

// labels returns the display text per item. Pickers that answer with the
// row text get duplicates numbered so the answer stays unambiguous.
func (p *picker) labels(items []Item) []string {
	labels := make([]string, len(items))
	seen := make(map[string]int)
	for i, it := range items {
		l := sanitize(it.Label)
		if it.Divider && l == "" {
			l = "──────"
		}
		if !p.index && !it.Divider {
			if n := seen[l]; n > 0 {
				l = fmt.Sprintf("%s (%d)", l, n+1)
			}
			seen[sanitize(it.Label)]++
		}
		labels[i] = l
	}
	return labels
}

func (p *picker) args(prompt string, items []Item) []string {
	var args []string
	switch p.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		if row := firstSelectable(items); row >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(row))
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindWofi:
		args = []string{"--dmenu", "--allow-markup"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

func (p *picker) input(items []Item, labels []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		line := labels[i]
		if p.markup {
			line = html.EscapeString(line)
			if it.Divider || it.Disabled {
				line = "<span foreground='#666666'>" + line + "</span>"
			}
		}
		if p.kind == kindRofi {
			// Row options follow a single NUL as \x1f-separated key/value pairs.
			var attrs []string
			if !it.selectable() {
				attrs = append(attrs, "nonselectable", "true")
			}
			if it.Icon != "" && p.icons {
				attrs = append(attrs, "icon", sanitizeField(it.Icon))
			}
			if len(attrs) > 0 {
				line += "\x00" + strings.Join(attrs, "\x1f")
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (p *picker) parse(out string, items []Item, labels []string) (Item, error) {
	if p.index {
		if idx, err := strconv.Atoi(out); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for i, l := range labels {
		if l == out {
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", out)
}

func firstSelectable(items []Item) int {
	for i, it := range items {
		if it.selectable() {
			return i
		}
	}
	return -1
}

func sanitize(label string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(label))
}

func sanitizeField(v string) string {
	return sanitize(strings.NewReplacer("\x00", " ", "\x1f", " ").Replace(v))
}
