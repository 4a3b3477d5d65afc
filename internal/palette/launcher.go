package palette

import (
	"errors"
	"slices"
	"strings"

	"github.com/1broseidon/winshell/internal/menu"
)

const backLabel = "← Back"

// Launcher walks the start menu one level at a time in a picker and
// selects the chosen leaf.
type Launcher struct {
	Backend Backend
	Rows    func() ([]menu.Row, error)
	Select  func(path []string) error
}

// Show runs the picker until a leaf is selected or the user cancels at
// the top level. It returns the selected path.
func (l *Launcher) Show() ([]string, error) {
	rows, err := l.Rows()
	if err != nil {
		return nil, err
	}

	var prefix []string
	for {
		items := Level(rows, prefix)
		if len(items) == 0 {
			return nil, errors.New("palette: start menu is empty")
		}
		prompt := "Start"
		if len(prefix) > 0 {
			prompt = strings.Join(prefix, " › ")
		}

		choice, err := l.Backend.Show(prompt, items)
		if errors.Is(err, ErrCancelled) && len(prefix) > 0 {
			prefix = prefix[:len(prefix)-1]
			continue
		}
		if err != nil {
			return nil, err
		}

		switch {
		case choice.Back:
			prefix = prefix[:len(prefix)-1]
		case choice.Parent:
			prefix = choice.Path
		default:
			if err := l.Select(choice.Path); err != nil {
				return choice.Path, err
			}
			return choice.Path, nil
		}
	}
}

// Level returns the picker items for the submenu at prefix, preceded by a
// back row below the top level.
func Level(rows []menu.Row, prefix []string) []Item {
	depth := len(prefix)
	start := 0
	if depth > 0 {
		start = -1
		for i, r := range rows {
			if r.Parent && slices.Equal(r.Path, prefix) {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil
		}
	}

	var items []Item
	if depth > 0 {
		items = append(items, Item{Label: backLabel, Back: true})
	}
	for _, r := range rows[start:] {
		if r.Depth < depth {
			break
		}
		if r.Depth > depth {
			continue
		}
		items = append(items, Item{
			Label:    r.Label,
			Icon:     r.Icon,
			Path:     r.Path,
			Parent:   r.Parent,
			Divider:  r.Separator,
			Disabled: r.Disabled,
		})
	}
	return items
}
