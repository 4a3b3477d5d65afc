package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/shell"
)

type formKind int

const (
	formMove formKind = iota
	formResize
)

// geometryForm holds the huh form and its bound values for a move or
// resize request against one window.
type geometryForm struct {
	kind formKind
	id   string
	form *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fX   string
	fY   string
	fDir string
	fDX  string
	fDY  string
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}

func newMoveForm(w shell.WindowInfo, width int) *geometryForm {
	f := &geometryForm{
		kind: formMove,
		id:   w.ID,
		fX:   strconv.Itoa(w.Rect.X),
		fY:   strconv.Itoa(w.Rect.Y),
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("x").
				Title("Left edge (px)").
				Value(&f.fX).
				Validate(validateInt),
			huh.NewInput().
				Key("y").
				Title("Top edge (px)").
				Value(&f.fY).
				Validate(validateInt),
		).Title("Move " + w.Title),
	).WithWidth(width).WithShowHelp(true).WithShowErrors(true)
	return f
}

func newResizeForm(w shell.WindowInfo, width int) *geometryForm {
	f := &geometryForm{
		kind: formResize,
		id:   w.ID,
		fDir: geometry.DirSE.String(),
		fDX:  "0",
		fDY:  "0",
	}
	dirs := make([]huh.Option[string], 0, len(geometry.AllDirections))
	for _, d := range geometry.AllDirections {
		dirs = append(dirs, huh.NewOption(strings.ToUpper(d.String()), d.String()))
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("direction").
				Title("Edge or corner").
				Options(dirs...).
				Value(&f.fDir),
			huh.NewInput().
				Key("dx").
				Title("Horizontal delta (px)").
				Value(&f.fDX).
				Validate(validateInt),
			huh.NewInput().
				Key("dy").
				Title("Vertical delta (px)").
				Value(&f.fDY).
				Validate(validateInt),
		).Title(fmt.Sprintf("Resize %s (%d×%d)", w.Title, w.Rect.Width, w.Rect.Height)),
	).WithWidth(width).WithShowHelp(true).WithShowErrors(true)
	return f
}

// apply sends the completed form to the daemon and returns the new rect.
func (f *geometryForm) apply(client Client) (geometry.Rect, error) {
	atoi := func(s string) int {
		v, _ := strconv.Atoi(strings.TrimSpace(s))
		return v
	}
	switch f.kind {
	case formMove:
		win, err := client.MoveWindow(f.id, atoi(f.fX), atoi(f.fY))
		if err != nil {
			return geometry.Rect{}, err
		}
		return win.Rect, nil
	default:
		dir, err := geometry.ParseDirection(f.fDir)
		if err != nil {
			return geometry.Rect{}, err
		}
		win, err := client.ResizeWindow(f.id, dir, atoi(f.fDX), atoi(f.fDY))
		if err != nil {
			return geometry.Rect{}, err
		}
		return win.Rect, nil
	}
}
