package run

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/window"
)

const (
	// ProgramName is the launch name of the Run dialog itself.
	ProgramName = "run"
	// ErrorWindowID is the id of the "cannot find the file" window.
	ErrorWindowID = "run-error"

	desktopDir = `c:\windows\desktop\`
)

// ErrEmpty is returned for a blank command line.
var ErrEmpty = errors.New("run: empty command")

// NotFoundError reports a command line that names nothing launchable.
type NotFoundError struct {
	Program string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Cannot find the file '%s' (or one of its components). Make sure the path and filename are correct and that all required libraries are available.", e.Program)
}

// DesktopIcon is a shortcut on the desktop. Its name doubles as a file under
// C:\WINDOWS\Desktop\ for the Run dialog.
type DesktopIcon struct {
	Name   string   `yaml:"name" json:"name"`
	Icon   string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Launch []string `yaml:"launch,omitempty" json:"launch,omitempty"`
}

// Launcher opens programs by name.
type Launcher interface {
	Open(name string, args ...string) bool
}

var token = regexp.MustCompile(`"([^"]+)"|\S+`)

// Parse splits a command line on whitespace. Double-quoted runs stay
// together and lose their quotes.
func Parse(line string) []string {
	matches := token.FindAllString(strings.TrimSpace(line), -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 2 && strings.HasPrefix(m, `"`) && strings.HasSuffix(m, `"`) {
			m = m[1 : len(m)-1]
		}
		parts = append(parts, m)
	}
	return parts
}

// Result describes what a submitted command launched.
type Result struct {
	Program string
	Args    []string
}

// Runner resolves Run dialog command lines.
type Runner struct {
	launcher Launcher
	icons    []DesktopIcon
}

// NewRunner creates a runner that launches through l and resolves desktop
// paths against icons.
func NewRunner(l Launcher, icons []DesktopIcon) *Runner {
	return &Runner{launcher: l, icons: icons}
}

// Submit runs a command line. The program token is matched
// case-insensitively and ".exe" is implied. A drive path only resolves when
// it names a desktop icon.
func (r *Runner) Submit(line string) (Result, error) {
	parts := Parse(line)
	if len(parts) == 0 {
		return Result{}, ErrEmpty
	}
	program := strings.ToLower(parts[0])

	if isDrivePath(program) {
		if file, ok := strings.CutPrefix(program, desktopDir); ok {
			for _, icon := range r.icons {
				if strings.ToLower(icon.Name) != file {
					continue
				}
				if len(icon.Launch) == 0 {
					return Result{}, nil
				}
				r.launcher.Open(icon.Launch[0], icon.Launch[1:]...)
				return Result{Program: icon.Launch[0], Args: icon.Launch[1:]}, nil
			}
		}
		return Result{}, &NotFoundError{Program: program}
	}

	name := program
	if !strings.HasSuffix(name, ".exe") {
		name += ".exe"
	}
	if r.launcher.Open(name, parts[1:]...) {
		return Result{Program: name, Args: parts[1:]}, nil
	}
	return Result{}, &NotFoundError{Program: program}
}

func isDrivePath(s string) bool {
	return len(s) >= 2 && s[1] == ':' && s[0] >= 'a' && s[0] <= 'z'
}

// WindowProps places the Run dialog in the bottom-left corner above the taskbar.
func WindowProps(vp geometry.Viewport) window.Props {
	return window.Props{
		ID:     ProgramName,
		Title:  "Run",
		X:      8,
		Y:      vp.Height - 40 - 163,
		Width:  347,
		Height: 163,
	}
}

// ErrorWindowProps describes the centered error window shown for a failed command.
func ErrorWindowProps(program string) window.Props {
	return window.Props{
		ID:     ErrorWindowID,
		Title:  program,
		X:      geometry.Auto,
		Y:      geometry.Auto,
		Width:  720,
		Height: geometry.Auto,
	}
}
