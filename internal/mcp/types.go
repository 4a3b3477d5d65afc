package mcp

import (
	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/shell"
	"github.com/1broseidon/winshell/internal/taskbar"
)

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	Active        string `json:"active,omitempty"`
	WindowCount   int    `json:"window_count"`
	ProgramCount  int    `json:"program_count"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Clock         string `json:"clock"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Active   string             `json:"active,omitempty"`
	Windows  []shell.WindowInfo `json:"windows"`
	Taskbar  []taskbar.Entry    `json:"taskbar"`
	Capture  string             `json:"capture,omitempty"`
	RunError string             `json:"run_error,omitempty"`
	Viewport geometry.Viewport  `json:"viewport"`
}

// ListProgramsOutput is the output for the list_programs tool.
type ListProgramsOutput struct {
	Programs []string `json:"programs"`
	Queued   []string `json:"queued,omitempty"`
}

// OpenProgramInput is the input for the open_program tool.
type OpenProgramInput struct {
	Name  string   `json:"name" jsonschema:"required,Registered program name (e.g. notepad.exe)"`
	Args  []string `json:"args,omitempty" jsonschema:"Arguments passed to the program when it opens"`
	Queue bool     `json:"queue,omitempty" jsonschema:"When true, hold the request until the program registers instead of failing"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Line string `json:"line" jsonschema:"required,Command line as typed into the Run dialog"`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	Program string   `json:"program,omitempty"`
	Args    []string `json:"args,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// WindowActionInput is the input for the window_action tool.
type WindowActionInput struct {
	ID     string `json:"id" jsonschema:"required,Window id"`
	Action string `json:"action" jsonschema:"required,One of activate, minimize, restore, maximize, unmaximize, close"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id"`
	X  int    `json:"x" jsonschema:"Target left edge in pixels"`
	Y  int    `json:"y" jsonschema:"Target top edge in pixels"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID        string `json:"id" jsonschema:"required,Window id"`
	Direction string `json:"direction" jsonschema:"required,Edge or corner: n, s, e, w, ne, nw, se, sw"`
	DX        int    `json:"dx,omitempty" jsonschema:"Horizontal pointer delta in pixels"`
	DY        int    `json:"dy,omitempty" jsonschema:"Vertical pointer delta in pixels"`
}

// WindowOutput reports a window's geometry after a move or resize.
type WindowOutput struct {
	ID   string        `json:"id"`
	Rect geometry.Rect `json:"rect"`
}

// WindowIDInput is the input for tools addressing a single window.
type WindowIDInput struct {
	ID string `json:"id" jsonschema:"required,Window id"`
}

// AckOutput is returned by tools that only report success.
type AckOutput struct {
	OK bool `json:"ok"`
}

// MenuOutput is the output for the menu tool.
type MenuOutput struct {
	Rows []menu.Row `json:"rows"`
}

// MenuSelectInput is the input for the menu_select tool.
type MenuSelectInput struct {
	Path []string `json:"path" jsonschema:"required,Label path from the top-level menu down to the item"`
}
