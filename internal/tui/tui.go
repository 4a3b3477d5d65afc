package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/shell"
)

// Client is the daemon API the TUI drives.
type Client interface {
	ListWindows() (*shell.Snapshot, error)
	ListPrograms() (*ipc.ProgramsData, error)
	OpenProgram(name string, args []string, queue bool) error
	Run(line string) (*ipc.RunData, error)
	WindowAction(id string, action shell.Action) error
	MoveWindow(id string, x, y int) (*ipc.WindowData, error)
	ResizeWindow(id string, dir geometry.Direction, dx, dy int) (*ipc.WindowData, error)
	TaskbarClick(id string) error
	Menu() (*ipc.MenuData, error)
	MenuSelect(path []string) error
}

// Run starts the shell monitor against a running daemon.
func Run(client Client) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if client == nil {
		client = ipc.NewClient()
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
