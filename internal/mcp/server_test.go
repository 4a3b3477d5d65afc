package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/shell"
)

type fakeClient struct {
	opened   []string
	actions  []string
	resized  geometry.Direction
	selected []string
	runErr   error
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{Active: "notepad.exe", WindowCount: 2, Viewport: geometry.Viewport{Width: 1024, Height: 768}, Clock: "3:04 PM"}, nil
}

func (f *fakeClient) ListWindows() (*shell.Snapshot, error) {
	return &shell.Snapshot{
		Active:  "notepad.exe",
		Windows: []shell.WindowInfo{{ID: "notepad.exe", Title: "Notepad", Active: true, Rank: 1}},
	}, nil
}

func (f *fakeClient) ListPrograms() (*ipc.ProgramsData, error) {
	return &ipc.ProgramsData{Programs: []string{"calc.exe", "notepad.exe"}}, nil
}

func (f *fakeClient) OpenProgram(name string, _ []string, queue bool) error {
	if name == "ghost.exe" && !queue {
		return fmt.Errorf("daemon error: %w", shell.ErrUnknownProgram)
	}
	f.opened = append(f.opened, name)
	return nil
}

func (f *fakeClient) Run(line string) (*ipc.RunData, error) {
	if f.runErr != nil {
		return nil, f.runErr
	}
	fields := strings.Fields(line)
	return &ipc.RunData{Program: fields[0] + ".exe", Args: fields[1:]}, nil
}

func (f *fakeClient) WindowAction(id string, action shell.Action) error {
	f.actions = append(f.actions, id+":"+string(action))
	return nil
}

func (f *fakeClient) MoveWindow(id string, x, y int) (*ipc.WindowData, error) {
	return &ipc.WindowData{ID: id, Rect: geometry.Rect{X: x, Y: y, Width: 400, Height: 300}}, nil
}

func (f *fakeClient) ResizeWindow(id string, dir geometry.Direction, dx, _ int) (*ipc.WindowData, error) {
	f.resized = dir
	return &ipc.WindowData{ID: id, Rect: geometry.Rect{Width: 400 + dx, Height: 300}}, nil
}

func (f *fakeClient) TaskbarClick(id string) error {
	f.actions = append(f.actions, id+":taskbar")
	return nil
}

func (f *fakeClient) Menu() (*ipc.MenuData, error) {
	return &ipc.MenuData{Rows: []menu.Row{{Label: "Programs →", Parent: true}}}, nil
}

func (f *fakeClient) MenuSelect(path []string) error {
	f.selected = path
	return nil
}

func TestNewServerRegistersTools(t *testing.T) {
	if s := NewServer(&fakeClient{}); s.mcpServer == nil {
		t.Fatalf("mcp server not created")
	}
}

func TestHandleOpenProgram(t *testing.T) {
	fc := &fakeClient{}
	s := &Server{client: fc}
	ctx := context.Background()

	tests := []struct {
		name    string
		in      OpenProgramInput
		wantErr string
	}{
		{"registered", OpenProgramInput{Name: "notepad.exe"}, ""},
		{"blank name", OpenProgramInput{Name: "  "}, "name is required"},
		{"unknown", OpenProgramInput{Name: "ghost.exe"}, "use list_programs"},
		{"queued unknown", OpenProgramInput{Name: "ghost.exe", Queue: true}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleOpenProgram(ctx, nil, tt.in)
			if tt.wantErr == "" {
				if err != nil || !out.OK {
					t.Fatalf("out = %+v, err = %v", out, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
	if len(fc.opened) != 2 {
		t.Fatalf("opened = %v", fc.opened)
	}
}

func TestHandleRunCommand(t *testing.T) {
	fc := &fakeClient{}
	s := &Server{client: fc}

	_, out, err := s.handleRunCommand(context.Background(), nil, RunCommandInput{Line: "notepad readme.txt"})
	if err != nil || out.Program != "notepad.exe" || len(out.Args) != 1 {
		t.Fatalf("out = %+v, err = %v", out, err)
	}

	msg := "Cannot find the file 'ghost' (or one of its components). Make sure the path and filename are correct and that all required libraries are available."
	fc.runErr = fmt.Errorf("daemon error: %w", &wrapped{msg: msg, target: ipc.ErrFileNotFound})
	_, out, err = s.handleRunCommand(context.Background(), nil, RunCommandInput{Line: "ghost"})
	if err != nil {
		t.Fatalf("not-found should be reported as output, got %v", err)
	}
	if out.Error != msg {
		t.Fatalf("error = %q", out.Error)
	}

	fc.runErr = errors.New("daemon not running")
	if _, _, err := s.handleRunCommand(context.Background(), nil, RunCommandInput{Line: "x"}); err == nil {
		t.Fatalf("expected transport error")
	}
}

type wrapped struct {
	msg    string
	target error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.target }

func TestHandleWindowActionAndResize(t *testing.T) {
	fc := &fakeClient{}
	s := &Server{client: fc}
	ctx := context.Background()

	if _, _, err := s.handleWindowAction(ctx, nil, WindowActionInput{ID: "calc.exe", Action: "maximize"}); err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if _, _, err := s.handleWindowAction(ctx, nil, WindowActionInput{ID: "calc.exe", Action: "explode"}); err == nil {
		t.Fatalf("expected unknown action error")
	}
	if _, _, err := s.handleTaskbarClick(ctx, nil, WindowIDInput{ID: "calc.exe"}); err != nil {
		t.Fatalf("taskbar: %v", err)
	}
	if got := strings.Join(fc.actions, ","); got != "calc.exe:maximize,calc.exe:taskbar" {
		t.Fatalf("actions = %s", got)
	}

	_, win, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: "notepad.exe", Direction: "SE", DX: 20})
	if err != nil || fc.resized != geometry.DirSE || win.Rect.Width != 420 {
		t.Fatalf("resize = %+v, dir %v, err %v", win, fc.resized, err)
	}
	if _, _, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: "notepad.exe", Direction: "up"}); err == nil {
		t.Fatalf("expected direction error")
	}
}

func TestHandleListAndMenu(t *testing.T) {
	fc := &fakeClient{}
	s := &Server{client: fc}
	ctx := context.Background()

	_, st, err := s.handleGetStatus(ctx, nil, EmptyInput{})
	if err != nil || st.Width != 1024 || st.Active != "notepad.exe" {
		t.Fatalf("status = %+v, err = %v", st, err)
	}
	_, wins, err := s.handleListWindows(ctx, nil, EmptyInput{})
	if err != nil || len(wins.Windows) != 1 || wins.Windows[0].Rank != 1 {
		t.Fatalf("windows = %+v, err = %v", wins, err)
	}
	_, m, err := s.handleMenu(ctx, nil, EmptyInput{})
	if err != nil || len(m.Rows) != 1 {
		t.Fatalf("menu = %+v, err = %v", m, err)
	}
	if _, _, err := s.handleMenuSelect(ctx, nil, MenuSelectInput{}); err == nil {
		t.Fatalf("empty path should fail")
	}
	path := []string{"Programs", "Accessories", "Calculator"}
	if _, _, err := s.handleMenuSelect(ctx, nil, MenuSelectInput{Path: path}); err != nil || len(fc.selected) != 3 {
		t.Fatalf("select err = %v, selected = %v", err, fc.selected)
	}
}
