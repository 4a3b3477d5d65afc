package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/shell"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		Active:        st.Active,
		WindowCount:   st.WindowCount,
		ProgramCount:  st.ProgramCount,
		Width:         st.Viewport.Width,
		Height:        st.Viewport.Height,
		Clock:         st.Clock,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	snap, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{
		Active:   snap.Active,
		Windows:  snap.Windows,
		Taskbar:  snap.Taskbar,
		Capture:  snap.Capture,
		RunError: snap.RunError,
		Viewport: snap.Viewport,
	}, nil
}

func (s *Server) handleListPrograms(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListProgramsOutput, error) {
	progs, err := s.client.ListPrograms()
	if err != nil {
		return nil, ListProgramsOutput{}, err
	}
	return nil, ListProgramsOutput{Programs: progs.Programs, Queued: progs.Queued}, nil
}

func (s *Server) handleOpenProgram(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenProgramInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return nil, AckOutput{}, fmt.Errorf("name is required")
	}
	if err := s.client.OpenProgram(name, args.Args, args.Queue); err != nil {
		if errors.Is(err, shell.ErrUnknownProgram) {
			return nil, AckOutput{}, fmt.Errorf("unknown program %q; use list_programs or set queue=true", name)
		}
		return nil, AckOutput{}, err
	}
	log.Printf("mcp: open_program %s (queue=%v)", name, args.Queue)
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	res, err := s.client.Run(args.Line)
	if errors.Is(err, ipc.ErrFileNotFound) {
		// Reported as data: the shell handled it by showing the error window.
		return nil, RunCommandOutput{Error: strings.TrimPrefix(err.Error(), "daemon error: ")}, nil
	}
	if err != nil {
		return nil, RunCommandOutput{}, err
	}
	return nil, RunCommandOutput{Program: res.Program, Args: res.Args}, nil
}

func (s *Server) handleWindowAction(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	action, err := shell.ParseAction(args.Action)
	if err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.client.WindowAction(args.ID, action); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	win, err := s.client.MoveWindow(args.ID, args.X, args.Y)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{ID: win.ID, Rect: win.Rect}, nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	dir, err := geometry.ParseDirection(args.Direction)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	win, err := s.client.ResizeWindow(args.ID, dir, args.DX, args.DY)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{ID: win.ID, Rect: win.Rect}, nil
}

func (s *Server) handleTaskbarClick(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.client.TaskbarClick(args.ID); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleMenu(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, MenuOutput, error) {
	m, err := s.client.Menu()
	if err != nil {
		return nil, MenuOutput{}, err
	}
	return nil, MenuOutput{Rows: m.Rows}, nil
}

func (s *Server) handleMenuSelect(_ context.Context, _ *mcpsdk.CallToolRequest, args MenuSelectInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if len(args.Path) == 0 {
		return nil, AckOutput{}, fmt.Errorf("path is required")
	}
	if err := s.client.MenuSelect(args.Path); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}
