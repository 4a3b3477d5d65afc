package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/run"
	"github.com/1broseidon/winshell/internal/runtimepath"
	"github.com/1broseidon/winshell/internal/shell"
)

// requestTimeout bounds how long one request may wait on the session loop.
const requestTimeout = 5 * time.Second

// Session is the desktop session the server drives.
type Session interface {
	Snapshot(ctx context.Context) (shell.Snapshot, error)
	Programs(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string, args ...string) error
	QueueOpen(ctx context.Context, name string, args ...string) error
	RunCommand(ctx context.Context, line string) (run.Result, error)
	WindowAction(ctx context.Context, id string, action shell.Action) error
	Move(ctx context.Context, id string, x, y int) (geometry.Rect, error)
	Resize(ctx context.Context, id string, dir geometry.Direction, delta geometry.Point) (geometry.Rect, error)
	TaskbarClick(ctx context.Context, id string) error
	Menu() []menu.Row
	MenuSelect(ctx context.Context, path []string) error
	SetViewport(ctx context.Context, vp geometry.Viewport) (bool, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	session      Session
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(session Session) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		session:    session,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// One JSON request per line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandListWindows:
		return s.handleListWindows(ctx)
	case CommandListPrograms:
		return s.handleListPrograms(ctx)
	case CommandOpenProgram:
		return s.handleOpenProgram(ctx, req.Payload)
	case CommandRun:
		return s.handleRun(ctx, req.Payload)
	case CommandWindowAction:
		return s.handleWindowAction(ctx, req.Payload)
	case CommandMoveWindow:
		return s.handleMoveWindow(ctx, req.Payload)
	case CommandResizeWindow:
		return s.handleResizeWindow(ctx, req.Payload)
	case CommandTaskbarClick:
		return s.handleTaskbarClick(ctx, req.Payload)
	case CommandMenu:
		return s.handleMenu()
	case CommandMenuSelect:
		return s.handleMenuSelect(ctx, req.Payload)
	case CommandSetViewport:
		return s.handleSetViewport(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func okOrError(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleGetStatus returns current session status
func (s *Server) handleGetStatus(ctx context.Context) *Response {
	snap, err := s.session.Snapshot(ctx)
	if err != nil {
		return newSessionErrorResponse(err)
	}
	programs, err := s.session.Programs(ctx)
	if err != nil {
		return newSessionErrorResponse(err)
	}

	return okOrError(StatusData{
		Active:        snap.Active,
		WindowCount:   len(snap.Windows),
		ProgramCount:  len(programs),
		Viewport:      snap.Viewport,
		Clock:         snap.Clock,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	})
}

func (s *Server) handleListWindows(ctx context.Context) *Response {
	snap, err := s.session.Snapshot(ctx)
	if err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(snap)
}

func (s *Server) handleListPrograms(ctx context.Context) *Response {
	programs, err := s.session.Programs(ctx)
	if err != nil {
		return newSessionErrorResponse(err)
	}
	snap, err := s.session.Snapshot(ctx)
	if err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(ProgramsData{Programs: programs, Queued: snap.Queued})
}

func (s *Server) handleOpenProgram(ctx context.Context, payload json.RawMessage) *Response {
	var req OpenProgramPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	log.Printf("IPC: Open program '%s'", req.Name)

	var err error
	if req.Queue {
		err = s.session.QueueOpen(ctx, req.Name, req.Args...)
	} else {
		err = s.session.Open(ctx, req.Name, req.Args...)
	}
	if err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(nil)
}

func (s *Server) handleRun(ctx context.Context, payload json.RawMessage) *Response {
	var req RunPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid run payload: %v", err))
	}

	res, err := s.session.RunCommand(ctx, req.Line)
	if err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(RunData{Program: res.Program, Args: res.Args})
}

func (s *Server) handleWindowAction(ctx context.Context, payload json.RawMessage) *Response {
	var req WindowActionPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window action payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	action, err := shell.ParseAction(req.Action)
	if err != nil {
		return newSessionErrorResponse(err)
	}

	if err := s.session.WindowAction(ctx, req.ID, action); err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(nil)
}

func (s *Server) handleMoveWindow(ctx context.Context, payload json.RawMessage) *Response {
	var req MoveWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	r, err := s.session.Move(ctx, req.ID, req.X, req.Y)
	if err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(WindowData{ID: req.ID, Rect: r})
}

func (s *Server) handleResizeWindow(ctx context.Context, payload json.RawMessage) *Response {
	var req ResizeWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	dir, err := geometry.ParseDirection(req.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	r, err := s.session.Resize(ctx, req.ID, dir, geometry.Point{X: req.DX, Y: req.DY})
	if err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(WindowData{ID: req.ID, Rect: r})
}

func (s *Server) handleTaskbarClick(ctx context.Context, payload json.RawMessage) *Response {
	var req TaskbarClickPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid taskbar payload: %v", err))
	}
	if err := s.session.TaskbarClick(ctx, req.ID); err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(nil)
}

func (s *Server) handleMenu() *Response {
	return okOrError(MenuData{Rows: s.session.Menu()})
}

func (s *Server) handleMenuSelect(ctx context.Context, payload json.RawMessage) *Response {
	var req MenuSelectPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid menu payload: %v", err))
	}
	if len(req.Path) == 0 {
		return NewErrorResponse("path is required")
	}

	log.Printf("IPC: Menu select %v", req.Path)

	if err := s.session.MenuSelect(ctx, req.Path); err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(nil)
}

func (s *Server) handleSetViewport(ctx context.Context, payload json.RawMessage) *Response {
	var req SetViewportPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid viewport payload: %v", err))
	}

	vp := geometry.Viewport{Width: req.Width, Height: req.Height}
	changed, err := s.session.SetViewport(ctx, vp)
	if err != nil {
		return newSessionErrorResponse(err)
	}
	return okOrError(ViewportData{Viewport: vp, Changed: changed})
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
