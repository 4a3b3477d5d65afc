package ipc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/run"
	"github.com/1broseidon/winshell/internal/shell"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandListWindows  CommandType = "LIST_WINDOWS"
	CommandListPrograms CommandType = "LIST_PROGRAMS"
	CommandOpenProgram  CommandType = "OPEN_PROGRAM"
	CommandRun          CommandType = "RUN"
	CommandWindowAction CommandType = "WINDOW_ACTION"
	CommandMoveWindow   CommandType = "MOVE_WINDOW"
	CommandResizeWindow CommandType = "RESIZE_WINDOW"
	CommandTaskbarClick CommandType = "TASKBAR_CLICK"
	CommandMenu         CommandType = "MENU"
	CommandMenuSelect   CommandType = "MENU_SELECT"
	CommandSetViewport  CommandType = "SET_VIEWPORT"
)

// Error codes let clients map a failure back to a sentinel error.
const (
	CodeUnknownWindow  = "unknown_window"
	CodeUnknownProgram = "unknown_program"
	CodeUnknownAction  = "unknown_action"
	CodeFileNotFound   = "file_not_found"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Active        string            `json:"active,omitempty"`
	WindowCount   int               `json:"window_count"`
	ProgramCount  int               `json:"program_count"`
	Viewport      geometry.Viewport `json:"viewport"`
	Clock         string            `json:"clock"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	DaemonRunning bool              `json:"daemon_running"`
}

// ProgramsData represents the data returned by LIST_PROGRAMS
type ProgramsData struct {
	Programs []string `json:"programs"`
	Queued   []string `json:"queued,omitempty"`
}

type OpenProgramPayload struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
	// Queue defers the launch until the program registers.
	Queue bool `json:"queue,omitempty"`
}

type RunPayload struct {
	Line string `json:"line"`
}

type RunData struct {
	Program string   `json:"program,omitempty"`
	Args    []string `json:"args,omitempty"`
}

type WindowActionPayload struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

type MoveWindowPayload struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

type ResizeWindowPayload struct {
	ID        string `json:"id"`
	Direction string `json:"direction"`
	DX        int    `json:"dx"`
	DY        int    `json:"dy"`
}

// WindowData reports a window's stored geometry after a move or resize.
type WindowData struct {
	ID   string        `json:"id"`
	Rect geometry.Rect `json:"rect"`
}

type TaskbarClickPayload struct {
	ID string `json:"id"`
}

type MenuData struct {
	Rows []menu.Row `json:"rows"`
}

type MenuSelectPayload struct {
	Path []string `json:"path"`
}

type SetViewportPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ViewportData struct {
	Viewport geometry.Viewport `json:"viewport"`
	Changed  bool              `json:"changed"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// newSessionErrorResponse carries err's message and, for known failures, its code.
func newSessionErrorResponse(err error) *Response {
	resp := NewErrorResponse(err.Error())
	var nf *run.NotFoundError
	switch {
	case errors.Is(err, shell.ErrUnknownWindow):
		resp.Code = CodeUnknownWindow
	case errors.Is(err, shell.ErrUnknownProgram):
		resp.Code = CodeUnknownProgram
	case errors.Is(err, shell.ErrUnknownAction):
		resp.Code = CodeUnknownAction
	case errors.As(err, &nf):
		resp.Code = CodeFileNotFound
	}
	return resp
}

// ErrFileNotFound is restored from a RUN response whose program was not found.
// The daemon has already shown the run-error window by then.
var ErrFileNotFound = errors.New("file not found")

// codeError restores the sentinel for a coded error response.
func codeError(resp *Response) error {
	switch resp.Code {
	case CodeUnknownWindow:
		return fmt.Errorf("daemon error: %w", &remoteError{msg: resp.Error, sentinel: shell.ErrUnknownWindow})
	case CodeUnknownProgram:
		return fmt.Errorf("daemon error: %w", &remoteError{msg: resp.Error, sentinel: shell.ErrUnknownProgram})
	case CodeUnknownAction:
		return fmt.Errorf("daemon error: %w", &remoteError{msg: resp.Error, sentinel: shell.ErrUnknownAction})
	case CodeFileNotFound:
		return fmt.Errorf("daemon error: %w", &remoteError{msg: resp.Error, sentinel: ErrFileNotFound})
	default:
		return fmt.Errorf("daemon error: %s", resp.Error)
	}
}

type remoteError struct {
	msg      string
	sentinel error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.sentinel }

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
