package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/runtimepath"
	"github.com/1broseidon/winshell/internal/shell"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, codeError(&resp)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out.
func (c *Client) call(command CommandType, payload, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows retrieves the full session snapshot.
func (c *Client) ListWindows() (*shell.Snapshot, error) {
	var snap shell.Snapshot
	if err := c.call(CommandListWindows, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListPrograms retrieves registered and queued program names.
func (c *Client) ListPrograms() (*ProgramsData, error) {
	var data ProgramsData
	if err := c.call(CommandListPrograms, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// OpenProgram launches a program. With queue set, an unregistered program
// launches once it registers.
func (c *Client) OpenProgram(name string, args []string, queue bool) error {
	return c.call(CommandOpenProgram, OpenProgramPayload{Name: name, Args: args, Queue: queue}, nil)
}

// Run submits a Run dialog command line.
func (c *Client) Run(line string) (*RunData, error) {
	var data RunData
	if err := c.call(CommandRun, RunPayload{Line: line}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// WindowAction applies a window action such as "minimize" or "close".
func (c *Client) WindowAction(id string, action shell.Action) error {
	return c.call(CommandWindowAction, WindowActionPayload{ID: id, Action: string(action)}, nil)
}

// MoveWindow drags a window so its origin lands at (x, y).
func (c *Client) MoveWindow(id string, x, y int) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandMoveWindow, MoveWindowPayload{ID: id, X: x, Y: y}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ResizeWindow drags a window's dir edge by (dx, dy).
func (c *Client) ResizeWindow(id string, dir geometry.Direction, dx, dy int) (*WindowData, error) {
	var data WindowData
	payload := ResizeWindowPayload{ID: id, Direction: dir.String(), DX: dx, DY: dy}
	if err := c.call(CommandResizeWindow, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// TaskbarClick clicks a window's taskbar button.
func (c *Client) TaskbarClick(id string) error {
	return c.call(CommandTaskbarClick, TaskbarClickPayload{ID: id}, nil)
}

// Menu retrieves the start menu rows.
func (c *Client) Menu() (*MenuData, error) {
	var data MenuData
	if err := c.call(CommandMenu, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// MenuSelect chooses the start menu item at path.
func (c *Client) MenuSelect(path []string) error {
	return c.call(CommandMenuSelect, MenuSelectPayload{Path: path}, nil)
}

// SetViewport reports a new viewport size to the session.
func (c *Client) SetViewport(width, height int) (*ViewportData, error) {
	var data ViewportData
	if err := c.call(CommandSetViewport, SetViewportPayload{Width: width, Height: height}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
