package mcp

import (
	"context"
	"log"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/shell"
)

const (
	ServerName    = "winshell"
	ServerVersion = "0.1.0"
)

// Client is the subset of the daemon IPC client the tools call.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
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

// Server exposes the running shell session as MCP tools over stdio.
type Server struct {
	mcpServer *mcpsdk.Server
	client    Client
}

// NewServer creates an MCP server that forwards tool calls to the daemon.
func NewServer(client Client) *Server {
	if client == nil {
		client = ipc.NewClient()
	}
	s := &Server{
		mcpServer: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		}, nil),
		client: client,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdin/stdout until ctx is done or the peer disconnects.
func (s *Server) Run(ctx context.Context) error {
	log.Printf("MCP server %s %s listening on stdio", ServerName, ServerVersion)
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the shell's active window, open window count, viewport size and taskbar clock.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every open window with its geometry, activation rank, minimized/maximized state and any in-progress drag phase. Also returns the taskbar buttons in display order.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_programs",
		Description: "List the registered program names and any programs with a queued open request.",
	}, s.handleListPrograms)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_program",
		Description: "Open a registered program by name (for example notepad.exe). With queue=true, the request is held until the program registers instead of failing.",
	}, s.handleOpenProgram)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Submit a command line through the Run dialog, e.g. \"notepad readme.txt\". An unknown program opens the run-error window and the tool returns its message.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_action",
		Description: "Apply a window action: activate, minimize, restore, maximize, unmaximize or close.",
	}, s.handleWindowAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window's top-left corner. The position is clamped so the title bar stays reachable.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a resizable window from an edge or corner (n, s, e, w, ne, nw, se, sw) by a pixel delta. Sizes are clamped to the minimum and to the viewport.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_click",
		Description: "Click a window's taskbar button: minimizes the active window, otherwise restores and activates it.",
	}, s.handleTaskbarClick)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "menu",
		Description: "Return the start menu flattened into rows with depth and label path.",
	}, s.handleMenu)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "menu_select",
		Description: "Select a start menu item by its label path, e.g. [\"Programs\", \"Accessories\", \"Calculator\"].",
	}, s.handleMenuSelect)
}
