package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/daemon"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/shell"
	"github.com/1broseidon/winshell/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "programs":
		os.Exit(runPrograms(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "activate", "minimize", "restore", "maximize", "unmaximize", "close":
		os.Exit(runWindowAction(shell.Action(os.Args[1]), os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "resize":
		os.Exit(runResize(os.Args[2:]))
	case "taskbar":
		os.Exit(runTaskbar(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "viewport":
		os.Exit(runViewport(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "launcher":
		os.Exit(runLauncher(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winshell <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the winshell daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows             List open windows")
	fmt.Fprintln(w, "  programs            List registered programs")
	fmt.Fprintln(w, "  open                Open a program by name")
	fmt.Fprintln(w, "  run                 Submit a command line to the Run dialog")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  activate            Bring a window to the front")
	fmt.Fprintln(w, "  minimize            Minimize a window")
	fmt.Fprintln(w, "  restore             Restore a minimized window")
	fmt.Fprintln(w, "  maximize            Maximize a window")
	fmt.Fprintln(w, "  unmaximize          Return a maximized window to its stored rect")
	fmt.Fprintln(w, "  close               Close a window")
	fmt.Fprintln(w, "  move                Move a window by dragging its title bar")
	fmt.Fprintln(w, "  resize              Resize a window from an edge or corner")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  taskbar             Click a window's taskbar button")
	fmt.Fprintln(w, "  menu list           Show the start menu")
	fmt.Fprintln(w, "  menu select         Select a start menu item")
	fmt.Fprintln(w, "  launcher            Pick a start menu item with rofi/fuzzel/wofi/dmenu")
	fmt.Fprintln(w, "  viewport            Set the desktop size")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive session monitor")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winshell <command> --help' for command-specific options.")
}

// stringList is a repeatable flag that also splits on commas.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
	var open stringList
	fs.Var(&open, "open", "Program to open at startup (repeatable or comma separated)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell daemon [--path PATH] [--open NAME]...")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the desktop session in the foreground and serve IPC requests.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	var cfg *config.Config
	if *path == "" {
		c, err := config.Load()
		if err != nil {
			log.Printf("Failed to load configuration: %v", err)
			return 1
		}
		cfg = c
	} else {
		res, err := config.LoadFromPath(*path)
		if err != nil {
			log.Printf("Failed to load configuration: %v", err)
			return 1
		}
		cfg = res.Config
	}

	logger, closer, err := daemon.NewLogger(cfg.Logging)
	if err != nil {
		log.Printf("Failed to open log: %v", err)
		return 1
	}
	defer closer.Close()
	logger.Info("configuration loaded",
		"programs", len(cfg.Programs),
		"viewport_source", cfg.Viewport.Source,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := shell.New(cfg, shell.Options{Logger: logger})
	sessionDone := make(chan error, 1)
	go func() { sessionDone <- session.Run(ctx) }()

	ipcServer, err := ipc.NewServer(session)
	if err != nil {
		logger.Error("failed to create IPC server", "err", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "err", err)
		return 1
	}
	defer ipcServer.Stop()

	source, err := platform.NewSource(cfg.Viewport)
	if err != nil {
		logger.Warn("viewport source unavailable, keeping configured size", "source", cfg.Viewport.Source, "err", err)
	} else {
		defer source.Close()
		watcher := daemon.NewViewportWatcher(daemon.ViewportWatcherConfig{
			Interval: cfg.Viewport.PollInterval(),
			Logger:   logger,
		}, source, session)
		go watcher.Run(ctx)
	}

	reflower := daemon.NewReflower(daemon.ReflowerConfig{
		Interval: cfg.Daemon.ReflowInterval(),
		Logger:   logger,
	}, session)
	go reflower.Run(ctx)

	if cfg.Launcher.Hotkey != "" {
		if stop, err := startLauncherHotkey(ctx, cfg, session, logger); err != nil {
			logger.Warn("launcher hotkey unavailable", "keys", cfg.Launcher.Hotkey, "err", err)
		} else {
			defer stop()
		}
	}

	for _, name := range open {
		if err := session.QueueOpen(ctx, name); err != nil {
			logger.Warn("startup open failed", "program", name, "err", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	logger.Info("winshell daemon started", "socket", ipcServer.SocketPath())
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-sessionDone:
		if err != nil && ctx.Err() == nil {
			logger.Error("session loop stopped", "err", err)
			return 1
		}
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	active := status.Active
	if active == "" {
		active = "(none)"
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("active_window:  %s\n", active)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("program_count:  %d\n", status.ProgramCount)
	fmt.Printf("viewport:       %dx%d\n", status.Viewport.Width, status.Viewport.Height)
	fmt.Printf("clock:          %s\n", status.Clock)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func loadResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  winshell config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  winshell config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  winshell config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		_ = fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: winshell tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive monitor for the running session.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3   Switch between Windows, Programs and Start Menu")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓   Navigate")
		fmt.Fprintln(os.Stderr, "  Enter      Activate window / open program / select menu item")
		fmt.Fprintln(os.Stderr, "  m r x c    Minimize, restore, toggle maximize, close")
		fmt.Fprintln(os.Stderr, "  t          Click the window's taskbar button")
		fmt.Fprintln(os.Stderr, "  e, s       Move or resize the selected window")
		fmt.Fprintln(os.Stderr, "  r          (Programs) type a Run command")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C  Quit")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		return 2
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
