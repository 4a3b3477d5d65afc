package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/hotkeys"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/palette"
	"github.com/1broseidon/winshell/internal/shell"
	"github.com/1broseidon/winshell/internal/x11"
)

func runLauncher(args []string) int {
	fs := newFlagSet("launcher", "launcher [--backend NAME] [--path PATH]",
		"Browse the start menu in an external picker and select an item.")
	backendName := fs.String("backend", "", "Picker: auto, rofi, fuzzel, wofi, dmenu (default from config)")
	path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	name := *backendName
	if name == "" {
		res, err := loadResult(*path)
		if err != nil {
			return fail(err)
		}
		name = res.Config.Launcher.Backend
	}
	backend, err := palette.NewBackend(name)
	if err != nil {
		return fail(err)
	}

	client := ipc.NewClient()
	l := &palette.Launcher{
		Backend: backend,
		Rows: func() ([]menu.Row, error) {
			data, err := client.Menu()
			if err != nil {
				return nil, err
			}
			return data.Rows, nil
		},
		Select: client.MenuSelect,
	}

	selected, err := l.Show()
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		return fail(err)
	}
	fmt.Println("selected", strings.Join(selected, " › "))
	return 0
}

// startLauncherHotkey grabs the configured key sequence on the X display
// and shows the launcher against the in-process session when it fires.
func startLauncherHotkey(ctx context.Context, cfg *config.Config, session *shell.Session, logger *slog.Logger) (func(), error) {
	backend, err := palette.NewBackend(cfg.Launcher.Backend)
	if err != nil {
		return nil, err
	}
	conn, err := x11.NewConnection(cfg.Viewport.Display)
	if err != nil {
		return nil, err
	}

	l := &palette.Launcher{
		Backend: backend,
		Rows:    func() ([]menu.Row, error) { return session.Menu(), nil },
		Select: func(path []string) error {
			return session.MenuSelect(ctx, path)
		},
	}

	h := hotkeys.NewHandler(conn, logger)
	if err := h.Register(cfg.Launcher.Hotkey, func() {
		if _, err := l.Show(); err != nil && !errors.Is(err, palette.ErrCancelled) {
			logger.Warn("launcher failed", "err", err)
		}
	}); err != nil {
		conn.Close()
		return nil, err
	}

	hctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run(hctx)
	}()
	logger.Info("launcher hotkey registered", "keys", cfg.Launcher.Hotkey)

	return func() {
		cancel()
		<-done
		conn.Close()
	}, nil
}
