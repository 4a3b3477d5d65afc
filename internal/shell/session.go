package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/program"
	"github.com/1broseidon/winshell/internal/run"
	"github.com/1broseidon/winshell/internal/taskbar"
	"github.com/1broseidon/winshell/internal/window"
	"github.com/1broseidon/winshell/internal/wm"
)

var (
	// ErrUnknownProgram is returned when a launch names no registered program.
	ErrUnknownProgram = errors.New("unknown program")
	// ErrUnknownWindow is returned when an id names no open window.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrUnknownAction is returned for an unrecognized window action.
	ErrUnknownAction = errors.New("unknown window action")
)

// Action is a window command issued from outside the pointer path.
type Action string

const (
	ActionActivate   Action = "activate"
	ActionMinimize   Action = "minimize"
	ActionRestore    Action = "restore"
	ActionMaximize   Action = "maximize"
	ActionUnmaximize Action = "unmaximize"
	ActionClose      Action = "close"
)

// Actions lists every window action.
func Actions() []Action {
	return []Action{ActionActivate, ActionMinimize, ActionRestore, ActionMaximize, ActionUnmaximize, ActionClose}
}

// ParseAction converts a user-facing name into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Actions(), a) {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Options configures a Session.
type Options struct {
	Logger *slog.Logger
	// Measurer overrides the config-derived intrinsic sizes.
	Measurer window.Measurer
	// Now overrides the taskbar clock source.
	Now func() time.Time
}

// Session is one desktop: the window registry, every program and its window,
// the taskbar, the start menu and the Run dialog.
//
// All state lives on the session's event loop. Exported methods are safe to
// call from any goroutine while Run is active.
type Session struct {
	cfg    *config.Config
	loop   *Loop
	logger *slog.Logger
	now    func() time.Time

	mgr      *wm.Manager
	programs *program.Registry
	taskbar  *taskbar.Taskbar
	menu     []menu.Entry
	runner   *run.Runner

	viewport geometry.Viewport
	winOpts  window.Options
	apps     map[string]*program.Simple
	deferred []*program.Simple

	runError    *window.Controller
	runErrorMsg string

	reflowQueued bool
	unsubscribe  func()
}

// New builds a session from cfg. Nothing is open until programs are launched.
func New(cfg *config.Config, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		cfg:      cfg,
		loop:     NewLoop(logger),
		logger:   logger,
		now:      now,
		mgr:      wm.NewManager(logger),
		viewport: cfg.Viewport.Fixed(),
		apps:     make(map[string]*program.Simple),
	}
	s.programs = program.NewRegistry(logger)
	s.taskbar = taskbar.New(s.mgr, cfg.Taskbar, logger)
	s.menu = menu.Build(cfg.StartMenu)
	s.runner = run.NewRunner(s.programs, cfg.DesktopIcons)

	measurer := opts.Measurer
	if measurer == nil {
		measurer = MeasurerFromConfig(cfg)
	}
	s.winOpts = window.Options{
		Limits:            cfg.Geometry.Limits,
		DragThreshold:     cfg.Geometry.DragThreshold,
		TaskbarHeight:     cfg.Taskbar.Height,
		AnimationDuration: cfg.Animation.Duration(),
		Viewport:          func() geometry.Viewport { return s.viewport },
		Measurer:          measurer,
		Scheduler:         s.loop,
		Logger:            logger,
	}

	for _, name := range cfg.ProgramNames() {
		pc := cfg.Programs[name]
		props := pc.Props(name)
		if pc.Deferred {
			app := program.NewUnmounted(s.programs, s.mgr, name, props, s.winOpts)
			s.apps[name] = app
			s.deferred = append(s.deferred, app)
			continue
		}
		s.apps[name] = program.NewSimple(s.programs, s.mgr, name, props, s.winOpts)
	}
	s.apps[run.ProgramName] = program.NewSimple(s.programs, s.mgr, run.ProgramName, run.WindowProps(s.viewport), s.winOpts)

	s.unsubscribe = s.mgr.Subscribe(s.onEvent)
	return s
}

// Run drives the event loop until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer s.unsubscribe()
	s.logger.Info("session started", "viewport_width", s.viewport.Width, "viewport_height", s.viewport.Height, "programs", len(s.apps))
	if len(s.deferred) > 0 {
		if err := s.loop.Post(func() { s.loop.Next(s.mountDeferred) }); err != nil {
			return err
		}
	}
	err := s.loop.Run(ctx)
	s.logger.Info("session stopped")
	return err
}

// mountDeferred registers programs marked deferred. Launches queued for them
// before this tick run as they register.
func (s *Session) mountDeferred() {
	for _, app := range s.deferred {
		app.Mount()
		s.logger.Debug("deferred program registered", "name", app.Name())
	}
	s.deferred = nil
}

// Loop exposes the session's event loop.
func (s *Session) Loop() *Loop { return s.loop }

// Manager exposes the window registry. Only touch it from the loop.
func (s *Session) Manager() *wm.Manager { return s.mgr }

// onEvent runs on the loop: every registry mutation comes from a controller
// or the taskbar, both of which are driven from loop tasks.
func (s *Session) onEvent(ev wm.Event) {
	switch ev.Kind {
	case wm.EventCreated, wm.EventRemoved:
		if s.reflowQueued {
			return
		}
		s.reflowQueued = true
		s.loop.Next(func() {
			s.reflowQueued = false
			s.reflow()
		})
	}
}

func (s *Session) reflow() int {
	return s.taskbar.Reflow(s.viewport.Width)
}

func (s *Session) controller(id string) (*window.Controller, error) {
	rec, ok := s.mgr.Window(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}
	c, ok := rec.Surface.(*window.Controller)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no controller", ErrUnknownWindow, id)
	}
	return c, nil
}

// Open launches a program by name. Launching an already open program brings
// its window to the front.
func (s *Session) Open(ctx context.Context, name string, args ...string) error {
	return s.loop.Do(ctx, func() error {
		if !s.programs.Open(name, args...) {
			return fmt.Errorf("%w: %s", ErrUnknownProgram, name)
		}
		return nil
	})
}

// QueueOpen launches name now if it is registered, otherwise when it registers.
func (s *Session) QueueOpen(ctx context.Context, name string, args ...string) error {
	return s.loop.Do(ctx, func() error {
		s.programs.QueueOpen(name, args...)
		return nil
	})
}

// RunCommand submits a Run dialog command line. On success the Run dialog closes.
// An unknown program opens the error window and the error is returned.
func (s *Session) RunCommand(ctx context.Context, line string) (run.Result, error) {
	var res run.Result
	err := s.loop.Do(ctx, func() error {
		var err error
		res, err = s.runner.Submit(line)
		var nf *run.NotFoundError
		switch {
		case errors.As(err, &nf):
			s.showRunError(nf)
			return err
		case err != nil:
			return err
		}
		if dialog, ok := s.apps[run.ProgramName]; ok && res.Program != run.ProgramName {
			dialog.Close()
		}
		return nil
	})
	return res, err
}

func (s *Session) showRunError(nf *run.NotFoundError) {
	if s.runError != nil {
		s.runError.SetOpen(false)
	}
	props := run.ErrorWindowProps(nf.Program)
	var c *window.Controller
	props.OnClose = func() {
		c.SetOpen(false)
		if s.runError == c {
			s.runError = nil
			s.runErrorMsg = ""
		}
	}
	c = window.New(s.mgr, props, s.winOpts)
	s.runError = c
	s.runErrorMsg = nf.Error()
	c.SetOpen(true)
	s.logger.Info("run command failed", "program", nf.Program)
}

// WindowAction applies action to the window id.
func (s *Session) WindowAction(ctx context.Context, id string, action Action) error {
	return s.loop.Do(ctx, func() error {
		c, err := s.controller(id)
		if err != nil {
			return err
		}
		switch action {
		case ActionActivate:
			c.Activate()
		case ActionMinimize:
			c.SetMinimized(true)
		case ActionRestore:
			c.SetMinimized(false)
			c.Activate()
		case ActionMaximize:
			c.SetMaximized(true)
		case ActionUnmaximize:
			c.SetMaximized(false)
		case ActionClose:
			c.ClickControl(window.ControlClose)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
		return nil
	})
}

// Move drags the window by its title bar so its origin lands at (x, y),
// subject to clamping.
func (s *Session) Move(ctx context.Context, id string, x, y int) (geometry.Rect, error) {
	var r geometry.Rect
	err := s.loop.Do(ctx, func() error {
		c, err := s.controller(id)
		if err != nil {
			return err
		}
		if !c.MoveTo(x, y) {
			return fmt.Errorf("window %s cannot be moved now", id)
		}
		r = c.Rect()
		return nil
	})
	return r, err
}

// Resize drags the window's dir edge by delta.
func (s *Session) Resize(ctx context.Context, id string, dir geometry.Direction, delta geometry.Point) (geometry.Rect, error) {
	var r geometry.Rect
	err := s.loop.Do(ctx, func() error {
		c, err := s.controller(id)
		if err != nil {
			return err
		}
		if !c.ResizeBy(dir, delta) {
			return fmt.Errorf("window %s cannot be resized now", id)
		}
		r = c.Rect()
		return nil
	})
	return r, err
}

// TaskbarClick clicks the window's taskbar button.
func (s *Session) TaskbarClick(ctx context.Context, id string) error {
	return s.loop.Do(ctx, func() error {
		if _, ok := s.mgr.Window(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownWindow, id)
		}
		s.taskbar.Click(id)
		return nil
	})
}

// MenuSelect chooses the start menu item at path.
func (s *Session) MenuSelect(ctx context.Context, path []string) error {
	return s.loop.Do(ctx, func() error {
		_, err := menu.Select(s.menu, path, s.programs)
		return err
	})
}

// Menu returns the start menu as display rows.
func (s *Session) Menu() []menu.Row {
	return menu.Flatten(s.menu)
}

// Deactivate clears the active window until the next activation.
func (s *Session) Deactivate(ctx context.Context) error {
	return s.loop.Do(ctx, func() error {
		s.mgr.Deactivate()
		return nil
	})
}

// SetViewport records a new viewport size, re-clamps every open window and
// reflows the taskbar. It reports whether the size changed.
func (s *Session) SetViewport(ctx context.Context, vp geometry.Viewport) (bool, error) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return false, fmt.Errorf("invalid viewport %dx%d", vp.Width, vp.Height)
	}
	changed := false
	err := s.loop.Do(ctx, func() error {
		if vp == s.viewport {
			return nil
		}
		changed = true
		s.viewport = vp
		for _, rec := range s.mgr.Windows() {
			if c, ok := rec.Surface.(*window.Controller); ok {
				c.ViewportChanged(vp)
			}
		}
		s.reflow()
		s.logger.Info("viewport changed", "width", vp.Width, "height", vp.Height)
		return nil
	})
	return changed, err
}

// Reflow recomputes taskbar button geometry and returns how many records changed.
func (s *Session) Reflow(ctx context.Context) (int, error) {
	n := 0
	err := s.loop.Do(ctx, func() error {
		n = s.reflow()
		return nil
	})
	return n, err
}

// PointerDown presses on a window. Pointer input after a capturing press is
// routed with PointerMove and PointerUp.
func (s *Session) PointerDown(ctx context.Context, id string, target window.Target, button window.Button, pt geometry.Point) error {
	return s.loop.Do(ctx, func() error {
		c, err := s.controller(id)
		if err != nil {
			return err
		}
		if target.Kind == window.TargetControl {
			if c.ControlEnabled(target.Control) {
				c.ClickControl(target.Control)
			}
			return nil
		}
		c.PointerDown(target, button, pt)
		return nil
	})
}

// PointerMove forwards a pointer move to the capture owner, if any.
func (s *Session) PointerMove(ctx context.Context, pt geometry.Point) error {
	return s.loop.Do(ctx, func() error {
		if c := s.captureOwner(); c != nil {
			c.PointerMove(pt)
		}
		return nil
	})
}

// PointerUp forwards a release to the capture owner, if any.
func (s *Session) PointerUp(ctx context.Context, pt geometry.Point) error {
	return s.loop.Do(ctx, func() error {
		if c := s.captureOwner(); c != nil {
			c.PointerUp(pt)
		}
		return nil
	})
}

func (s *Session) captureOwner() *window.Controller {
	id, ok := s.mgr.CaptureOwner()
	if !ok {
		return nil
	}
	c, err := s.controller(id)
	if err != nil {
		return nil
	}
	return c
}

// Programs lists the registered program names.
func (s *Session) Programs(ctx context.Context) ([]string, error) {
	var names []string
	err := s.loop.Do(ctx, func() error {
		names = s.programs.Names()
		return nil
	})
	return names, err
}
