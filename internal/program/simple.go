package program

import (
	"slices"

	"github.com/1broseidon/winshell/internal/window"
	"github.com/1broseidon/winshell/internal/wm"
)

// Simple is a program that owns exactly one window whose id is the program
// name. Opening it shows the window, brings it to the front and restores it
// if it was minimized.
type Simple struct {
	name       string
	mgr        *wm.Manager
	reg        *Registry
	window     *window.Controller
	args       []string
	unregister func()
}

// NewSimple registers name with reg and builds its window from props.
func NewSimple(reg *Registry, mgr *wm.Manager, name string, props window.Props, opts window.Options) *Simple {
	s := NewUnmounted(reg, mgr, name, props, opts)
	s.Mount()
	return s
}

// NewUnmounted builds the program without registering it. Call Mount to
// make it launchable.
func NewUnmounted(reg *Registry, mgr *wm.Manager, name string, props window.Props, opts window.Options) *Simple {
	s := &Simple{name: name, mgr: mgr, reg: reg}

	props.ID = name
	props.OnClose = s.Close
	s.window = window.New(mgr, props, opts)
	return s
}

// Mount registers the program. Opens queued under its name run now.
func (s *Simple) Mount() {
	if s.unregister != nil {
		return
	}
	s.unregister = s.reg.Register(s.name, s.open)
}

func (s *Simple) open(args ...string) {
	s.args = slices.Clone(args)
	s.window.SetOpen(true)
	s.mgr.SetActiveWindow(s.name)
	if h := s.window.Handle(); h.Minimized() {
		h.SetMinimized(false)
	}
}

// Name returns the program name.
func (s *Simple) Name() string { return s.name }

// Window returns the program's window controller.
func (s *Simple) Window() *window.Controller { return s.window }

// Args returns the arguments of the most recent launch.
func (s *Simple) Args() []string { return slices.Clone(s.args) }

// Close closes the program's window. The program stays registered.
func (s *Simple) Close() {
	s.window.SetOpen(false)
}

// Unmount closes the window and removes the program from the registry.
func (s *Simple) Unmount() {
	s.Close()
	if s.unregister != nil {
		s.unregister()
		s.unregister = nil
	}
}
