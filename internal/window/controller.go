package window

import (
	"log/slog"
	"time"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/wm"
)

// DefaultDragThreshold is the Manhattan distance a title bar press must
// travel before it becomes a move.
const DefaultDragThreshold = 4

// DefaultAnimationDuration matches the stock transition length.
const DefaultAnimationDuration = 250 * time.Millisecond

// Measurer is the rendering layer's measure capability: the intrinsic size of
// a window's content before it is placed.
type Measurer interface {
	Measure(id string) (geometry.Size, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(id string) (geometry.Size, error)

// Measure implements Measurer.
func (f MeasurerFunc) Measure(id string) (geometry.Size, error) { return f(id) }

// Scheduler provides the two deferral points the controller uses.
type Scheduler interface {
	// AfterPaint runs fn once the host has rendered the current state.
	AfterPaint(fn func())
	// Next runs fn on the next event-loop tick.
	Next(fn func())
}

// Props are the declared initial properties of a window.
type Props struct {
	ID        string
	Title     string
	Icon      string
	X         int // geometry.Auto centers on open
	Y         int // geometry.Auto centers on open
	Width     int // geometry.Auto sizes to content
	Height    int // geometry.Auto sizes to content
	Resizable bool
	MinWidth  int
	MinHeight int
	Maximized bool
	Minimized bool
	OnClose   func()
}

// AutoProps returns props with every geometry field set to Auto.
func AutoProps(id, title string) Props {
	return Props{
		ID:     id,
		Title:  title,
		X:      geometry.Auto,
		Y:      geometry.Auto,
		Width:  geometry.Auto,
		Height: geometry.Auto,
	}
}

func (p Props) rect() geometry.Rect {
	return geometry.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Options carries the controller's collaborators and tuning.
type Options struct {
	Limits            geometry.Limits
	DragThreshold     int
	TaskbarHeight     int
	AnimationDuration time.Duration
	// Viewport reports the current viewport size.
	Viewport  func() geometry.Viewport
	Measurer  Measurer
	Scheduler Scheduler
	Logger    *slog.Logger
}

// Controller drives one window: its open/close lifecycle, minimize and
// maximize transitions and move/resize gestures.
//
// A Controller is not safe for concurrent use. Drive it from the session's
// event loop, which also runs the scheduler callbacks.
type Controller struct {
	mgr   *wm.Manager
	props Props
	opts  Options

	lifecycle  Lifecycle
	generation int

	rect      geometry.Rect
	maximized bool
	minimized bool

	restoreAnim       Animation
	sizeAnim          Animation
	animateUnmaximize bool

	phase     Phase
	direction geometry.Direction
	dragStart geometry.Point
	startRect geometry.Rect
	preview   geometry.Rect

	suppressAnim  bool
	suppressToken int
}

// New creates a closed controller for props.
func New(mgr *wm.Manager, props Props, opts Options) *Controller {
	if opts.DragThreshold <= 0 {
		opts.DragThreshold = DefaultDragThreshold
	}
	if opts.AnimationDuration <= 0 {
		opts.AnimationDuration = DefaultAnimationDuration
	}
	if opts.Limits == (geometry.Limits{}) {
		opts.Limits = geometry.DefaultLimits()
	}
	if opts.Viewport == nil {
		opts.Viewport = func() geometry.Viewport { return geometry.Viewport{Width: 1024, Height: 768} }
	}
	if opts.Scheduler == nil {
		opts.Scheduler = immediate{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		mgr:   mgr,
		props: props,
		opts:  opts,
		rect:  props.rect(),
	}
}

// ID returns the window id.
func (c *Controller) ID() string { return c.props.ID }

// Props returns the declared props.
func (c *Controller) Props() Props { return c.props }

// Lifecycle returns the open/close state.
func (c *Controller) Lifecycle() Lifecycle { return c.lifecycle }

// IsOpen reports whether the window is registered and visible.
func (c *Controller) IsOpen() bool { return c.lifecycle == Open }

// Phase returns the interaction phase.
func (c *Controller) Phase() Phase { return c.phase }

// Direction returns the active resize direction, or DirNone.
func (c *Controller) Direction() geometry.Direction {
	if c.phase != PhaseResizing {
		return geometry.DirNone
	}
	return c.direction
}

// Rect returns the stored (unmaximized) geometry.
func (c *Controller) Rect() geometry.Rect { return c.rect }

// Maximized reports the effective maximized state.
func (c *Controller) Maximized() bool { return c.maximized && c.props.Resizable }

// Minimized reports whether the window is minimized.
func (c *Controller) Minimized() bool { return c.minimized }

// SetOpen opens or closes the window. Repeating the current state is a no-op.
func (c *Controller) SetOpen(open bool) {
	if open {
		c.open()
	} else {
		c.close()
	}
}

func (c *Controller) open() {
	if c.lifecycle != Closed {
		return
	}
	c.lifecycle = Opening
	c.generation++
	c.rect = c.props.rect()
	c.maximized = c.props.Maximized
	c.minimized = c.props.Minimized

	if c.rect.Resolved() {
		c.place()
		return
	}

	gen := c.generation
	c.opts.Scheduler.AfterPaint(func() {
		if c.generation != gen || c.lifecycle != Opening {
			return
		}
		c.place()
	})
}

// place resolves Auto geometry from the measured intrinsic size, registers
// the record and activates the window.
func (c *Controller) place() {
	if c.rect.Width == geometry.Auto || c.rect.Height == geometry.Auto ||
		c.rect.X == geometry.Auto || c.rect.Y == geometry.Auto {
		size := c.measure()
		if c.rect.Width == geometry.Auto {
			c.rect.Width = size.Width
		}
		if c.rect.Height == geometry.Auto {
			c.rect.Height = size.Height
		}
		center := geometry.Center(c.rect.Size(), c.opts.Viewport())
		if c.rect.X == geometry.Auto {
			c.rect.X = center.X
		}
		if c.rect.Y == geometry.Auto {
			c.rect.Y = center.Y
		}
	}

	c.lifecycle = Open
	c.mgr.CreateWindow(c.record())
	c.mgr.SetActiveWindow(c.props.ID)
	c.opts.Logger.Debug("window opened", "id", c.props.ID, "rect", c.rect)
}

func (c *Controller) measure() geometry.Size {
	if c.opts.Measurer == nil {
		return geometry.Size{}
	}
	size, err := c.opts.Measurer.Measure(c.props.ID)
	if err != nil {
		c.opts.Logger.Warn("measure failed; using zero size", "id", c.props.ID, "error", err)
		return geometry.Size{}
	}
	return size
}

func (c *Controller) close() {
	if c.lifecycle == Closed {
		return
	}
	wasOpen := c.lifecycle == Open
	c.cancelInteraction()
	c.generation++
	c.lifecycle = Closed
	c.rect = c.props.rect()
	c.maximized = false
	c.minimized = false
	c.restoreAnim = AnimNone
	c.sizeAnim = AnimNone
	c.animateUnmaximize = false
	c.suppressAnim = false

	if wasOpen {
		c.mgr.RemoveWindow(c.props.ID)
	}
	c.opts.Logger.Debug("window closed", "id", c.props.ID)
}

func (c *Controller) record() wm.Record {
	return wm.Record{
		ID:           c.props.ID,
		Title:        c.props.Title,
		Icon:         c.props.Icon,
		X:            c.rect.X,
		Y:            c.rect.Y,
		Width:        c.rect.Width,
		Height:       c.rect.Height,
		Resizable:    c.props.Resizable,
		Maximized:    c.maximized,
		Minimized:    c.minimized,
		TaskbarX:     geometry.Auto,
		TaskbarWidth: geometry.Auto,
		SetMaximized: c.SetMaximized,
		SetMinimized: c.SetMinimized,
		Surface:      c,
		OnClose:      c.props.OnClose,
	}
}

// sync pushes a patch into the registry while the window is open.
func (c *Controller) sync(p wm.Patch) {
	if c.lifecycle != Open {
		return
	}
	c.mgr.UpdateWindow(c.props.ID, p)
}

// SetTitle changes the window title.
func (c *Controller) SetTitle(title string) {
	c.props.Title = title
	c.sync(wm.Patch{Title: &title})
}

// SetIcon changes the window icon.
func (c *Controller) SetIcon(icon string) {
	c.props.Icon = icon
	c.sync(wm.Patch{Icon: &icon})
}

// SetMinimized minimizes or restores the window, tagging the transition for
// the host. The minimize animation aims at the taskbar button's last
// reported geometry.
func (c *Controller) SetMinimized(minimized bool) {
	if c.lifecycle != Open || c.minimized == minimized {
		return
	}
	if minimized {
		c.cancelInteraction()
		c.restoreAnim = AnimMinimize
	} else {
		c.restoreAnim = AnimRestore
	}
	c.minimized = minimized
	c.sync(wm.Patch{Minimized: &minimized})
}

// SetMaximized maximizes or unmaximizes the window. Maximizing a
// non-resizable window is a no-op.
func (c *Controller) SetMaximized(maximized bool) {
	if c.lifecycle != Open || c.maximized == maximized {
		return
	}
	if maximized && !c.props.Resizable {
		return
	}
	c.cancelInteraction()
	if maximized {
		c.sizeAnim = AnimMaximizeClip
	} else if c.animateUnmaximize {
		c.sizeAnim = AnimUnmaximize
	} else {
		c.sizeAnim = AnimNone
	}
	c.animateUnmaximize = true
	c.maximized = maximized
	c.sync(wm.Patch{Maximized: &maximized})
}

// ToggleMaximize flips the maximized state of a resizable window.
func (c *Controller) ToggleMaximize() {
	if !c.props.Resizable {
		return
	}
	c.SetMaximized(!c.maximized)
}

// TitleBarDoubleClick toggles maximize.
func (c *Controller) TitleBarDoubleClick() {
	c.ToggleMaximize()
}

// ControlEnabled reports whether a title bar button is clickable.
func (c *Controller) ControlEnabled(ctrl Control) bool {
	switch ctrl {
	case ControlMaximize:
		return c.props.Resizable && !c.Maximized()
	case ControlRestore:
		return c.Maximized()
	default:
		return true
	}
}

// ClickControl handles a click on a title bar button. Disabled buttons do nothing.
func (c *Controller) ClickControl(ctrl Control) {
	if c.lifecycle != Open || !c.ControlEnabled(ctrl) {
		return
	}
	switch ctrl {
	case ControlMinimize:
		c.SetMinimized(true)
	case ControlMaximize:
		c.SetMaximized(true)
	case ControlRestore:
		c.SetMaximized(false)
	case ControlClose:
		if c.props.OnClose != nil {
			c.props.OnClose()
		} else {
			c.SetOpen(false)
		}
	}
}

// Activate brings the window to the front of the activation order.
func (c *Controller) Activate() {
	if c.lifecycle != Open {
		return
	}
	c.mgr.SetActiveWindow(c.props.ID)
}

// ViewportChanged re-clamps the stored position so the window stays reachable.
func (c *Controller) ViewportChanged(vp geometry.Viewport) {
	if c.lifecycle != Open || !c.rect.Resolved() {
		return
	}
	x, y := geometry.ClampPosition(c.rect.X, c.rect.Y, c.rect.Width, c.rect.Height, vp, c.opts.Limits)
	if x == c.rect.X && y == c.rect.Y {
		return
	}
	c.rect.X, c.rect.Y = x, y
	c.sync(wm.Patch{X: &x, Y: &y})
}

// Layout is the rect the host should render: the full viewport minus the
// taskbar when maximized, the stored geometry otherwise.
func (c *Controller) Layout() geometry.Rect {
	if c.Maximized() {
		return geometry.MaximizedRect(c.opts.Viewport(), c.opts.TaskbarHeight)
	}
	return c.rect
}

// Focused reports whether this window is the registry's active window.
func (c *Controller) Focused() bool {
	id, ok := c.mgr.ActiveWindow()
	return ok && id == c.props.ID
}

// TitleBarActive reports whether the title bar renders in its active colors.
// A window playing its minimize animation keeps them until it is gone.
func (c *Controller) TitleBarActive() bool {
	return c.Focused() || c.restoreAnim == AnimMinimize
}

// Status returns the content-facing status.
func (c *Controller) Status() Status {
	return Status{
		Resizing: c.phase == PhaseResizing,
		Focused:  c.Focused(),
	}
}

// Animation returns the current transition tags.
func (c *Controller) Animation() AnimationState {
	state := AnimationState{
		Restore:      c.restoreAnim,
		Size:         c.sizeAnim,
		Duration:     c.opts.AnimationDuration,
		TaskbarX:     geometry.Auto,
		TaskbarWidth: geometry.Auto,
	}
	if c.phase == PhaseMoving || c.phase == PhaseResizing || c.suppressAnim {
		state.Duration = 0
	}
	if rec, ok := c.mgr.Window(c.props.ID); ok {
		state.TaskbarX = rec.TaskbarX
		state.TaskbarWidth = rec.TaskbarWidth
	}
	return state
}

// RenderContent calls fn with the window's status. Hosts use it for content
// that reacts to resizing or focus.
func RenderContent[T any](c *Controller, fn func(Status) T) T {
	return fn(c.Status())
}

// immediate runs deferred work synchronously.
type immediate struct{}

func (immediate) AfterPaint(fn func()) { fn() }
func (immediate) Next(fn func())       { fn() }
