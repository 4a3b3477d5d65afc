package window

import "github.com/1broseidon/winshell/internal/geometry"

// Handle is the record-shaped view of a window handed to its content, so a
// program can read and drive its own window without reaching the registry.
type Handle struct {
	c *Controller
}

// Handle returns the imperative handle for this window.
func (c *Controller) Handle() *Handle {
	return &Handle{c: c}
}

func (h *Handle) ID() string    { return h.c.props.ID }
func (h *Handle) Title() string { return h.c.props.Title }
func (h *Handle) Icon() string  { return h.c.props.Icon }

// Rect returns the stored geometry. It still holds Auto values while the
// window is opening.
func (h *Handle) Rect() geometry.Rect { return h.c.rect }

func (h *Handle) Resizable() bool { return h.c.props.Resizable }
func (h *Handle) Maximized() bool { return h.c.Maximized() }
func (h *Handle) Minimized() bool { return h.c.minimized }

func (h *Handle) SetMaximized(v bool) { h.c.SetMaximized(v) }
func (h *Handle) SetMinimized(v bool) { h.c.SetMinimized(v) }
func (h *Handle) SetTitle(title string) { h.c.SetTitle(title) }

// Close closes the window through its OnClose callback when one is set.
func (h *Handle) Close() { h.c.ClickControl(ControlClose) }
