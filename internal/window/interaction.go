package window

import (
	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/wm"
)

// PointerDown starts an interaction on target. Presses on the title bar or a
// resize handle activate the window. Only the primary button starts a drag,
// and only when no other window holds pointer capture.
func (c *Controller) PointerDown(target Target, button Button, pt geometry.Point) {
	if c.lifecycle != Open {
		return
	}
	if target.Kind == TargetTitleBar || target.Kind == TargetResizeHandle {
		c.mgr.SetActiveWindow(c.props.ID)
	}
	if button != ButtonPrimary || c.phase != PhaseIdle || c.minimized {
		return
	}
	// Geometry must be resolved before a drag can commit anything.
	if !c.rect.Resolved() {
		return
	}

	switch target.Kind {
	case TargetTitleBar:
		if c.Maximized() {
			return
		}
		if !c.mgr.RequestCapture(c.props.ID) {
			return
		}
		c.begin(PhasePendingMove, geometry.DirNone, pt)
	case TargetResizeHandle:
		if !c.props.Resizable || c.Maximized() || target.Direction == geometry.DirNone {
			return
		}
		if !c.mgr.RequestCapture(c.props.ID) {
			return
		}
		c.begin(PhaseResizing, target.Direction, pt)
	}
}

func (c *Controller) begin(phase Phase, dir geometry.Direction, pt geometry.Point) {
	c.phase = phase
	c.direction = dir
	c.dragStart = pt
	c.startRect = c.rect
	c.preview = c.rect
	c.opts.Logger.Debug("interaction started", "id", c.props.ID, "phase", phase, "direction", dir)
}

// PointerMove updates the preview. The stored geometry does not change
// until PointerUp.
func (c *Controller) PointerMove(pt geometry.Point) {
	switch c.phase {
	case PhasePendingMove:
		if geometry.Manhattan(pt, c.dragStart) <= c.opts.DragThreshold {
			return
		}
		c.phase = PhaseMoving
		c.movePreview(pt)
	case PhaseMoving:
		c.movePreview(pt)
	case PhaseResizing:
		delta := pt.Sub(c.dragStart)
		c.preview = geometry.ClampResize(c.startRect, delta, c.direction,
			c.props.MinWidth, c.props.MinHeight, c.opts.Limits)
	}
}

func (c *Controller) movePreview(pt geometry.Point) {
	delta := pt.Sub(c.dragStart)
	x, y := geometry.ClampPosition(c.startRect.X+delta.X, c.startRect.Y+delta.Y,
		c.startRect.Width, c.startRect.Height, c.opts.Viewport(), c.opts.Limits)
	c.preview = c.startRect
	c.preview.X, c.preview.Y = x, y
}

// PointerUp ends the interaction. A pending move that never crossed the
// threshold changes nothing. Moves and resizes commit the preview.
func (c *Controller) PointerUp(pt geometry.Point) {
	if c.phase == PhaseIdle {
		return
	}
	c.PointerMove(pt)
	if c.phase == PhasePendingMove {
		c.endInteraction()
		return
	}

	next := c.preview
	c.endInteraction()
	c.commit(next)
}

// Cancel abandons the interaction without committing.
func (c *Controller) Cancel() {
	c.cancelInteraction()
}

func (c *Controller) cancelInteraction() {
	if c.phase == PhaseIdle {
		return
	}
	c.endInteraction()
}

func (c *Controller) endInteraction() {
	c.phase = PhaseIdle
	c.direction = geometry.DirNone
	c.mgr.ReleaseCapture(c.props.ID)
}

// commit stores r and keeps transitions off for one tick so the window
// doesn't animate from its old position.
func (c *Controller) commit(r geometry.Rect) {
	if r == c.rect {
		return
	}
	c.rect = r
	c.sync(wm.GeometryPatch(r))

	c.suppressAnim = true
	c.suppressToken++
	token := c.suppressToken
	c.opts.Scheduler.Next(func() {
		if c.suppressToken == token {
			c.suppressAnim = false
		}
	})
	c.opts.Logger.Debug("geometry committed", "id", c.props.ID, "rect", r)
}

// Preview returns the ghost outline while a move or resize is in progress.
func (c *Controller) Preview() (geometry.Rect, bool) {
	if c.phase != PhaseMoving && c.phase != PhaseResizing {
		return geometry.Rect{}, false
	}
	return c.preview, true
}

// MoveTo is a synthesized title bar drag that lands the window at (x, y).
// The result is clamped exactly as a pointer drag would be.
func (c *Controller) MoveTo(x, y int) bool {
	if c.lifecycle != Open || c.phase != PhaseIdle || !c.rect.Resolved() {
		return false
	}
	start := geometry.Point{X: c.rect.X, Y: c.rect.Y}
	c.PointerDown(TitleBar(), ButtonPrimary, start)
	if c.phase != PhasePendingMove {
		return false
	}
	end := geometry.Point{X: x, Y: y}
	if geometry.Manhattan(start, end) <= c.opts.DragThreshold {
		c.phase = PhaseMoving
	}
	c.PointerMove(end)
	c.PointerUp(end)
	return true
}

// ResizeBy is a synthesized drag of the dir handle by delta.
func (c *Controller) ResizeBy(dir geometry.Direction, delta geometry.Point) bool {
	if c.lifecycle != Open || c.phase != PhaseIdle || !c.rect.Resolved() {
		return false
	}
	start := geometry.Point{X: c.rect.X, Y: c.rect.Y}
	c.PointerDown(ResizeHandle(dir), ButtonPrimary, start)
	if c.phase != PhaseResizing {
		return false
	}
	end := geometry.Point{X: start.X + delta.X, Y: start.Y + delta.Y}
	c.PointerMove(end)
	c.PointerUp(end)
	return true
}
