package window

import (
	"testing"

	"github.com/1broseidon/winshell/internal/geometry"
)

func TestPendingMove_BelowThresholdIsClick(t *testing.T) {
	c, mgr, _ := newController(t, fixedProps("w", 100, 100, 300, 200))
	c.SetOpen(true)

	c.PointerDown(TitleBar(), ButtonPrimary, geometry.Point{X: 150, Y: 110})
	if c.Phase() != PhasePendingMove {
		t.Fatalf("phase = %v, want pending-move", c.Phase())
	}
	c.PointerMove(geometry.Point{X: 152, Y: 112})
	if c.Phase() != PhasePendingMove {
		t.Fatalf("4px of travel must not start a move, phase = %v", c.Phase())
	}
	c.PointerUp(geometry.Point{X: 152, Y: 112})

	if c.Rect() != (geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}) {
		t.Fatalf("click must not move the window: %+v", c.Rect())
	}
	if _, ok := mgr.CaptureOwner(); ok {
		t.Fatalf("capture should be released")
	}
}

func TestMove_PreviewOnlyUntilRelease(t *testing.T) {
	c, mgr, sched := newController(t, fixedProps("w", 100, 100, 300, 200))
	c.SetOpen(true)

	c.PointerDown(TitleBar(), ButtonPrimary, geometry.Point{X: 150, Y: 110})
	c.PointerMove(geometry.Point{X: 250, Y: 160})

	if c.Phase() != PhaseMoving {
		t.Fatalf("phase = %v, want moving", c.Phase())
	}
	preview, ok := c.Preview()
	if !ok || preview.X != 200 || preview.Y != 150 {
		t.Fatalf("preview = %+v ok=%v", preview, ok)
	}
	if c.Rect().X != 100 {
		t.Fatalf("stored geometry changed mid-drag: %+v", c.Rect())
	}
	if c.Animation().Duration != 0 {
		t.Fatalf("animations must be off while dragging")
	}

	c.PointerUp(geometry.Point{X: 250, Y: 160})
	if rec, _ := mgr.Window("w"); rec.X != 200 || rec.Y != 150 {
		t.Fatalf("committed record = %+v", rec.Rect())
	}
	if c.Animation().Duration != 0 {
		t.Fatalf("animations must stay off for one tick after commit")
	}
	sched.flush()
	if c.Animation().Duration == 0 {
		t.Fatalf("animations should resume after the tick")
	}
}

func TestMove_CommitIsClamped(t *testing.T) {
	c, _, _ := newController(t, fixedProps("w", 100, 100, 300, 200))
	c.SetOpen(true)

	c.PointerDown(TitleBar(), ButtonPrimary, geometry.Point{X: 150, Y: 110})
	c.PointerUp(geometry.Point{X: -2000, Y: -500})

	if c.Rect().X != -228 || c.Rect().Y != 0 {
		t.Fatalf("rect = %+v, want clamped to (-228, 0)", c.Rect())
	}
}

func TestCapture_OneInteractionGlobally(t *testing.T) {
	c, mgr, _ := newController(t, fixedProps("a", 0, 0, 300, 200))
	other := New(mgr, fixedProps("b", 400, 0, 300, 200), Options{})
	c.SetOpen(true)
	other.SetOpen(true)

	c.PointerDown(TitleBar(), ButtonPrimary, geometry.Point{X: 10, Y: 10})
	other.PointerDown(TitleBar(), ButtonPrimary, geometry.Point{X: 410, Y: 10})

	if other.Phase() != PhaseIdle {
		t.Fatalf("second window must not start an interaction, phase = %v", other.Phase())
	}
	if owner, _ := mgr.CaptureOwner(); owner != "a" {
		t.Fatalf("capture owner = %q", owner)
	}
}

func TestCloseDuringDragCancels(t *testing.T) {
	c, mgr, _ := newController(t, fixedProps("w", 100, 100, 300, 200))
	c.SetOpen(true)

	c.PointerDown(ResizeHandle(geometry.DirSE), ButtonPrimary, geometry.Point{X: 400, Y: 300})
	c.PointerMove(geometry.Point{X: 500, Y: 400})
	c.SetOpen(false)

	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", c.Phase())
	}
	if _, ok := mgr.CaptureOwner(); ok {
		t.Fatalf("close must release capture")
	}
	c.PointerUp(geometry.Point{X: 500, Y: 400})
	if c.Rect() != (geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}) {
		t.Fatalf("cancelled resize committed: %+v", c.Rect())
	}
}

func TestResize_NorthHandleStopsAtTop(t *testing.T) {
	tests := []struct {
		name string
		dir  geometry.Direction
		up   geometry.Point
		want geometry.Rect
	}{
		{"north", geometry.DirN, geometry.Point{X: 250, Y: -500}, geometry.Rect{X: 100, Y: 0, Width: 300, Height: 210}},
		{"north-east", geometry.DirNE, geometry.Point{X: 420, Y: -500}, geometry.Rect{X: 100, Y: 0, Width: 320, Height: 210}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newController(t, fixedProps("w", 100, 10, 300, 200))
			c.SetOpen(true)

			down := geometry.Point{X: 250, Y: 10}
			if tt.dir == geometry.DirNE {
				down.X = 400
			}
			c.PointerDown(ResizeHandle(tt.dir), ButtonPrimary, down)
			c.PointerMove(tt.up)
			c.PointerUp(tt.up)

			if c.Rect() != tt.want {
				t.Fatalf("rect = %+v, want %+v", c.Rect(), tt.want)
			}
		})
	}
}

func TestResize_FloorAllDirections(t *testing.T) {
	deltas := []geometry.Point{
		{X: -1000, Y: -1000}, {X: 1000, Y: 1000}, {X: -1000, Y: 1000}, {X: 1000, Y: -1000}, {X: 0, Y: 0},
	}
	mins := []struct{ w, h int }{{0, 0}, {250, 0}, {0, 180}, {280, 190}}

	for _, dir := range geometry.AllDirections {
		for _, m := range mins {
			for _, d := range deltas {
				props := fixedProps("w", 100, 100, 300, 200)
				props.MinWidth, props.MinHeight = m.w, m.h
				c, _, _ := newController(t, props)
				c.SetOpen(true)

				if !c.ResizeBy(dir, d) {
					t.Fatalf("ResizeBy(%v) refused", dir)
				}
				floor := geometry.DefaultLimits().MinSize(m.w, m.h)
				if c.Rect().Width < floor.Width || c.Rect().Height < floor.Height {
					t.Fatalf("dir=%v min=%v delta=%v: rect %+v below floor %+v", dir, m, d, c.Rect(), floor)
				}
			}
		}
	}
}

func TestResize_StatusReportsResizing(t *testing.T) {
	c, _, _ := newController(t, fixedProps("w", 100, 100, 300, 200))
	c.SetOpen(true)

	c.PointerDown(ResizeHandle(geometry.DirE), ButtonPrimary, geometry.Point{X: 400, Y: 200})
	if !c.Status().Resizing || c.Direction() != geometry.DirE {
		t.Fatalf("status = %+v dir = %v", c.Status(), c.Direction())
	}
	c.PointerUp(geometry.Point{X: 450, Y: 200})
	if c.Status().Resizing {
		t.Fatalf("resizing should end on release")
	}
	if c.Rect().Width != 350 {
		t.Fatalf("width = %d, want 350", c.Rect().Width)
	}
}

func TestNoInteractionWhileMaximizedOrNotResizable(t *testing.T) {
	c, _, _ := newController(t, fixedProps("w", 100, 100, 300, 200))
	c.SetOpen(true)
	c.SetMaximized(true)

	c.PointerDown(TitleBar(), ButtonPrimary, geometry.Point{X: 10, Y: 10})
	if c.Phase() != PhaseIdle {
		t.Fatalf("maximized windows cannot be dragged")
	}

	props := fixedProps("x", 100, 100, 300, 200)
	props.Resizable = false
	fixed, _, _ := newController(t, props)
	fixed.SetOpen(true)
	if fixed.ResizeBy(geometry.DirE, geometry.Point{X: 50}) {
		t.Fatalf("non-resizable window must not resize")
	}
}

func TestSecondaryButtonDoesNotDrag(t *testing.T) {
	c, mgr, _ := newController(t, fixedProps("w", 100, 100, 300, 200))
	other := New(mgr, fixedProps("o", 0, 0, 100, 100), Options{})
	c.SetOpen(true)
	other.SetOpen(true)

	c.PointerDown(TitleBar(), ButtonSecondary, geometry.Point{X: 110, Y: 110})
	if c.Phase() != PhaseIdle {
		t.Fatalf("secondary button must not start a drag")
	}
	if id, _ := mgr.ActiveWindow(); id != "w" {
		t.Fatalf("title bar press should still activate, active = %q", id)
	}
}

func TestMoveTo(t *testing.T) {
	c, _, _ := newController(t, fixedProps("w", 100, 100, 300, 200))
	c.SetOpen(true)

	if !c.MoveTo(102, 101) {
		t.Fatalf("MoveTo refused")
	}
	if c.Rect().X != 102 || c.Rect().Y != 101 {
		t.Fatalf("small synthesized move should still land: %+v", c.Rect())
	}
	c.MoveTo(5000, 5000)
	if c.Rect().X != 1004 || c.Rect().Y != 726 {
		t.Fatalf("MoveTo should clamp: %+v", c.Rect())
	}
}
