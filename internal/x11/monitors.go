package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/winshell/internal/geometry"
)

// Monitor is one active RandR output.
type Monitor struct {
	ID     int
	Name   string
	Bounds geometry.Rect
	// Usable is Bounds minus dock struts or the EWMH work area.
	Usable geometry.Rect
}

// Monitors retrieves all active monitors using XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := geometry.Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)}
		monitors = append(monitors, Monitor{ID: i, Name: name, Bounds: bounds, Usable: bounds})
	}
	return monitors, nil
}

// ActiveMonitor returns the monitor under the pointer (or the first one),
// with its usable area computed from dock struts, falling back to the
// EWMH work area.
func (c *Connection) ActiveMonitor() (Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	mon := monitors[0]
	if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if m, ok := monitorAt(monitors, int(pointer.RootX), int(pointer.RootY)); ok {
			mon = m
		}
	}

	if usable, ok := c.strutArea(mon.Bounds); ok {
		mon.Usable = usable
		return mon, nil
	}
	if usable, ok := c.workArea(mon.Bounds); ok {
		mon.Usable = usable
	}
	return mon, nil
}

// Viewport returns the usable size of the active monitor.
func (c *Connection) Viewport() (geometry.Viewport, error) {
	mon, err := c.ActiveMonitor()
	if err != nil {
		return geometry.Viewport{}, err
	}
	return geometry.Viewport{Width: mon.Usable.Width, Height: mon.Usable.Height}, nil
}

func monitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, m := range monitors {
		b := m.Bounds
		if x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height {
			return m, true
		}
	}
	return Monitor{}, false
}

func (c *Connection) strutArea(bounds geometry.Rect) (geometry.Rect, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return geometry.Rect{}, false
	}
	root := geometry.Size{Width: int(rootGeom.Width), Height: int(rootGeom.Height)}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return geometry.Rect{}, false
	}

	var struts []ewmh.WmStrutPartial
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = append(struts, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT, which spans the whole root edge.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			struts = append(struts, fullStrut(s, root))
		}
	}
	return applyStruts(bounds, root, struts)
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func (c *Connection) workArea(bounds geometry.Rect) (geometry.Rect, bool) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return geometry.Rect{}, false
	}
	idx := 0
	if desk, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(desk) < len(areas) {
		idx = int(desk)
	}
	wa := areas[idx]
	isect := intersect(bounds, geometry.Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)})
	return isect, isect.Width > 0 && isect.Height > 0
}

func fullStrut(s *ewmh.WmStrut, root geometry.Size) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
		LeftEndY:   uint(root.Height - 1),
		RightEndY:  uint(root.Height - 1),
		TopEndX:    uint(root.Width - 1),
		BottomEndX: uint(root.Width - 1),
	}
}

// applyStruts shrinks bounds by the largest strut overlapping each edge.
func applyStruts(bounds geometry.Rect, root geometry.Size, struts []ewmh.WmStrutPartial) (geometry.Rect, bool) {
	var left, right, top, bottom int
	for _, sp := range struts {
		if sp.Top > 0 {
			r := intersect(bounds, span(int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top)))
			top = max(top, r.Height)
		}
		if sp.Bottom > 0 {
			r := intersect(bounds, span(int(sp.BottomStartX), root.Height-int(sp.Bottom), int(sp.BottomEndX)+1, root.Height))
			bottom = max(bottom, r.Height)
		}
		if sp.Left > 0 {
			r := intersect(bounds, span(0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1))
			left = max(left, r.Width)
		}
		if sp.Right > 0 {
			r := intersect(bounds, span(root.Width-int(sp.Right), int(sp.RightStartY), root.Width, int(sp.RightEndY)+1))
			right = max(right, r.Width)
		}
	}
	if left == 0 && right == 0 && top == 0 && bottom == 0 {
		return bounds, false
	}

	out := geometry.Rect{
		X:      bounds.X + left,
		Y:      bounds.Y + top,
		Width:  max(bounds.Width-left-right, 1),
		Height: max(bounds.Height-top-bottom, 1),
	}
	return out, true
}

func span(x1, y1, x2, y2 int) geometry.Rect {
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// intersect returns the overlap of a and b, or a zero rect.
func intersect(a, b geometry.Rect) geometry.Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return geometry.Rect{}
	}
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
