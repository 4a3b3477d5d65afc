package geometry

// Auto marks a coordinate or dimension that has not been resolved yet.
// For x/y it requests centering on open, for width/height intrinsic sizing.
const Auto = -1

// Rect represents a window position and size
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Point is a pointer position in viewport coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is an intrinsic or measured size.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Viewport is the visible area windows live in.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Resolved reports whether none of the rect's fields still carry the Auto sentinel.
func (r Rect) Resolved() bool {
	return r.X != Auto && r.Y != Auto && r.Width != Auto && r.Height != Auto
}

// Size returns the rect's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Manhattan returns |dx| + |dy| between two points.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Sub returns a - b.
func (p Point) Sub(b Point) Point {
	return Point{X: p.X - b.X, Y: p.Y - b.Y}
}

// Limits holds the presentation-tuned clamp constants.
type Limits struct {
	// GrabMargin is how much of a window must stay on screen at the left edge.
	GrabMargin int `yaml:"grab_margin"`
	// RightMargin is how close to the right viewport edge a window origin may go.
	RightMargin int `yaml:"right_margin"`
	// BottomReserve keeps window origins above the taskbar strip.
	BottomReserve int `yaml:"bottom_reserve"`
	MinWidth      int `yaml:"min_width"`
	MinHeight     int `yaml:"min_height"`
}

// DefaultLimits returns the stock clamp constants.
func DefaultLimits() Limits {
	return Limits{
		GrabMargin:    72,
		RightMargin:   20,
		BottomReserve: 42,
		MinWidth:      110,
		MinHeight:     32,
	}
}

// ClampPosition keeps a window origin reachable inside the viewport.
//
// x is clamped to [-width+GrabMargin, viewport.Width-RightMargin] and y to
// [0, viewport.Height-BottomReserve]. If a range is empty the lower bound wins.
func ClampPosition(x, y, width, _ int, vp Viewport, limits Limits) (int, int) {
	x = clamp(x, -width+limits.GrabMargin, vp.Width-limits.RightMargin)
	y = clamp(y, 0, vp.Height-limits.BottomReserve)
	return x, y
}

// Center returns the origin that centers size in the viewport.
func Center(size Size, vp Viewport) Point {
	return Point{
		X: (vp.Width - size.Width) / 2,
		Y: (vp.Height - size.Height) / 2,
	}
}

// MaximizedRect is the layout of a maximized window: the whole viewport
// minus the taskbar strip.
func MaximizedRect(vp Viewport, taskbarHeight int) Rect {
	h := vp.Height - taskbarHeight
	if h < 0 {
		h = 0
	}
	return Rect{X: 0, Y: 0, Width: vp.Width, Height: h}
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
