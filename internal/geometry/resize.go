package geometry

import (
	"fmt"
	"strings"
)

// Direction identifies which edge or corner a resize handle drags.
type Direction int

const (
	DirNone Direction = iota
	DirN
	DirS
	DirE
	DirW
	DirNE
	DirNW
	DirSE
	DirSW
)

// AllDirections lists the eight resize handles.
var AllDirections = []Direction{DirN, DirS, DirE, DirW, DirNE, DirNW, DirSE, DirSW}

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case DirN:
		return "n"
	case DirS:
		return "s"
	case DirE:
		return "e"
	case DirW:
		return "w"
	case DirNE:
		return "ne"
	case DirNW:
		return "nw"
	case DirSE:
		return "se"
	case DirSW:
		return "sw"
	default:
		return "none"
	}
}

// ParseDirection parses a compass direction such as "se".
func ParseDirection(s string) (Direction, error) {
	for _, d := range AllDirections {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return DirNone, fmt.Errorf("unknown resize direction %q (want one of n, s, e, w, ne, nw, se, sw)", s)
}

// Multiplier returns how the raw pointer delta maps onto each axis:
// -1 moves the west/north edge, +1 the east/south edge, 0 leaves the axis alone.
func (d Direction) Multiplier() (mx, my int) {
	switch d {
	case DirN:
		return 0, -1
	case DirS:
		return 0, 1
	case DirE:
		return 1, 0
	case DirW:
		return -1, 0
	case DirNE:
		return 1, -1
	case DirNW:
		return -1, -1
	case DirSE:
		return 1, 1
	case DirSW:
		return -1, 1
	default:
		return 0, 0
	}
}

// MinSize returns the effective size floor for a window.
func (l Limits) MinSize(minWidth, minHeight int) Size {
	return Size{
		Width:  max(l.MinWidth, minWidth),
		Height: max(l.MinHeight, minHeight),
	}
}

// ClampResize applies a pointer delta to start according to dir.
//
// Each edge moves independently. A west or north edge can not pass the
// opposite edge minus the minimum size, and the moving east/south edge can
// not shrink the window below it either. A north edge stops at y=0 so the
// title bar stays reachable.
func ClampResize(start Rect, delta Point, dir Direction, minWidth, minHeight int, limits Limits) Rect {
	floor := limits.MinSize(minWidth, minHeight)
	mx, my := dir.Multiplier()
	out := start

	switch mx {
	case 1:
		out.Width = max(start.Width+delta.X, floor.Width)
	case -1:
		right := start.X + start.Width
		out.X = min(start.X+delta.X, right-floor.Width)
		out.Width = right - out.X
	}

	switch my {
	case 1:
		out.Height = max(start.Height+delta.Y, floor.Height)
	case -1:
		bottom := start.Y + start.Height
		out.Y = min(start.Y+delta.Y, bottom-floor.Height)
		if out.Y < 0 {
			out.Y = min(0, bottom-floor.Height)
		}
		out.Height = bottom - out.Y
	}

	return out
}
