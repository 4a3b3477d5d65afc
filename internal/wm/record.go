package wm

import "github.com/1broseidon/winshell/internal/geometry"

// Record is the registry's view of one open window.
type Record struct {
	ID        string
	Title     string
	Icon      string
	X         int
	Y         int
	Width     int // geometry.Auto until measured
	Height    int // geometry.Auto until measured
	Resizable bool
	Maximized bool
	Minimized bool

	// Taskbar button geometry, written by the taskbar and read by the
	// window controller to aim the minimize animation.
	TaskbarX     int
	TaskbarWidth int

	// SetMaximized and SetMinimized route back into the owning controller.
	SetMaximized func(bool)
	SetMinimized func(bool)

	// Surface is an opaque handle to whatever the host renders the window into.
	Surface any
	// OnClose closes the window programmatically (context menus, IPC).
	OnClose func()
}

// Rect returns the record's stored geometry.
func (r Record) Rect() geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Patch lists the fields UpdateWindow merges into a record. Nil fields are left alone.
type Patch struct {
	Title        *string
	Icon         *string
	X            *int
	Y            *int
	Width        *int
	Height       *int
	Resizable    *bool
	Maximized    *bool
	Minimized    *bool
	TaskbarX     *int
	TaskbarWidth *int
	SetMaximized func(bool)
	SetMinimized func(bool)
	Surface      any
	OnClose      func()
}

// GeometryPatch builds a patch that writes all four geometry fields.
func GeometryPatch(r geometry.Rect) Patch {
	return Patch{X: &r.X, Y: &r.Y, Width: &r.Width, Height: &r.Height}
}

// Int returns a pointer to v, for building patches.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }

// apply merges p into r and reports whether anything changed.
func (p Patch) apply(r *Record) bool {
	changed := false
	setString := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}

	setString(&r.Title, p.Title)
	setString(&r.Icon, p.Icon)
	setInt(&r.X, p.X)
	setInt(&r.Y, p.Y)
	setInt(&r.Width, p.Width)
	setInt(&r.Height, p.Height)
	setBool(&r.Resizable, p.Resizable)
	setBool(&r.Maximized, p.Maximized)
	setBool(&r.Minimized, p.Minimized)
	setInt(&r.TaskbarX, p.TaskbarX)
	setInt(&r.TaskbarWidth, p.TaskbarWidth)

	if p.SetMaximized != nil {
		r.SetMaximized = p.SetMaximized
	}
	if p.SetMinimized != nil {
		r.SetMinimized = p.SetMinimized
	}
	if p.Surface != nil {
		r.Surface = p.Surface
	}
	if p.OnClose != nil {
		r.OnClose = p.OnClose
	}
	return changed
}
