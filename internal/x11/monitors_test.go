package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/winshell/internal/geometry"
)

func TestApplyStruts(t *testing.T) {
	root := geometry.Size{Width: 3840, Height: 1080}
	left := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	bottomPanel := ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 0, BottomEndX: 1919}
	topBar := fullStrut(&ewmh.WmStrut{Top: 24}, root)

	tests := []struct {
		name   string
		bounds geometry.Rect
		struts []ewmh.WmStrutPartial
		want   geometry.Rect
		ok     bool
	}{
		{"no struts", left, nil, left, false},
		{"panel on this monitor", left, []ewmh.WmStrutPartial{bottomPanel}, geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}, true},
		{"panel on other monitor", right, []ewmh.WmStrutPartial{bottomPanel}, right, false},
		{"full-width top bar", right, []ewmh.WmStrutPartial{topBar}, geometry.Rect{X: 1920, Y: 24, Width: 1920, Height: 1056}, true},
		{"largest strut wins", left, []ewmh.WmStrutPartial{bottomPanel, {Bottom: 60, BottomEndX: 99}}, geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1020}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := applyStruts(tt.bounds, root, tt.struts)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("applyStruts() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	a := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	if got := intersect(a, geometry.Rect{X: 50, Y: 60, Width: 100, Height: 100}); got != (geometry.Rect{X: 50, Y: 60, Width: 50, Height: 40}) {
		t.Fatalf("overlap = %+v", got)
	}
	if got := intersect(a, geometry.Rect{X: 100, Y: 0, Width: 10, Height: 10}); got != (geometry.Rect{}) {
		t.Fatalf("touching rects should not overlap: %+v", got)
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Bounds: geometry.Rect{Width: 1920, Height: 1080}},
		{ID: 1, Bounds: geometry.Rect{X: 1920, Width: 1280, Height: 1024}},
	}
	if m, ok := monitorAt(monitors, 2000, 500); !ok || m.ID != 1 {
		t.Fatalf("monitorAt = %+v, %v", m, ok)
	}
	if _, ok := monitorAt(monitors, 2000, 1050); ok {
		t.Fatalf("point below the second monitor should miss")
	}
}
