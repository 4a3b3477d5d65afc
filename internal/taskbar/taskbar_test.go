package taskbar

import (
	"testing"
	"time"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/window"
	"github.com/1broseidon/winshell/internal/wm"
)

func TestClickTogglesActiveWindow(t *testing.T) {
	mgr := wm.NewManager(nil)
	c := window.New(mgr, window.Props{ID: "calc", Title: "Calculator", X: 10, Y: 10, Width: 200, Height: 200}, window.Options{})
	c.SetOpen(true)
	bar := New(mgr, DefaultLayout(), nil)

	bar.Click("calc")
	if !c.Minimized() {
		t.Fatalf("first click on the active window should minimize it")
	}
	if _, ok := mgr.ActiveWindow(); ok {
		t.Fatalf("minimized window must not be active")
	}

	bar.Click("calc")
	if c.Minimized() {
		t.Fatalf("second click should restore, not minimize again")
	}
	if id, _ := mgr.ActiveWindow(); id != "calc" {
		t.Fatalf("second click should re-activate, active = %q", id)
	}
}

func TestClickActivatesInactiveWindow(t *testing.T) {
	mgr := wm.NewManager(nil)
	mgr.CreateWindow(wm.Record{ID: "a", Title: "A"})
	mgr.CreateWindow(wm.Record{ID: "b", Title: "B"})
	mgr.SetActiveWindow("a")
	mgr.SetActiveWindow("b")
	bar := New(mgr, Layout{}, nil)

	bar.Click("a")
	if id, _ := mgr.ActiveWindow(); id != "a" {
		t.Fatalf("active = %q, want a", id)
	}
	if rec, _ := mgr.Window("a"); rec.Minimized {
		t.Fatalf("activating must not minimize")
	}

	bar.Click("ghost")
}

func TestEntries(t *testing.T) {
	mgr := wm.NewManager(nil)
	mgr.CreateWindow(wm.Record{ID: "a", Title: "A"})
	mgr.CreateWindow(wm.Record{ID: "b", Title: "B", Minimized: true})
	mgr.SetActiveWindow("a")
	bar := New(mgr, Layout{}, nil)

	entries := bar.Entries()
	if len(entries) != 2 {
		t.Fatalf("minimized windows must stay on the taskbar, got %d entries", len(entries))
	}
	if !entries[0].Active || entries[1].Active {
		t.Fatalf("entries = %+v", entries)
	}
	if !entries[1].Minimized {
		t.Fatalf("entry b should be marked minimized")
	}
}

func TestSlots(t *testing.T) {
	l := DefaultLayout()
	tests := []struct {
		name      string
		width, n  int
		wantWidth int
	}{
		{"capped", 1024, 2, 160},
		{"shared", 400, 3, 85},
		{"empty", 1024, 0, 0},
		{"too narrow", 100, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := l.Slots(tt.width, tt.n)
			if len(slots) != tt.n {
				t.Fatalf("len = %d, want %d", len(slots), tt.n)
			}
			for i, s := range slots {
				if s.Width != tt.wantWidth {
					t.Fatalf("slot %d width = %d, want %d", i, s.Width, tt.wantWidth)
				}
				if i > 0 && s.X != slots[i-1].X+s.Width+l.Gap {
					t.Fatalf("slot %d x = %d, want gap-separated", i, s.X)
				}
			}
		})
	}
}

func TestReflowReportsOnlyChanges(t *testing.T) {
	mgr := wm.NewManager(nil)
	mgr.CreateWindow(wm.Record{ID: "a"})
	mgr.CreateWindow(wm.Record{ID: "b"})
	bar := New(mgr, DefaultLayout(), nil)

	if n := bar.Reflow(1024); n != 2 {
		t.Fatalf("first reflow updated %d, want 2", n)
	}
	if n := bar.Reflow(1024); n != 0 {
		t.Fatalf("unchanged reflow updated %d, want 0", n)
	}

	rec, _ := mgr.Window("b")
	if rec.TaskbarX != 68+163 || rec.TaskbarWidth != 160 {
		t.Fatalf("b geometry = (%d, %d)", rec.TaskbarX, rec.TaskbarWidth)
	}

	mgr.RemoveWindow("a")
	if n := bar.Reflow(1024); n != 1 {
		t.Fatalf("reflow after removal updated %d, want 1", n)
	}
}

func TestMinimizeAnimationTargetsTaskbarButton(t *testing.T) {
	mgr := wm.NewManager(nil)
	c := window.New(mgr, window.Props{ID: "w", X: 0, Y: 0, Width: 100, Height: 100}, window.Options{
		Viewport: func() geometry.Viewport { return geometry.Viewport{Width: 1024, Height: 768} },
	})
	c.SetOpen(true)
	bar := New(mgr, DefaultLayout(), nil)
	bar.Reflow(1024)

	bar.Click("w")
	anim := c.Animation()
	if anim.Restore != window.AnimMinimize || anim.TaskbarX != 68 || anim.TaskbarWidth != 160 {
		t.Fatalf("animation = %+v", anim)
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2024, 1, 1, 15, 4, 0, 0, time.UTC), "3:04 PM"},
		{time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC), "12:30 AM"},
		{time.Date(2024, 1, 1, 9, 5, 59, 0, time.UTC), "9:05 AM"},
	}
	for _, tt := range tests {
		if got := Clock(tt.at); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}
