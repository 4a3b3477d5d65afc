package shell

import (
	"context"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/taskbar"
	"github.com/1broseidon/winshell/internal/window"
)

// WindowInfo describes one registered window.
type WindowInfo struct {
	ID        string        `json:"id" yaml:"id"`
	Title     string        `json:"title" yaml:"title"`
	Icon      string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	Rect      geometry.Rect `json:"rect" yaml:"rect"`
	Layout    geometry.Rect `json:"layout" yaml:"layout"`
	Resizable bool          `json:"resizable" yaml:"resizable"`
	Maximized bool          `json:"maximized" yaml:"maximized"`
	Minimized bool          `json:"minimized" yaml:"minimized"`
	Active    bool          `json:"active" yaml:"active"`
	Rank      int           `json:"rank" yaml:"rank"`
	Phase     string        `json:"phase,omitempty" yaml:"phase,omitempty"`
	Animation string        `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// Snapshot is a point-in-time view of the whole session.
type Snapshot struct {
	Viewport geometry.Viewport `json:"viewport" yaml:"viewport"`
	Active   string            `json:"active,omitempty" yaml:"active,omitempty"`
	Order    []string          `json:"order" yaml:"order"`
	Windows  []WindowInfo      `json:"windows" yaml:"windows"`
	Taskbar  []taskbar.Entry   `json:"taskbar" yaml:"taskbar"`
	Clock    string            `json:"clock" yaml:"clock"`
	Capture  string            `json:"capture,omitempty" yaml:"capture,omitempty"`
	Queued   []string          `json:"queued,omitempty" yaml:"queued,omitempty"`
	RunError string            `json:"run_error,omitempty" yaml:"run_error,omitempty"`
}

// Window returns the info for id.
func (s Snapshot) Window(id string) (WindowInfo, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return WindowInfo{}, false
}

// Snapshot captures the current session state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.loop.Do(ctx, func() error {
		snap = s.snapshot()
		return nil
	})
	return snap, err
}

func (s *Session) snapshot() Snapshot {
	active, _ := s.mgr.ActiveWindow()
	capture, _ := s.mgr.CaptureOwner()
	ranks := s.mgr.ActivationRanks()

	snap := Snapshot{
		Viewport: s.viewport,
		Active:   active,
		Order:    s.mgr.RawOrder(),
		Taskbar:  s.taskbar.Entries(),
		Clock:    taskbar.Clock(s.now()),
		Capture:  capture,
		Queued:   s.programs.Queued(),
		RunError: s.runErrorMsg,
	}
	for _, rec := range s.mgr.Windows() {
		info := WindowInfo{
			ID:        rec.ID,
			Title:     rec.Title,
			Icon:      rec.Icon,
			Rect:      rec.Rect(),
			Layout:    rec.Rect(),
			Resizable: rec.Resizable,
			Maximized: rec.Maximized,
			Minimized: rec.Minimized,
			Active:    rec.ID == active,
			Rank:      ranks[rec.ID],
		}
		if c, ok := rec.Surface.(*window.Controller); ok {
			info.Layout = c.Layout()
			info.Maximized = c.Maximized()
			if p := c.Phase(); p != window.PhaseIdle {
				info.Phase = p.String()
			}
			anim := c.Animation()
			if anim.Restore != window.AnimNone {
				info.Animation = anim.Restore.String()
			} else if anim.Size != window.AnimNone {
				info.Animation = anim.Size.String()
			}
		}
		snap.Windows = append(snap.Windows, info)
	}
	return snap
}
