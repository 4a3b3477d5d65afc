package taskbar

import (
	"log/slog"
	"time"

	"github.com/1broseidon/winshell/internal/wm"
)

// Layout holds the taskbar's pixel metrics.
type Layout struct {
	Height         int `yaml:"height"`
	Padding        int `yaml:"padding"`
	StartWidth     int `yaml:"start_width"`
	SeparatorWidth int `yaml:"separator_width"`
	TrayWidth      int `yaml:"tray_width"`
	ButtonMaxWidth int `yaml:"button_max_width"`
	Gap            int `yaml:"gap"`
}

// DefaultLayout returns the stock taskbar metrics.
func DefaultLayout() Layout {
	return Layout{
		Height:         29,
		Padding:        2,
		StartWidth:     54,
		SeparatorWidth: 12,
		TrayWidth:      68,
		ButtonMaxWidth: 160,
		Gap:            3,
	}
}

// Entry is one taskbar button.
type Entry struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Icon      string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Active    bool   `json:"active" yaml:"active"`
	Minimized bool   `json:"minimized" yaml:"minimized"`
	X         int    `json:"x" yaml:"x"`
	Width     int    `json:"width" yaml:"width"`
}

// Taskbar presents one button per registered window and toggles windows
// when a button is clicked.
type Taskbar struct {
	mgr    *wm.Manager
	layout Layout
	logger *slog.Logger
}

// New creates a taskbar over mgr.
func New(mgr *wm.Manager, layout Layout, logger *slog.Logger) *Taskbar {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if layout == (Layout{}) {
		layout = DefaultLayout()
	}
	return &Taskbar{mgr: mgr, layout: layout, logger: logger}
}

// Layout returns the metrics in use.
func (t *Taskbar) Layout() Layout { return t.layout }

// Entries lists every window in registry order, minimized ones included.
func (t *Taskbar) Entries() []Entry {
	active, _ := t.mgr.ActiveWindow()
	windows := t.mgr.Windows()
	entries := make([]Entry, 0, len(windows))
	for _, w := range windows {
		entries = append(entries, Entry{
			ID:        w.ID,
			Title:     w.Title,
			Icon:      w.Icon,
			Active:    w.ID == active,
			Minimized: w.Minimized,
			X:         w.TaskbarX,
			Width:     w.TaskbarWidth,
		})
	}
	return entries
}

// Click toggles the window behind a taskbar button: the active, visible
// window minimizes; anything else is activated and restored.
func (t *Taskbar) Click(id string) {
	rec, ok := t.mgr.Window(id)
	if !ok {
		return
	}
	active, _ := t.mgr.ActiveWindow()

	if active == id && !rec.Minimized {
		t.setMinimized(rec, true)
		return
	}
	t.mgr.SetActiveWindow(id)
	if rec.Minimized {
		t.setMinimized(rec, false)
	}
}

func (t *Taskbar) setMinimized(rec wm.Record, minimized bool) {
	if rec.SetMinimized != nil {
		rec.SetMinimized(minimized)
		return
	}
	t.mgr.UpdateWindow(rec.ID, wm.Patch{Minimized: &minimized})
}

// Slot is the computed position of one button.
type Slot struct {
	X     int
	Width int
}

// Slots lays out n buttons across a taskbar of the given width. Buttons share
// the space between the start button and the tray, each capped at
// ButtonMaxWidth, separated by Gap.
func (l Layout) Slots(width, n int) []Slot {
	if n <= 0 {
		return nil
	}
	left := l.Padding + l.StartWidth + l.SeparatorWidth
	area := width - left - l.TrayWidth - l.Padding
	if area < 0 {
		area = 0
	}

	share := (area - l.Gap*(n-1)) / n
	if share < 0 {
		share = 0
	}
	w := min(l.ButtonMaxWidth, share)

	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = Slot{X: left + i*(w+l.Gap), Width: w}
	}
	return slots
}

// Reflow recomputes button geometry for a taskbar of the given width and
// writes it to records whose geometry changed. It returns how many records
// were updated.
func (t *Taskbar) Reflow(width int) int {
	windows := t.mgr.Windows()
	slots := t.layout.Slots(width, len(windows))

	updated := 0
	for i, w := range windows {
		s := slots[i]
		if w.TaskbarX == s.X && w.TaskbarWidth == s.Width {
			continue
		}
		t.mgr.UpdateWindow(w.ID, wm.Patch{TaskbarX: &s.X, TaskbarWidth: &s.Width})
		updated++
	}
	if updated > 0 {
		t.logger.Debug("taskbar reflowed", "width", width, "updated", updated)
	}
	return updated
}

// Clock renders the tray clock.
func Clock(now time.Time) string {
	return now.Format("3:04 PM")
}
