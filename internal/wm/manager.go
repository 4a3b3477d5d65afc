package wm

import (
	"log/slog"
	"sync"
)

// EventKind describes a registry mutation.
type EventKind int

const (
	EventCreated EventKind = iota
	EventUpdated
	EventRemoved
	EventActivated
	EventDeactivated
	EventCaptureChanged
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	case EventRemoved:
		return "removed"
	case EventActivated:
		return "activated"
	case EventDeactivated:
		return "deactivated"
	case EventCaptureChanged:
		return "capture"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after a mutation is applied.
type Event struct {
	Kind EventKind
	ID   string
}

// orderEntry is one slot in the activation order. A null entry records a
// "deactivate everything" event.
type orderEntry struct {
	id   string
	null bool
}

type listener struct {
	id int
	fn func(Event)
}

// Manager is the window registry: every open window record, the activation
// order and the single pointer-capture slot.
//
// Operations on unknown ids are silently ignored.
type Manager struct {
	mu           sync.Mutex
	windows      []*Record
	order        []orderEntry
	capture      string
	listeners    []listener
	nextListener int
	logger       *slog.Logger
}

// NewManager creates an empty registry.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{logger: logger}
}

// Subscribe registers fn for change events. Events are delivered outside the
// registry lock, in mutation order. The returned func removes the listener.
func (m *Manager) Subscribe(fn func(Event)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextListener++
	id := m.nextListener
	m.listeners = append(m.listeners, listener{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify delivers events to a snapshot of the listeners. Must be called without m.mu held.
func (m *Manager) notify(events ...Event) {
	if len(events) == 0 {
		return
	}
	m.mu.Lock()
	ls := make([]listener, len(m.listeners))
	copy(ls, m.listeners)
	m.mu.Unlock()

	for _, ev := range events {
		for _, l := range ls {
			l.fn(ev)
		}
	}
}

func (m *Manager) indexOf(id string) int {
	for i, w := range m.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// CreateWindow adds a record. If a record with the same id is already
// registered it is replaced in place: last create wins. Activation order is
// not touched.
func (m *Manager) CreateWindow(rec Record) {
	if rec.ID == "" {
		return
	}
	m.mu.Lock()
	r := rec
	if i := m.indexOf(rec.ID); i >= 0 {
		m.windows[i] = &r
		m.logger.Debug("window replaced", "id", rec.ID)
	} else {
		m.windows = append(m.windows, &r)
		m.logger.Debug("window created", "id", rec.ID, "title", rec.Title)
	}
	m.mu.Unlock()

	m.notify(Event{Kind: EventCreated, ID: rec.ID})
}

// UpdateWindow merges patch into the record with the given id.
func (m *Manager) UpdateWindow(id string, patch Patch) {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	changed := patch.apply(m.windows[i])
	m.mu.Unlock()

	if changed {
		m.notify(Event{Kind: EventUpdated, ID: id})
	}
}

// RemoveWindow drops the record, purges it from the activation order and
// releases pointer capture if the window held it.
func (m *Manager) RemoveWindow(id string) {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	m.windows = append(m.windows[:i], m.windows[i+1:]...)

	order := m.order[:0]
	for _, e := range m.order {
		if e.null || e.id != id {
			order = append(order, e)
		}
	}
	m.order = order

	events := []Event{{Kind: EventRemoved, ID: id}}
	if m.capture == id {
		m.capture = ""
		events = append(events, Event{Kind: EventCaptureChanged, ID: id})
	}
	m.logger.Debug("window removed", "id", id)
	m.mu.Unlock()

	m.notify(events...)
}

// SetActiveWindow moves id to the front of the activation order. Activating
// the window that is already frontmost is a no-op. Any null entry is dropped:
// "deactivate all" only lasts until the next real activation.
func (m *Manager) SetActiveWindow(id string) {
	m.mu.Lock()
	if m.indexOf(id) < 0 {
		m.mu.Unlock()
		return
	}
	if len(m.order) > 0 && !m.order[0].null && m.order[0].id == id {
		m.mu.Unlock()
		return
	}

	order := make([]orderEntry, 0, len(m.order)+1)
	order = append(order, orderEntry{id: id})
	for _, e := range m.order {
		if e.null || e.id == id {
			continue
		}
		order = append(order, e)
	}
	m.order = order
	m.mu.Unlock()

	m.notify(Event{Kind: EventActivated, ID: id})
}

// Deactivate records a "deactivate everything" event at the front of the
// activation order so no window is active until the next activation.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	if len(m.order) > 0 && m.order[0].null {
		m.mu.Unlock()
		return
	}
	order := make([]orderEntry, 0, len(m.order)+1)
	order = append(order, orderEntry{null: true})
	for _, e := range m.order {
		if !e.null {
			order = append(order, e)
		}
	}
	m.order = order
	m.mu.Unlock()

	m.notify(Event{Kind: EventDeactivated})
}

// SetTaskbarX records where the window's taskbar button starts.
func (m *Manager) SetTaskbarX(id string, x int) {
	m.UpdateWindow(id, Patch{TaskbarX: &x})
}

// SetTaskbarWidth records the width of the window's taskbar button.
func (m *Manager) SetTaskbarWidth(id string, width int) {
	m.UpdateWindow(id, Patch{TaskbarWidth: &width})
}
