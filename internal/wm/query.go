package wm

// Windows returns copies of all records in registration order.
func (m *Manager) Windows() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, len(m.windows))
	for i, w := range m.windows {
		out[i] = *w
	}
	return out
}

// Window returns a copy of the record with the given id.
func (m *Manager) Window(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(id); i >= 0 {
		return *m.windows[i], true
	}
	return Record{}, false
}

// RawOrder returns the activation order, most recent first. Null
// ("deactivate all") entries are reported as empty strings.
func (m *Manager) RawOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.order))
	for i, e := range m.order {
		if !e.null {
			out[i] = e.id
		}
	}
	return out
}

// VisibleOrder is the activation order without minimized windows. Null
// entries are kept as empty strings.
func (m *Manager) VisibleOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visibleOrderLocked()
}

func (m *Manager) visibleOrderLocked() []string {
	out := make([]string, 0, len(m.order))
	for _, e := range m.order {
		if e.null {
			out = append(out, "")
			continue
		}
		if i := m.indexOf(e.id); i >= 0 && m.windows[i].Minimized {
			continue
		}
		out = append(out, e.id)
	}
	return out
}

// ActiveWindow returns the first entry of the visible activation order.
// It reports false when nothing is active, including right after Deactivate.
func (m *Manager) ActiveWindow() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	visible := m.visibleOrderLocked()
	if len(visible) == 0 || visible[0] == "" {
		return "", false
	}
	return visible[0], true
}

// ActivationRanks maps window id to stacking rank; higher is more recently
// activated. Null entries take up a position but get no rank.
func (m *Manager) ActivationRanks() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.order)
	ranks := make(map[string]int, n)
	for i, e := range m.order {
		if e.null {
			continue
		}
		ranks[e.id] = n - i
	}
	return ranks
}

// RequestCapture hands the global pointer-capture slot to id. It fails when
// another window holds it or id is not registered.
func (m *Manager) RequestCapture(id string) bool {
	m.mu.Lock()
	if m.indexOf(id) < 0 {
		m.mu.Unlock()
		return false
	}
	if m.capture == id {
		m.mu.Unlock()
		return true
	}
	if m.capture != "" {
		m.mu.Unlock()
		return false
	}
	m.capture = id
	m.mu.Unlock()

	m.notify(Event{Kind: EventCaptureChanged, ID: id})
	return true
}

// ReleaseCapture frees the capture slot if id holds it.
func (m *Manager) ReleaseCapture(id string) {
	m.mu.Lock()
	if m.capture == "" || m.capture != id {
		m.mu.Unlock()
		return
	}
	m.capture = ""
	m.mu.Unlock()

	m.notify(Event{Kind: EventCaptureChanged, ID: id})
}

// CaptureOwner returns the window currently holding pointer capture.
func (m *Manager) CaptureOwner() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capture, m.capture != ""
}
