package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winshell/internal/shell"
)

const refreshInterval = time.Second

// snapshotMsg carries a fresh window snapshot from the daemon.
type snapshotMsg struct {
	snap *shell.Snapshot
	err  error
}

// tickMsg drives the periodic snapshot refresh.
type tickMsg struct{}

// refreshMsg asks the root model to refetch the snapshot now.
type refreshMsg struct{}

// clearStatusMsg clears a tab's status message after a delay.
type clearStatusMsg struct{ tab Tab }

func clearStatusAfter(tab Tab) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{tab: tab}
	})
}

func requestRefresh() tea.Msg { return refreshMsg{} }

// model is the root bubbletea model for the TUI.
type model struct {
	client Client

	activeTab Tab

	windowsTab  WindowsTab
	programsTab ProgramsTab
	menuTab     MenuTab

	connected bool
	snap      *shell.Snapshot

	width  int
	height int
}

func newModel(client Client) model {
	return model{
		client:      client,
		activeTab:   TabWindows,
		windowsTab:  NewWindowsTab(client),
		programsTab: NewProgramsTab(client),
		menuTab:     NewMenuTab(client),
	}
}

func (m model) fetchSnapshot() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		snap, err := client.ListWindows()
		return snapshotMsg{snap: snap, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// capturing reports whether a sub-model owns the keyboard (form or prompt).
func (m model) capturing() bool {
	switch m.activeTab {
	case TabWindows:
		return m.windowsTab.editing()
	case TabPrograms:
		return m.programsTab.prompting
	}
	return false
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchSnapshot(), tick(), m.programsTab.load(), m.menuTab.load())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.connected = msg.err == nil
		if msg.err == nil {
			m.snap = msg.snap
			m.windowsTab.SetSnapshot(msg.snap)
			m.programsTab.SetQueued(msg.snap.Queued, msg.snap.RunError)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchSnapshot(), tick())

	case refreshMsg:
		return m, m.fetchSnapshot()

	case clearStatusMsg:
		switch msg.tab {
		case TabWindows:
			m.windowsTab.status = tabStatus{}
		case TabPrograms:
			m.programsTab.status = tabStatus{}
		case TabMenu:
			m.menuTab.status = tabStatus{}
		}
		return m, nil

	case programsMsg:
		var cmd tea.Cmd
		m.programsTab, cmd = m.programsTab.Update(msg)
		return m, cmd

	case menuMsg:
		var cmd tea.Cmd
		m.menuTab, cmd = m.menuTab.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.windowsTab, _ = m.windowsTab.Update(subMsg)
		m.programsTab, _ = m.programsTab.Update(subMsg)
		m.menuTab, _ = m.menuTab.Update(subMsg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			case "shift+tab":
				m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
				return m, nil
			case "1":
				m.activeTab = TabWindows
				return m, nil
			case "2":
				m.activeTab = TabPrograms
				return m, nil
			case "3":
				m.activeTab = TabMenu
				return m, nil
			case "ctrl+r":
				return m, tea.Batch(m.fetchSnapshot(), m.programsTab.load(), m.menuTab.load())
			}
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
	case TabPrograms:
		m.programsTab, cmd = m.programsTab.Update(msg)
	case TabMenu:
		m.menuTab, cmd = m.menuTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	active, clock := "", ""
	if m.snap != nil {
		active, clock = m.snap.Active, m.snap.Clock
	}
	statusBar := renderStatusBar(m.connected, active, clock, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	var content string
	switch m.activeTab {
	case TabWindows:
		content = m.windowsTab.View()
	case TabPrograms:
		content = m.programsTab.View()
	case TabMenu:
		content = m.menuTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
