package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/menu"
)

// menuMsg carries the flattened start menu.
type menuMsg struct {
	data *ipc.MenuData
	err  error
}

// menuItem is a list item representing one start menu row.
type menuItem struct {
	row menu.Row
}

func (i menuItem) Title() string {
	r := i.row
	indent := strings.Repeat("  ", r.Depth)
	if r.Separator {
		return indent + dimStyle.Render(strings.Repeat("─", 16))
	}
	label := r.Label
	switch {
	case r.Disabled:
		label = dimStyle.Render(label)
	case r.Bold:
		label = lipgloss.NewStyle().Bold(true).Render(label)
	}
	if r.Shortcut != "" {
		label += "  " + dimStyle.Render(r.Shortcut)
	}
	return indent + label
}

func (i menuItem) Description() string { return "" }
func (i menuItem) FilterValue() string { return strings.Join(i.row.Path, "/") }

// MenuTab browses the start menu and selects items through the daemon.
type MenuTab struct {
	list   list.Model
	client Client
	status tabStatus

	width  int
	height int
}

// NewMenuTab creates the Start Menu tab sub-model.
func NewMenuTab(client Client) MenuTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Start"
	l.Styles.Title = activeTabStyle.Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return MenuTab{list: l, client: client}
}

func (t MenuTab) load() tea.Cmd {
	client := t.client
	return func() tea.Msg {
		data, err := client.Menu()
		return menuMsg{data: data, err: err}
	}
}

// Update handles messages for the menu tab.
func (t MenuTab) Update(msg tea.Msg) (MenuTab, tea.Cmd) {
	switch msg := msg.(type) {
	case menuMsg:
		if msg.err != nil {
			t.status = tabStatus{text: "error: " + msg.err.Error(), err: true}
			return t, nil
		}
		items := make([]list.Item, 0, len(msg.data.Rows))
		for _, r := range msg.data.Rows {
			items = append(items, menuItem{row: r})
		}
		t.list.SetItems(items)
		return t, nil

	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.width, max(t.height-1, 1))
		return t, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return t.selectCurrent()
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

func (t MenuTab) selectCurrent() (MenuTab, tea.Cmd) {
	item, ok := t.list.SelectedItem().(menuItem)
	if !ok || item.row.Separator || item.row.Parent {
		return t, nil
	}
	label := strings.Join(item.row.Path, " › ")
	if err := t.client.MenuSelect(item.row.Path); err != nil {
		t.status = tabStatus{text: "error: " + err.Error(), err: true}
	} else {
		t.status = tabStatus{text: "selected " + label}
	}
	return t, tea.Batch(requestRefresh, clearStatusAfter(TabMenu))
}

// View implements tea.Model.
func (t MenuTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	listView := lipgloss.NewStyle().
		Width(t.width).
		Height(max(t.height-1, 1)).
		Render(t.list.View())
	return lipgloss.JoinVertical(lipgloss.Left, listView,
		renderTabStatus(t.status.text, t.status.err, "enter:select", t.width))
}
