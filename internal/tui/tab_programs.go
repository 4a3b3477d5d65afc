package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winshell/internal/ipc"
)

// programsMsg carries the registered program list.
type programsMsg struct {
	data *ipc.ProgramsData
	err  error
}

// programItem is a list item representing a registered program.
type programItem struct {
	name   string
	queued bool
}

func (i programItem) Title() string {
	if i.queued {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("…") + " " + i.name
	}
	return okStyle.Render("▸") + " " + i.name
}

func (i programItem) Description() string {
	if i.queued {
		return "open queued"
	}
	return "registered"
}

func (i programItem) FilterValue() string { return i.name }

// ProgramsTab lists launchable programs and hosts the Run prompt.
type ProgramsTab struct {
	list   list.Model
	client Client
	status tabStatus

	programs []string
	queued   []string
	runError string

	prompting bool
	input     textinput.Model

	width  int
	height int
}

// NewProgramsTab creates the Programs tab sub-model.
func NewProgramsTab(client Client) ProgramsTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Programs"
	l.Styles.Title = activeTabStyle.Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Prompt = "Open: "
	ti.Placeholder = "e.g. notepad readme.txt"
	ti.CharLimit = 256

	return ProgramsTab{list: l, client: client, input: ti}
}

func (t ProgramsTab) load() tea.Cmd {
	client := t.client
	return func() tea.Msg {
		data, err := client.ListPrograms()
		return programsMsg{data: data, err: err}
	}
}

// SetQueued updates queued program names and the run-error message from a snapshot.
func (t *ProgramsTab) SetQueued(queued []string, runError string) {
	t.queued = queued
	t.runError = runError
	t.rebuildItems()
}

func (t *ProgramsTab) rebuildItems() {
	isQueued := make(map[string]bool, len(t.queued))
	for _, q := range t.queued {
		isQueued[q] = true
	}
	items := make([]list.Item, 0, len(t.programs)+len(t.queued))
	for _, name := range t.programs {
		items = append(items, programItem{name: name})
		delete(isQueued, name)
	}
	for _, q := range t.queued {
		if isQueued[q] {
			items = append(items, programItem{name: q, queued: true})
		}
	}
	t.list.SetItems(items)
}

// Update handles messages for the programs tab.
func (t ProgramsTab) Update(msg tea.Msg) (ProgramsTab, tea.Cmd) {
	if t.prompting {
		return t.updatePrompt(msg)
	}

	switch msg := msg.(type) {
	case programsMsg:
		if msg.err != nil {
			t.status = tabStatus{text: "error: " + msg.err.Error(), err: true}
			return t, nil
		}
		t.programs = msg.data.Programs
		t.queued = msg.data.Queued
		t.rebuildItems()
		return t, nil

	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.width, max(t.height-4, 1))
		t.input.Width = max(t.width-10, 10)
		return t, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "o":
			item, ok := t.list.SelectedItem().(programItem)
			if !ok || item.queued {
				return t, nil
			}
			return t.done(t.client.OpenProgram(item.name, nil, false), "opened "+item.name)
		case "r", "ctrl+o":
			t.prompting = true
			t.input.Reset()
			t.input.Focus()
			return t, textinput.Blink
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

func (t ProgramsTab) updatePrompt(msg tea.Msg) (ProgramsTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			t.prompting = false
			t.input.Blur()
			return t, nil
		case "enter":
			line := strings.TrimSpace(t.input.Value())
			t.prompting = false
			t.input.Blur()
			if line == "" {
				return t, nil
			}
			return t.submit(line)
		}
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

// submit runs line through the daemon's Run dialog.
func (t ProgramsTab) submit(line string) (ProgramsTab, tea.Cmd) {
	res, err := t.client.Run(line)
	if errors.Is(err, ipc.ErrFileNotFound) {
		// The daemon is showing the run-error window; the snapshot carries its text.
		t.status = tabStatus{text: "not found: " + line, err: true}
		return t, tea.Batch(requestRefresh, clearStatusAfter(TabPrograms))
	}
	if err != nil {
		return t.done(err, "")
	}
	ok := "started " + res.Program
	if len(res.Args) > 0 {
		ok += " " + strings.Join(res.Args, " ")
	}
	return t.done(nil, ok)
}

func (t ProgramsTab) done(err error, ok string) (ProgramsTab, tea.Cmd) {
	if err != nil {
		t.status = tabStatus{text: "error: " + err.Error(), err: true}
	} else {
		t.status = tabStatus{text: ok}
	}
	return t, tea.Batch(requestRefresh, clearStatusAfter(TabPrograms))
}

// View implements tea.Model.
func (t ProgramsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}

	var prompt string
	if t.prompting {
		prompt = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Width(max(t.width-4, 10)).
			Render(t.input.View())
	} else {
		prompt = dimStyle.Render("  Press 'r' to type a command as in the Run dialog")
		if t.runError != "" {
			prompt = errStyle.Render("  " + t.runError)
		}
	}

	listView := lipgloss.NewStyle().
		Width(t.width).
		Height(max(t.height-4, 1)).
		Render(t.list.View())

	hints := "enter:open  r:run…  esc:cancel"
	return lipgloss.JoinVertical(lipgloss.Left, listView, prompt, renderTabStatus(t.status.text, t.status.err, hints, t.width))
}
