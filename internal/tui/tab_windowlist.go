package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winshell/internal/shell"
	"github.com/1broseidon/winshell/internal/taskbar"
)

// tabStatus is a transient message shown in a tab's status line.
type tabStatus struct {
	text string
	err  bool
}

// windowItem is a list item representing one open window.
type windowItem struct {
	info shell.WindowInfo
}

func (i windowItem) Title() string {
	w := i.info
	var mark string
	switch {
	case w.Active:
		mark = okStyle.Render("●")
	case w.Minimized:
		mark = dimStyle.Render("_")
	default:
		mark = dimStyle.Render("○")
	}
	title := w.Title
	if title == "" {
		title = w.ID
	}
	return mark + " " + title
}

func (i windowItem) Description() string {
	w := i.info
	r := w.Layout
	parts := []string{w.ID, fmt.Sprintf("%d,%d %d×%d", r.X, r.Y, r.Width, r.Height)}
	if w.Maximized {
		parts = append(parts, "maximized")
	}
	if w.Minimized {
		parts = append(parts, "minimized")
	}
	if w.Rank > 0 {
		parts = append(parts, fmt.Sprintf("rank %d", w.Rank))
	}
	if w.Phase != "" {
		parts = append(parts, w.Phase)
	}
	return strings.Join(parts, " | ")
}

func (i windowItem) FilterValue() string { return i.info.ID }

// WindowsTab lists open windows beside a scaled preview of the desktop.
type WindowsTab struct {
	list   list.Model
	client Client
	snap   *shell.Snapshot
	status tabStatus
	form   *geometryForm

	width  int
	height int
}

// NewWindowsTab creates the Windows tab sub-model.
func NewWindowsTab(client Client) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.Styles.Title = activeTabStyle.Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return WindowsTab{list: l, client: client}
}

func (t WindowsTab) editing() bool { return t.form != nil }

// SetSnapshot replaces the listed windows, keeping the selection on the
// same window id when it still exists.
func (t *WindowsTab) SetSnapshot(snap *shell.Snapshot) {
	t.snap = snap
	selected := t.selectedID()

	items := make([]list.Item, 0, len(snap.Windows))
	idx := 0
	for i, w := range snap.Windows {
		items = append(items, windowItem{info: w})
		if w.ID == selected {
			idx = i
		}
	}
	t.list.SetItems(items)
	if len(items) > 0 {
		t.list.Select(idx)
	}
}

func (t WindowsTab) selected() (shell.WindowInfo, bool) {
	item, ok := t.list.SelectedItem().(windowItem)
	if !ok {
		return shell.WindowInfo{}, false
	}
	return item.info, true
}

func (t WindowsTab) selectedID() string {
	w, _ := t.selected()
	return w.ID
}

// Update handles messages for the windows tab.
func (t WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.listWidth(), max(t.height-1, 1))
		return t, nil

	case tea.KeyMsg:
		w, ok := t.selected()
		if !ok {
			break
		}
		switch msg.String() {
		case "enter", "a":
			return t.act(w, shell.ActionActivate)
		case "m":
			return t.act(w, shell.ActionMinimize)
		case "r":
			return t.act(w, shell.ActionRestore)
		case "x":
			if w.Maximized {
				return t.act(w, shell.ActionUnmaximize)
			}
			return t.act(w, shell.ActionMaximize)
		case "c":
			return t.act(w, shell.ActionClose)
		case "t":
			return t.done(t.client.TaskbarClick(w.ID), "taskbar: "+w.ID)
		case "e":
			t.form = newMoveForm(w, t.formWidth())
			return t, t.form.form.Init()
		case "s":
			if !w.Resizable {
				t.status = tabStatus{text: w.ID + " is not resizable", err: true}
				return t, clearStatusAfter(TabWindows)
			}
			t.form = newResizeForm(w, t.formWidth())
			return t, t.form.form.Init()
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

func (t WindowsTab) updateForm(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		t.form = nil
		return t, nil
	}

	form, cmd := t.form.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form.form = f
	}

	switch t.form.form.State {
	case huh.StateCompleted:
		gf := t.form
		t.form = nil
		rect, err := gf.apply(t.client)
		if err != nil {
			return t.done(err, "")
		}
		return t.done(nil, fmt.Sprintf("%s → %d,%d %d×%d", gf.id, rect.X, rect.Y, rect.Width, rect.Height))
	case huh.StateAborted:
		t.form = nil
		return t, nil
	}
	return t, cmd
}

func (t WindowsTab) act(w shell.WindowInfo, action shell.Action) (WindowsTab, tea.Cmd) {
	return t.done(t.client.WindowAction(w.ID, action), string(action)+": "+w.ID)
}

// done records the outcome of a daemon call and schedules a refresh.
func (t WindowsTab) done(err error, ok string) (WindowsTab, tea.Cmd) {
	if err != nil {
		t.status = tabStatus{text: "error: " + err.Error(), err: true}
	} else {
		t.status = tabStatus{text: ok}
	}
	return t, tea.Batch(requestRefresh, clearStatusAfter(TabWindows))
}

func (t WindowsTab) listWidth() int {
	return min(max(t.width/3, 28), 48)
}

func (t WindowsTab) formWidth() int {
	return max(min(t.width-4, 60), 20)
}

// View implements tea.Model.
func (t WindowsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	hints := "enter:activate  m:min  r:restore  x:max  c:close  t:taskbar  e:move  s:resize"
	if t.form != nil {
		header := accentStyle.Render("Window geometry") + dimStyle.Render("  (esc to cancel)")
		body := lipgloss.NewStyle().
			Width(t.width).
			Height(t.height-1).
			Padding(1, 2).
			Render(header + "\n\n" + t.form.form.View())
		return lipgloss.JoinVertical(lipgloss.Left, body, renderTabStatus(t.status.text, t.status.err, "", t.width))
	}

	listWidth := t.listWidth()
	sidebar := lipgloss.NewStyle().
		Width(listWidth).
		Height(t.height - 1).
		Render(t.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", max(t.height-1, 1)), "\n"))

	previewWidth := max(t.width-listWidth-3, 10)
	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, t.renderPreview(previewWidth))

	return lipgloss.JoinVertical(lipgloss.Left, columns, renderTabStatus(t.status.text, t.status.err, hints, t.width))
}

func (t WindowsTab) renderPreview(previewWidth int) string {
	if t.snap == nil {
		return dimStyle.Render(" waiting for daemon…")
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(" Desktop")
	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(" " + summarizeDesktop(t.snap))

	lines := renderDesktopPreview(t.snap, taskbar.DefaultLayout().Height, max(previewWidth-2, 5), max(t.height-5, 5))
	block := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(lines, "\n"))

	parts := []string{title, summary, "", block}
	if t.snap.RunError != "" {
		parts = append(parts, errStyle.Render(" "+t.snap.RunError))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
