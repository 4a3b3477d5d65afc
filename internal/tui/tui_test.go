package tui

import (
	"fmt"
	"go/build"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/shell"
	"github.com/1broseidon/winshell/internal/taskbar"
)

type fakeClient struct {
	snap    *shell.Snapshot
	calls   []string
	runErr  error
	menuErr error
}

func (f *fakeClient) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeClient) ListWindows() (*shell.Snapshot, error) { return f.snap, nil }
func (f *fakeClient) ListPrograms() (*ipc.ProgramsData, error) {
	return &ipc.ProgramsData{Programs: []string{"calc.exe", "notepad.exe"}, Queued: []string{"later.exe"}}, nil
}

func (f *fakeClient) OpenProgram(name string, _ []string, _ bool) error {
	f.record("open %s", name)
	return nil
}

func (f *fakeClient) Run(line string) (*ipc.RunData, error) {
	f.record("run %s", line)
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &ipc.RunData{Program: strings.Fields(line)[0] + ".exe"}, nil
}

func (f *fakeClient) WindowAction(id string, action shell.Action) error {
	f.record("%s %s", action, id)
	return nil
}

func (f *fakeClient) MoveWindow(id string, x, y int) (*ipc.WindowData, error) {
	f.record("move %s %d,%d", id, x, y)
	return &ipc.WindowData{ID: id, Rect: geometry.Rect{X: x, Y: y, Width: 400, Height: 300}}, nil
}

func (f *fakeClient) ResizeWindow(id string, dir geometry.Direction, dx, dy int) (*ipc.WindowData, error) {
	f.record("resize %s %s %d,%d", id, dir, dx, dy)
	return &ipc.WindowData{ID: id}, nil
}

func (f *fakeClient) TaskbarClick(id string) error {
	f.record("taskbar %s", id)
	return nil
}

func (f *fakeClient) Menu() (*ipc.MenuData, error) {
	if f.menuErr != nil {
		return nil, f.menuErr
	}
	return &ipc.MenuData{Rows: []menu.Row{
		{Depth: 0, Path: []string{"Programs"}, Label: "Programs →", Parent: true},
		{Depth: 1, Path: []string{"Programs", "Notepad"}, Label: "Notepad"},
		{Depth: 0, Separator: true},
		{Depth: 0, Path: []string{"Run..."}, Label: "Run..."},
	}}, nil
}

func (f *fakeClient) MenuSelect(path []string) error {
	f.record("select %s", strings.Join(path, "/"))
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testSnapshot() *shell.Snapshot {
	return &shell.Snapshot{
		Viewport: geometry.Viewport{Width: 1024, Height: 768},
		Active:   "notepad.exe",
		Windows: []shell.WindowInfo{
			{ID: "calc.exe", Title: "Calculator", Layout: geometry.Rect{X: 385, Y: 261, Width: 254, Height: 246}, Rank: 2},
			{ID: "notepad.exe", Title: "Notepad", Layout: geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300}, Maximized: false, Resizable: true, Active: true, Rank: 1},
			{ID: "winmine.exe", Title: "Minesweeper", Minimized: true},
		},
		Taskbar: []taskbar.Entry{{ID: "calc.exe", X: 68, Width: 160}, {ID: "notepad.exe", X: 231, Width: 160, Active: true}},
		Clock:   "3:04 PM",
	}
}

func TestPaintOrder(t *testing.T) {
	wins := []shell.WindowInfo{
		{ID: "a", Rank: 1},
		{ID: "b", Rank: 0},
		{ID: "c", Rank: 3},
		{ID: "d", Rank: 2, Minimized: true},
		{ID: "e", Rank: 2},
	}
	var got []string
	for _, w := range paintOrder(wins) {
		got = append(got, w.ID)
	}
	if strings.Join(got, ",") != "b,c,e,a" {
		t.Fatalf("paint order = %v", got)
	}
}

func TestRenderDesktopPreview(t *testing.T) {
	lines := renderDesktopPreview(testSnapshot(), 29, 64, 24)
	if len(lines) != 24 {
		t.Fatalf("lines = %d", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 64 {
			t.Fatalf("line %d width = %d", i, n)
		}
	}
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasPrefix(lines[23], "╚") {
		t.Fatalf("missing border: %q / %q", lines[0], lines[23])
	}
	out := strings.Join(lines, "\n")
	if !strings.Contains(out, "*Notepad") {
		t.Fatalf("active window title missing:\n%s", out)
	}
	if strings.Contains(out, "Minesweeper") {
		t.Fatalf("minimized window should not be drawn:\n%s", out)
	}
	if !strings.Contains(out, "█") {
		t.Fatalf("active taskbar button missing:\n%s", out)
	}
}

func TestRenderDesktopPreview_Degenerate(t *testing.T) {
	lines := renderDesktopPreview(nil, 29, 10, 3)
	if len(lines) != 3 || strings.TrimSpace(lines[0]) != "" {
		t.Fatalf("nil snapshot should render blank canvas: %q", lines)
	}
	snap := testSnapshot()
	snap.Viewport = geometry.Viewport{}
	if lines := renderDesktopPreview(snap, 29, 10, 5); strings.Contains(strings.Join(lines, ""), "╔") {
		t.Fatalf("empty viewport should render blank canvas")
	}
}

func TestSummarizeDesktop(t *testing.T) {
	got := summarizeDesktop(testSnapshot())
	want := "1024×768 px • 2 visible • 1 minimized • 0 maximized"
	if got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func sizedWindowsTab(fc *fakeClient) WindowsTab {
	tab := NewWindowsTab(fc)
	tab, _ = tab.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	tab.SetSnapshot(fc.snap)
	return tab
}

func TestWindowsTab_Actions(t *testing.T) {
	fc := &fakeClient{snap: testSnapshot()}
	tab := sizedWindowsTab(fc)

	tests := []struct {
		key  string
		want string
	}{
		{"enter", "activate calc.exe"},
		{"m", "minimize calc.exe"},
		{"r", "restore calc.exe"},
		{"x", "maximize calc.exe"},
		{"c", "close calc.exe"},
		{"t", "taskbar calc.exe"},
	}
	for _, tt := range tests {
		fc.calls = nil
		var cmd tea.Cmd
		tab, cmd = tab.Update(key(tt.key))
		if len(fc.calls) != 1 || fc.calls[0] != tt.want {
			t.Fatalf("key %q calls = %v, want %q", tt.key, fc.calls, tt.want)
		}
		if cmd == nil {
			t.Fatalf("key %q should schedule a refresh", tt.key)
		}
	}
}

func TestWindowsTab_SelectionSurvivesRefresh(t *testing.T) {
	fc := &fakeClient{snap: testSnapshot()}
	tab := sizedWindowsTab(fc)
	tab, _ = tab.Update(key("down"))
	if got := tab.selectedID(); got != "notepad.exe" {
		t.Fatalf("selected = %q", got)
	}

	snap := testSnapshot()
	snap.Windows = append([]shell.WindowInfo{{ID: "sol.exe", Title: "Solitaire"}}, snap.Windows...)
	tab.SetSnapshot(snap)
	if got := tab.selectedID(); got != "notepad.exe" {
		t.Fatalf("selected after refresh = %q", got)
	}
}

func TestWindowsTab_MaximizeToggleAndResizeGuard(t *testing.T) {
	fc := &fakeClient{snap: testSnapshot()}
	fc.snap.Windows[0].Maximized = true
	tab := sizedWindowsTab(fc)

	tab, _ = tab.Update(key("x"))
	if fc.calls[0] != "unmaximize calc.exe" {
		t.Fatalf("calls = %v", fc.calls)
	}

	tab, _ = tab.Update(key("s"))
	if tab.editing() || !tab.status.err {
		t.Fatalf("non-resizable window should not open the resize form")
	}

	tab, _ = tab.Update(key("e"))
	if !tab.editing() || tab.form.kind != formMove || tab.form.fX != "0" {
		t.Fatalf("move form = %+v", tab.form)
	}
	tab, _ = tab.Update(key("esc"))
	if tab.editing() {
		t.Fatalf("esc should close the form")
	}
}

func TestGeometryFormApply(t *testing.T) {
	fc := &fakeClient{}
	w := shell.WindowInfo{ID: "notepad.exe", Title: "Notepad", Rect: geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300}}

	mf := newMoveForm(w, 40)
	mf.fX, mf.fY = " 200", "150 "
	rect, err := mf.apply(fc)
	if err != nil || rect.X != 200 || rect.Y != 150 {
		t.Fatalf("move rect = %+v, err = %v", rect, err)
	}

	rf := newResizeForm(w, 40)
	rf.fDir, rf.fDX, rf.fDY = "e", "50", "0"
	if _, err := rf.apply(fc); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if got := strings.Join(fc.calls, ";"); got != "move notepad.exe 200,150;resize notepad.exe e 50,0" {
		t.Fatalf("calls = %s", got)
	}

	if err := validateInt("12"); err != nil {
		t.Fatalf("validateInt(12) = %v", err)
	}
	if err := validateInt("12px"); err == nil {
		t.Fatalf("validateInt(12px) should fail")
	}
}

func TestProgramsTab_OpenAndRun(t *testing.T) {
	fc := &fakeClient{}
	tab := NewProgramsTab(fc)
	tab, _ = tab.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	tab, _ = tab.Update(tab.load()())

	if n := len(tab.list.Items()); n != 3 {
		t.Fatalf("items = %d, want 2 programs + 1 queued", n)
	}

	tab, _ = tab.Update(key("enter"))
	if fc.calls[0] != "open calc.exe" {
		t.Fatalf("calls = %v", fc.calls)
	}

	tab, _ = tab.Update(key("r"))
	if !tab.prompting {
		t.Fatalf("r should open the run prompt")
	}
	for _, r := range "notepad a.txt" {
		tab, _ = tab.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	tab, _ = tab.Update(key("enter"))
	if tab.prompting || fc.calls[1] != "run notepad a.txt" || tab.status.text != "started notepad.exe" {
		t.Fatalf("prompting=%v calls=%v status=%+v", tab.prompting, fc.calls, tab.status)
	}

	fc.runErr = fmt.Errorf("daemon error: %w", ipc.ErrFileNotFound)
	tab, _ = tab.submit("ghost")
	if !tab.status.err || tab.status.text != "not found: ghost" {
		t.Fatalf("status = %+v", tab.status)
	}
}

func TestMenuTab_SkipsParentsAndSeparators(t *testing.T) {
	fc := &fakeClient{}
	tab := NewMenuTab(fc)
	tab, _ = tab.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	tab, _ = tab.Update(tab.load()())

	tab, _ = tab.Update(key("enter"))
	if len(fc.calls) != 0 {
		t.Fatalf("parent row should not be selected: %v", fc.calls)
	}
	tab, _ = tab.Update(key("down"))
	tab, _ = tab.Update(key("enter"))
	if len(fc.calls) != 1 || fc.calls[0] != "select Programs/Notepad" {
		t.Fatalf("calls = %v", fc.calls)
	}

	fc.menuErr = fmt.Errorf("daemon not running")
	tab, _ = tab.Update(tab.load()())
	if !tab.status.err {
		t.Fatalf("menu load error should be reported")
	}
}

func TestModel_TabsAndSnapshot(t *testing.T) {
	fc := &fakeClient{snap: testSnapshot()}
	var m tea.Model = newModel(fc)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = m.Update(snapshotMsg{snap: fc.snap})

	root := m.(model)
	if !root.connected || root.snap.Active != "notepad.exe" {
		t.Fatalf("model = %+v", root)
	}
	if !strings.Contains(root.View(), "active:notepad.exe") {
		t.Fatalf("status bar missing active window")
	}

	m, _ = m.Update(key("tab"))
	if m.(model).activeTab != TabPrograms {
		t.Fatalf("tab = %v", m.(model).activeTab)
	}
	m, _ = m.Update(key("3"))
	if m.(model).activeTab != TabMenu {
		t.Fatalf("tab = %v", m.(model).activeTab)
	}

	m, _ = m.Update(snapshotMsg{err: fmt.Errorf("daemon not running")})
	if m.(model).connected {
		t.Fatalf("failed refresh should mark disconnected")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("q should quit")
	}
}

func TestModel_PromptCapturesKeys(t *testing.T) {
	fc := &fakeClient{snap: testSnapshot()}
	var m tea.Model = newModel(fc)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = m.Update(key("2"))
	m, _ = m.Update(key("r"))
	m, _ = m.Update(key("q"))
	m, _ = m.Update(key("1"))

	root := m.(model)
	if root.activeTab != TabPrograms || !root.programsTab.prompting {
		t.Fatalf("keys should go to the prompt, tab=%v prompting=%v", root.activeTab, root.programsTab.prompting)
	}
	if got := root.programsTab.input.Value(); got != "q1" {
		t.Fatalf("input = %q", got)
	}
}

func TestSourcesBuildOnEveryPlatform(t *testing.T) {
	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, goos := range []string{"linux", "darwin", "windows"} {
		ctx := build.Default
		ctx.GOOS, ctx.GOARCH = goos, "amd64"
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
				continue
			}
			ok, err := ctx.MatchFile(".", e.Name())
			if err != nil {
				t.Fatalf("%s: %v", e.Name(), err)
			}
			if !ok {
				t.Errorf("%s is excluded on %s", e.Name(), goos)
			}
		}
	}
}
