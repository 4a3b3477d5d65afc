package palette

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/winshell/internal/menu"
)

func testRows() []menu.Row {
	return []menu.Row{
		{Depth: 0, Path: []string{"Programs"}, Label: "Programs →", Parent: true},
		{Depth: 1, Path: []string{"Programs", "Accessories"}, Label: "Accessories →", Parent: true},
		{Depth: 2, Path: []string{"Programs", "Accessories", "Notepad"}, Label: "Notepad", Icon: "notepad"},
		{Depth: 1, Path: []string{"Programs", "Paint"}, Label: "Paint"},
		{Depth: 0, Separator: true},
		{Depth: 0, Path: []string{"Run..."}, Label: "Run..."},
		{Depth: 0, Path: []string{"Shut Down..."}, Label: "Shut Down...", Disabled: true},
	}
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
		if it.Divider {
			out[i] = "--"
		}
	}
	return out
}

func TestLevel(t *testing.T) {
	rows := testRows()
	tests := []struct {
		prefix []string
		want   []string
	}{
		{nil, []string{"Programs →", "--", "Run...", "Shut Down..."}},
		{[]string{"Programs"}, []string{backLabel, "Accessories →", "Paint"}},
		{[]string{"Programs", "Accessories"}, []string{backLabel, "Notepad"}},
		{[]string{"Programs", "Paint"}, nil},
		{[]string{"Nope"}, nil},
	}
	for _, tt := range tests {
		got := Level(rows, tt.prefix)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(labels(got), tt.want) {
			t.Errorf("Level(%q) = %q, want %q", tt.prefix, labels(got), tt.want)
		}
	}
}

type scriptedBackend struct {
	picks   []string // label to choose per call; "" cancels
	prompts []string
}

func (b *scriptedBackend) Show(prompt string, items []Item) (Item, error) {
	b.prompts = append(b.prompts, prompt)
	if len(b.picks) == 0 {
		return Item{}, ErrCancelled
	}
	pick := b.picks[0]
	b.picks = b.picks[1:]
	if pick == "" {
		return Item{}, ErrCancelled
	}
	for _, it := range items {
		if it.Label == pick {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("no item %q", pick)
}

func TestLauncherShow(t *testing.T) {
	tests := []struct {
		name     string
		picks    []string
		wantPath []string
		wantErr  error
		prompts  []string
	}{
		{
			name:     "leaf at top",
			picks:    []string{"Run..."},
			wantPath: []string{"Run..."},
			prompts:  []string{"Start"},
		},
		{
			name:     "nested leaf",
			picks:    []string{"Programs →", "Accessories →", "Notepad"},
			wantPath: []string{"Programs", "Accessories", "Notepad"},
			prompts:  []string{"Start", "Programs", "Programs › Accessories"},
		},
		{
			name:     "back then leaf",
			picks:    []string{"Programs →", backLabel, "Run..."},
			wantPath: []string{"Run..."},
			prompts:  []string{"Start", "Programs", "Start"},
		},
		{
			name:     "escape in submenu goes up",
			picks:    []string{"Programs →", "", "Run..."},
			wantPath: []string{"Run..."},
			prompts:  []string{"Start", "Programs", "Start"},
		},
		{
			name:    "escape at top cancels",
			picks:   []string{""},
			wantErr: ErrCancelled,
			prompts: []string{"Start"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &scriptedBackend{picks: tt.picks}
			var selected []string
			l := &Launcher{
				Backend: b,
				Rows:    func() ([]menu.Row, error) { return testRows(), nil },
				Select: func(path []string) error {
					selected = path
					return nil
				},
			}
			path, err := l.Show()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(path, tt.wantPath) || !reflect.DeepEqual(selected, tt.wantPath) {
				t.Fatalf("path = %q selected = %q, want %q", path, selected, tt.wantPath)
			}
			if !reflect.DeepEqual(b.prompts, tt.prompts) {
				t.Fatalf("prompts = %q, want %q", b.prompts, tt.prompts)
			}
		})
	}
}

func TestRofiInput(t *testing.T) {
	p := &picker{command: "rofi", kind: kindRofi, markup: true, icons: true, index: true}
	items := Level(testRows(), []string{"Programs", "Accessories"})
	items = append(items, Item{Label: "a<b", Divider: true})

	lines := strings.Split(p.input(items, p.labels(items)), "\n")
	if lines[0] != backLabel {
		t.Fatalf("back row = %q", lines[0])
	}
	if lines[1] != "Notepad\x00icon\x1fnotepad" {
		t.Fatalf("icon row = %q", lines[1])
	}
	if strings.Count(lines[2], "\x00") != 1 || !strings.Contains(lines[2], "a&lt;b") ||
		!strings.HasSuffix(lines[2], "\x00nonselectable\x1ftrue") {
		t.Fatalf("divider row = %q", lines[2])
	}
}

func TestPickerArgs(t *testing.T) {
	items := []Item{{Divider: true}, {Label: "a"}}
	tests := []struct {
		p    *picker
		want [][2]string
	}{
		{&picker{kind: kindRofi}, [][2]string{{"-format", "i"}, {"-selected-row", "1"}, {"-p", "Start"}}},
		{&picker{kind: kindFuzzel}, [][2]string{{"--prompt", "Start"}}},
		{&picker{kind: kindDmenu}, [][2]string{{"-p", "Start"}}},
	}
	for _, tt := range tests {
		args := tt.p.args("Start", items)
		for _, pair := range tt.want {
			if !containsPair(args, pair[0], pair[1]) {
				t.Errorf("kind %d args %v missing %v", tt.p.kind, args, pair)
			}
		}
	}
}

func TestLabelsDisambiguateForTextPickers(t *testing.T) {
	items := []Item{{Label: "Dup"}, {Label: "Dup"}, {Label: "Other"}}

	text := &picker{kind: kindDmenu}
	if got := text.labels(items); !reflect.DeepEqual(got, []string{"Dup", "Dup (2)", "Other"}) {
		t.Fatalf("dmenu labels = %q", got)
	}
	indexed := &picker{kind: kindRofi, index: true}
	if got := indexed.labels(items); !reflect.DeepEqual(got, []string{"Dup", "Dup", "Other"}) {
		t.Fatalf("rofi labels = %q", got)
	}
}

func TestPickerShow(t *testing.T) {
	orig := runPicker
	t.Cleanup(func() { runPicker = orig })

	items := []Item{{Label: "Dup", Path: []string{"a"}}, {Label: "Dup", Path: []string{"b"}}, {Label: "--", Divider: true}}
	tests := []struct {
		name    string
		p       *picker
		out     string
		runErr  error
		want    []string
		wantErr bool
	}{
		{"rofi index", &picker{kind: kindRofi, index: true}, "1", nil, []string{"b"}, false},
		{"dmenu text", &picker{kind: kindDmenu}, "Dup (2)", nil, []string{"b"}, false},
		{"index out of range", &picker{kind: kindFuzzel, index: true}, "9", nil, nil, true},
		{"unknown text", &picker{kind: kindDmenu}, "nope", nil, nil, true},
		{"divider chosen", &picker{kind: kindRofi, index: true}, "2", nil, nil, true},
		{"empty output", &picker{kind: kindDmenu}, "", nil, nil, true},
		{"cancelled", &picker{kind: kindDmenu}, "", ErrCancelled, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runPicker = func(string, []string, string) (string, error) { return tt.out, tt.runErr }
			got, err := tt.p.Show("Start", items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !reflect.DeepEqual(got.Path, tt.want) {
				t.Fatalf("path = %q, want %q", got.Path, tt.want)
			}
		})
	}
}

func TestNewBackend(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	installed := map[string]bool{"fuzzel": true, "dmenu": true}
	lookPath = func(name string) (string, error) {
		if installed[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	b, err := NewBackend("auto")
	if err != nil {
		t.Fatalf("auto: %v", err)
	}
	if p := b.(*picker); p.command != "fuzzel" {
		t.Fatalf("auto picked %q, want fuzzel", p.command)
	}
	if _, err := NewBackend("rofi"); err == nil {
		t.Fatalf("expected rofi not found")
	}
	if _, err := NewBackend("zenity"); err == nil {
		t.Fatalf("expected unknown backend error")
	}

	installed = map[string]bool{}
	if _, err := DetectBackend(); err == nil {
		t.Fatalf("expected detection failure")
	}
}

func containsPair(args []string, a, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
