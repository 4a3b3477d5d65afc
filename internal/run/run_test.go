package run

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/winshell/internal/geometry"
)

type fakeLauncher struct {
	known  map[string]bool
	opened [][]string
}

func (f *fakeLauncher) Open(name string, args ...string) bool {
	if !f.known[name] {
		return false
	}
	f.opened = append(f.opened, append([]string{name}, args...))
	return true
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"calc", []string{"calc"}},
		{"  notepad   a.txt  ", []string{"notepad", "a.txt"}},
		{`notepad "C:\My Documents\a b.txt" x`, []string{"notepad", `C:\My Documents\a b.txt`, "x"}},
		{`""`, []string{`""`}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := Parse(tt.line); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSubmit(t *testing.T) {
	icons := []DesktopIcon{
		{Name: "test.txt", Launch: []string{"notepad.exe", `C:\WINDOWS\Desktop\test.txt`}},
		{Name: "My Computer"},
	}

	tests := []struct {
		name     string
		line     string
		want     Result
		opened   [][]string
		notFound string
	}{
		{"implied exe", "CALC", Result{Program: "calc.exe", Args: []string{}}, [][]string{{"calc.exe"}}, ""},
		{"explicit exe with args", "notepad.exe foo bar",
			Result{Program: "notepad.exe", Args: []string{"foo", "bar"}}, [][]string{{"notepad.exe", "foo", "bar"}}, ""},
		{"desktop icon", `C:\Windows\Desktop\Test.txt`,
			Result{Program: "notepad.exe", Args: []string{`C:\WINDOWS\Desktop\test.txt`}},
			[][]string{{"notepad.exe", `C:\WINDOWS\Desktop\test.txt`}}, ""},
		{"desktop icon without launch", `"c:\windows\desktop\my computer"`, Result{}, nil, ""},
		{"unknown program", "doom", Result{}, nil, "doom"},
		{"other drive path", `d:\setup.exe`, Result{}, nil, `d:\setup.exe`},
		{"missing desktop file", `c:\windows\desktop\nope.txt`, Result{}, nil, `c:\windows\desktop\nope.txt`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLauncher{known: map[string]bool{"calc.exe": true, "notepad.exe": true}}
			got, err := NewRunner(l, icons).Submit(tt.line)

			if tt.notFound != "" {
				var nf *NotFoundError
				if !errors.As(err, &nf) || nf.Program != tt.notFound {
					t.Fatalf("err = %v, want NotFoundError for %q", err, tt.notFound)
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("result = %+v, want %+v", got, tt.want)
			}
			if !reflect.DeepEqual(l.opened, tt.opened) {
				t.Fatalf("opened = %v, want %v", l.opened, tt.opened)
			}
		})
	}
}

func TestSubmitEmpty(t *testing.T) {
	_, err := NewRunner(&fakeLauncher{}, nil).Submit("   ")
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v", err)
	}
}

func TestNotFoundMessage(t *testing.T) {
	msg := (&NotFoundError{Program: "doom"}).Error()
	if !strings.HasPrefix(msg, "Cannot find the file 'doom' (or one of its components).") {
		t.Fatalf("message = %q", msg)
	}
}

func TestWindowProps(t *testing.T) {
	p := WindowProps(geometry.Viewport{Width: 1024, Height: 768})
	if p.X != 8 || p.Y != 565 || p.Width != 347 || p.Height != 163 {
		t.Fatalf("props = %+v", p)
	}
}
