package program

import (
	"reflect"
	"testing"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/window"
	"github.com/1broseidon/winshell/internal/wm"
)

func TestQueuedLaunchConsumedOnce(t *testing.T) {
	reg := NewRegistry(nil)
	reg.QueueOpen("calc.exe", "a")

	var calls [][]string
	reg.Register("calc.exe", func(args ...string) { calls = append(calls, args) })

	if !reflect.DeepEqual(calls, [][]string{{"a"}}) {
		t.Fatalf("calls = %v, want one call with [a]", calls)
	}
	if len(reg.Queued()) != 0 {
		t.Fatalf("queue should be empty, got %v", reg.Queued())
	}

	var second int
	reg.Register("calc.exe", func(...string) { second++ })
	if second != 0 {
		t.Fatalf("second registration must not re-fire the queued launch")
	}
}

func TestQueueOpenReplacesPendingArgs(t *testing.T) {
	reg := NewRegistry(nil)
	reg.QueueOpen("notepad.exe", "one")
	reg.QueueOpen("notepad.exe", "two")

	var got []string
	reg.Register("notepad.exe", func(args ...string) { got = args })
	if !reflect.DeepEqual(got, []string{"two"}) {
		t.Fatalf("got %v", got)
	}
}

func TestQueueOpenRegisteredLaunchesNow(t *testing.T) {
	reg := NewRegistry(nil)
	var opened int
	reg.Register("calc.exe", func(...string) { opened++ })

	reg.QueueOpen("calc.exe")
	if opened != 1 || len(reg.Queued()) != 0 {
		t.Fatalf("opened = %d queued = %v", opened, reg.Queued())
	}
}

func TestOpen(t *testing.T) {
	reg := NewRegistry(nil)
	var got []string
	reg.Register("calc.exe", func(args ...string) { got = args })

	if !reg.Open("calc.exe", "x", "y") {
		t.Fatalf("Open of registered program returned false")
	}
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("args = %v", got)
	}
	if reg.Open("missing.exe") {
		t.Fatalf("Open of unknown program returned true")
	}
}

func TestUnregister(t *testing.T) {
	reg := NewRegistry(nil)
	unregister := reg.Register("a", func(...string) {})
	reg.Register("b", func(...string) {})

	unregister()
	unregister()
	if reg.Open("a") {
		t.Fatalf("a should be gone")
	}

	reg.Unregister("b")
	if len(reg.Names()) != 0 {
		t.Fatalf("names = %v", reg.Names())
	}
}

func TestCallbackMayReenterRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("outer", func(...string) {
		reg.Open("inner")
	})
	var inner bool
	reg.Register("inner", func(...string) { inner = true })

	reg.Open("outer")
	if !inner {
		t.Fatalf("nested open should run")
	}
}

func TestSimpleProgram(t *testing.T) {
	reg := NewRegistry(nil)
	mgr := wm.NewManager(nil)
	opts := window.Options{Viewport: func() geometry.Viewport { return geometry.Viewport{Width: 800, Height: 600} }}

	calc := NewSimple(reg, mgr, "calc.exe", window.Props{Title: "Calculator", X: 10, Y: 10, Width: 200, Height: 250}, opts)
	other := NewSimple(reg, mgr, "notepad.exe", window.Props{Title: "Notepad", X: 50, Y: 50, Width: 300, Height: 200}, opts)

	reg.Open("calc.exe", "1+1")
	reg.Open("notepad.exe")
	calc.Window().SetMinimized(true)

	reg.Open("calc.exe")
	if !calc.Window().IsOpen() || calc.Window().Minimized() {
		t.Fatalf("reopen should show and restore the window")
	}
	if id, _ := mgr.ActiveWindow(); id != "calc.exe" {
		t.Fatalf("active = %q", id)
	}
	if len(calc.Args()) != 0 {
		t.Fatalf("args should reflect the latest launch, got %v", calc.Args())
	}

	calc.Window().ClickControl(window.ControlClose)
	if calc.Window().IsOpen() {
		t.Fatalf("close control should close the program window")
	}
	if !reg.Open("calc.exe") {
		t.Fatalf("closing the window must keep the program registered")
	}

	other.Unmount()
	if reg.Open("notepad.exe") {
		t.Fatalf("unmounted program should be unregistered")
	}
	if _, ok := mgr.Window("notepad.exe"); ok {
		t.Fatalf("unmount should close the window")
	}
}
