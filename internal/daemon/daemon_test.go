package daemon

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/geometry"
)

type fakeSource struct {
	sizes []geometry.Viewport
	errs  []error
	calls int
}

func (f *fakeSource) Viewport() (geometry.Viewport, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return geometry.Viewport{}, f.errs[i]
	}
	if i >= len(f.sizes) {
		i = len(f.sizes) - 1
	}
	return f.sizes[i], nil
}

type fakeSetter struct {
	set []geometry.Viewport
	err error
}

func (f *fakeSetter) SetViewport(_ context.Context, vp geometry.Viewport) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.set = append(f.set, vp)
	return true, nil
}

func TestViewportWatcher_ForwardsChangesOnly(t *testing.T) {
	a := geometry.Viewport{Width: 1024, Height: 768}
	b := geometry.Viewport{Width: 800, Height: 600}
	src := &fakeSource{
		sizes: []geometry.Viewport{a, a, a, b},
		errs:  []error{nil, nil, errors.New("display gone"), nil},
	}
	dst := &fakeSetter{}
	w := NewViewportWatcher(ViewportWatcherConfig{}, src, dst)
	ctx := context.Background()

	want := []bool{true, false, false, true}
	for i, wantChanged := range want {
		if got := w.PollNow(ctx); got != wantChanged {
			t.Fatalf("poll %d changed = %v, want %v", i, got, wantChanged)
		}
	}
	if len(dst.set) != 2 || dst.set[0] != a || dst.set[1] != b {
		t.Fatalf("forwarded = %+v", dst.set)
	}
}

func TestViewportWatcher_RetriesAfterSetFailure(t *testing.T) {
	a := geometry.Viewport{Width: 1024, Height: 768}
	src := &fakeSource{sizes: []geometry.Viewport{a}}
	dst := &fakeSetter{err: errors.New("loop stopped")}
	w := NewViewportWatcher(ViewportWatcherConfig{}, src, dst)

	if w.PollNow(context.Background()) {
		t.Fatalf("failed set should not report a change")
	}
	dst.err = nil
	if !w.PollNow(context.Background()) {
		t.Fatalf("same size should be retried after a failed set")
	}
}

type countingReflower struct {
	n     int
	calls int
	panic bool
}

func (c *countingReflower) Reflow(context.Context) (int, error) {
	c.calls++
	if c.panic {
		panic("reflow exploded")
	}
	return c.n, nil
}

func TestReflower_ReflowNow(t *testing.T) {
	target := &countingReflower{n: 3}
	r := NewReflower(ReflowerConfig{}, target)

	if got := r.ReflowNow(context.Background()); got != 3 {
		t.Fatalf("ReflowNow() = %d, want 3", got)
	}

	target.panic = true
	if got := r.ReflowNow(context.Background()); got != 0 {
		t.Fatalf("panicking pass should report 0, got %d", got)
	}
	if target.calls != 2 {
		t.Fatalf("calls = %d", target.calls)
	}
}

func TestReflower_RunStopsOnCancel(t *testing.T) {
	r := NewReflower(ReflowerConfig{}, &countingReflower{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	<-done
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "winshell.log")
	logger, closer, err := NewLogger(config.LoggingConfig{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hello", "window", "calc.exe")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello window=calc.exe") {
		t.Fatalf("log = %q", data)
	}
}
