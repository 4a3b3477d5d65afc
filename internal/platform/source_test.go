package platform

import (
	"errors"
	"testing"

	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/geometry"
)

func TestNewSource_Fixed(t *testing.T) {
	cfg := config.DefaultConfig().Viewport
	src, err := NewSource(cfg)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	defer src.Close()

	vp, err := src.Viewport()
	if err != nil {
		t.Fatalf("viewport: %v", err)
	}
	if vp != (geometry.Viewport{Width: 1024, Height: 768}) || src.Name() != "fixed" {
		t.Fatalf("%s viewport = %+v", src.Name(), vp)
	}
}

func TestNewSource_Unknown(t *testing.T) {
	if _, err := NewSource(config.ViewportConfig{Source: "wayland"}); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestTerminalSource(t *testing.T) {
	tests := []struct {
		name    string
		cols    int
		rows    int
		err     error
		want    geometry.Viewport
		wantErr bool
	}{
		{name: "scaled by cell size", cols: 120, rows: 40, want: geometry.Viewport{Width: 960, Height: 640}},
		{name: "size error", err: errors.New("not a tty"), wantErr: true},
		{name: "empty terminal", cols: 0, rows: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewTerminalSource(0, 8, 16)
			src.getSize = func(int) (int, int, error) { return tt.cols, tt.rows, tt.err }

			got, err := src.Viewport()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("viewport = %+v, want %+v", got, tt.want)
			}
		})
	}
}
