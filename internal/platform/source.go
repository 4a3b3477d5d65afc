package platform

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/geometry"
)

// Source reports the size of the area the session lays windows out in.
type Source interface {
	Name() string
	Viewport() (geometry.Viewport, error)
	Close() error
}

// NewSource builds the source selected by cfg.Source.
func NewSource(cfg config.ViewportConfig) (Source, error) {
	switch cfg.Source {
	case config.ViewportFixed, "":
		return FixedSource{Size: cfg.Fixed()}, nil
	case config.ViewportTerminal:
		return NewTerminalSource(int(os.Stdout.Fd()), cfg.CellWidth, cfg.CellHeight), nil
	case config.ViewportX11:
		return newX11Source(cfg.Display)
	default:
		return nil, fmt.Errorf("unknown viewport source %q", cfg.Source)
	}
}

// FixedSource always reports the same size.
type FixedSource struct {
	Size geometry.Viewport
}

func (FixedSource) Name() string { return string(config.ViewportFixed) }

func (s FixedSource) Viewport() (geometry.Viewport, error) { return s.Size, nil }

func (FixedSource) Close() error { return nil }

// TerminalSource derives the viewport from a terminal's size in cells.
type TerminalSource struct {
	fd         int
	cellWidth  int
	cellHeight int
	getSize    func(fd int) (int, int, error)
}

// NewTerminalSource reads the size of the terminal on fd, scaled by the cell size.
func NewTerminalSource(fd, cellWidth, cellHeight int) *TerminalSource {
	return &TerminalSource{
		fd:         fd,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		getSize:    term.GetSize,
	}
}

func (s *TerminalSource) Name() string { return string(config.ViewportTerminal) }

func (s *TerminalSource) Viewport() (geometry.Viewport, error) {
	cols, rows, err := s.getSize(s.fd)
	if err != nil {
		return geometry.Viewport{}, fmt.Errorf("failed to read terminal size: %w", err)
	}
	if cols <= 0 || rows <= 0 {
		return geometry.Viewport{}, fmt.Errorf("terminal reports %dx%d cells", cols, rows)
	}
	return geometry.Viewport{Width: cols * s.cellWidth, Height: rows * s.cellHeight}, nil
}

func (s *TerminalSource) Close() error { return nil }
