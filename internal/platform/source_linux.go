//go:build linux

package platform

import (
	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/x11"
)

// X11Source reads the usable area of the active X11 monitor.
type X11Source struct {
	conn *x11.Connection
}

func newX11Source(display string) (Source, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	return &X11Source{conn: conn}, nil
}

func (s *X11Source) Name() string { return string(config.ViewportX11) }

func (s *X11Source) Viewport() (geometry.Viewport, error) {
	return s.conn.Viewport()
}

// Close disconnects from the X server.
func (s *X11Source) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}
