package shell

import (
	"fmt"

	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/run"
)

// runErrorSize is the content size of the Run error window.
var runErrorSize = geometry.Size{Width: 720, Height: 126}

// StaticMeasurer reports fixed content sizes per window id. It stands in for
// a renderer's layout pass.
type StaticMeasurer map[string]geometry.Size

// Measure implements window.Measurer.
func (m StaticMeasurer) Measure(id string) (geometry.Size, error) {
	size, ok := m[id]
	if !ok || size.Width <= 0 || size.Height <= 0 {
		return geometry.Size{}, fmt.Errorf("no intrinsic size for %q", id)
	}
	return size, nil
}

// MeasurerFromConfig collects the intrinsic sizes declared in cfg.
func MeasurerFromConfig(cfg *config.Config) StaticMeasurer {
	m := StaticMeasurer{run.ErrorWindowID: runErrorSize}
	for name, p := range cfg.Programs {
		if size := p.Intrinsic(); size.Width > 0 && size.Height > 0 {
			m[name] = size
		}
	}
	return m
}
