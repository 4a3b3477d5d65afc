package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/winshell/internal/geometry"
)

// ViewportReader reports the current viewport, typically a platform.Source.
type ViewportReader interface {
	Viewport() (geometry.Viewport, error)
}

// ViewportSetter accepts viewport changes, typically a shell.Session.
type ViewportSetter interface {
	SetViewport(ctx context.Context, vp geometry.Viewport) (bool, error)
}

// ViewportWatcherConfig holds configuration for the viewport watcher.
type ViewportWatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// ViewportWatcher polls a viewport source and forwards size changes.
type ViewportWatcher struct {
	interval time.Duration
	source   ViewportReader
	target   ViewportSetter
	logger   *slog.Logger

	last     geometry.Viewport
	failures int
}

// NewViewportWatcher creates a watcher that copies source into target.
func NewViewportWatcher(cfg ViewportWatcherConfig, source ViewportReader, target ViewportSetter) *ViewportWatcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ViewportWatcher{
		interval: interval,
		source:   source,
		target:   target,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (w *ViewportWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("viewport watcher started", "interval", w.interval)
	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("viewport watcher stopped")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll reads the source once and reports whether the target changed.
func (w *ViewportWatcher) poll(ctx context.Context) bool {
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("viewport watcher panic recovered", "error", err)
		}
	}()

	vp, err := w.source.Viewport()
	if err != nil {
		w.failures++
		// Only the first failure of a streak is worth a warning.
		if w.failures == 1 {
			w.logger.Warn("viewport watcher: failed to read viewport", "error", err)
		}
		return false
	}
	if w.failures > 0 {
		w.logger.Info("viewport watcher: source recovered", "failures", w.failures)
		w.failures = 0
	}
	if vp == w.last {
		return false
	}

	changed, err := w.target.SetViewport(ctx, vp)
	if err != nil {
		w.logger.Warn("viewport watcher: failed to apply viewport", "width", vp.Width, "height", vp.Height, "error", err)
		return false
	}
	w.last = vp
	return changed
}

// PollNow reads the source immediately.
func (w *ViewportWatcher) PollNow(ctx context.Context) bool {
	return w.poll(ctx)
}
