package daemon

import (
	"context"
	"log/slog"
	"time"
)

// TaskbarReflower recomputes taskbar button geometry.
type TaskbarReflower interface {
	Reflow(ctx context.Context) (int, error)
}

// ReflowerConfig holds configuration for the reflower.
type ReflowerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reflower periodically reflows the taskbar so button geometry published to
// window records catches up with windows that opened, closed or retitled.
type Reflower struct {
	interval time.Duration
	target   TaskbarReflower
	logger   *slog.Logger
}

// NewReflower creates a reflower for target.
func NewReflower(cfg ReflowerConfig, target TaskbarReflower) *Reflower {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reflower{
		interval: interval,
		target:   target,
		logger:   logger,
	}
}

// Run starts the reflow loop. Blocks until context is cancelled.
func (r *Reflower) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reflower started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reflower stopped")
			return
		case <-ticker.C:
			r.reflow(ctx)
		}
	}
}

// reflow performs a single pass.
func (r *Reflower) reflow(ctx context.Context) int {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reflower panic recovered", "error", err)
		}
	}()

	n, err := r.target.Reflow(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("reflower: reflow failed", "error", err)
		}
		return 0
	}
	if n > 0 {
		r.logger.Debug("reflower: taskbar geometry updated", "windows", n)
	}
	return n
}

// ReflowNow triggers an immediate pass and returns how many records changed.
func (r *Reflower) ReflowNow(ctx context.Context) int {
	return r.reflow(ctx)
}
