package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrStopped is returned when work is posted to a loop that has exited.
var ErrStopped = errors.New("shell: event loop stopped")

// Loop runs every state transition of a session on one goroutine.
//
// Work arrives through Post and Do from any goroutine. While a task runs it
// may defer work with AfterPaint, which runs once the task (the "frame") is
// done, and Next, which runs on the following tick. Both must only be called
// from the loop goroutine.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	stop    sync.Once
	logger  *slog.Logger
	paint   []func()
	next    []func()
	pending []func()
}

// NewLoop creates a loop. It does nothing until Run is called.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		tasks:  make(chan func(), 64),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop.Do(func() { close(l.done) })

	for {
		if len(l.pending) > 0 {
			fn := l.pending[0]
			l.pending = l.pending[1:]
			l.exec(fn)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	l.call(fn)
	for len(l.paint) > 0 {
		paint := l.paint
		l.paint = nil
		for _, p := range paint {
			l.call(p)
		}
	}
	l.pending = append(l.pending, l.next...)
	l.next = nil
}

func (l *Loop) call(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("event loop task panicked", "error", err)
		}
	}()
	fn()
}

// Post queues fn. It returns ErrStopped if the loop has exited.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	err := l.Post(func() {
		var ferr error
		defer func() {
			if r := recover(); r != nil {
				ferr = fmt.Errorf("shell: task panicked: %v", r)
			}
			result <- ferr
		}()
		ferr = fn()
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// AfterPaint runs fn after the current task, once the host has had a chance
// to render it.
func (l *Loop) AfterPaint(fn func()) {
	l.paint = append(l.paint, fn)
}

// Next runs fn on the next tick.
func (l *Loop) Next(fn func()) {
	l.next = append(l.next, fn)
}
