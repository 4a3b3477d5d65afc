// Package hotkeys binds global X11 key sequences to daemon actions.
package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/winshell/internal/x11"
)

// Handler grabs key sequences on the root window and runs their callbacks.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	// busy drops presses while a callback is still running.
	busy sync.Mutex
}

var ignoreModsOnce sync.Once

// NewHandler prepares keyboard grabs on conn's root window.
func NewHandler(conn *x11.Connection, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	keybind.Initialize(conn.XUtil)
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})
	return &Handler{
		xu:     conn.XUtil,
		root:   conn.Root,
		logger: logger,
	}
}

// Register binds keySequence (for example "Mod4-space") to callback.
// Callbacks run on their own goroutine so the event loop keeps draining.
func (h *Handler) Register(keySequence string, callback func()) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if !h.busy.TryLock() {
			h.logger.Debug("hotkey ignored while busy", "keys", keySequence)
			return
		}
		go func() {
			defer h.busy.Unlock()
			h.logger.Info("hotkey triggered", "keys", keySequence)
			callback()
		}()
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to register hotkey %q: %w", keySequence, err)
	}
	return nil
}

// Run processes X events until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		xevent.Main(h.xu)
	}()
	select {
	case <-ctx.Done():
		xevent.Quit(h.xu)
		<-done
	case <-done:
	}
}

// configureIgnoreMods makes grabs fire regardless of CapsLock, NumLock and
// ScrollLock state.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	locks := []uint16{uint16(xproto.ModMaskLock)}
	for _, keysym := range []string{"Num_Lock", "Scroll_Lock"} {
		mask := modMaskForKeysym(xu, keysym)
		if mask != 0 && !containsMask(locks, mask) {
			locks = append(locks, mask)
		}
	}

	ignore := make([]uint16, 0, 1<<len(locks))
	for subset := 0; subset < 1<<len(locks); subset++ {
		var mask uint16
		for bit, lock := range locks {
			if subset&(1<<bit) != 0 {
				mask |= lock
			}
		}
		ignore = append(ignore, mask)
	}
	xevent.IgnoreMods = ignore
}

func containsMask(masks []uint16, m uint16) bool {
	for _, v := range masks {
		if v == m {
			return true
		}
	}
	return false
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
