package display

import (
	"time"

	"github.com/jmylchreest/wmosd/internal/render"
)

// TimerID identifies a scheduled callback. Zero is never issued.
type TimerID uint64

// Scheduler runs one-shot callbacks on the widgets' control goroutine.
type Scheduler interface {
	// Schedule runs fn once after d.
	Schedule(d time.Duration, fn func()) TimerID
	// Cancel stops a pending callback. Cancelling a fired or unknown
	// timer does nothing.
	Cancel(id TimerID)
}

// EventFilter drops queued window-system events.
type EventFilter interface {
	// IgnoreQueuedEnters discards pointer enter events already queued,
	// such as those caused by unmapping a window under the pointer.
	IgnoreQueuedEnters()
}

// Key is a logical key the widgets react to.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyReturn
	KeyTab
)

// Keymap translates raw key events.
type Keymap interface {
	// Key maps a keycode to a logical key.
	Key(code uint32) Key
	// ShiftMask is the modifier mask of the shift key.
	ShiftMask() uint16
}

// KeyEvent is a key press.
type KeyEvent struct {
	Code  uint32
	State uint16
}

// MouseAction is the kind of a pointer event.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMotion
)

// MouseEvent is a pointer event on a window. X and Y are relative to the
// window.
type MouseEvent struct {
	Action MouseAction
	Window render.WindowID
	X, Y   int
}
