// Package xbackend runs the OSD daemon on an X11 display through xgbutil.
package xbackend

import (
	"fmt"
	"log/slog"

	xgbxinerama "github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/jmylchreest/wmosd/internal/actions"
	"github.com/jmylchreest/wmosd/internal/daemon"
	"github.com/jmylchreest/wmosd/internal/display"
	"github.com/jmylchreest/wmosd/internal/render"
)

var _ daemon.Backend = (*Backend)(nil)

// Backend connects the daemon to an X display. Event callbacks run on the
// xevent main loop, which the daemon's control loop pauses for through
// Pump.
type Backend struct {
	X      *xgbutil.XUtil
	logger *slog.Logger
	tk     *Toolkit
	bound  []string
}

// Connect opens the display named by $DISPLAY.
func Connect(logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	X, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X: %w", err)
	}
	keybind.Initialize(X)
	mousebind.Initialize(X)
	if err := xgbxinerama.Init(X.Conn()); err != nil {
		logger.Debug("xinerama unavailable, using the root window", "error", err)
	}

	return &Backend{
		X:      X,
		logger: logger,
		tk:     newToolkit(X, logger),
	}, nil
}

// Toolkit implements daemon.Backend.
func (b *Backend) Toolkit() render.Toolkit { return b.tk }

// Keymap implements daemon.Backend.
func (b *Backend) Keymap() display.Keymap { return keymap{b.X} }

// Events implements daemon.Backend.
func (b *Backend) Events() display.EventFilter { return eventFilter{b.X} }

// Screen implements daemon.Backend.
func (b *Backend) Screen() actions.Screen { return &screen{b: b} }

// ActiveClient implements daemon.Backend.
func (b *Backend) ActiveClient() (actions.Client, bool) {
	id, err := ewmh.ActiveWindowGet(b.X)
	if err != nil || id == 0 {
		return nil, false
	}
	return &client{b: b, id: id}, true
}

// BindKey implements daemon.Backend. key uses xgbutil's "Mod4-Right" form.
func (b *Backend) BindKey(key string, fn func()) error {
	err := keybind.KeyPressFun(func(X *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		fn()
	}).Connect(b.X, b.X.RootWin(), key, true)
	if err != nil {
		return fmt.Errorf("failed to grab %s: %w", key, err)
	}
	b.bound = append(b.bound, key)
	return nil
}

// UnbindKeys implements daemon.Backend.
func (b *Backend) UnbindKeys() {
	root := b.X.RootWin()
	for _, key := range b.bound {
		mods, codes, err := keybind.ParseString(b.X, key)
		if err != nil {
			continue
		}
		for _, code := range codes {
			keybind.Ungrab(b.X, root, mods, code)
		}
	}
	keybind.Detach(b.X, root)
	b.bound = nil
}

// SetInputHandlers implements daemon.Backend.
func (b *Backend) SetInputHandlers(key func(render.WindowID, display.KeyEvent) bool, mouse func(display.MouseEvent) bool) {
	b.tk.keyFn = key
	b.tk.mouseFn = mouse
}

// WatchDesktops implements daemon.Backend.
func (b *Backend) WatchDesktops(fn func(current, count int, names []string, layout *display.DesktopLayout)) {
	root := xwindow.New(b.X, b.X.RootWin())
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		b.logger.Warn("cannot watch desktop changes", "error", err)
		return
	}
	xevent.PropertyNotifyFun(func(X *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(X, ev.Atom)
		if err != nil || name != "_NET_CURRENT_DESKTOP" {
			return
		}
		b.reportDesktop(fn)
	}).Connect(b.X, root.Id)
}

func (b *Backend) reportDesktop(fn func(current, count int, names []string, layout *display.DesktopLayout)) {
	current, err := ewmh.CurrentDesktopGet(b.X)
	if err != nil {
		b.logger.Debug("cannot read current desktop", "error", err)
		return
	}
	count, err := ewmh.NumberOfDesktopsGet(b.X)
	if err != nil {
		b.logger.Debug("cannot read desktop count", "error", err)
		return
	}
	names, _ := ewmh.DesktopNamesGet(b.X)
	vals, _ := xprop.PropValNums(xprop.GetProperty(b.X, b.X.RootWin(), "_NET_DESKTOP_LAYOUT"))
	fn(int(current), int(count), names, layoutFromProp(vals))
}

// Pump implements daemon.Backend. It starts the xevent main loop.
func (b *Backend) Pump() (before, after, quit <-chan struct{}) {
	return xevent.MainPing(b.X)
}

// Close stops the event loop and closes the connection.
func (b *Backend) Close() {
	xevent.Quit(b.X)
	b.X.Conn().Close()
}

type keymap struct {
	X *xgbutil.XUtil
}

func (k keymap) Key(code uint32) display.Key {
	return keyFromName(keybind.LookupString(k.X, 0, xproto.Keycode(code)))
}

func (k keymap) ShiftMask() uint16 { return xproto.ModMaskShift }

type eventFilter struct {
	X *xgbutil.XUtil
}

// IgnoreQueuedEnters implements display.EventFilter.
func (f eventFilter) IgnoreQueuedEnters() {
	xevent.Read(f.X, false)
	queue := xevent.Peek(f.X)
	for i := len(queue) - 1; i >= 0; i-- {
		if _, ok := queue[i].Event.(xproto.EnterNotifyEvent); ok {
			xevent.DequeueAt(f.X, i)
		}
	}
}
