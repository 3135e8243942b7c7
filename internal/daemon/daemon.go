package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/wmosd/internal/actions"
	"github.com/jmylchreest/wmosd/internal/config"
	"github.com/jmylchreest/wmosd/internal/dbus"
	"github.com/jmylchreest/wmosd/internal/display"
	"github.com/jmylchreest/wmosd/internal/render"
	"github.com/jmylchreest/wmosd/internal/theme"
)

// ErrNoActiveClient is returned when an action has no window to act on.
var ErrNoActiveClient = errors.New("no active window")

var _ dbus.Handler = (*Daemon)(nil)

// callTimeout bounds how long a D-Bus request waits for the control loop.
const callTimeout = 5 * time.Second

// Backend is the window system the daemon drives. Callbacks registered on
// it run while the control loop waits on the event source, so they may use
// the widgets directly.
type Backend interface {
	Toolkit() render.Toolkit
	Keymap() display.Keymap
	Events() display.EventFilter
	// Screen describes the space around clients for the resize actions.
	Screen() actions.Screen
	// ActiveClient returns the focused managed window.
	ActiveClient() (actions.Client, bool)
	// BindKey calls fn when key is pressed anywhere.
	BindKey(key string, fn func()) error
	UnbindKeys()
	// SetInputHandlers routes key presses and pointer events on the
	// daemon's own windows.
	SetInputHandlers(key func(render.WindowID, display.KeyEvent) bool, mouse func(display.MouseEvent) bool)
	// WatchDesktops calls fn when the current desktop changes. layout is
	// nil when the window manager publishes none.
	WatchDesktops(fn func(current, count int, names []string, layout *display.DesktopLayout))
	// Pump returns the event source handshake for Loop.AttachEvents.
	Pump() (before, after, quit <-chan struct{})
	Close()
}

// Options configure a Daemon.
type Options struct {
	ConfigPath  string // empty uses the default location
	ThemesDir   string // empty uses the default location
	DisableDBus bool
}

// Daemon ties the widgets, actions, configuration and D-Bus service to a
// window system backend.
type Daemon struct {
	opts    Options
	logger  *slog.Logger
	backend Backend

	loop     *Loop
	config   *config.DaemonConfig
	themes   *theme.Loader
	display  *display.Manager
	registry *actions.Registry
	watcher  *ConfigWatcher
	notifier *InternalNotifier
	server   *dbus.Server

	desktopNames []string
}

// New loads the configuration and creates a daemon on backend.
func New(backend Backend, opts Options, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.LoadDaemonConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loop := NewLoop(logger)
	themes := theme.NewLoader(logger)
	if opts.ThemesDir != "" {
		themes = theme.NewLoaderWithDir(opts.ThemesDir, logger)
	}

	d := &Daemon{
		opts:     opts,
		logger:   logger,
		backend:  backend,
		loop:     loop,
		config:   cfg,
		themes:   themes,
		display:  display.NewManager(backend.Toolkit(), loop, backend.Events(), backend.Keymap(), cfg, logger),
		registry: actions.DefaultRegistry(logger),
		notifier: NewInternalNotifier(logger),
	}
	d.notifier.SetShowHandler(func(text string) {
		if err := d.display.ShowText(text, nil); err != nil {
			d.logger.Debug("cannot show internal notification", "error", err)
		}
	})
	return d, nil
}

// Loop returns the control loop.
func (d *Daemon) Loop() *Loop {
	return d.loop
}

// Display returns the widget manager. Use it only on the control loop.
func (d *Daemon) Display() *display.Manager {
	return d.display
}

// Config returns the configuration in effect. Use it only on the control
// loop.
func (d *Daemon) Config() *config.DaemonConfig {
	return d.config
}

// Run starts every component and runs the control loop until ctx is
// cancelled or the window system goes away.
func (d *Daemon) Run(ctx context.Context) error {
	d.display.Reconfigure(d.themes.LoadTheme(d.config.Theme.Name))
	if err := d.display.Start(); err != nil {
		return fmt.Errorf("failed to start display: %w", err)
	}
	defer d.shutdown()

	d.loop.AttachEvents(d.backend.Pump())
	d.backend.SetInputHandlers(d.display.DispatchKey, d.display.DispatchMouse)
	d.backend.WatchDesktops(d.onDesktopChange)
	d.bindKeys()

	if d.config.DBus.Enabled && !d.opts.DisableDBus {
		d.server = dbus.NewServer(d, d.logger)
		if err := d.server.Start(); err != nil {
			d.server = nil
			return fmt.Errorf("failed to start D-Bus server: %w", err)
		}
	}
	d.display.SetAnswerCallback(d.onAnswer)

	d.startHotReload(ctx)

	d.logger.Info("wmosd daemon running",
		"theme", d.themes.CurrentTheme(),
		"bindings", len(d.config.Bindings),
		"dbus", d.server != nil,
	)
	return d.loop.Run(ctx)
}

func (d *Daemon) startHotReload(ctx context.Context) {
	w, err := NewConfigWatcher(d.opts.ConfigPath, d.logger)
	if err != nil {
		d.logger.Warn("config hot-reload disabled", "error", err)
	} else {
		w.SetReloadCallback(func(cfg *config.DaemonConfig) {
			d.loop.Post(func() { d.applyConfig(ctx, cfg) })
		})
		w.SetErrorCallback(func(err error) {
			d.loop.Post(func() { d.notifier.NotifyConfigError(err) })
		})
		if err := w.Start(ctx, d.config); err != nil {
			d.logger.Warn("config hot-reload disabled", "error", err)
		} else {
			d.watcher = w
		}
	}

	d.themes.SetChangeCallback(func(t *theme.Theme) {
		d.loop.Post(func() {
			d.display.Reconfigure(t)
			d.notifier.NotifyThemeReloaded(t.Name)
		})
	})
	if d.config.Theme.HotReload {
		d.themes.StartHotReload(ctx)
	}
}

// applyConfig switches to a reloaded configuration. It runs on the loop.
func (d *Daemon) applyConfig(ctx context.Context, cfg *config.DaemonConfig) {
	old := d.config
	d.config = cfg
	d.display.UpdateConfig(cfg)

	if cfg.Theme.Name != old.Theme.Name {
		d.themes.StopHotReload()
		d.display.Reconfigure(d.themes.LoadTheme(cfg.Theme.Name))
	}
	if cfg.Theme.HotReload && (cfg.Theme.Name != old.Theme.Name || !old.Theme.HotReload) {
		d.themes.StartHotReload(ctx)
	} else if !cfg.Theme.HotReload {
		d.themes.StopHotReload()
	}

	d.backend.UnbindKeys()
	d.bindKeys()
	d.notifier.NotifyConfigReloaded()
}

// bindKeys grabs every configured binding. Bindings that fail are reported
// and skipped.
func (d *Daemon) bindKeys() {
	for _, b := range d.config.Bindings {
		act, err := d.registry.New(b.Action, actions.Options(b.Options))
		if err != nil {
			d.notifier.NotifyBindingError(b.Key, err)
			continue
		}
		if err := d.backend.BindKey(b.Key, func() { d.runAction(act) }); err != nil {
			d.notifier.NotifyBindingError(b.Key, err)
			continue
		}
		d.logger.Debug("bound key", "key", b.Key, "action", act.Name())
	}
}

// runAction applies act to the active window. It runs on the loop.
func (d *Daemon) runAction(act actions.Action) error {
	client, ok := d.backend.ActiveClient()
	if !ok {
		d.logger.Debug("no active window for action", "action", act.Name())
		return ErrNoActiveClient
	}

	before := client.Area()
	act.Run(&actions.RunContext{
		Targets: []actions.Client{client},
		Screen:  d.backend.Screen(),
		Logger:  d.logger,
	})
	after := client.Area()
	d.logger.Debug("ran action", "action", act.Name(), "from", before, "to", after)

	if d.config.Popup.ShowGeometry && after != before {
		_, size := client.Hints().TryConfigure(after, after)
		if err := d.display.ShowText(fmt.Sprintf("%d x %d", size.Width, size.Height), nil); err != nil {
			d.logger.Debug("cannot show geometry", "error", err)
		}
	}
	return nil
}

// onDesktopChange runs while the loop waits on the event source.
func (d *Daemon) onDesktopChange(current, count int, names []string, layout *display.DesktopLayout) {
	d.desktopNames = names
	d.display.SetDesktopLayout(layout)
	if err := d.display.ShowDesktop(current, count, d.desktopName(current)); err != nil {
		d.logger.Debug("cannot show desktop", "desktop", current, "count", count, "error", err)
	}
}

func (d *Daemon) desktopName(desk int) string {
	if desk >= 0 && desk < len(d.desktopNames) && d.desktopNames[desk] != "" {
		return d.desktopNames[desk]
	}
	return fmt.Sprintf("Desktop %d", desk+1)
}

func (d *Daemon) onAnswer(id string, index int, answer string) {
	d.logger.Debug("prompt closed", "id", id, "index", index, "answer", answer)
	if d.server == nil {
		return
	}
	if err := d.server.EmitPromptAnswered(id, index, answer); err != nil {
		d.logger.Warn("failed to report prompt answer", "id", id, "error", err)
	}
}

func (d *Daemon) shutdown() {
	if d.watcher != nil {
		d.watcher.Stop()
	}
	d.themes.StopHotReload()
	// prompts dismissed here are still reported over D-Bus
	d.display.Stop()
	if d.server != nil {
		if err := d.server.Stop(); err != nil {
			d.logger.Warn("failed to stop D-Bus server", "error", err)
		}
	}
	d.backend.UnbindKeys()
	d.backend.Close()
	d.logger.Info("wmosd daemon stopped")
}

// call runs fn on the control loop for a D-Bus request.
func (d *Daemon) call(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return d.loop.Call(ctx, fn)
}

// callValue is call for requests that return a value.
func callValue[T any](d *Daemon, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return CallValue(ctx, d.loop, fn)
}

// ShowPopup implements dbus.Handler.
func (d *Daemon) ShowPopup(text string, delay time.Duration) error {
	return d.call(func() error {
		return d.display.ShowTextAfter(text, nil, delay)
	})
}

// HidePopup implements dbus.Handler.
func (d *Daemon) HidePopup() error {
	return d.call(func() error {
		d.display.HideText()
		return nil
	})
}

// ShowDesktop implements dbus.Handler.
func (d *Daemon) ShowDesktop(desktop, count int) error {
	return d.call(func() error {
		return d.display.ShowDesktop(desktop, count, d.desktopName(desktop))
	})
}

// OpenPrompt implements dbus.Handler.
func (d *Daemon) OpenPrompt(message string, answers []string) (string, error) {
	return callValue(d, func() (string, error) {
		return d.display.OpenPrompt(message, answers, 0)
	})
}

// ClosePrompt implements dbus.Handler.
func (d *Daemon) ClosePrompt(id string) error {
	return d.call(func() error {
		return d.display.ClosePrompt(id)
	})
}

// ListPrompts implements dbus.Handler.
func (d *Daemon) ListPrompts() ([]dbus.PromptEntry, error) {
	return callValue(d, func() ([]dbus.PromptEntry, error) {
		var entries []dbus.PromptEntry
		for _, info := range d.display.Prompts() {
			entries = append(entries, dbus.NewPromptEntry(info))
		}
		return entries, nil
	})
}

// RunAction implements dbus.Handler.
func (d *Daemon) RunAction(name string, options map[string]string) error {
	act, err := d.registry.New(name, actions.Options(options))
	if err != nil {
		return err
	}
	return d.call(func() error {
		return d.runAction(act)
	})
}
