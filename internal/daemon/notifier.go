package daemon

import (
	"log/slog"
	"sync"
	"time"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages.
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages.
	NotificationLevelWarning
	// NotificationLevelError is for error messages.
	NotificationLevelError
)

func (l NotificationLevel) String() string {
	switch l {
	case NotificationLevelInfo:
		return "info"
	case NotificationLevelWarning:
		return "warning"
	case NotificationLevelError:
		return "error"
	default:
		return "unknown"
	}
}

// InternalNotifier reports daemon events such as config reloads in the
// text popup. The same message key is not shown twice within the minimum
// interval.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	show func(text string)

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	now            func() time.Time

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		now:            time.Now,
		enabled:        true,
	}
}

// SetShowHandler sets the function that puts a message on screen.
func (n *InternalNotifier) SetShowHandler(show func(text string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.show = show
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify shows text unless a message with the same key was shown within
// the minimum interval. Every message is logged at its level.
func (n *InternalNotifier) Notify(key, text string, level NotificationLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch level {
	case NotificationLevelError:
		n.logger.Error(text, "key", key)
	case NotificationLevelWarning:
		n.logger.Warn(text, "key", key)
	default:
		n.logger.Info(text, "key", key)
	}

	if !n.enabled {
		return
	}
	if n.show == nil {
		n.logger.Debug("internal notification skipped: no handler", "key", key)
		return
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.logger.Debug("internal notification rate-limited", "key", key)
		return
	}
	n.lastNotifyTime[key] = now

	n.show(text)
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration reloaded", NotificationLevelInfo)
}

// NotifyConfigError reports a config file that failed to load.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration error: "+err.Error(), NotificationLevelWarning)
}

// NotifyThemeReloaded reports a theme change.
func (n *InternalNotifier) NotifyThemeReloaded(themeName string) {
	n.Notify("theme-reload", "Theme '"+themeName+"' reloaded", NotificationLevelInfo)
}

// NotifyBindingError reports a key binding that could not be set up.
func (n *InternalNotifier) NotifyBindingError(key string, err error) {
	n.Notify("binding-error:"+key, "Cannot bind "+key+": "+err.Error(), NotificationLevelWarning)
}
