package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Loader resolves themes by name and hot-reloads the current one.
type Loader struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	themesDir   string
	currentName string
	theme       *Theme
	watcher     *Watcher
	onChange    func(*Theme)
}

// NewLoader creates a new theme loader for the user's themes directory.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	return NewLoaderWithDir(themesDir, logger)
}

// NewLoaderWithDir creates a loader that looks for user themes in dir.
func NewLoaderWithDir(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		themesDir: dir,
	}
}

// SetChangeCallback sets the function called after a hot reload changed
// the current theme. It runs on the watcher goroutine.
func (l *Loader) SetChangeCallback(fn func(*Theme)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// LoadTheme loads a theme by name.
// Theme resolution order:
//  1. User themes directory (~/.config/wmosd/themes/)
//  2. Embedded/bundled themes
//  3. The default theme
//
// A user theme with the name of a bundled one overrides it. Themes that
// fail validation fall through to the next candidate.
func (l *Loader) LoadTheme(name string) *Theme {
	l.mu.Lock()
	defer l.mu.Unlock()

	if name == "" {
		name = DefaultThemeName
	}

	if l.themesDir != "" {
		themePath := filepath.Join(l.themesDir, name+".toml")
		if _, err := os.Stat(themePath); err == nil {
			t, err := NewTheme(name, themePath)
			if err == nil {
				err = t.Validate()
			}
			if err != nil {
				l.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
			} else {
				l.setLocked(t)
				l.logger.Info("loaded user theme", "name", name, "path", themePath)
				return t
			}
		}
	}

	if IsEmbeddedTheme(name) {
		t, err := newEmbeddedTheme(name)
		if err == nil {
			l.setLocked(t)
			l.logger.Info("loaded bundled theme", "name", name)
			return t
		}
		l.logger.Warn("failed to load bundled theme", "theme", name, "error", err)
	}

	l.logger.Warn("theme not found, using default", "theme", name)
	t := NewDefaultTheme()
	l.setLocked(t)
	return t
}

func (l *Loader) setLocked(t *Theme) {
	l.theme = t
	l.currentName = t.Name
	if l.watcher != nil {
		l.watcher.UpdateTheme(t)
	}
}

// GetTheme returns the currently loaded theme.
func (l *Loader) GetTheme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// Reload reloads the current theme by name.
func (l *Loader) Reload() *Theme {
	l.mu.RLock()
	name := l.currentName
	l.mu.RUnlock()
	return l.LoadTheme(name)
}

// StartHotReload starts watching the current theme for changes.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.Path == "" {
		l.logger.Debug("not starting hot-reload for bundled theme")
		return
	}

	if l.watcher != nil {
		l.watcher.Stop()
	}

	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(t *Theme) {
		if err := t.Validate(); err != nil {
			l.logger.Warn("ignoring invalid theme change", "name", t.Name, "error", err)
			return
		}
		l.mu.RLock()
		fn := l.onChange
		l.mu.RUnlock()
		l.logger.Info("hot-reloaded theme", "name", t.Name)
		if fn != nil {
			fn(t)
		}
	})

	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// StopHotReload stops watching the theme for changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// CurrentTheme returns the name of the currently loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentName
}

// ListThemes returns the available theme names, bundled first.
func (l *Loader) ListThemes() []string {
	infos, err := listThemes(l.themesDir)
	if err != nil {
		l.logger.Debug("failed to read themes directory", "error", err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}
