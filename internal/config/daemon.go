package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "150ms", "1s", "1m30s", or integer milliseconds.
// A value of "0" or 0 disables the delay or timeout it configures.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '150ms', '1s', '1m30s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for wmosdd.
// Loaded from ~/.config/wmosd/wmosd.toml
type DaemonConfig struct {
	BindingsFile string       `toml:"bindings_file"` // Extra bindings, .toml or .yaml
	Theme        ThemeConfig  `toml:"theme"`
	Popup        PopupConfig  `toml:"popup"`
	Pager        PagerConfig  `toml:"pager"`
	Prompt       PromptConfig `toml:"prompt"`
	DBus         DBusConfig   `toml:"dbus"`
	Bindings     []Binding    `toml:"bindings"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name      string `toml:"name"`       // Theme name without .toml extension
	HotReload bool   `toml:"hot_reload"` // Watch the theme file for changes
}

// PopupConfig places the text popup shown by the daemon.
type PopupConfig struct {
	Gravity   string   `toml:"gravity"`    // Popup point kept on the anchor, e.g. "center"
	Anchor    string   `toml:"anchor"`     // Screen point the popup is anchored to
	OffsetX   int      `toml:"offset_x"`   // Added to the anchor
	OffsetY   int      `toml:"offset_y"`   // Added to the anchor
	Delay     Duration `toml:"delay"`      // Wait before mapping
	HideAfter Duration `toml:"hide_after"` // 0 = stay until hidden
	MinWidth  int      `toml:"min_width"`  // 0 = unset
	MaxWidth  int      `toml:"max_width"`  // 0 = unset
	TextAlign string   `toml:"text_align"` // left, center, right
	// ShowGeometry shows the new size of a window after a resize action.
	ShowGeometry bool `toml:"show_geometry"`
}

// PagerConfig arranges the desktop pager popup.
type PagerConfig struct {
	Orientation string   `toml:"orientation"`  // horizontal or vertical
	StartCorner string   `toml:"start_corner"` // top-left, top-right, bottom-right, bottom-left
	Columns     int      `toml:"columns"`      // 0 = derived from rows
	Rows        int      `toml:"rows"`         // 0 = derived from columns
	FromWM      bool     `toml:"from_wm"`      // Prefer the window manager's _NET_DESKTOP_LAYOUT
	HideAfter   Duration `toml:"hide_after"`
	CellSize    int      `toml:"cell_size"` // Popup height per row of desktops
}

// PromptConfig limits prompts.
type PromptConfig struct {
	MaxOpen int `toml:"max_open"` // Prompts open at once
}

// DBusConfig contains D-Bus service settings.
type DBusConfig struct {
	Enabled bool `toml:"enabled"`
}

// Orientation values accepted in the pager section.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// ValidOrientations returns all valid pager orientations.
func ValidOrientations() []string {
	return []string{OrientationHorizontal, OrientationVertical}
}

// ValidCorners returns all valid pager start corners.
func ValidCorners() []string {
	return []string{"top-left", "top-right", "bottom-right", "bottom-left"}
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Theme: ThemeConfig{
			Name:      "default",
			HotReload: true,
		},
		Popup: PopupConfig{
			Gravity:      "center",
			Anchor:       "center",
			Delay:        Duration(0),
			HideAfter:    Duration(1500 * time.Millisecond),
			MaxWidth:     600,
			TextAlign:    render.JustifyCenter.String(),
			ShowGeometry: true,
		},
		Pager: PagerConfig{
			Orientation: OrientationHorizontal,
			StartCorner: "top-left",
			Rows:        1,
			FromWM:      true,
			HideAfter:   Duration(1 * time.Second),
			CellSize:    48,
		},
		Prompt: PromptConfig{
			MaxOpen: 8,
		},
		DBus: DBusConfig{
			Enabled: true,
		},
	}
}

// LoadDaemonConfig loads the daemon configuration from path, or from the
// default location when path is empty. A missing file yields the default
// configuration. Bindings from BindingsFile are appended to the inline
// ones.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		var err error
		path, err = DaemonConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.BindingsFile != "" {
		file := ResolvePath(config.BindingsFile, filepath.Dir(path))
		extra, err := LoadBindings(file)
		if err != nil {
			return nil, err
		}
		config.Bindings = append(config.Bindings, extra...)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig writes the daemon configuration to path, or to the
// default location when path is empty.
func SaveDaemonConfig(config *DaemonConfig, path string) error {
	if path == "" {
		var err error
		path, err = DaemonConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeFileAtomic(path, data)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if _, ok := geom.ParseGravity(c.Popup.Gravity); !ok {
		return fmt.Errorf("invalid popup gravity %q", c.Popup.Gravity)
	}
	if _, ok := geom.ParseGravity(c.Popup.Anchor); !ok {
		return fmt.Errorf("invalid popup anchor %q", c.Popup.Anchor)
	}
	if _, ok := render.ParseJustify(c.Popup.TextAlign); !ok {
		return fmt.Errorf("invalid text_align %q, must be one of: left, center, right", c.Popup.TextAlign)
	}
	if c.Popup.MinWidth < 0 || c.Popup.MaxWidth < 0 {
		return fmt.Errorf("popup widths must not be negative, got min %d max %d", c.Popup.MinWidth, c.Popup.MaxWidth)
	}
	if c.Popup.MinWidth > 0 && c.Popup.MaxWidth > 0 && c.Popup.MinWidth > c.Popup.MaxWidth {
		return fmt.Errorf("popup min_width %d exceeds max_width %d", c.Popup.MinWidth, c.Popup.MaxWidth)
	}
	if c.Popup.Delay < 0 || c.Popup.HideAfter < 0 || c.Pager.HideAfter < 0 {
		return errors.New("durations must not be negative")
	}

	if !slices.Contains(ValidOrientations(), strings.ToLower(c.Pager.Orientation)) {
		return fmt.Errorf("invalid pager orientation %q, must be one of: %v", c.Pager.Orientation, ValidOrientations())
	}
	if !slices.Contains(ValidCorners(), normalizeCorner(c.Pager.StartCorner)) {
		return fmt.Errorf("invalid pager start_corner %q, must be one of: %v", c.Pager.StartCorner, ValidCorners())
	}
	if c.Pager.Columns < 0 || c.Pager.Rows < 0 {
		return fmt.Errorf("pager rows and columns must not be negative, got %dx%d", c.Pager.Columns, c.Pager.Rows)
	}
	if c.Pager.CellSize < 8 || c.Pager.CellSize > 512 {
		return fmt.Errorf("pager cell_size must be between 8 and 512, got %d", c.Pager.CellSize)
	}

	if c.Prompt.MaxOpen < 1 || c.Prompt.MaxOpen > 64 {
		return fmt.Errorf("prompt max_open must be between 1 and 64, got %d", c.Prompt.MaxOpen)
	}

	return ValidateBindings(c.Bindings)
}

func normalizeCorner(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "_", "-"))
	for _, c := range ValidCorners() {
		if strings.ReplaceAll(c, "-", "") == s {
			return c
		}
	}
	return s
}
