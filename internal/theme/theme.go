package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// ErrCircularExtends is returned when themes extend each other in a loop.
var ErrCircularExtends = errors.New("circular theme extends")

// Colors is the palette of one themed element in hex notation.
type Colors struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Border     string `toml:"border"`
}

// Style is a resolved palette.
type Style struct {
	Background colorful.Color
	Foreground colorful.Color
	Border     colorful.Color
}

// Resolve parses the palette. Empty entries resolve to black.
func (c Colors) Resolve() (Style, error) {
	var s Style
	var err error
	if s.Background, err = parseColor(c.Background); err != nil {
		return s, fmt.Errorf("background: %w", err)
	}
	if s.Foreground, err = parseColor(c.Foreground); err != nil {
		return s, fmt.Errorf("foreground: %w", err)
	}
	if s.Border, err = parseColor(c.Border); err != nil {
		return s, fmt.Errorf("border: %w", err)
	}
	return s, nil
}

func parseColor(hex string) (colorful.Color, error) {
	if hex == "" {
		return colorful.Color{}, nil
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	return colorful.Hex(hex)
}

// Settings are the values a theme file sets.
type Settings struct {
	Extends     string  `toml:"extends"`
	FontSize    float64 `toml:"font_size"`
	PaddingX    int     `toml:"padding_x"`
	PaddingY    int     `toml:"padding_y"`
	BorderWidth int     `toml:"border_width"`

	Popup         Colors `toml:"popup"`
	Prompt        Colors `toml:"prompt"`
	Button        Colors `toml:"button"`
	ButtonFocused Colors `toml:"button_focused"`
	ButtonPressed Colors `toml:"button_pressed"`
	PagerActive   Colors `toml:"pager_active"`
	PagerInactive Colors `toml:"pager_inactive"`
}

// Theme represents a loaded theme with metadata.
type Theme struct {
	Name      string    // Theme name (without .toml extension)
	Path      string    // Full path to the theme file (empty for bundled)
	ModTime   time.Time // Last modification time
	IsDefault bool      // True if this is the embedded default theme
	Settings
}

// Styles are the resolved palettes of every themed element.
type Styles struct {
	Popup         Style
	Prompt        Style
	Button        Style
	ButtonFocused Style
	ButtonPressed Style
	PagerActive   Style
	PagerInactive Style
}

// NewTheme creates a new Theme by loading a TOML file. An "extends" key
// names a theme whose values are loaded first; it is looked up next to the
// file, then among the bundled themes.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	settings, err := decode(data, filepath.Dir(path), map[string]bool{name: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse theme %s: %w", path, err)
	}

	return &Theme{
		Name:     name,
		Path:     path,
		ModTime:  info.ModTime(),
		Settings: settings,
	}, nil
}

// newEmbeddedTheme decodes a bundled theme.
func newEmbeddedTheme(name string) (*Theme, error) {
	data, found := GetEmbeddedTheme(name)
	if !found {
		return nil, fmt.Errorf("bundled theme %q not found", name)
	}
	settings, err := decode([]byte(data), "", map[string]bool{name: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundled theme %s: %w", name, err)
	}
	return &Theme{
		Name:      name,
		IsDefault: name == DefaultThemeName,
		Settings:  settings,
	}, nil
}

// decode parses theme data on top of the theme it extends. baseDir is
// searched for parent themes before the bundled ones. seen holds the
// names already on the extends chain.
func decode(data []byte, baseDir string, seen map[string]bool) (Settings, error) {
	var head struct {
		Extends string `toml:"extends"`
	}
	if err := toml.Unmarshal(data, &head); err != nil {
		return Settings{}, err
	}

	var settings Settings
	if parent := head.Extends; parent != "" {
		if seen[parent] {
			return Settings{}, fmt.Errorf("%w: %s", ErrCircularExtends, parent)
		}
		seen[parent] = true

		parentData, parentDir, err := findParent(parent, baseDir)
		if err != nil {
			return Settings{}, err
		}
		if settings, err = decode(parentData, parentDir, seen); err != nil {
			return Settings{}, fmt.Errorf("extends %s: %w", parent, err)
		}
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, err
	}
	settings.Extends = head.Extends
	return settings, nil
}

func findParent(name, baseDir string) ([]byte, string, error) {
	if baseDir != "" {
		path := filepath.Join(baseDir, name+".toml")
		if data, err := os.ReadFile(path); err == nil {
			return data, baseDir, nil
		}
	}
	if data, found := GetEmbeddedTheme(name); found {
		return []byte(data), "", nil
	}
	return nil, "", fmt.Errorf("theme %q not found", name)
}

// NewDefaultTheme creates the embedded default theme.
func NewDefaultTheme() *Theme {
	t, err := newEmbeddedTheme(DefaultThemeName)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks that the theme can be rendered.
func (t *Theme) Validate() error {
	if t.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %v", t.FontSize)
	}
	if t.PaddingX < 0 || t.PaddingY < 0 {
		return fmt.Errorf("padding must not be negative")
	}
	if t.BorderWidth < 0 {
		return fmt.Errorf("border_width must not be negative")
	}
	for name, c := range map[string]Colors{
		"popup":          t.Popup,
		"prompt":         t.Prompt,
		"button":         t.Button,
		"button_focused": t.ButtonFocused,
		"button_pressed": t.ButtonPressed,
		"pager_active":   t.PagerActive,
		"pager_inactive": t.PagerInactive,
	} {
		if _, err := c.Resolve(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Styles resolves every palette. Colors that fail to parse resolve to
// black; Validate reports them.
func (t *Theme) Styles() Styles {
	resolve := func(c Colors) Style {
		s, _ := c.Resolve()
		return s
	}
	return Styles{
		Popup:         resolve(t.Popup),
		Prompt:        resolve(t.Prompt),
		Button:        resolve(t.Button),
		ButtonFocused: resolve(t.ButtonFocused),
		ButtonPressed: resolve(t.ButtonPressed),
		PagerActive:   resolve(t.PagerActive),
		PagerInactive: resolve(t.PagerInactive),
	}
}

// Reload reloads the theme from disk.
// Returns true if the settings changed.
func (t *Theme) Reload() (bool, error) {
	if t.Path == "" {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	fresh, err := NewTheme(t.Name, t.Path)
	if err != nil {
		return false, err
	}

	old := t.Settings
	t.Settings = fresh.Settings
	t.ModTime = fresh.ModTime

	return old != t.Settings, nil
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "wmosd", "themes"), nil
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool // True if this is a bundled/embedded theme
}

// ListAvailableThemes lists all available themes (bundled + user).
func ListAvailableThemes() ([]ThemeInfo, error) {
	themesDir, err := ThemesDir()
	if err != nil {
		themesDir = ""
	}
	return listThemes(themesDir)
}

func listThemes(themesDir string) ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, ThemeInfo{
				Name:      name,
				IsDefault: name == DefaultThemeName,
				IsBundled: true,
			})
		}
	}

	if themesDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".toml" {
			continue
		}
		themeName := strings.TrimSuffix(name, ".toml")
		if !seen[themeName] {
			seen[themeName] = true
			themes = append(themes, ThemeInfo{
				Name: themeName,
				Path: filepath.Join(themesDir, name),
			})
		}
	}

	return themes, nil
}

// CreateThemesDir creates the themes directory if it doesn't exist.
func CreateThemesDir() error {
	themesDir, err := ThemesDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(themesDir, 0755)
}
