package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Binding attaches an action to a key combination such as "Mod4-Shift-Up".
type Binding struct {
	Key     string            `toml:"key" yaml:"key"`
	Action  string            `toml:"action" yaml:"action"`
	Options map[string]string `toml:"options,omitempty" yaml:"options,omitempty"`
}

type bindingsFile struct {
	Bindings []Binding `toml:"bindings" yaml:"bindings"`
}

// LoadBindings reads a bindings file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func LoadBindings(path string) ([]Binding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings file: %w", err)
	}
	return ParseBindings(data, filepath.Ext(path))
}

// ParseBindings decodes bindings in the format named by ext.
func ParseBindings(data []byte, ext string) ([]Binding, error) {
	var f bindingsFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse bindings yaml: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse bindings toml: %w", err)
		}
	}
	return f.Bindings, nil
}

// ValidateBindings checks every binding has a key and an action and that
// no key is bound twice.
func ValidateBindings(bindings []Binding) error {
	seen := make(map[string]int, len(bindings))
	for i, b := range bindings {
		if strings.TrimSpace(b.Key) == "" {
			return fmt.Errorf("binding %d: missing key", i)
		}
		if strings.TrimSpace(b.Action) == "" {
			return fmt.Errorf("binding %d (%s): missing action", i, b.Key)
		}
		k := strings.ToLower(b.Key)
		if j, dup := seen[k]; dup {
			return fmt.Errorf("binding %d: key %q already bound by binding %d", i, b.Key, j)
		}
		seen[k] = i
	}
	return nil
}
