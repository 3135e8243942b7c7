// Package actions implements the window resize actions that can be bound
// to keys: GrowToEdge, ShrinkToEdge and ResizeRelative.
package actions

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jmylchreest/wmosd/internal/geom"
)

// ErrUnknownAction is returned when no action is registered under a name.
var ErrUnknownAction = errors.New("unknown action")

// Client is a managed window as seen by the resize actions.
type Client interface {
	Area() geom.Rect
	Hints() geom.SizeHints
	Shaded() bool
	MoveResize(r geom.Rect)
}

// Screen describes the space around a client.
type Screen interface {
	// WorkArea is the region the client may grow into.
	WorkArea(c Client) geom.Rect
	// Obstacles are the rectangles whose edges stop a growing or
	// shrinking edge.
	Obstacles(c Client) []geom.Rect
}

// RunContext carries one invocation of an action.
type RunContext struct {
	Targets []Client
	Screen  Screen
	Logger  *slog.Logger
}

func (rc *RunContext) logger() *slog.Logger {
	if rc.Logger == nil {
		return slog.Default()
	}
	return rc.Logger
}

// Action is a configured, runnable action.
type Action interface {
	Name() string
	// Run applies the action to every target. It reports whether the
	// action went interactive; none of the resize actions do.
	Run(rc *RunContext) bool
}

// Options are the raw string options of an action binding.
type Options map[string]string

// Lookup returns an option value, matching names case-insensitively.
func (o Options) Lookup(name string) (string, bool) {
	if v, ok := o[name]; ok {
		return v, true
	}
	for k, v := range o {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// SetupFunc builds an action from its options. Invalid option values fall
// back to defaults; setup never fails.
type SetupFunc func(opts Options, logger *slog.Logger) Action

type registration struct {
	name  string
	setup SetupFunc
}

// Registry maps action names to their setup functions.
type Registry struct {
	setups map[string]registration
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		setups: make(map[string]registration),
		logger: logger,
	}
}

// DefaultRegistry returns a registry with every built-in action.
func DefaultRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register("GrowToEdge", SetupGrowToEdge)
	r.Register("ShrinkToEdge", SetupShrinkToEdge)
	r.Register("ResizeRelative", SetupResizeRelative)
	return r
}

// Register adds or replaces an action.
func (r *Registry) Register(name string, setup SetupFunc) {
	r.setups[strings.ToLower(name)] = registration{name: name, setup: setup}
}

// New builds the named action. Names match case-insensitively.
func (r *Registry) New(name string, opts Options) (Action, error) {
	reg, ok := r.setups[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	if opts == nil {
		opts = Options{}
	}
	return reg.setup(opts, r.logger), nil
}

// Names lists the registered action names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.setups))
	for _, reg := range r.setups {
		names = append(names, reg.name)
	}
	sort.Strings(names)
	return names
}
