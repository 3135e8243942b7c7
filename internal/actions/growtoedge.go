package actions

import (
	"log/slog"

	"github.com/jmylchreest/wmosd/internal/geom"
)

// EdgeOptions configure GrowToEdge and ShrinkToEdge.
type EdgeOptions struct {
	Direction geom.Direction
	Shrink    bool
}

// EdgeResize grows a window toward a screen edge, shrinking the opposite
// edge toward the window's middle when it cannot grow.
type EdgeResize struct {
	opts EdgeOptions
}

// NewEdgeResize creates the action from already parsed options.
func NewEdgeResize(opts EdgeOptions) *EdgeResize {
	return &EdgeResize{opts: opts}
}

// SetupGrowToEdge parses the options of GrowToEdge.
func SetupGrowToEdge(opts Options, logger *slog.Logger) Action {
	return NewEdgeResize(parseEdgeOptions(opts, logger))
}

// SetupShrinkToEdge parses the options of ShrinkToEdge.
func SetupShrinkToEdge(opts Options, logger *slog.Logger) Action {
	o := parseEdgeOptions(opts, logger)
	o.Shrink = true
	return NewEdgeResize(o)
}

func parseEdgeOptions(opts Options, logger *slog.Logger) EdgeOptions {
	o := EdgeOptions{Direction: geom.North}
	if v, ok := opts.Lookup("direction"); ok {
		if d, ok := geom.ParseDirection(v); ok {
			o.Direction = d
		} else {
			logger.Debug("ignoring invalid direction", "value", v)
		}
	}
	return o
}

// Name implements Action.
func (a *EdgeResize) Name() string {
	if a.opts.Shrink {
		return "ShrinkToEdge"
	}
	return "GrowToEdge"
}

// Options returns the parsed options.
func (a *EdgeResize) Options() EdgeOptions {
	return a.opts
}

// Run implements Action.
func (a *EdgeResize) Run(rc *RunContext) bool {
	for _, c := range rc.Targets {
		a.runOne(rc, c)
	}
	return false
}

// runOne resizes a single client. It always counts as handled so one stuck
// window does not stop the rest of the targets.
func (a *EdgeResize) runOne(rc *RunContext, c Client) {
	// shaded windows have no height to resize
	if c == nil || (a.opts.Direction.Vertical() && c.Shaded()) {
		return
	}

	area := rc.Screen.WorkArea(c)
	others := rc.Screen.Obstacles(c)
	cur := c.Area()

	if !a.opts.Shrink {
		candidate := geom.ResizeDirectional(area, cur, others, a.opts.Direction, true)
		if a.apply(rc, c, candidate) {
			return
		}
	}

	opp := a.opts.Direction.Opposite()
	candidate := geom.ResizeDirectional(area, cur, others, opp, false)
	a.apply(rc, c, ClampShrink(cur, candidate, opp))
}

func (a *EdgeResize) apply(rc *RunContext, c Client, candidate geom.Rect) bool {
	cur := c.Area()
	got, changed := geom.Negotiate(cur, candidate, c.Hints())
	if !changed {
		return false
	}
	rc.logger().Debug("edge resize",
		"action", a.Name(),
		"direction", a.opts.Direction.String(),
		"from", cur.String(),
		"to", got.String(),
	)
	c.MoveResize(got)
	return true
}

// ClampShrink stops a shrink candidate at the middle of the current
// rectangle, so the moving edge never takes away more than half of it.
// side is the edge that moved.
func ClampShrink(cur, candidate geom.Rect, side geom.Direction) geom.Rect {
	switch side {
	case geom.North:
		half := cur.Y + cur.Height/2
		if candidate.Y > half {
			candidate.Height += candidate.Y - half
			candidate.Y = half
		}
	case geom.South:
		half := cur.Height / 2
		if candidate.Height < half {
			candidate.Height = half
		}
	case geom.West:
		half := cur.X + cur.Width/2
		if candidate.X > half {
			candidate.Width += candidate.X - half
			candidate.X = half
		}
	case geom.East:
		half := cur.Width / 2
		if candidate.Width < half {
			candidate.Width = half
		}
	default:
		panic("actions: invalid direction")
	}
	return candidate
}
