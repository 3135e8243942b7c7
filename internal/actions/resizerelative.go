package actions

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/jmylchreest/wmosd/internal/geom"
)

// Fraction is a signed edge offset. With a zero Denom, Num counts size
// increments directly; otherwise it is a fraction of the window's size.
type Fraction struct {
	Num   int
	Denom int
}

// ParseFraction parses "n", "n/d" or "n%". Percentages are hundredths.
func ParseFraction(s string) (Fraction, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Fraction{}, false
	}
	if num, ok := strings.CutSuffix(s, "%"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return Fraction{}, false
		}
		return Fraction{Num: n, Denom: 100}, true
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return Fraction{}, false
		}
		d, err := strconv.Atoi(strings.TrimSpace(den))
		if err != nil {
			return Fraction{}, false
		}
		return Fraction{Num: n, Denom: d}, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Fraction{}, false
	}
	return Fraction{Num: n}, true
}

// Count returns the number of increments the fraction stands for, given the
// current dimension and increment size.
func (f Fraction) Count(dim, inc int) int {
	if f.Denom == 0 {
		return f.Num
	}
	return (f.Num * dim / inc) / f.Denom
}

// RelativeOptions configure ResizeRelative. Positive values move an edge
// outward.
type RelativeOptions struct {
	Left, Right, Top, Bottom Fraction
}

// RelativeResize moves each edge of a window by a number of size
// increments.
type RelativeResize struct {
	opts RelativeOptions
}

// NewRelativeResize creates the action from already parsed options.
func NewRelativeResize(opts RelativeOptions) *RelativeResize {
	return &RelativeResize{opts: opts}
}

// SetupResizeRelative parses the options of ResizeRelative.
func SetupResizeRelative(opts Options, logger *slog.Logger) Action {
	var o RelativeOptions
	for _, edge := range []struct {
		name string
		dst  *Fraction
	}{
		{"left", &o.Left},
		{"right", &o.Right},
		{"top", &o.Top},
		{"bottom", &o.Bottom},
	} {
		v, ok := opts.Lookup(edge.name)
		if !ok {
			continue
		}
		f, ok := ParseFraction(v)
		if !ok {
			logger.Debug("ignoring invalid fraction", "option", edge.name, "value", v)
			continue
		}
		*edge.dst = f
	}
	return NewRelativeResize(o)
}

// Name implements Action.
func (a *RelativeResize) Name() string {
	return "ResizeRelative"
}

// Options returns the parsed options.
func (a *RelativeResize) Options() RelativeOptions {
	return a.opts
}

// Run implements Action.
func (a *RelativeResize) Run(rc *RunContext) bool {
	for _, c := range rc.Targets {
		if c == nil {
			continue
		}
		cur := c.Area()
		got := a.Resolve(cur, c.Hints())
		if got == cur {
			continue
		}
		rc.logger().Debug("relative resize", "from", cur.String(), "to", got.String())
		c.MoveResize(got)
	}
	return false
}

// Resolve computes the rectangle the action grants to a window.
func (a *RelativeResize) Resolve(cur geom.Rect, hints geom.SizeHints) geom.Rect {
	inc := hints.Increment()

	left := a.opts.Left.Count(cur.Width, inc.Width)
	right := a.opts.Right.Count(cur.Width, inc.Width)
	top := a.opts.Top.Count(cur.Height, inc.Height)
	bottom := a.opts.Bottom.Count(cur.Height, inc.Height)

	xoff := -left * inc.Width
	yoff := -top * inc.Height
	candidate := geom.Rect{
		X:      cur.X,
		Y:      cur.Y,
		Width:  cur.Width + (left+right)*inc.Width,
		Height: cur.Height + (top+bottom)*inc.Height,
	}

	got, _ := hints.TryConfigure(cur, candidate)
	xoff = clampOffset(xoff, cur.Width-got.Width)
	yoff = clampOffset(yoff, cur.Height-got.Height)

	got.X += xoff
	got.Y += yoff
	return got
}

// clampOffset keeps a position offset within the size change actually
// granted.
func clampOffset(off, delta int) int {
	switch {
	case off == 0:
		return 0
	case off < 0:
		return max(off, delta)
	default:
		return min(off, delta)
	}
}
