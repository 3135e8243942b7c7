package display

import (
	"log/slog"

	"github.com/jmylchreest/wmosd/internal/config"
	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

// LayoutManager derives popup placement from the daemon configuration.
// Malformed values fall back to defaults.
type LayoutManager struct {
	config *config.DaemonConfig
	logger *slog.Logger
}

// NewLayoutManager creates a new layout manager.
func NewLayoutManager(cfg *config.DaemonConfig, logger *slog.Logger) *LayoutManager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	return &LayoutManager{
		config: cfg,
		logger: logger,
	}
}

// PopupPosition returns the gravity and anchor point of the text popup on
// a screen area.
func (l *LayoutManager) PopupPosition(area geom.Rect) (geom.Gravity, geom.Point) {
	c := l.config.Popup
	g, ok := geom.ParseGravity(c.Gravity)
	if !ok {
		l.logger.Debug("invalid popup gravity, using center", "gravity", c.Gravity)
		g = geom.Center
	}
	a, ok := geom.ParseGravity(c.Anchor)
	if !ok {
		l.logger.Debug("invalid popup anchor, using center", "anchor", c.Anchor)
		a = geom.Center
	}
	p := a.Anchor(area)
	p.X += c.OffsetX
	p.Y += c.OffsetY
	return g, p
}

// TextAlign is the configured text justification.
func (l *LayoutManager) TextAlign() render.Justify {
	j, ok := render.ParseJustify(l.config.Popup.TextAlign)
	if !ok {
		l.logger.Debug("invalid text alignment, using center", "text_align", l.config.Popup.TextAlign)
		return render.JustifyCenter
	}
	return j
}

// DesktopLayout is the configured desktop grid arrangement.
func (l *LayoutManager) DesktopLayout() DesktopLayout {
	c := l.config.Pager
	o, ok := ParseOrientation(c.Orientation)
	if !ok {
		l.logger.Debug("invalid pager orientation, using horizontal", "orientation", c.Orientation)
	}
	corner, ok := ParseCorner(c.StartCorner)
	if !ok {
		l.logger.Debug("invalid pager start corner, using top-left", "start_corner", c.StartCorner)
	}
	return DesktopLayout{
		Orientation: o,
		StartCorner: corner,
		Columns:     max(c.Columns, 0),
		Rows:        max(c.Rows, 0),
	}
}

// PagerMultiplier widens or heightens the pager grid area so a grid with
// many more columns than rows, or the reverse, keeps usable cells. l must
// be resolved.
func PagerMultiplier(l DesktopLayout) (wm, hm int) {
	if l.Columns > l.Rows {
		return (l.Columns / l.Rows) / 2, 1
	}
	return 1, (l.Rows / l.Columns) / 2
}
