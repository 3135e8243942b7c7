package xbackend

import (
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xrect"

	"github.com/jmylchreest/wmosd/internal/display"
	"github.com/jmylchreest/wmosd/internal/geom"
)

// allDesktops is the _NET_WM_DESKTOP value of sticky windows.
const allDesktops = 0xFFFFFFFF

func rectFromX(r xrect.Rect) geom.Rect {
	return geom.NewRect(r.X(), r.Y(), r.Width(), r.Height())
}

func center(r geom.Rect) geom.Point {
	return geom.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// headContaining returns the head p lies on, or the first head when p is
// off every head.
func headContaining(heads []geom.Rect, p geom.Point) (geom.Rect, bool) {
	for _, h := range heads {
		if h.Contains(p) {
			return h, true
		}
	}
	if len(heads) > 0 {
		return heads[0], true
	}
	return geom.Rect{}, false
}

// intersect returns the overlap of a and b, or a when they do not overlap.
func intersect(a, b geom.Rect) geom.Rect {
	x1, y1 := max(a.X, b.X), max(a.Y, b.Y)
	x2, y2 := min(a.Right(), b.Right()), min(a.Bottom(), b.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return a
	}
	return geom.NewRect(x1, y1, x2-x1, y2-y1)
}

// clientArea removes the decorations from a frame rectangle.
func clientArea(frame geom.Rect, ext *ewmh.FrameExtents) geom.Rect {
	if ext == nil {
		return frame
	}
	return frame.Shrink(geom.Insets{
		Left:   int(ext.Left),
		Top:    int(ext.Top),
		Right:  int(ext.Right),
		Bottom: int(ext.Bottom),
	})
}

// frameOrigin is the position to request for a client to end up at r with
// north-west gravity.
func frameOrigin(r geom.Rect, ext *ewmh.FrameExtents) geom.Point {
	if ext == nil {
		return r.Origin()
	}
	return geom.Point{X: r.X - int(ext.Left), Y: r.Y - int(ext.Top)}
}

func hintsFromNormal(nh *icccm.NormalHints) geom.SizeHints {
	var h geom.SizeHints
	if nh == nil {
		return h
	}
	if nh.Flags&icccm.SizeHintPMinSize != 0 {
		h.Min = geom.Size{Width: int(nh.MinWidth), Height: int(nh.MinHeight)}
	}
	if nh.Flags&icccm.SizeHintPMaxSize != 0 {
		h.Max = geom.Size{Width: int(nh.MaxWidth), Height: int(nh.MaxHeight)}
	}
	if nh.Flags&icccm.SizeHintPBaseSize != 0 {
		h.Base = geom.Size{Width: int(nh.BaseWidth), Height: int(nh.BaseHeight)}
		h.HasBase = true
	}
	if nh.Flags&icccm.SizeHintPResizeInc != 0 {
		h.Inc = geom.Size{Width: int(nh.WidthInc), Height: int(nh.HeightInc)}
	}
	if nh.Flags&icccm.SizeHintPAspect != 0 {
		if nh.MinAspectDen != 0 {
			h.MinAspect = float64(nh.MinAspectNum) / float64(nh.MinAspectDen)
		}
		if nh.MaxAspectDen != 0 {
			h.MaxAspect = float64(nh.MaxAspectNum) / float64(nh.MaxAspectDen)
		}
	}
	return h
}

func keyFromName(name string) display.Key {
	switch name {
	case "Escape":
		return display.KeyEscape
	case "Return", "KP_Enter":
		return display.KeyReturn
	case "Tab", "ISO_Left_Tab":
		return display.KeyTab
	}
	return display.KeyOther
}

// layoutFromProp decodes _NET_DESKTOP_LAYOUT: orientation, columns, rows
// and an optional starting corner. Invalid values give nil.
func layoutFromProp(vals []uint) *display.DesktopLayout {
	if len(vals) < 3 {
		return nil
	}
	l := &display.DesktopLayout{
		Orientation: display.Orientation(vals[0]),
		Columns:     int(vals[1]),
		Rows:        int(vals[2]),
	}
	if len(vals) > 3 {
		l.StartCorner = display.Corner(vals[3])
	}
	if !l.Valid() {
		return nil
	}
	return l
}

type windowState struct {
	shaded bool
	hidden bool
}

func stateFromNames(states []string) windowState {
	var s windowState
	for _, name := range states {
		switch name {
		case "_NET_WM_STATE_SHADED":
			s.shaded = true
		case "_NET_WM_STATE_HIDDEN":
			s.hidden = true
		}
	}
	return s
}

// obstructs reports whether a window of the given types stops edges.
func obstructs(types []string) bool {
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" {
			return false
		}
	}
	return true
}
