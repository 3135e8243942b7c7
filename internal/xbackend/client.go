package xbackend

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/jmylchreest/wmosd/internal/actions"
	"github.com/jmylchreest/wmosd/internal/geom"
)

// client is a managed window. Its area excludes the decorations.
type client struct {
	b  *Backend
	id xproto.Window
}

func (c *client) frame() (geom.Rect, bool) {
	r, err := xwindow.New(c.b.X, c.id).DecorGeometry()
	if err != nil {
		c.b.logger.Debug("cannot read window geometry", "window", c.id, "error", err)
		return geom.Rect{}, false
	}
	return rectFromX(r), true
}

func (c *client) extents() *ewmh.FrameExtents {
	ext, err := ewmh.FrameExtentsGet(c.b.X, c.id)
	if err != nil {
		return nil
	}
	return ext
}

// Area implements actions.Client.
func (c *client) Area() geom.Rect {
	frame, ok := c.frame()
	if !ok {
		return geom.Rect{}
	}
	return clientArea(frame, c.extents())
}

// Hints implements actions.Client.
func (c *client) Hints() geom.SizeHints {
	nh, err := icccm.WmNormalHintsGet(c.b.X, c.id)
	if err != nil {
		return geom.SizeHints{}
	}
	return hintsFromNormal(nh)
}

// Shaded implements actions.Client.
func (c *client) Shaded() bool {
	states, _ := ewmh.WmStateGet(c.b.X, c.id)
	return stateFromNames(states).shaded
}

// MoveResize implements actions.Client.
func (c *client) MoveResize(r geom.Rect) {
	p := frameOrigin(r, c.extents())
	if err := ewmh.MoveresizeWindow(c.b.X, c.id, p.X, p.Y, r.Width, r.Height); err != nil {
		c.b.logger.Debug("moveresize request failed, configuring directly", "window", c.id, "error", err)
		xwindow.New(c.b.X, c.id).MoveResize(p.X, p.Y, r.Width, r.Height)
	}
}

// screen reads the work area and the other windows of the current desktop.
type screen struct {
	b *Backend
}

func (s *screen) heads() []geom.Rect {
	heads, err := xinerama.PhysicalHeads(s.b.X)
	if err != nil || len(heads) == 0 {
		return []geom.Rect{rectFromX(xwindow.RootGeometry(s.b.X))}
	}
	out := make([]geom.Rect, 0, len(heads))
	for _, h := range heads {
		out = append(out, rectFromX(h))
	}
	return out
}

// WorkArea implements actions.Screen. It is the monitor holding the
// client's centre, less the space reserved by panels.
func (s *screen) WorkArea(c actions.Client) geom.Rect {
	head, _ := headContaining(s.heads(), center(c.Area()))

	desk, err := ewmh.CurrentDesktopGet(s.b.X)
	if err != nil {
		return head
	}
	areas, err := ewmh.WorkareaGet(s.b.X)
	if err != nil || int(desk) >= len(areas) {
		return head
	}
	wa := areas[desk]
	return intersect(head, geom.NewRect(wa.X, wa.Y, int(wa.Width), int(wa.Height)))
}

// Obstacles implements actions.Screen.
func (s *screen) Obstacles(c actions.Client) []geom.Rect {
	var self xproto.Window
	if cl, ok := c.(*client); ok {
		self = cl.id
	}

	X := s.b.X
	desk, err := ewmh.CurrentDesktopGet(X)
	if err != nil {
		return nil
	}
	wins, err := ewmh.ClientListStackingGet(X)
	if err != nil {
		return nil
	}

	var out []geom.Rect
	for _, id := range wins {
		if id == self {
			continue
		}
		if d, err := ewmh.WmDesktopGet(X, id); err == nil && d != desk && d != allDesktops {
			continue
		}
		states, _ := ewmh.WmStateGet(X, id)
		if stateFromNames(states).hidden {
			continue
		}
		types, _ := ewmh.WmWindowTypeGet(X, id)
		if !obstructs(types) {
			continue
		}
		other := &client{b: s.b, id: id}
		if r, ok := other.frame(); ok {
			out = append(out, r)
		}
	}
	return out
}
