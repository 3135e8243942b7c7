package actions

import "github.com/jmylchreest/wmosd/internal/geom"

// Window is an in-memory Client. It records every applied rectangle.
type Window struct {
	Rect      geom.Rect
	SizeHints geom.SizeHints
	IsShaded  bool
	Applied   []geom.Rect
}

// Area implements Client.
func (w *Window) Area() geom.Rect { return w.Rect }

// Hints implements Client.
func (w *Window) Hints() geom.SizeHints { return w.SizeHints }

// Shaded implements Client.
func (w *Window) Shaded() bool { return w.IsShaded }

// MoveResize implements Client.
func (w *Window) MoveResize(r geom.Rect) {
	w.Rect = r
	w.Applied = append(w.Applied, r)
}

// StaticScreen is a Screen with a fixed work area and obstacles.
type StaticScreen struct {
	Area   geom.Rect
	Others []geom.Rect
}

// WorkArea implements Screen.
func (s StaticScreen) WorkArea(Client) geom.Rect { return s.Area }

// Obstacles implements Screen.
func (s StaticScreen) Obstacles(Client) []geom.Rect { return s.Others }
