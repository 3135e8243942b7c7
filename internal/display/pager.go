package display

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

// Orientation is the direction desktops are numbered in a desktop grid.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
	numOrientations
)

var orientationNames = [numOrientations]string{"horizontal", "vertical"}

func (o Orientation) String() string {
	if o >= 0 && o < numOrientations {
		return orientationNames[o]
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// ParseOrientation parses "horizontal" or "vertical", ignoring case.
func ParseOrientation(s string) (Orientation, bool) {
	for o, name := range orientationNames {
		if strings.EqualFold(s, name) {
			return Orientation(o), true
		}
	}
	return Horizontal, false
}

// Corner is the grid corner holding the first desktop.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
	numCorners
)

var cornerNames = [numCorners]string{"topleft", "topright", "bottomright", "bottomleft"}

func (c Corner) String() string {
	if c >= 0 && c < numCorners {
		return cornerNames[c]
	}
	return fmt.Sprintf("Corner(%d)", int(c))
}

// ParseCorner parses a corner name. Case, hyphens and underscores are
// ignored.
func ParseCorner(s string) (Corner, bool) {
	s = strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(s))
	for c, name := range cornerNames {
		if s == name {
			return Corner(c), true
		}
	}
	return TopLeft, false
}

// DesktopLayout arranges desktops in a grid.
type DesktopLayout struct {
	Orientation Orientation
	StartCorner Corner
	Columns     int
	Rows        int
}

// Resolve fills in a zero row or column count from the number of
// desktops.
func (l DesktopLayout) Resolve(desktops int) DesktopLayout {
	desktops = max(desktops, 1)
	switch {
	case l.Columns <= 0 && l.Rows <= 0:
		l.Rows = 1
		l.Columns = desktops
	case l.Columns <= 0:
		l.Columns = (desktops + l.Rows - 1) / l.Rows
	case l.Rows <= 0:
		l.Rows = (desktops + l.Columns - 1) / l.Columns
	}
	return l
}

// traversal is where numbering starts in a grid and how the desktop index
// changes per column and per row.
type traversal struct {
	start, horz, vert int
}

// traversals holds one entry per orientation and corner.
var traversals = [numOrientations][numCorners]func(rows, cols int) traversal{
	Horizontal: {
		TopLeft:     func(rows, cols int) traversal { return traversal{0, 1, cols} },
		TopRight:    func(rows, cols int) traversal { return traversal{cols - 1, -1, cols} },
		BottomRight: func(rows, cols int) traversal { return traversal{rows*cols - 1, -1, -cols} },
		BottomLeft:  func(rows, cols int) traversal { return traversal{(rows - 1) * cols, 1, -cols} },
	},
	Vertical: {
		TopLeft:     func(rows, cols int) traversal { return traversal{0, rows, 1} },
		TopRight:    func(rows, cols int) traversal { return traversal{rows * (cols - 1), -rows, 1} },
		BottomRight: func(rows, cols int) traversal { return traversal{rows*cols - 1, -rows, -1} },
		BottomLeft:  func(rows, cols int) traversal { return traversal{rows - 1, rows, -1} },
	},
}

// Valid reports whether the orientation and start corner are known values.
func (l DesktopLayout) Valid() bool {
	return l.Orientation >= 0 && l.Orientation < numOrientations &&
		l.StartCorner >= 0 && l.StartCorner < numCorners
}

func (l DesktopLayout) traversal() traversal {
	if !l.Valid() {
		panic(fmt.Sprintf("display: invalid desktop layout %s/%s", l.Orientation, l.StartCorner))
	}
	return traversals[l.Orientation][l.StartCorner](l.Rows, l.Columns)
}

// Grid returns the desktop shown in each cell, row by row. Cells without a
// desktop hold -1.
func (l DesktopLayout) Grid(desktops int) [][]int {
	t := l.traversal()
	grid := make([][]int, l.Rows)
	rown := t.start
	n := rown
	for r := range grid {
		grid[r] = make([]int, l.Columns)
		for c := range grid[r] {
			if n >= 0 && n < desktops {
				grid[r][c] = n
			} else {
				grid[r][c] = -1
			}
			n += t.horz
		}
		rown += t.vert
		n = rown
	}
	return grid
}

// PagerPopup is a popup showing the desktop grid with the current desktop
// highlighted.
type PagerPopup struct {
	*Popup
	layout  DesktopLayout
	cells   []render.Window
	current int
}

// NewPagerPopup creates a hidden pager popup.
func NewPagerPopup(tk render.Toolkit, sched Scheduler, events EventFilter, look Appearance, logger *slog.Logger) *PagerPopup {
	p := &PagerPopup{
		Popup:  NewPopup(tk, sched, events, look, logger),
		layout: DesktopLayout{Rows: 1},
	}
	p.setExtra(p)
	return p
}

// Destroy hides the popup and frees its windows.
func (p *PagerPopup) Destroy() {
	p.resize(0)
	p.Popup.Destroy()
}

// SetDesktopLayout sets the grid arrangement. Zero rows or columns are
// derived from the desktop count on each show.
func (p *PagerPopup) SetDesktopLayout(l DesktopLayout) {
	l.traversal()
	p.layout = l
}

// Desktops is the number of desktop cells.
func (p *PagerPopup) Desktops() int {
	return len(p.cells)
}

// DelayShow shows text above a grid of count desktops with desk
// highlighted.
func (p *PagerPopup) DelayShow(delay time.Duration, text string, desk, count int) {
	p.resize(count)
	p.current = desk
	p.Popup.DelayShow(delay, text)
}

// Show shows the grid immediately.
func (p *PagerPopup) Show(text string, desk, count int) {
	p.DelayShow(0, text, desk, count)
}

// resize creates or destroys cell windows to match count.
func (p *PagerPopup) resize(count int) {
	count = max(count, 0)
	for i := count; i < len(p.cells); i++ {
		p.cells[i].Destroy()
	}
	if count < len(p.cells) {
		p.cells = p.cells[:count]
	}
	for i := len(p.cells); i < count; i++ {
		w := p.tk.CreateWindow(p.bg, render.WindowOptions{Name: fmt.Sprintf("pager-desktop-%d", i)})
		w.Map()
		p.cells = append(p.cells, w)
	}
}

// DrawExtra implements Extra.
func (p *PagerPopup) DrawExtra(r geom.Rect) {
	desks := len(p.cells)
	l := p.layout.Resolve(desks)
	cols, rows := l.Columns, l.Rows
	lw := p.look.BorderWidth

	eachw := (r.Width - (cols+1)*lw) / cols
	eachh := (r.Height - (rows+1)*lw) / rows
	each := min(eachw, eachh)

	px := r.X + (r.Width-(cols*(each+lw)+lw))/2
	py := r.Y + (r.Height-(rows*(each+lw)+lw))/2

	if each <= 0 {
		return
	}

	active := p.look.cell(p.look.Styles.PagerActive)
	inactive := p.look.cell(p.look.Styles.PagerInactive)

	for row, cells := range l.Grid(desks) {
		y := row * (each + lw)
		for col, n := range cells {
			if n < 0 {
				continue
			}
			x := col * (each + lw)
			t := inactive
			if n == p.current {
				t = active
			}
			w := p.cells[n]
			w.MoveResize(geom.Rect{X: px + x, Y: py + y, Width: each + 2*lw, Height: each + 2*lw})
			p.tk.Paint(w, t)
		}
	}
}
