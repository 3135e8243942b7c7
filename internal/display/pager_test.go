package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wmosd/internal/render"
)

func TestDesktopGridTraversals(t *testing.T) {
	tests := []struct {
		orientation Orientation
		corner      Corner
		want        [][]int
	}{
		{Horizontal, TopLeft, [][]int{{0, 1, 2}, {3, 4, 5}}},
		{Horizontal, TopRight, [][]int{{2, 1, 0}, {5, 4, 3}}},
		{Horizontal, BottomRight, [][]int{{5, 4, 3}, {2, 1, 0}}},
		{Horizontal, BottomLeft, [][]int{{3, 4, 5}, {0, 1, 2}}},
		{Vertical, TopLeft, [][]int{{0, 2, 4}, {1, 3, 5}}},
		{Vertical, TopRight, [][]int{{4, 2, 0}, {5, 3, 1}}},
		{Vertical, BottomRight, [][]int{{5, 3, 1}, {4, 2, 0}}},
		{Vertical, BottomLeft, [][]int{{1, 3, 5}, {0, 2, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.orientation.String()+"/"+tt.corner.String(), func(t *testing.T) {
			l := DesktopLayout{Orientation: tt.orientation, StartCorner: tt.corner, Rows: 2, Columns: 3}
			assert.Equal(t, tt.want, l.Grid(6))
		})
	}
}

func TestDesktopGridMissingDesktops(t *testing.T) {
	l := DesktopLayout{Rows: 2, Columns: 3}
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, -1}}, l.Grid(5))

	l.StartCorner = BottomRight
	assert.Equal(t, [][]int{{-1, 4, 3}, {2, 1, 0}}, l.Grid(5))

	l = DesktopLayout{Orientation: Vertical, StartCorner: TopRight, Rows: 2, Columns: 2}
	assert.Equal(t, [][]int{{2, 0}, {-1, 1}}, l.Grid(3))
}

func TestDesktopLayoutResolve(t *testing.T) {
	tests := []struct {
		name     string
		in       DesktopLayout
		desktops int
		rows     int
		cols     int
	}{
		{"nothing set is one row", DesktopLayout{}, 4, 1, 4},
		{"rows set", DesktopLayout{Rows: 2}, 5, 2, 3},
		{"columns set", DesktopLayout{Columns: 2}, 5, 3, 2},
		{"both set", DesktopLayout{Rows: 3, Columns: 3}, 4, 3, 3},
		{"no desktops", DesktopLayout{}, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Resolve(tt.desktops)
			assert.Equal(t, tt.rows, got.Rows)
			assert.Equal(t, tt.cols, got.Columns)
		})
	}
}

func TestParseOrientationAndCorner(t *testing.T) {
	o, ok := ParseOrientation("Vertical")
	require.True(t, ok)
	assert.Equal(t, Vertical, o)
	_, ok = ParseOrientation("diagonal")
	assert.False(t, ok)

	for _, s := range []string{"bottom-right", "BottomRight", "bottom_right"} {
		c, ok := ParseCorner(s)
		require.True(t, ok, s)
		assert.Equal(t, BottomRight, c, s)
	}
	_, ok = ParseCorner("middle")
	assert.False(t, ok)
}

func TestDesktopLayoutInvalidPanics(t *testing.T) {
	bad := DesktopLayout{Orientation: Orientation(7), Rows: 1, Columns: 1}
	assert.False(t, bad.Valid())
	assert.Panics(t, func() { bad.Grid(1) })
	assert.Panics(t, func() {
		NewPagerPopup(newTestCanvas(), newManualScheduler(), nil, DefaultAppearance(), nil).
			SetDesktopLayout(DesktopLayout{StartCorner: Corner(-1)})
	})
}

func TestPagerMultiplier(t *testing.T) {
	wm, hm := PagerMultiplier(DesktopLayout{Rows: 1, Columns: 8})
	assert.Equal(t, 4, wm)
	assert.Equal(t, 1, hm)

	wm, hm = PagerMultiplier(DesktopLayout{Rows: 6, Columns: 1})
	assert.Equal(t, 1, wm)
	assert.Equal(t, 3, hm)
}

func TestPagerPopupCells(t *testing.T) {
	c := newTestCanvas()
	look := DefaultAppearance()
	p := NewPagerPopup(c, newManualScheduler(), nil, look, nil)
	p.SetHeight(60)
	p.SetDesktopLayout(DesktopLayout{Rows: 2, Columns: 2})

	p.Show("Desktop 2", 1, 4)
	require.Equal(t, 4, p.Desktops())
	require.True(t, p.Mapped())

	extra := p.Layout("Desktop 2").Extra
	var size int
	for i, w := range p.cells {
		cw := canvasWindow(t, c, w)
		r := cw.Rect()
		assert.Equal(t, r.Width, r.Height, "cell %d is square", i)
		if i == 0 {
			size = r.Width
		}
		assert.Equal(t, size, r.Width, "cells share a size")
		assert.GreaterOrEqual(t, r.X, extra.X)
		assert.GreaterOrEqual(t, r.Y, extra.Y)
		assert.LessOrEqual(t, r.Right(), extra.Right())
		assert.LessOrEqual(t, r.Bottom(), extra.Bottom())
		assert.True(t, cw.Mapped())
	}

	// neighbours share their border line
	r0 := canvasWindow(t, c, p.cells[0]).Rect()
	r1 := canvasWindow(t, c, p.cells[1]).Rect()
	assert.Equal(t, r0.X+r0.Width-look.BorderWidth, r1.X)
	assert.Equal(t, r0.Y, r1.Y)

	mid := size / 2
	for i, w := range p.cells {
		want := look.Styles.PagerInactive.Background
		if i == 1 {
			want = look.Styles.PagerActive.Background
		}
		assert.Equal(t, rgba(want), canvasWindow(t, c, w).Image().RGBAAt(mid, mid), "cell %d", i)
	}

	// fewer desktops destroy the extra cells
	gone := []render.WindowID{p.cells[2].ID(), p.cells[3].ID()}
	p.Show("Desktop 1", 0, 2)
	assert.Equal(t, 2, p.Desktops())
	for _, id := range gone {
		_, ok := c.Window(id)
		assert.False(t, ok)
	}

	p.Destroy()
	assert.Empty(t, c.TopLevels())
}

func TestPagerPopupSkipsEmptyCells(t *testing.T) {
	c := newTestCanvas()
	p := NewPagerPopup(c, newManualScheduler(), nil, DefaultAppearance(), nil)
	p.SetHeight(60)
	p.SetDesktopLayout(DesktopLayout{Rows: 2, Columns: 2, StartCorner: BottomRight})

	p.Show("", 0, 3)
	require.Equal(t, 3, p.Desktops())

	// desktop 0 is bottom right, desktop 2 top right
	r0 := canvasWindow(t, c, p.cells[0]).Rect()
	r2 := canvasWindow(t, c, p.cells[2]).Rect()
	assert.Equal(t, r0.X, r2.X)
	assert.Less(t, r2.Y, r0.Y)
}
