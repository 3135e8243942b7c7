package xbackend

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xrect"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/wmosd/internal/display"
	"github.com/jmylchreest/wmosd/internal/geom"
)

func TestRectFromX(t *testing.T) {
	assert.Equal(t, geom.NewRect(10, 20, 300, 400), rectFromX(xrect.New(10, 20, 300, 400)))
}

func TestHeadContaining(t *testing.T) {
	heads := []geom.Rect{
		geom.NewRect(0, 0, 1920, 1080),
		geom.NewRect(1920, 0, 1280, 1024),
	}

	tests := []struct {
		name string
		p    geom.Point
		want geom.Rect
	}{
		{"first head", geom.Point{X: 100, Y: 100}, heads[0]},
		{"second head", geom.Point{X: 2000, Y: 500}, heads[1]},
		{"edge belongs to the right head", geom.Point{X: 1920, Y: 0}, heads[1]},
		{"off every head", geom.Point{X: 2000, Y: 1050}, heads[0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := headContaining(heads, tt.p)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := headContaining(nil, geom.Point{})
	assert.False(t, ok)
}

func TestIntersect(t *testing.T) {
	head := geom.NewRect(1920, 0, 1280, 1024)
	// a work area spanning both monitors with a 30px top panel
	wa := geom.NewRect(0, 30, 3200, 994)
	assert.Equal(t, geom.NewRect(1920, 30, 1280, 994), intersect(head, wa))

	assert.Equal(t, head, intersect(head, geom.NewRect(0, 0, 100, 100)), "disjoint keeps the head")
}

func TestClientArea(t *testing.T) {
	frame := geom.NewRect(100, 50, 410, 330)
	ext := &ewmh.FrameExtents{Left: 5, Right: 5, Top: 25, Bottom: 5}

	assert.Equal(t, geom.NewRect(105, 75, 400, 300), clientArea(frame, ext))
	assert.Equal(t, frame, clientArea(frame, nil))

	// the requested frame position puts the client back where it was
	assert.Equal(t, frame.Origin(), frameOrigin(clientArea(frame, ext), ext))
	assert.Equal(t, geom.Point{X: 7, Y: 9}, frameOrigin(geom.NewRect(7, 9, 1, 1), nil))
}

func TestHintsFromNormal(t *testing.T) {
	nh := &icccm.NormalHints{
		Flags:        icccm.SizeHintPMinSize | icccm.SizeHintPResizeInc | icccm.SizeHintPBaseSize | icccm.SizeHintPAspect,
		MinWidth:     100,
		MinHeight:    50,
		MaxWidth:     999, // ignored without PMaxSize
		MaxHeight:    999,
		WidthInc:     8,
		HeightInc:    16,
		BaseWidth:    4,
		BaseHeight:   6,
		MinAspectNum: 1,
		MinAspectDen: 2,
		MaxAspectNum: 2,
		MaxAspectDen: 0,
	}

	got := hintsFromNormal(nh)
	assert.Equal(t, geom.Size{Width: 100, Height: 50}, got.Min)
	assert.Equal(t, geom.Size{}, got.Max)
	assert.Equal(t, geom.Size{Width: 8, Height: 16}, got.Inc)
	assert.Equal(t, geom.Size{Width: 4, Height: 6}, got.Base)
	assert.True(t, got.HasBase)
	assert.InDelta(t, 0.5, got.MinAspect, 1e-9)
	assert.Zero(t, got.MaxAspect, "zero denominator leaves the ratio unset")

	assert.Equal(t, geom.SizeHints{}, hintsFromNormal(nil))
	assert.False(t, hintsFromNormal(&icccm.NormalHints{BaseWidth: 10}).HasBase)
}

func TestKeyFromName(t *testing.T) {
	tests := map[string]display.Key{
		"Escape":       display.KeyEscape,
		"Return":       display.KeyReturn,
		"KP_Enter":     display.KeyReturn,
		"Tab":          display.KeyTab,
		"ISO_Left_Tab": display.KeyTab,
		"a":            display.KeyOther,
		"":             display.KeyOther,
	}
	for name, want := range tests {
		assert.Equal(t, want, keyFromName(name), name)
	}
}

func TestLayoutFromProp(t *testing.T) {
	tests := []struct {
		name string
		vals []uint
		want *display.DesktopLayout
	}{
		{"missing", nil, nil},
		{"too short", []uint{0, 2}, nil},
		{
			"without corner",
			[]uint{0, 2, 2},
			&display.DesktopLayout{Orientation: display.Horizontal, Columns: 2, Rows: 2},
		},
		{
			"vertical from bottom right",
			[]uint{1, 3, 0, 2},
			&display.DesktopLayout{Orientation: display.Vertical, Columns: 3, StartCorner: display.BottomRight},
		},
		{"bad orientation", []uint{2, 2, 2, 0}, nil},
		{"bad corner", []uint{0, 2, 2, 4}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layoutFromProp(tt.vals))
		})
	}
}

func TestStateAndTypes(t *testing.T) {
	s := stateFromNames([]string{"_NET_WM_STATE_ABOVE", "_NET_WM_STATE_SHADED"})
	assert.True(t, s.shaded)
	assert.False(t, s.hidden)
	assert.True(t, stateFromNames([]string{"_NET_WM_STATE_HIDDEN"}).hidden)

	assert.True(t, obstructs(nil))
	assert.True(t, obstructs([]string{"_NET_WM_WINDOW_TYPE_DOCK"}))
	assert.False(t, obstructs([]string{"_NET_WM_WINDOW_TYPE_DESKTOP"}))
}
