package display

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

func newTestPopup(t *testing.T) (*Popup, *manualScheduler, *countingFilter) {
	t.Helper()
	sched := newManualScheduler()
	events := &countingFilter{}
	return NewPopup(newTestCanvas(), sched, events, DefaultAppearance(), nil), sched, events
}

func TestPopupLayoutCentersOnAnchor(t *testing.T) {
	p, _, _ := newTestPopup(t)
	c := p.tk
	look := p.look
	bw, padX, padY := look.BorderWidth, look.PaddingX, look.PaddingY

	p.Position(geom.Center, 400, 300)
	l := p.Layout("hello")

	tw := c.MinSize(p.textTemplate("hello")).Width
	lh := c.MinSize(p.textTemplate("")).Height
	assert.Equal(t, tw+2*bw+2*padX, l.Frame.Width)
	assert.Equal(t, lh+2*bw+2*padY, l.Frame.Height)
	assert.Equal(t, 400-l.Frame.Width/2, l.Frame.X)
	assert.Equal(t, 300-l.Frame.Height/2, l.Frame.Y)

	assert.Equal(t, geom.Rect{X: bw + padX, Y: bw + padY, Width: tw, Height: lh}, l.Text)
	assert.Equal(t, geom.Rect{}, l.Extra)
}

func TestPopupLayoutClampsToScreen(t *testing.T) {
	tests := []struct {
		name    string
		gravity geom.Gravity
		x, y    int
		want    func(size geom.Size) geom.Point
	}{
		{
			name:    "past the bottom right",
			gravity: geom.NorthWest,
			x:       790, y: 590,
			want: func(s geom.Size) geom.Point { return geom.Point{X: 800 - s.Width, Y: 600 - s.Height} },
		},
		{
			name:    "past the top left",
			gravity: geom.SouthEast,
			x:       5, y: 5,
			want: func(geom.Size) geom.Point { return geom.Point{} },
		},
		{
			name:    "center of the screen",
			gravity: geom.Center,
			x:       400, y: 300,
			want: func(s geom.Size) geom.Point { return geom.Point{X: 400 - s.Width/2, Y: 300 - s.Height/2} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestPopup(t)
			p.Position(tt.gravity, tt.x, tt.y)
			l := p.Layout("some popup text")
			assert.Equal(t, tt.want(l.Frame.Size()), l.Frame.Origin())
		})
	}
}

func TestPopupWidthLimits(t *testing.T) {
	p, _, _ := newTestPopup(t)
	emptyx := 2*p.look.BorderWidth + 2*p.look.PaddingX

	p.SetMaxWidth(40)
	l := p.Layout("a rather long line of popup text")
	assert.Equal(t, 40, l.Frame.Width)
	assert.Equal(t, 40-emptyx, l.Text.Width)

	p.SetMaxWidth(0)
	p.SetMinWidth(500)
	l = p.Layout("short")
	assert.Equal(t, 500, l.Frame.Width)
	assert.Equal(t, 500-emptyx, l.Text.Width)
}

func TestPopupFixedTextWidth(t *testing.T) {
	p, _, _ := newTestPopup(t)

	p.SetTextWidth(200)
	assert.Equal(t, 200, p.Layout("x").Text.Width)

	p.TextWidthToStrings([]string{"a", "much wider text", "mid"})
	assert.Equal(t, p.measureText("much wider text"), p.Layout("a").Text.Width)

	p.TextWidthToString("mid")
	assert.Equal(t, p.measureText("mid"), p.Layout("much wider text").Text.Width)
}

func TestPopupEmptyTextHasNoTextArea(t *testing.T) {
	p, _, _ := newTestPopup(t)
	c := canvasOf(t, p)

	l := p.Layout("")
	assert.Equal(t, geom.Rect{}, l.Text)
	assert.Equal(t, 2*p.look.BorderWidth+2*p.look.PaddingX, l.Frame.Width)

	p.Show("")
	assert.False(t, canvasWindow(t, c, p.text).Mapped())

	p.Show("now with text")
	assert.True(t, canvasWindow(t, c, p.text).Mapped())
}

func TestPopupHeight(t *testing.T) {
	p, _, _ := newTestPopup(t)
	lh := p.lineHeight()
	padY := p.look.PaddingY

	p.SetHeight(1)
	assert.Equal(t, lh+2*padY, p.Layout("x").Frame.Height, "never below a line plus padding")

	p.SetHeight(200)
	assert.Equal(t, 200, p.Layout("x").Frame.Height)

	p.HeightToString("x")
	assert.Equal(t, lh+2*padY, p.height)
}

func TestPopupIconSizeMultiplierFloors(t *testing.T) {
	p, _, _ := newTestPopup(t)
	p.IconSizeMultiplier(0, -3)
	assert.Equal(t, 1, p.iconWM)
	assert.Equal(t, 1, p.iconHM)

	p.IconSizeMultiplier(3, 2)
	assert.Equal(t, 3, p.iconWM)
	assert.Equal(t, 2, p.iconHM)
}

func TestPopupDelayShowStateMachine(t *testing.T) {
	p, sched, events := newTestPopup(t)
	c := canvasOf(t, p)
	bg := canvasWindow(t, c, p.bg)

	p.DelayShow(100*time.Millisecond, "hello")
	assert.False(t, p.Mapped())
	assert.True(t, p.DelayPending())
	require.Len(t, sched.timers, 1)
	assert.Equal(t, 100*time.Millisecond, sched.timers[sched.ids()[0]].d)
	assert.False(t, bg.Mapped())
	assert.Equal(t, 1, bg.Paints(), "painted before it is mapped")

	// a second request repaints but keeps the pending timer
	p.DelayShow(time.Second, "hello again")
	assert.Len(t, sched.timers, 1)
	assert.Equal(t, 2, bg.Paints())

	sched.fireAll()
	assert.True(t, p.Mapped())
	assert.False(t, p.DelayPending())
	assert.True(t, bg.Mapped())

	p.Hide()
	assert.False(t, p.Mapped())
	assert.False(t, bg.Mapped())
	assert.Equal(t, 1, events.calls)

	// hiding a hidden popup does nothing
	p.Hide()
	assert.Equal(t, 1, events.calls)
}

func TestPopupHideCancelsPendingShow(t *testing.T) {
	p, sched, events := newTestPopup(t)

	p.DelayShow(time.Second, "soon")
	id := sched.ids()[0]
	p.Hide()

	assert.False(t, p.DelayPending())
	assert.False(t, p.Mapped())
	assert.Empty(t, sched.timers)
	assert.Equal(t, []TimerID{id}, sched.cancelled)
	assert.Equal(t, 0, events.calls, "nothing was unmapped")
}

func TestPopupShowCancelsPendingDelay(t *testing.T) {
	p, sched, _ := newTestPopup(t)

	p.DelayShow(time.Second, "delayed")
	id := sched.ids()[0]
	p.Show("now")
	assert.True(t, p.Mapped())
	assert.False(t, p.DelayPending())
	assert.Empty(t, sched.timers)
	assert.Equal(t, []TimerID{id}, sched.cancelled)

	p.Hide()
	sched.fireAll()
	assert.False(t, p.Mapped(), "a stale show timer must not map the popup again")
}

func TestPopupShowWhileMappedRepaints(t *testing.T) {
	p, sched, _ := newTestPopup(t)
	c := canvasOf(t, p)

	p.Show("one")
	require.True(t, p.Mapped())
	paints := canvasWindow(t, c, p.bg).Paints()

	p.DelayShow(time.Second, "two")
	assert.True(t, p.Mapped())
	assert.False(t, p.DelayPending())
	assert.Empty(t, sched.timers)
	assert.Equal(t, paints+1, canvasWindow(t, c, p.bg).Paints())
}

func TestPopupShowRaises(t *testing.T) {
	p, _, _ := newTestPopup(t)
	c := canvasOf(t, p)
	other := c.CreateWindow(nil, render.WindowOptions{Name: "other"})
	other.Map()

	p.Show("on top")
	tops := c.TopLevels()
	require.NotEmpty(t, tops)
	assert.Equal(t, p.bg.ID(), tops[len(tops)-1].ID())
	assert.True(t, canvasWindow(t, c, p.bg).Options().Override)
}

func TestPopupDestroyFreesWindows(t *testing.T) {
	p, _, events := newTestPopup(t)
	c := canvasOf(t, p)
	bg, text := p.bg.ID(), p.text.ID()

	p.Show("bye")
	p.Destroy()

	_, ok := c.Window(bg)
	assert.False(t, ok)
	_, ok = c.Window(text)
	assert.False(t, ok)
	assert.Equal(t, 1, events.calls)
}

func TestIconPopupLayout(t *testing.T) {
	sched := newManualScheduler()
	c := newTestCanvas()
	look := DefaultAppearance()
	p := NewIconPopup(c, sched, nil, look, nil)
	bw, padX, padY := look.BorderWidth, look.PaddingX, look.PaddingY
	lh := lineHeight(c, look)
	tw := textWidth(c, look, "hi")

	l := p.Layout("hi")
	assert.Equal(t, geom.Rect{X: bw + padX, Y: bw + padY, Width: lh, Height: lh}, l.Extra)
	assert.Equal(t, bw+padX+lh+padX, l.Text.X)
	assert.Equal(t, tw+2*bw+3*padX+lh, l.Frame.Width)

	p.IconSizeMultiplier(2, 2)
	l = p.Layout("hi")
	assert.Equal(t, 2*lh, l.Extra.Width)
	assert.Equal(t, 2*lh, l.Extra.Height)
	assert.Equal(t, 2*lh+2*bw+2*padY, l.Frame.Height)
	assert.Equal(t, (2*lh-lh)/2+bw+padY, l.Text.Y, "text is centered beside the icon")

	// without text the icon area needs no separating padding
	l = p.Layout("")
	assert.Equal(t, 2*bw+2*padX+2*lh, l.Frame.Width)
}

func TestIconPopupPaintsIcon(t *testing.T) {
	c := newTestCanvas()
	p := NewIconPopup(c, newManualScheduler(), nil, DefaultAppearance(), nil)

	icon := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range icon.Pix {
		icon.Pix[i] = 0xff
	}
	p.Show("with icon", icon)

	l := p.Layout("with icon")
	iw := canvasWindow(t, c, p.icon)
	assert.Equal(t, l.Extra, iw.Rect())
	assert.Equal(t, 1, iw.Paints())
	center := iw.Image().RGBAAt(l.Extra.Width/2, l.Extra.Height/2)
	assert.Equal(t, uint8(0xff), center.R)

	// a missing icon leaves the area empty
	p.Show("no icon", nil)
	assert.Equal(t, uint8(0), iw.Image().RGBAAt(l.Extra.Width/2, l.Extra.Height/2).A)

	p.Destroy()
	_, ok := c.Window(p.icon.ID())
	assert.False(t, ok)
}
