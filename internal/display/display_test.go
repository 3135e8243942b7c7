package display

import (
	"image/color"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

// manualScheduler runs callbacks only when a test fires them.
type manualScheduler struct {
	next      TimerID
	timers    map[TimerID]manualTimer
	cancelled []TimerID
}

type manualTimer struct {
	d  time.Duration
	fn func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{timers: make(map[TimerID]manualTimer)}
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) TimerID {
	s.next++
	s.timers[s.next] = manualTimer{d: d, fn: fn}
	return s.next
}

func (s *manualScheduler) Cancel(id TimerID) {
	if _, ok := s.timers[id]; ok {
		delete(s.timers, id)
		s.cancelled = append(s.cancelled, id)
	}
}

func (s *manualScheduler) ids() []TimerID {
	var ids []TimerID
	for id := range s.timers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *manualScheduler) fire(id TimerID) {
	if t, ok := s.timers[id]; ok {
		delete(s.timers, id)
		t.fn()
	}
}

func (s *manualScheduler) fireAll() {
	for len(s.timers) > 0 {
		s.fire(s.ids()[0])
	}
}

type countingFilter struct {
	calls int
}

func (f *countingFilter) IgnoreQueuedEnters() {
	f.calls++
}

const (
	codeEscape  = 9
	codeTab     = 23
	codeReturn  = 36
	codeA       = 38
	shiftMask   = 1 << 0
	controlMask = 1 << 2
)

type testKeymap struct{}

func (testKeymap) Key(code uint32) Key {
	switch code {
	case codeEscape:
		return KeyEscape
	case codeTab:
		return KeyTab
	case codeReturn:
		return KeyReturn
	default:
		return KeyOther
	}
}

func (testKeymap) ShiftMask() uint16 {
	return shiftMask
}

func newTestCanvas() *render.Canvas {
	return render.NewCanvas(geom.Size{Width: 800, Height: 600}, nil)
}

func canvasWindow(t *testing.T, c *render.Canvas, w render.Window) *render.CanvasWindow {
	t.Helper()
	cw, ok := c.Window(w.ID())
	require.True(t, ok, "window %d is not alive", w.ID())
	return cw
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func canvasOf(t *testing.T, p *Popup) *render.Canvas {
	t.Helper()
	c, ok := p.tk.(*render.Canvas)
	require.True(t, ok)
	return c
}

// lineHeight is the height of one line of popup text.
func lineHeight(c *render.Canvas, look Appearance) int {
	return c.MinSize(look.label("", render.JustifyLeft, look.Styles.Popup)).Height
}

func textWidth(c *render.Canvas, look Appearance, s string) int {
	return c.MinSize(look.label(s, render.JustifyLeft, look.Styles.Popup)).Width
}
