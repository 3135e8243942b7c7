package display

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

// Extra draws the region a popup variant reserves left of the text. r is
// relative to the popup window.
type Extra interface {
	DrawExtra(r geom.Rect)
}

// Popup is a floating label anchored at a point by a gravity. It is shown
// immediately or after a delay and can carry an extra region, such as an
// icon, drawn by an Extra.
type Popup struct {
	tk     render.Toolkit
	sched  Scheduler
	events EventFilter
	logger *slog.Logger
	look   Appearance

	bg   render.Window
	text render.Window

	gravity geom.Gravity
	anchor  geom.Point
	textW   int
	height  int
	minW    int
	maxW    int
	iconWM  int
	iconHM  int
	justify render.Justify
	extra   Extra

	mapped       bool
	delayPending bool
	timer        TimerID
}

// Layout is the geometry of a shown popup.
type Layout struct {
	Frame geom.Rect // in screen coordinates
	Text  geom.Rect // relative to Frame; zero width when there is no text
	Extra geom.Rect // relative to Frame; zero without an Extra
}

// NewPopup creates a hidden popup. events may be nil.
func NewPopup(tk render.Toolkit, sched Scheduler, events EventFilter, look Appearance, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Popup{
		tk:      tk,
		sched:   sched,
		events:  events,
		logger:  logger,
		look:    look,
		gravity: geom.NorthWest,
		iconWM:  1,
		iconHM:  1,
	}
	p.bg = tk.CreateWindow(nil, render.WindowOptions{Name: "popup", Override: true})
	p.text = tk.CreateWindow(p.bg, render.WindowOptions{Name: "popup-text"})
	p.text.Map()
	return p
}

// Destroy hides the popup and frees its windows.
func (p *Popup) Destroy() {
	p.Hide()
	p.text.Destroy()
	p.bg.Destroy()
}

// Window is the popup's top-level window.
func (p *Popup) Window() render.Window {
	return p.bg
}

// SetAppearance changes the look used from the next show on.
func (p *Popup) SetAppearance(look Appearance) {
	p.look = look
}

// Position anchors the popup at (x, y) with the given gravity.
func (p *Popup) Position(g geom.Gravity, x, y int) {
	p.gravity = g
	p.anchor = geom.Point{X: x, Y: y}
}

// SetTextWidth fixes the text width. Zero measures the text on each show.
func (p *Popup) SetTextWidth(w int) {
	p.textW = w
}

// SetMinWidth sets the minimum popup width. Zero is unset.
func (p *Popup) SetMinWidth(w int) {
	p.minW = w
}

// SetMaxWidth sets the maximum popup width. Zero is unset.
func (p *Popup) SetMaxWidth(w int) {
	p.maxW = w
}

// SetHeight fixes the popup height. It never goes below the height of a
// line of text plus padding.
func (p *Popup) SetHeight(h int) {
	p.height = max(h, p.lineHeight()+2*p.look.PaddingY)
}

// TextWidthToString sizes the text area for s.
func (p *Popup) TextWidthToString(s string) {
	p.textW = p.measureText(s)
}

// TextWidthToStrings sizes the text area for the widest of strs.
func (p *Popup) TextWidthToStrings(strs []string) {
	w := 0
	for _, s := range strs {
		w = max(w, p.measureText(s))
	}
	p.textW = w
}

// HeightToString sizes the popup for a line of text.
func (p *Popup) HeightToString(string) {
	p.height = p.lineHeight() + 2*p.look.PaddingY
}

// SetTextAlign sets the text justification.
func (p *Popup) SetTextAlign(j render.Justify) {
	p.justify = j
}

// IconSizeMultiplier scales the extra region relative to the text height.
// Each factor is at least 1.
func (p *Popup) IconSizeMultiplier(wm, hm int) {
	p.iconWM = max(1, wm)
	p.iconHM = max(1, hm)
}

func (p *Popup) setExtra(e Extra) {
	p.extra = e
}

// Mapped reports whether the popup is on screen.
func (p *Popup) Mapped() bool {
	return p.mapped
}

// DelayPending reports whether a delayed show is waiting.
func (p *Popup) DelayPending() bool {
	return p.delayPending
}

func (p *Popup) textTemplate(text string) render.Template {
	return p.look.label(text, p.justify, p.look.Styles.Popup)
}

func (p *Popup) lineHeight() int {
	return p.tk.MinSize(p.textTemplate("")).Height
}

func (p *Popup) measureText(s string) int {
	if s == "" {
		return 0
	}
	return p.tk.MinSize(p.textTemplate(s)).Width
}

// Layout computes where the popup and its parts go for text.
func (p *Popup) Layout(text string) Layout {
	area := p.tk.ScreenArea()
	m := p.tk.Margins(p.look.frame(p.look.Styles.Popup))
	padX, padY := p.look.PaddingX, p.look.PaddingY

	var textw, texth int
	if text != "" {
		sz := p.tk.MinSize(p.textTemplate(text))
		textw, texth = sz.Width, sz.Height
	} else {
		texth = p.lineHeight()
	}

	emptyy := m.Top + m.Bottom + 2*padY
	if p.height != 0 {
		texth = p.height - emptyy
	}
	h := texth*p.iconHM + emptyy

	if p.textW != 0 {
		textw = p.textW
	}

	iconx := m.Left + padX
	textx := iconx
	emptyx := m.Left + m.Right + 2*padX

	var iconw, iconh int
	if p.extra != nil {
		iconw = texth * p.iconWM
		iconh = texth * p.iconHM
		textx += iconw + padX
		if textw != 0 {
			emptyx += padX
		}
	}

	texty := (h-texth-emptyy)/2 + m.Top + padY
	icony := (h-iconh-emptyy)/2 + m.Top + padY

	w := textw + emptyx + iconw
	if p.maxW != 0 {
		w = min(w, p.maxW)
	}
	if p.minW != 0 {
		w = max(w, p.minW)
	}
	textw = w - emptyx - iconw

	w = max(w, 1)
	h = max(h, 1)
	texth = max(texth, 1)

	size := geom.Size{Width: w, Height: h}
	pos := geom.ClampInto(p.gravity.Place(p.anchor, size), size, area.Size())

	l := Layout{
		Frame: geom.Rect{X: pos.X, Y: pos.Y, Width: w, Height: h},
	}
	if textw > 0 {
		l.Text = geom.Rect{X: textx, Y: texty, Width: textw, Height: texth}
	}
	if p.extra != nil {
		l.Extra = geom.Rect{X: iconx, Y: icony, Width: iconw, Height: iconh}
	}
	return l
}

// Show shows the popup immediately.
func (p *Popup) Show(text string) {
	p.DelayShow(0, text)
}

// DelayShow lays out and paints the popup for text, then maps it after
// delay. A popup already on screen or waiting to show is repainted without
// restarting its timer.
func (p *Popup) DelayShow(delay time.Duration, text string) {
	l := p.Layout(text)

	p.bg.MoveResize(l.Frame)
	p.tk.Paint(p.bg, p.look.frame(p.look.Styles.Popup))

	if l.Text.Width > 0 {
		p.text.MoveResize(l.Text)
		p.tk.Paint(p.text, p.textTemplate(text))
		p.text.Map()
	} else {
		p.text.Unmap()
	}

	if p.extra != nil {
		p.extra.DrawExtra(l.Extra)
	}

	if p.mapped {
		return
	}
	if delay > 0 {
		if !p.delayPending {
			p.timer = p.sched.Schedule(delay, p.showNow)
			p.delayPending = true
		}
		return
	}
	p.showNow()
}

func (p *Popup) showNow() {
	p.bg.Map()
	p.bg.Raise()
	p.mapped = true
	p.delayPending = false
	if p.timer != 0 {
		p.sched.Cancel(p.timer)
		p.timer = 0
	}
}

// Hide takes the popup off screen or cancels a pending delayed show.
func (p *Popup) Hide() {
	switch {
	case p.mapped:
		p.bg.Unmap()
		p.mapped = false
		if p.events != nil {
			p.events.IgnoreQueuedEnters()
		}
	case p.delayPending:
		p.sched.Cancel(p.timer)
		p.timer = 0
		p.delayPending = false
	}
}
