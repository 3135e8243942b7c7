package display

import (
	"image"
	"log/slog"
	"time"

	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

// IconPopup is a popup with an icon left of its text.
type IconPopup struct {
	*Popup
	icon  render.Window
	image image.Image
}

// NewIconPopup creates a hidden icon popup.
func NewIconPopup(tk render.Toolkit, sched Scheduler, events EventFilter, look Appearance, logger *slog.Logger) *IconPopup {
	p := &IconPopup{Popup: NewPopup(tk, sched, events, look, logger)}
	p.icon = tk.CreateWindow(p.bg, render.WindowOptions{Name: "popup-icon"})
	p.icon.Map()
	p.setExtra(p)
	return p
}

// Destroy hides the popup and frees its windows.
func (p *IconPopup) Destroy() {
	p.icon.Destroy()
	p.Popup.Destroy()
}

// DelayShow shows text with icon, which may be nil for an empty icon area.
func (p *IconPopup) DelayShow(delay time.Duration, text string, icon image.Image) {
	p.image = icon
	p.Popup.DelayShow(delay, text)
}

// Show shows text with icon immediately.
func (p *IconPopup) Show(text string, icon image.Image) {
	p.DelayShow(0, text, icon)
}

// DrawExtra implements Extra.
func (p *IconPopup) DrawExtra(r geom.Rect) {
	p.icon.MoveResize(r)
	p.tk.Paint(p.icon, render.Template{Icon: p.image})
}
