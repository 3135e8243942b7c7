package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/wmosd/internal/geom"
)

// Dialog records a window handed to ManageDialog.
type Dialog struct {
	Window       WindowID
	TransientFor WindowID
	Size         geom.Size
}

// Canvas is an in-memory Toolkit. Every window owns an RGBA buffer and
// Snapshot composites the mapped ones, so widgets can be previewed and
// tested without a display.
type Canvas struct {
	*Painter

	screen  geom.Rect
	nextID  WindowID
	stack   int
	windows map[WindowID]*CanvasWindow
	dialogs []Dialog
}

// NewCanvas creates a canvas for a screen of the given size.
func NewCanvas(screen geom.Size, logger *slog.Logger) *Canvas {
	return &Canvas{
		Painter: NewPainter(NewFonts(logger)),
		screen:  geom.Rect{Width: screen.Width, Height: screen.Height},
		windows: make(map[WindowID]*CanvasWindow),
	}
}

// CanvasWindow is a window of a Canvas.
type CanvasWindow struct {
	canvas    *Canvas
	id        WindowID
	opts      WindowOptions
	parent    *CanvasWindow
	children  []*CanvasWindow
	rect      geom.Rect
	mapped    bool
	destroyed bool
	stack     int
	img       *image.RGBA
	paints    int
}

// CreateWindow implements Toolkit.
func (c *Canvas) CreateWindow(parent Window, opts WindowOptions) Window {
	c.nextID++
	w := &CanvasWindow{
		canvas: c,
		id:     c.nextID,
		opts:   opts,
		img:    image.NewRGBA(image.Rect(0, 0, 1, 1)),
	}
	if parent != nil {
		p, ok := parent.(*CanvasWindow)
		if !ok {
			panic(fmt.Sprintf("render: parent %T is not a canvas window", parent))
		}
		w.parent = p
		p.children = append(p.children, w)
	}
	c.windows[w.id] = w
	return w
}

// Paint implements Renderer.
func (c *Canvas) Paint(w Window, t Template) {
	cw, ok := w.(*CanvasWindow)
	if !ok || cw.destroyed {
		return
	}
	cw.paints++
	draw.Draw(cw.img, cw.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	c.Draw(cw.img, t)
}

// ScreenArea implements Toolkit.
func (c *Canvas) ScreenArea() geom.Rect {
	return c.screen
}

// ManageDialog implements Toolkit.
func (c *Canvas) ManageDialog(w Window, transientFor WindowID, size geom.Size) {
	c.dialogs = append(c.dialogs, Dialog{Window: w.ID(), TransientFor: transientFor, Size: size})
	w.Map()
}

// Dialogs returns every ManageDialog call so far.
func (c *Canvas) Dialogs() []Dialog {
	return c.dialogs
}

// Window looks up a live window.
func (c *Canvas) Window(id WindowID) (*CanvasWindow, bool) {
	w, ok := c.windows[id]
	return w, ok
}

// TopLevels returns the live top-level windows in stacking order, lowest
// first.
func (c *Canvas) TopLevels() []*CanvasWindow {
	var out []*CanvasWindow
	for _, w := range c.windows {
		if w.parent == nil {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].stack != out[j].stack {
			return out[i].stack < out[j].stack
		}
		return out[i].id < out[j].id
	})
	return out
}

// Snapshot composites every mapped top-level window onto a screen-sized
// image.
func (c *Canvas) Snapshot() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, c.screen.Width, c.screen.Height))
	for _, w := range c.TopLevels() {
		if w.mapped {
			w.compositeInto(dst, image.Pt(w.rect.X-c.screen.X, w.rect.Y-c.screen.Y))
		}
	}
	return dst
}

// Composite renders a window and its mapped descendants on their own.
func (w *CanvasWindow) Composite() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w.rect.Width, w.rect.Height))
	w.compositeInto(dst, image.Point{})
	return dst
}

func (w *CanvasWindow) compositeInto(dst *image.RGBA, at image.Point) {
	r := w.img.Bounds().Add(at)
	draw.Draw(dst, r, w.img, image.Point{}, draw.Over)
	for _, child := range w.children {
		if child.mapped {
			child.compositeInto(dst, at.Add(image.Pt(child.rect.X, child.rect.Y)))
		}
	}
}

// WritePNG encodes img as PNG.
func WritePNG(out io.Writer, img image.Image) error {
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// ID implements Window.
func (w *CanvasWindow) ID() WindowID { return w.id }

// MoveResize implements Window. A new size clears the window.
func (w *CanvasWindow) MoveResize(r geom.Rect) {
	if r.Width != w.rect.Width || r.Height != w.rect.Height {
		w.img = image.NewRGBA(image.Rect(0, 0, max(r.Width, 1), max(r.Height, 1)))
	}
	w.rect = r
}

// Map implements Window.
func (w *CanvasWindow) Map() { w.mapped = true }

// Unmap implements Window.
func (w *CanvasWindow) Unmap() { w.mapped = false }

// Raise implements Window.
func (w *CanvasWindow) Raise() {
	w.canvas.stack++
	w.stack = w.canvas.stack
}

// Destroy implements Window. Children are destroyed with their parent.
func (w *CanvasWindow) Destroy() {
	if w.destroyed {
		return
	}
	for _, child := range append([]*CanvasWindow(nil), w.children...) {
		child.Destroy()
	}
	w.destroyed = true
	w.mapped = false
	delete(w.canvas.windows, w.id)
	if p := w.parent; p != nil {
		for i, sib := range p.children {
			if sib == w {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
}

// Rect is the window geometry, relative to its parent.
func (w *CanvasWindow) Rect() geom.Rect { return w.rect }

// Mapped reports whether the window is mapped.
func (w *CanvasWindow) Mapped() bool { return w.mapped }

// Destroyed reports whether the window was destroyed.
func (w *CanvasWindow) Destroyed() bool { return w.destroyed }

// Name is the name the window was created with.
func (w *CanvasWindow) Name() string { return w.opts.Name }

// Options are the options the window was created with.
func (w *CanvasWindow) Options() WindowOptions { return w.opts }

// Children returns the live child windows.
func (w *CanvasWindow) Children() []*CanvasWindow { return w.children }

// Paints counts how often the window was painted.
func (w *CanvasWindow) Paints() int { return w.paints }

// Image is the window's own buffer, without its children.
func (w *CanvasWindow) Image() *image.RGBA { return w.img }
