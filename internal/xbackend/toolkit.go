package xbackend

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xwindow"
	"golang.org/x/image/draw"

	"github.com/jmylchreest/wmosd/internal/display"
	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

var _ render.Toolkit = (*Toolkit)(nil)

const inputEvents = xproto.EventMaskKeyPress |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// Toolkit creates and paints windows on an X display. Painting goes through
// the shared Painter into an xgraphics surface.
type Toolkit struct {
	*render.Painter

	X      *xgbutil.XUtil
	logger *slog.Logger

	keyFn   func(render.WindowID, display.KeyEvent) bool
	mouseFn func(display.MouseEvent) bool
}

func newToolkit(X *xgbutil.XUtil, logger *slog.Logger) *Toolkit {
	return &Toolkit{
		Painter: render.NewPainter(render.NewFonts(logger)),
		X:       X,
		logger:  logger,
	}
}

// window is a Toolkit window.
type window struct {
	tk      *Toolkit
	win     *xwindow.Window
	parent  *window
	rect    geom.Rect
	bg      color.Color
	surface *xgraphics.Image
}

func (w *window) ID() render.WindowID { return render.WindowID(w.win.Id) }

func (w *window) MoveResize(r geom.Rect) {
	w.rect = r
	w.win.MoveResize(r.X, r.Y, max(r.Width, 1), max(r.Height, 1))
}

func (w *window) Map()   { w.win.Map() }
func (w *window) Unmap() { w.win.Unmap() }
func (w *window) Raise() { w.win.Stack(xproto.StackModeAbove) }

func (w *window) Destroy() {
	if w.surface != nil {
		w.surface.Destroy()
		w.surface = nil
	}
	xevent.Detach(w.tk.X, w.win.Id)
	w.win.Destroy()
}

// background is the colour a transparent template is painted over.
func (w *window) background() color.Color {
	for p := w.parent; p != nil; p = p.parent {
		if p.bg != nil {
			return p.bg
		}
	}
	return color.Black
}

// CreateWindow implements render.Toolkit.
func (t *Toolkit) CreateWindow(parent render.Window, opts render.WindowOptions) render.Window {
	w := &window{tk: t}
	parentID := t.X.RootWin()
	if p, ok := parent.(*window); ok {
		w.parent = p
		parentID = p.win.Id
	}

	win, err := xwindow.Generate(t.X)
	if err != nil {
		t.logger.Error("failed to allocate window id", "error", err)
		win = xwindow.New(t.X, 0)
	}
	w.win = win

	var override, mask uint32
	if opts.Override {
		override = 1
	}
	if opts.Input {
		mask = inputEvents
	}
	err = win.CreateChecked(parentID, 0, 0, 1, 1,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		t.X.Screen().BlackPixel, override, mask)
	if err != nil {
		t.logger.Error("failed to create window", "name", opts.Name, "error", err)
		return w
	}

	if parent == nil && opts.Name != "" {
		if err := ewmh.WmNameSet(t.X, win.Id, opts.Name); err != nil {
			t.logger.Debug("failed to set window name", "name", opts.Name, "error", err)
		}
	}
	if opts.Input {
		t.connectInput(win.Id)
	}
	return w
}

func (t *Toolkit) connectInput(id xproto.Window) {
	xevent.KeyPressFun(func(X *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if t.keyFn != nil {
			t.keyFn(render.WindowID(ev.Event), display.KeyEvent{Code: uint32(ev.Detail), State: ev.State})
		}
	}).Connect(t.X, id)
	xevent.ButtonPressFun(func(X *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		t.mouse(display.MousePress, ev.Event, ev.EventX, ev.EventY)
	}).Connect(t.X, id)
	xevent.ButtonReleaseFun(func(X *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		t.mouse(display.MouseRelease, ev.Event, ev.EventX, ev.EventY)
	}).Connect(t.X, id)
	xevent.MotionNotifyFun(func(X *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		t.mouse(display.MouseMotion, ev.Event, ev.EventX, ev.EventY)
	}).Connect(t.X, id)
}

func (t *Toolkit) mouse(action display.MouseAction, win xproto.Window, x, y int16) {
	if t.mouseFn == nil {
		return
	}
	t.mouseFn(display.MouseEvent{
		Action: action,
		Window: render.WindowID(win),
		X:      int(x),
		Y:      int(y),
	})
}

// Paint implements render.Renderer.
func (t *Toolkit) Paint(w render.Window, tmpl render.Template) {
	xw, ok := w.(*window)
	if !ok || xw.rect.Width <= 0 || xw.rect.Height <= 0 {
		return
	}

	img := xgraphics.New(t.X, image.Rect(0, 0, xw.rect.Width, xw.rect.Height))
	bg := tmpl.Background
	if bg == nil {
		bg = xw.background()
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	t.Draw(img, tmpl)

	if err := img.XSurfaceSet(xw.win.Id); err != nil {
		t.logger.Warn("failed to paint window", "window", xw.win.Id, "error", err)
		img.Destroy()
		return
	}
	img.XDraw()
	img.XPaint(xw.win.Id)

	if xw.surface != nil {
		xw.surface.Destroy()
	}
	xw.surface = img
	xw.bg = bg
}

// ScreenArea implements render.Toolkit. It is the monitor holding the
// pointer.
func (t *Toolkit) ScreenArea() geom.Rect {
	root := rectFromX(xwindow.RootGeometry(t.X))

	heads, err := xinerama.PhysicalHeads(t.X)
	if err != nil || len(heads) == 0 {
		return root
	}
	rects := make([]geom.Rect, 0, len(heads))
	for _, h := range heads {
		rects = append(rects, rectFromX(h))
	}

	p := center(root)
	if reply, err := xproto.QueryPointer(t.X.Conn(), t.X.RootWin()).Reply(); err == nil {
		p = geom.Point{X: int(reply.RootX), Y: int(reply.RootY)}
	}
	head, _ := headContaining(rects, p)
	return head
}

// ManageDialog implements render.Toolkit.
func (t *Toolkit) ManageDialog(w render.Window, transientFor render.WindowID, size geom.Size) {
	id := xproto.Window(w.ID())
	if transientFor != 0 {
		if err := icccm.WmTransientForSet(t.X, id, xproto.Window(transientFor)); err != nil {
			t.logger.Debug("failed to set transient hint", "window", id, "error", err)
		}
	}
	if err := ewmh.WmWindowTypeSet(t.X, id, []string{"_NET_WM_WINDOW_TYPE_DIALOG"}); err != nil {
		t.logger.Debug("failed to set window type", "window", id, "error", err)
	}
	hints := &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  uint(size.Width),
		MinHeight: uint(size.Height),
		MaxWidth:  uint(size.Width),
		MaxHeight: uint(size.Height),
	}
	if err := icccm.WmNormalHintsSet(t.X, id, hints); err != nil {
		t.logger.Debug("failed to set size hints", "window", id, "error", err)
	}
	w.Map()
}
