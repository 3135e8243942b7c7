package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/jmylchreest/wmosd/internal/geom"
)

// Painter measures templates and draws them into images. Toolkits embed
// it and supply the image of a window.
type Painter struct {
	fonts *Fonts
}

// NewPainter creates a painter drawing text with fonts.
func NewPainter(fonts *Fonts) *Painter {
	return &Painter{fonts: fonts}
}

func (p *Painter) face(t Template) font.Face {
	return p.fonts.Face(t.FontSize, t.Bold)
}

// Margins implements Renderer. Only the border takes up room.
func (p *Painter) Margins(t Template) geom.Insets {
	b := max(t.BorderWidth, 0)
	return geom.Insets{Left: b, Top: b, Right: b, Bottom: b}
}

// MinSize implements Renderer.
func (p *Painter) MinSize(t Template) geom.Size {
	m := p.Margins(t)
	extraW := m.Left + m.Right
	extraH := m.Top + m.Bottom

	if t.Text == "" && t.Icon != nil {
		b := t.Icon.Bounds()
		return geom.Size{Width: b.Dx() + extraW, Height: b.Dy() + extraH}
	}

	face := p.face(t)
	maxw := 0
	if t.Flow {
		maxw = t.MaxWidth
	}
	w, h := measureLines(face, layoutLines(face, t.Text, maxw))
	return geom.Size{Width: w + extraW, Height: h + extraH}
}

// Draw paints the template over all of dst.
func (p *Painter) Draw(dst draw.Image, t Template) {
	bounds := dst.Bounds()
	if bounds.Empty() {
		return
	}

	if t.Background != nil {
		draw.Draw(dst, bounds, image.NewUniform(t.Background), image.Point{}, draw.Src)
	}

	m := p.Margins(t)
	if t.Border != nil && m.Left > 0 {
		drawBorder(dst, bounds, m.Left, t.Border)
	}

	inner := image.Rect(
		bounds.Min.X+m.Left, bounds.Min.Y+m.Top,
		bounds.Max.X-m.Right, bounds.Max.Y-m.Bottom,
	)
	if inner.Empty() {
		return
	}

	if t.Icon != nil {
		drawIcon(dst, inner, t.Icon)
	}
	if t.Text != "" {
		p.drawText(dst, inner, t)
	}
}

func drawBorder(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// drawIcon scales the icon to fit inside r, keeping its aspect ratio and
// centering it.
func drawIcon(dst draw.Image, r image.Rectangle, icon image.Image) {
	ib := icon.Bounds()
	if ib.Empty() {
		return
	}
	w, h := r.Dx(), r.Dy()
	if ib.Dx()*h > ib.Dy()*w {
		h = max(ib.Dy()*w/ib.Dx(), 1)
	} else {
		w = max(ib.Dx()*h/ib.Dy(), 1)
	}
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()-h)/2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), icon, ib, draw.Over, nil)
}

func (p *Painter) drawText(dst draw.Image, r image.Rectangle, t Template) {
	face := p.face(t)
	maxw := 0
	if t.Flow {
		maxw = t.MaxWidth
	}
	lines := layoutLines(face, t.Text, maxw)
	_, blockH := measureLines(face, lines)
	lh := lineHeight(face)
	ascent := face.Metrics().Ascent.Ceil()

	var fg color.Color = color.Black
	if t.Foreground != nil {
		fg = t.Foreground
	}

	clip, ok := dst.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	target := dst
	if ok {
		if sub, ok := clip.SubImage(r).(draw.Image); ok {
			target = sub
		}
	}

	d := &font.Drawer{
		Dst:  target,
		Src:  image.NewUniform(fg),
		Face: face,
	}

	top := r.Min.Y + (r.Dy()-blockH)/2
	for i, line := range lines {
		lw := textWidth(face, line)
		x := r.Min.X
		switch t.Justify {
		case JustifyCenter:
			x += (r.Dx() - lw) / 2
		case JustifyRight:
			x += r.Dx() - lw
		}
		d.Dot = fixed.P(x, top+i*lh+ascent)
		d.DrawString(line)
	}
}
