package geom

import "fmt"

// Point is a position in screen coordinates.
type Point struct {
	X, Y int
}

// Size is a width/height pair. It doubles as a window's size increment.
type Size struct {
	Width, Height int
}

// Rect is an integer screen rectangle.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Insets are the margins of a rendered template.
type Insets struct {
	Left, Top, Right, Bottom int
}

// NewRect builds a Rect from its pieces.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.Right() && p.Y < r.Bottom()
}

// OverlapsHorizontally reports whether the column spans of r and o intersect.
func (r Rect) OverlapsHorizontally(o Rect) bool {
	return o.X < r.Right() && o.Right() > r.X
}

// OverlapsVertically reports whether the row spans of r and o intersect.
func (r Rect) OverlapsVertically(o Rect) bool {
	return o.Y < r.Bottom() && o.Bottom() > r.Y
}

// Shrink removes the insets from the rectangle.
func (r Rect) Shrink(in Insets) Rect {
	return Rect{
		X:      r.X + in.Left,
		Y:      r.Y + in.Top,
		Width:  r.Width - in.Left - in.Right,
		Height: r.Height - in.Top - in.Bottom,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// ParseRect parses "WxH+X+Y" (X geometry style) or "X,Y,W,H".
func ParseRect(s string) (Rect, error) {
	var r Rect
	if _, err := fmt.Sscanf(s, "%dx%d+%d+%d", &r.Width, &r.Height, &r.X, &r.Y); err == nil {
		return r, nil
	}
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.X, &r.Y, &r.Width, &r.Height); err == nil {
		return r, nil
	}
	return Rect{}, fmt.Errorf("invalid rectangle %q: want WxH+X+Y or X,Y,W,H", s)
}

// ParseSize parses "WxH".
func ParseSize(s string) (Size, error) {
	var sz Size
	if _, err := fmt.Sscanf(s, "%dx%d", &sz.Width, &sz.Height); err != nil {
		return Size{}, fmt.Errorf("invalid size %q: want WxH: %w", s, err)
	}
	return sz, nil
}
