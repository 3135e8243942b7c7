// Package render is the window and painting layer the OSD widgets draw
// through. A Toolkit creates windows and paints Templates into them; the
// software Canvas implements it in memory and the X11 backend on a display.
package render

import (
	"image"
	"image/color"

	"github.com/jmylchreest/wmosd/internal/geom"
)

// WindowID identifies a window. Zero is no window.
type WindowID uint32

// Window is a toolkit window.
type Window interface {
	ID() WindowID
	MoveResize(r geom.Rect)
	Map()
	Unmap()
	Raise()
	Destroy()
}

// WindowOptions configure a new window.
type WindowOptions struct {
	Name string
	// Override marks a top-level window the window manager must leave
	// alone, as popups are.
	Override bool
	// Input selects pointer and key events for the window.
	Input bool
}

// Justify is the horizontal alignment of text.
type Justify int

const (
	JustifyLeft Justify = iota
	JustifyCenter
	JustifyRight
)

var justifyNames = [...]string{
	JustifyLeft:   "left",
	JustifyCenter: "center",
	JustifyRight:  "right",
}

func (j Justify) String() string {
	if j >= 0 && int(j) < len(justifyNames) {
		return justifyNames[j]
	}
	return "unknown"
}

// ParseJustify parses "left", "center" or "right".
func ParseJustify(s string) (Justify, bool) {
	for j, name := range justifyNames {
		if name == s {
			return Justify(j), true
		}
	}
	return JustifyLeft, false
}

// Template is everything needed to paint one window. It is passed by value
// and fully populated for every paint.
type Template struct {
	Text     string
	Justify  Justify
	Bold     bool
	FontSize float64 // zero uses the painter's default

	// Flow wraps text on word boundaries to MaxWidth pixels.
	Flow     bool
	MaxWidth int

	// A nil Background leaves the window transparent over its parent.
	Background  color.Color
	Foreground  color.Color
	Border      color.Color
	BorderWidth int

	// Icon is scaled into the area inside the margins.
	Icon image.Image
}

// Renderer measures and paints templates.
type Renderer interface {
	// MinSize is the smallest size that shows the whole template,
	// margins included.
	MinSize(t Template) geom.Size
	Margins(t Template) geom.Insets
	// Paint draws the template over the window's whole area.
	Paint(w Window, t Template)
}

// Toolkit creates and manages windows.
type Toolkit interface {
	Renderer
	// CreateWindow creates an unmapped window. A nil parent creates a
	// top-level window.
	CreateWindow(parent Window, opts WindowOptions) Window
	// ScreenArea is the area popups are kept inside of.
	ScreenArea() geom.Rect
	// ManageDialog hands a top-level window to the window manager as a
	// fixed-size dialog, transient for transientFor when it is non-zero,
	// and maps it.
	ManageDialog(w Window, transientFor WindowID, size geom.Size)
}
