package geom

import "strings"

// Gravity is one of the nine compass anchor points. A gravity anchor is
// the point of a rectangle that stays put when the rectangle is placed.
type Gravity int

const (
	NorthWest Gravity = iota
	NorthCenter
	NorthEast
	WestCenter
	Center
	EastCenter
	SouthWest
	SouthCenter
	SouthEast
)

// anchorFactors holds, per gravity, how many halves of the width and height
// lie left of and above the anchor point.
var anchorFactors = [...][2]int{
	NorthWest:   {0, 0},
	NorthCenter: {1, 0},
	NorthEast:   {2, 0},
	WestCenter:  {0, 1},
	Center:      {1, 1},
	EastCenter:  {2, 1},
	SouthWest:   {0, 2},
	SouthCenter: {1, 2},
	SouthEast:   {2, 2},
}

var gravityNames = [...]string{
	NorthWest:   "northwest",
	NorthCenter: "north",
	NorthEast:   "northeast",
	WestCenter:  "west",
	Center:      "center",
	EastCenter:  "east",
	SouthWest:   "southwest",
	SouthCenter: "south",
	SouthEast:   "southeast",
}

func (g Gravity) String() string {
	if g < NorthWest || g > SouthEast {
		return "unknown"
	}
	return gravityNames[g]
}

// ParseGravity parses a gravity name such as "northeast" or "center".
// Hyphens and case are ignored.
func ParseGravity(s string) (Gravity, bool) {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	for g, name := range gravityNames {
		if s == name {
			return Gravity(g), true
		}
	}
	return NorthWest, false
}

// Place returns the top-left corner of a rectangle of the given size whose
// gravity point sits on anchor.
func (g Gravity) Place(anchor Point, size Size) Point {
	f := anchorFactors[g]
	return Point{
		X: anchor.X - offsetFor(f[0], size.Width),
		Y: anchor.Y - offsetFor(f[1], size.Height),
	}
}

func offsetFor(halves, extent int) int {
	switch halves {
	case 1:
		return extent / 2
	case 2:
		return extent
	default:
		return 0
	}
}

// ClampInto keeps a rectangle of the given size fully inside an area of
// the given size anchored at the origin. Oversized rectangles pin to 0.
func ClampInto(p Point, size, area Size) Point {
	p.X = max(min(p.X, area.Width-size.Width), 0)
	p.Y = max(min(p.Y, area.Height-size.Height), 0)
	return p
}

// Anchor returns the gravity point of area, e.g. its top-right corner for
// NorthEast.
func (g Gravity) Anchor(area Rect) Point {
	f := anchorFactors[g]
	return Point{
		X: area.X + offsetFor(f[0], area.Width),
		Y: area.Y + offsetFor(f[1], area.Height),
	}
}
