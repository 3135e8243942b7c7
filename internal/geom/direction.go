package geom

import "strings"

// Direction names a window edge.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directionNames = [...]string{
	North: "north",
	South: "south",
	East:  "east",
	West:  "west",
}

var opposites = [...]Direction{
	North: South,
	South: North,
	East:  West,
	West:  East,
}

// Opposite returns the edge facing d.
func (d Direction) Opposite() Direction {
	return opposites[d]
}

// Vertical reports whether d moves the top or bottom edge.
func (d Direction) Vertical() bool {
	return d == North || d == South
}

func (d Direction) String() string {
	if d < North || d > West {
		return "unknown"
	}
	return directionNames[d]
}

// Directions lists every direction in declaration order.
func Directions() []Direction {
	return []Direction{North, South, East, West}
}

// ParseDirection accepts the compass names and their up/down/left/right
// aliases, case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "up":
		return North, true
	case "south", "down":
		return South, true
	case "west", "left":
		return West, true
	case "east", "right":
		return East, true
	default:
		return North, false
	}
}
