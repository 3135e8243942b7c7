package geom

// ResizeDirectional computes the candidate rectangle for moving one edge of
// win. With grow set the edge moves outward to the nearest edge of an
// obstruction in its path, or to the area boundary. Otherwise it moves
// inward to the nearest obstruction edge inside the window, collapsing onto
// the opposite edge when there is none. Obstructions only count when they
// overlap win along the edge being moved.
func ResizeDirectional(area, win Rect, others []Rect, side Direction, grow bool) Rect {
	out := win
	switch side {
	case North:
		top := edgeTarget(win.Y, win.Bottom(), area.Y, crossEdges(win, others, true), grow, -1)
		out.Y = top
		out.Height = win.Bottom() - top
	case South:
		bottom := edgeTarget(win.Bottom(), win.Y, area.Bottom(), crossEdges(win, others, true), grow, +1)
		out.Height = bottom - win.Y
	case West:
		left := edgeTarget(win.X, win.Right(), area.X, crossEdges(win, others, false), grow, -1)
		out.X = left
		out.Width = win.Right() - left
	case East:
		right := edgeTarget(win.Right(), win.X, area.Right(), crossEdges(win, others, false), grow, +1)
		out.Width = right - win.X
	default:
		panic("geom: invalid direction")
	}
	return out
}

// crossEdges collects the edges of the obstructions that overlap win.
// vertical selects top/bottom edges of windows sharing columns with win,
// otherwise left/right edges of windows sharing rows.
func crossEdges(win Rect, others []Rect, vertical bool) []int {
	var edges []int
	for _, o := range others {
		if vertical && win.OverlapsHorizontally(o) {
			edges = append(edges, o.Y, o.Bottom())
		}
		if !vertical && win.OverlapsVertically(o) {
			edges = append(edges, o.X, o.Right())
		}
	}
	return edges
}

// edgeTarget picks where an edge at pos ends up. outward is the sign of
// growth along the axis (-1 toward the origin). far is the window's opposite
// edge and boundary the area limit in the outward direction.
func edgeTarget(pos, far, boundary int, edges []int, grow bool, outward int) int {
	if grow {
		best := pos
		if (boundary-pos)*outward > 0 {
			best = boundary
		}
		for _, e := range edges {
			d := (e - pos) * outward
			if d > 0 && d < (best-pos)*outward {
				best = e
			}
		}
		return best
	}

	best := far
	for _, e := range edges {
		d := (pos - e) * outward
		if d > 0 && d < (pos-best)*outward {
			best = e
		}
	}
	if (pos-boundary)*outward > 0 && (pos-boundary)*outward < (pos-best)*outward {
		best = boundary
	}
	return best
}
