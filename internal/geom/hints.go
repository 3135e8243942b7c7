package geom

// SizeHints are the resize constraints a client window advertises.
type SizeHints struct {
	Min  Size
	Max  Size // zero dimensions are unlimited
	Base Size
	// HasBase is false when the client set no base size; the minimum
	// size substitutes for it then.
	HasBase bool
	Inc     Size // zero dimensions count as 1

	// MinAspect and MaxAspect are width/height ratios; zero is unset.
	MinAspect float64
	MaxAspect float64

	// NoMove and NoResize pin the current position and size of user
	// initiated configures.
	NoMove   bool
	NoResize bool
}

// Increment returns the effective resize step, never below 1.
func (h SizeHints) Increment() Size {
	inc := h.Inc
	if inc.Width < 1 {
		inc.Width = 1
	}
	if inc.Height < 1 {
		inc.Height = 1
	}
	return inc
}

// TryConfigure snaps r to the closest rectangle the client accepts. current
// is the client's present geometry, consulted when NoMove or NoResize is
// set. The second result is the logical size: increments when the client
// resizes in steps larger than a pixel, pixels otherwise.
func (h SizeHints) TryConfigure(current, r Rect) (Rect, Size) {
	inc := h.Increment()

	base, minSize := h.Min, h.Min
	if h.HasBase {
		base = h.Base
	}
	if minSize.Width == 0 && minSize.Height == 0 && h.HasBase {
		minSize = h.Base
	}

	w, ht := r.Width, r.Height
	if h.Max.Width > 0 && w > h.Max.Width {
		w = h.Max.Width
	}
	if w < minSize.Width {
		w = minSize.Width
	}
	if h.Max.Height > 0 && ht > h.Max.Height {
		ht = h.Max.Height
	}
	if ht < minSize.Height {
		ht = minSize.Height
	}

	w -= base.Width
	ht -= base.Height

	w /= inc.Width
	ht /= inc.Height

	// a window cannot be resized to nothing
	if base.Width+w < 1 {
		w = 1 - base.Width
	}
	if base.Height+ht < 1 {
		ht = 1 - base.Height
	}

	var logical Size
	if inc.Width > 1 {
		logical.Width = w
	} else {
		logical.Width = w + base.Width
	}
	if inc.Height > 1 {
		logical.Height = ht
	} else {
		logical.Height = ht + base.Height
	}

	w = w*inc.Width + base.Width
	ht = ht*inc.Height + base.Height

	// aspect ratios never substitute the minimum size for the base
	var aspectBase Size
	if h.HasBase {
		aspectBase = h.Base
	}
	w -= aspectBase.Width
	ht -= aspectBase.Height
	if h.MinAspect > 0 && float64(ht)*h.MinAspect > float64(w) {
		ht = int(float64(w) / h.MinAspect)
		if ht < 1 {
			ht = 1
			w = int(float64(ht) * h.MinAspect)
		}
	}
	if h.MaxAspect > 0 && float64(ht)*h.MaxAspect < float64(w) {
		ht = int(float64(w) / h.MaxAspect)
		if ht < 1 {
			ht = 1
			w = int(float64(ht) * h.MaxAspect)
		}
	}
	w += aspectBase.Width
	ht += aspectBase.Height

	out := Rect{X: r.X, Y: r.Y, Width: w, Height: ht}
	if h.NoMove {
		out.X, out.Y = current.X, current.Y
	}
	if h.NoResize {
		out.Width, out.Height = current.Width, current.Height
	}
	return out, logical
}

// Negotiate reconciles a candidate rectangle with the client's hints. When
// the grant is smaller than requested and the candidate moved an edge, the
// position is shifted back so the edge that was not moving stays fixed.
// changed reports whether the grant differs from current.
func Negotiate(current, candidate Rect, hints SizeHints) (Rect, bool) {
	got, _ := hints.TryConfigure(current, candidate)
	if got.X != current.X {
		got.X += candidate.Width - got.Width
	}
	if got.Y != current.Y {
		got.Y += candidate.Height - got.Height
	}
	return got, got != current
}
