package display

import (
	"github.com/jmylchreest/wmosd/internal/render"
	"github.com/jmylchreest/wmosd/internal/theme"
)

// Appearance is the themed look shared by all widgets.
type Appearance struct {
	PaddingX    int
	PaddingY    int
	BorderWidth int
	FontSize    float64
	Styles      theme.Styles
}

// NewAppearance resolves a theme.
func NewAppearance(t *theme.Theme) Appearance {
	return Appearance{
		PaddingX:    t.PaddingX,
		PaddingY:    t.PaddingY,
		BorderWidth: t.BorderWidth,
		FontSize:    t.FontSize,
		Styles:      t.Styles(),
	}
}

// DefaultAppearance is the look of the bundled default theme.
func DefaultAppearance() Appearance {
	return NewAppearance(theme.NewDefaultTheme())
}

func (a Appearance) frame(s theme.Style) render.Template {
	return render.Template{
		Background:  s.Background,
		Border:      s.Border,
		BorderWidth: a.BorderWidth,
		FontSize:    a.FontSize,
	}
}

func (a Appearance) label(text string, justify render.Justify, s theme.Style) render.Template {
	return render.Template{
		Text:       text,
		Justify:    justify,
		FontSize:   a.FontSize,
		Foreground: s.Foreground,
	}
}

func (a Appearance) button(text string, s theme.Style) render.Template {
	return render.Template{
		Text:        text,
		Justify:     render.JustifyCenter,
		FontSize:    a.FontSize,
		Background:  s.Background,
		Foreground:  s.Foreground,
		Border:      s.Border,
		BorderWidth: a.BorderWidth,
	}
}

func (a Appearance) cell(s theme.Style) render.Template {
	return render.Template{
		Background:  s.Background,
		Border:      s.Border,
		BorderWidth: a.BorderWidth,
	}
}
