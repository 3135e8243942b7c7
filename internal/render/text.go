package render

import (
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is used by templates without a font size.
const DefaultFontSize = 12.0

type faceKey struct {
	size float64
	bold bool
}

// Fonts caches font faces by size and weight.
type Fonts struct {
	mu      sync.Mutex
	logger  *slog.Logger
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

// NewFonts parses the bundled Go fonts. When they cannot be parsed every
// face falls back to a fixed bitmap font.
func NewFonts(logger *slog.Logger) *Fonts {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fonts{
		logger: logger,
		faces:  make(map[faceKey]font.Face),
	}

	var err error
	if f.regular, err = opentype.Parse(goregular.TTF); err != nil {
		logger.Warn("failed to parse regular font, using bitmap font", "error", err)
	}
	if f.bold, err = opentype.Parse(gobold.TTF); err != nil {
		logger.Warn("failed to parse bold font, using regular", "error", err)
		f.bold = f.regular
	}
	return f
}

// Face returns the face for a size in points at 72 dpi.
func (f *Fonts) Face(size float64, bold bool) font.Face {
	if size <= 0 {
		size = DefaultFontSize
	}
	key := faceKey{size: size, bold: bold}

	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.faces[key]; ok {
		return face
	}

	src := f.regular
	if bold {
		src = f.bold
	}
	var face font.Face = basicfont.Face7x13
	if src != nil {
		opened, err := opentype.NewFace(src, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			f.logger.Warn("failed to open font face", "size", size, "error", err)
		} else {
			face = opened
		}
	}
	f.faces[key] = face
	return face
}

// lineHeight is the distance between baselines.
func lineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// layoutLines splits text into the lines it is drawn as. Explicit newlines
// always break; with maxWidth > 0 words also wrap. A word wider than
// maxWidth gets a line of its own.
func layoutLines(face font.Face, text string, maxWidth int) []string {
	if text == "" {
		return nil
	}
	paragraphs := strings.Split(text, "\n")
	if maxWidth <= 0 {
		return paragraphs
	}

	var lines []string
	for _, para := range paragraphs {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			next := line + " " + w
			if textWidth(face, next) > maxWidth {
				lines = append(lines, line)
				line = w
				continue
			}
			line = next
		}
		lines = append(lines, line)
	}
	return lines
}

// measureLines is the size of a block of lines.
func measureLines(face font.Face, lines []string) (w, h int) {
	if len(lines) == 0 {
		return 0, lineHeight(face)
	}
	for _, l := range lines {
		w = max(w, textWidth(face, l))
	}
	return w, len(lines) * lineHeight(face)
}
