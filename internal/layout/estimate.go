package layout

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// GlyphEstimator approximates the rendered text box from average glyph
// metrics, wrapping words greedily at the safe-area width. It keeps
// the engine functional without a rasterizer; the render sink reports
// the font actually applied.
type GlyphEstimator struct {
	WrapWidth  float64 // maximum line width in pixels
	Aspect     float64 // average glyph width as a fraction of the point size
	LineHeight float64 // line advance as a fraction of the point size
}

func NewGlyphEstimator(wrapWidth float64) *GlyphEstimator {
	return &GlyphEstimator{
		WrapWidth:  wrapWidth,
		Aspect:     0.55,
		LineHeight: 1.25,
	}
}

// Measure estimates the wrapped text box for the candidate at the
// given size. A candidate referencing a missing font file is rejected
// with ErrUnknownFont so the fitter falls through to the next one.
func (m *GlyphEstimator) Measure(candidate FontCandidate, text string, size float64) (Box, error) {
	if candidate.File != "" {
		if _, err := os.Stat(candidate.File); err != nil {
			return Box{}, fmt.Errorf("%w: %s", ErrUnknownFont, candidate.File)
		}
	}

	glyphWidth := size * m.Aspect
	if strings.EqualFold(candidate.Weight, "bold") {
		glyphWidth *= 1.06
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return Box{}, nil
	}

	var (
		lines     = 1
		lineWidth float64
		maxWidth  float64
	)
	for _, word := range words {
		w := float64(utf8.RuneCountInString(word)) * glyphWidth
		switch {
		case lineWidth == 0:
			lineWidth = w
		case lineWidth+glyphWidth+w <= m.WrapWidth:
			lineWidth += glyphWidth + w
		default:
			lines++
			lineWidth = w
		}
		if lineWidth > maxWidth {
			maxWidth = lineWidth
		}
	}

	return Box{
		Width:  maxWidth,
		Height: float64(lines) * size * m.LineHeight,
	}, nil
}
