package render

import (
	"sync"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/text"
	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"golang.org/x/image/math/fixed"
)

// Measurer sizes text with the Gio shaper so that graduation labels are
// laid out with the font they are drawn with. It implements
// scale.TextMeasurer.
type Measurer struct {
	mu     sync.Mutex
	shaper *text.Shaper
	font   font.Font
}

// NewMeasurer returns a measurer using the Go fonts
func NewMeasurer() *Measurer {
	return NewMeasurerWithShaper(text.NewShaper(text.WithCollection(gofont.Collection())))
}

// NewMeasurerWithShaper shares an existing shaper
func NewMeasurerWithShaper(shaper *text.Shaper) *Measurer {
	return &Measurer{shaper: shaper}
}

// Shaper returns the underlying shaper
func (m *Measurer) Shaper() *text.Shaper {
	return m.shaper
}

// Measure returns the extent of s set at size units per em
func (m *Measurer) Measure(s string, size float64) geom.Size {
	if s == "" {
		return geom.Size{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shaper.LayoutString(text.Parameters{
		Font:     m.font,
		PxPerEm:  fixed.Int26_6(size * 64),
		MaxLines: 1,
		MaxWidth: 1 << 20,
	}, s)

	var right, ascent, descent fixed.Int26_6
	for {
		g, ok := m.shaper.NextGlyph()
		if !ok {
			break
		}
		if end := g.X + g.Advance; end > right {
			right = end
		}
		if g.Ascent > ascent {
			ascent = g.Ascent
		}
		if g.Descent > descent {
			descent = g.Descent
		}
	}
	return geom.Size{
		Width:  float64(right) / 64,
		Height: float64(ascent+descent) / 64,
	}
}
