// Package render draws scale primitives with Gio.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/lucasb-eyer/go-colorful"
)

// ThemeName selects a colour theme
type ThemeName int

const (
	ThemePaper ThemeName = iota
	ThemeSlate
	ThemeBlueprint
)

// ThemeNames maps theme enum to display name
var ThemeNames = map[ThemeName]string{
	ThemePaper:     "Paper",
	ThemeSlate:     "Slate",
	ThemeBlueprint: "Blueprint",
}

// ParseTheme returns the theme with the given display name, ignoring case
func ParseTheme(s string) (ThemeName, error) {
	for name, display := range ThemeNames {
		if strings.EqualFold(display, s) {
			return name, nil
		}
	}
	return ThemePaper, fmt.Errorf("unknown theme %q", s)
}

// Theme holds the colours of a nomogram view
type Theme struct {
	Background color.NRGBA
	Border     color.NRGBA
	Axis       color.NRGBA
	Text       color.NRGBA
	IndexLine  color.NRGBA

	// Scales colours the ticks and markers of each slot, left to right
	Scales [3]color.NRGBA
}

func nrgba(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// ScaleColors returns n colours of the same saturation and value with
// evenly spaced hues, starting at hue (degrees)
func ScaleColors(n int, hue, saturation, value float64) []color.NRGBA {
	out := make([]color.NRGBA, n)
	for i := range out {
		h := hue + float64(i)*360/float64(n)
		for h >= 360 {
			h -= 360
		}
		out[i] = nrgba(colorful.Hsv(h, saturation, value))
	}
	return out
}

// Fade blends c toward the background, amount 0 keeping c and 1 giving bg.
// The blend runs in Lab space so that faded colours keep their hue.
func Fade(c, bg color.NRGBA, amount float64) color.NRGBA {
	from := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	to := colorful.Color{R: float64(bg.R) / 255, G: float64(bg.G) / 255, B: float64(bg.B) / 255}
	out := nrgba(from.BlendLab(to, amount).Clamped())
	out.A = c.A
	return out
}

// NewTheme returns the named theme; unknown names give the paper theme
func NewTheme(name ThemeName) Theme {
	var t Theme
	var scales []color.NRGBA
	switch name {
	case ThemeSlate:
		t = Theme{
			Background: color.NRGBA{R: 40, G: 44, B: 52, A: 255},
			Border:     color.NRGBA{R: 150, G: 150, B: 160, A: 255},
			Axis:       color.NRGBA{R: 220, G: 220, B: 220, A: 255},
			Text:       color.NRGBA{R: 230, G: 230, B: 230, A: 255},
			IndexLine:  color.NRGBA{R: 255, G: 90, B: 90, A: 255},
		}
		scales = ScaleColors(3, 200, 0.45, 0.95)
	case ThemeBlueprint:
		t = Theme{
			Background: color.NRGBA{R: 16, G: 52, B: 110, A: 255},
			Border:     color.NRGBA{R: 200, G: 220, B: 255, A: 255},
			Axis:       color.NRGBA{R: 235, G: 242, B: 255, A: 255},
			Text:       color.NRGBA{R: 235, G: 242, B: 255, A: 255},
			IndexLine:  color.NRGBA{R: 255, G: 210, B: 80, A: 255},
		}
		scales = ScaleColors(3, 180, 0.25, 1)
	default:
		t = Theme{
			Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Border:     color.NRGBA{A: 255},
			Axis:       color.NRGBA{A: 255},
			Text:       color.NRGBA{A: 255},
			IndexLine:  color.NRGBA{R: 255, A: 255},
		}
		scales = ScaleColors(3, 210, 0.8, 0.6)
	}
	copy(t.Scales[:], scales)
	return t
}

// ScaleColor returns the colour of the scale in slot index
func (t Theme) ScaleColor(index int) color.NRGBA {
	if index < 0 || index >= len(t.Scales) {
		return t.Axis
	}
	return t.Scales[index]
}

// TextColor returns the colour of a text role
func (t Theme) TextColor(role scale.TextRole, index int) color.NRGBA {
	switch role {
	case scale.RoleValue:
		return t.ScaleColor(index)
	case scale.RoleGraduation:
		return Fade(t.Text, t.Background, 0.15)
	default:
		return t.Text
	}
}
