package render

import (
	"gioui.org/f32"
	"github.com/OpenTraceLab/nomograph/pkg/geom"
)

// Pane maps view coordinates, in which the engine lays out a nomogram, to
// the pixels of a Gio widget. The engine works in device independent
// units; Scale is the number of pixels per unit.
type Pane struct {
	// Offset of the view origin in pixels
	OffsetX float32
	OffsetY float32

	// Pixels per view unit
	Scale float32

	// Widget size in pixels
	Width  int
	Height int
}

// NewPane returns a pane covering a widget of the given pixel size
func NewPane(width, height int, scale float32) *Pane {
	if scale <= 0 {
		scale = 1
	}
	return &Pane{Scale: scale, Width: width, Height: height}
}

// Size returns the widget size in view units, as passed to the engine
func (p *Pane) Size() geom.Size {
	return geom.Size{
		Width:  float64(float32(p.Width) / p.Scale),
		Height: float64(float32(p.Height) / p.Scale),
	}
}

// UpdateScreenSize updates the pane when the widget is resized
func (p *Pane) UpdateScreenSize(width, height int) {
	p.Width = width
	p.Height = height
}

// ToScreen converts a view point to widget pixels
func (p *Pane) ToScreen(pt geom.Point) f32.Point {
	return f32.Pt(float32(pt.X)*p.Scale+p.OffsetX, float32(pt.Y)*p.Scale+p.OffsetY)
}

// FromScreen converts widget pixels to a view point
func (p *Pane) FromScreen(pt f32.Point) geom.Point {
	return geom.Pt(float64((pt.X-p.OffsetX)/p.Scale), float64((pt.Y-p.OffsetY)/p.Scale))
}

// Delta converts a pixel movement to a view movement
func (p *Pane) Delta(d f32.Point) geom.Point {
	return geom.Pt(float64(d.X/p.Scale), float64(d.Y/p.Scale))
}

// Length converts a view length to pixels
func (p *Pane) Length(l float64) float32 {
	return float32(l) * p.Scale
}
