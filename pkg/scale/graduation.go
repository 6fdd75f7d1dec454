package scale

import (
	"math"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/dustin/go-humanize"
)

const (
	// TickLength is the half length of a first order tick mark
	TickLength = 10.0
	// LabelFontSize is the font size graduation labels are measured at
	LabelFontSize = 14.0
	// NameFontSize is the font size of the variable name above a scale
	NameFontSize = 24.0
	// ValueFontSize is the font size of the displayed value next to the marker
	ValueFontSize = 14.0
)

// Graduation is one calibrated tick mark.
// TickStart, TickEnd and Label are offsets relative to Point.
type Graduation struct {
	Value     float64
	Point     geom.Point
	TickStart geom.Point
	TickEnd   geom.Point
	Label     geom.Point // top-left corner of the label text
	Text      string
	TextSize  geom.Size
}

// HitBox returns the box covering both tick ends and the label text
func (g Graduation) HitBox() geom.BoundingBox {
	bb := geom.NewBoundingBox()
	bb.Expand(g.Point.Add(g.TickStart))
	bb.Expand(g.Point.Add(g.TickEnd))
	label := g.Point.Add(g.Label)
	bb.Expand(label)
	bb.Expand(label.Add(geom.Pt(g.TextSize.Width, g.TextSize.Height)))
	return bb
}

// Order is one level of graduations, evenly spaced by Step.
// Divider gives the ratio to the next finer order (2 or 5).
type Order struct {
	Graduations []Graduation
	Step        float64
	Divider     float64
}

// Values returns the graduation values in order
func (o Order) Values() []float64 {
	values := make([]float64, len(o.Graduations))
	for i, g := range o.Graduations {
		values[i] = g.Value
	}
	return values
}

// Orders holds the labelled first order and the finer second order of one view
type Orders struct {
	First  Order
	Second Order
}

// TextMeasurer returns the extent of a text drawn at the given font size
type TextMeasurer interface {
	Measure(text string, fontSize float64) geom.Size
}

// EstimateText approximates a proportional system font without a shaper
type EstimateText struct{}

// Measure implements TextMeasurer
func (EstimateText) Measure(text string, fontSize float64) geom.Size {
	n := 0
	for range text {
		n++
	}
	return geom.Size{Width: float64(n) * fontSize * 0.55, Height: fontSize * 1.2}
}

// FormatValue renders a graduation or variable value without trailing zeros
func FormatValue(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return humanize.Ftoa(v)
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	d := math.Pow(10, float64(places))
	return math.Round(v*d) / d
}

// round10 absorbs the floating point noise of repeated step arithmetic
func round10(v float64) float64 {
	return Round(v, 10)
}
