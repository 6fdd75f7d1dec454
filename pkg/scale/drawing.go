package scale

import "github.com/OpenTraceLab/nomograph/pkg/geom"

// TextRole tells a renderer which style to use for a piece of text
type TextRole int

const (
	RoleGraduation TextRole = iota
	RoleName
	RoleValue
)

// Stroke is a straight line segment
type Stroke struct {
	From  geom.Point
	To    geom.Point
	Width float64
}

// Text is a label anchored at its top-left corner
type Text struct {
	At       geom.Point
	Text     string
	FontSize float64
	Role     TextRole
}

// Marker is the dot showing the current value of a scale.
// It is filled when the value can be edited.
type Marker struct {
	Center geom.Point
	Radius float64
	Filled bool
}

// Drawing is the list of primitives needed to draw one scale in one space
type Drawing struct {
	Space  Space
	Line   *Stroke     // straight scales
	Curve  *geom.Cubic // curved scales
	Ticks  []Stroke
	Texts  []Text
	Marker Marker
}

const (
	axisWidth       = 2.0
	majorTickWidth  = 2.0
	minorTickWidth  = 1.0
	markerRadius    = 7.0
	nameOffset      = 30.0
	valueTextOffset = 4.0
)

// decorate appends graduations, the variable name and the value marker
// shared by every scale kind
func (b *Base) decorate(d *Drawing, space Space, marker geom.Point) {
	if v, ok := space.view(); ok {
		orders := b.grads[v]
		for _, g := range orders.First.Graduations {
			d.Ticks = append(d.Ticks, Stroke{
				From:  g.Point.Add(g.TickStart),
				To:    g.Point.Add(g.TickEnd),
				Width: majorTickWidth,
			})
			d.Texts = append(d.Texts, Text{
				At:       g.Point.Add(g.Label),
				Text:     g.Text,
				FontSize: LabelFontSize,
				Role:     RoleGraduation,
			})
		}
		// Second order ticks are half length and unlabelled
		for _, g := range orders.Second.Graduations {
			d.Ticks = append(d.Ticks, Stroke{
				From:  g.Point.Add(g.TickStart.Mul(0.5)),
				To:    g.Point.Add(g.TickEnd.Mul(0.5)),
				Width: minorTickWidth,
			})
		}
	}

	if space == TopView {
		name := b.Name
		if b.Unit != "" {
			name += " (" + b.Unit + ")"
		}
		size := b.measurer.Measure(name, NameFontSize)
		d.Texts = append(d.Texts, Text{
			At:       geom.Pt(b.End.Top.X-size.Width/2, b.End.Top.Y-size.Height/2-nameOffset),
			Text:     name,
			FontSize: NameFontSize,
			Role:     RoleName,
		})
	}

	d.Marker = Marker{Center: marker, Radius: markerRadius, Filled: !b.Fixed}
	d.Texts = append(d.Texts, Text{
		At:       marker.Add(geom.Pt(valueTextOffset, valueTextOffset)),
		Text:     FormatValue(b.DisplayedValue(space)),
		FontSize: ValueFontSize,
		Role:     RoleValue,
	})
}
