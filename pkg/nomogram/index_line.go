package nomogram

import "github.com/OpenTraceLab/nomograph/pkg/geom"

// IndexLine is the straight edge laid across the scales, in top view coordinates
type IndexLine struct {
	Start geom.Point
	End   geom.Point
}

// Translate moves both ends
func (l *IndexLine) Translate(delta geom.Point) {
	l.Start = geom.ApplyPan(l.Start, delta)
	l.End = geom.ApplyPan(l.End, delta)
}

// Zoom scales both ends about center
func (l *IndexLine) Zoom(factor float64, center geom.Point) {
	l.Start = geom.ApplyZoom(l.Start, factor, center)
	l.End = geom.ApplyZoom(l.End, factor, center)
}

// Line returns the index line as a segment
func (l IndexLine) Line() geom.Line {
	return geom.Ln(l.Start, l.End)
}
