package scale

import (
	"math"
	"sort"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/aclements/go-moremath/vec"
	"github.com/sirupsen/logrus"
)

const (
	// refineSpacing is divided by the first order divider to get the second
	// order spacing above which graduations are refined
	refineSpacing = 200.0
	// coarsenSpacing is the second order spacing below which graduations
	// are coarsened again
	coarsenSpacing = 20.0
)

// BuildGraduations rebuilds the graduation orders of a view from the scale range.
//
// The first order step is a tenth of the power of ten nearest to the span.
// Its extremes are the nearest multiples of the step, pulled one step inward
// when they fall out of bounds.
func (b *Base) BuildGraduations(space Space) {
	v, ok := space.view()
	if !ok {
		return
	}
	b.updateDirection()
	orders := &b.grads[v]
	*orders = Orders{}
	b.zoomLevel[v] = 1

	span := math.Abs(b.EndValue - b.StartValue)
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return
	}

	step := math.Pow(10, math.Round(math.Log10(span))) / 10

	first := closestGraduationValue(b.StartValue, step)
	if !b.IsInsideBounds(first) {
		first += step * b.direction
	}
	last := closestGraduationValue(b.EndValue, step)
	if !b.IsInsideBounds(last) {
		last -= step * b.direction
	}

	n := int(math.Round((last-first)/(step*b.direction))) + 1
	if n < 2 {
		return
	}

	orders.First = Order{Step: step, Divider: 2}
	for _, value := range vec.Linspace(first, last, n) {
		if g, ok := b.shape.graduation(round10(value), space); ok {
			orders.First.Graduations = append(orders.First.Graduations, g)
		}
	}
	if len(orders.First.Graduations) < 2 {
		*orders = Orders{}
		return
	}
	orders.Second = b.nextOrder(orders.First, space)

	b.log.WithFields(logrus.Fields{
		"space": space,
		"step":  step,
		"first": len(orders.First.Graduations),
	}).Debug("graduations built")
}

// closestGraduationValue returns the multiple of step nearest to value
func closestGraduationValue(value, step float64) float64 {
	count := math.Round(value / step)
	below := count * step
	above := (count + 1) * step
	if math.Abs(value-below) < math.Abs(value-above) {
		return below
	}
	return above
}

// nextOrder returns the finer order spanning the same values as prev.
// Dividers alternate between 2 and 5 so two levels make a decade.
func (b *Base) nextOrder(prev Order, space Space) Order {
	next := Order{Step: prev.Step / prev.Divider, Divider: 2}
	if prev.Divider == 2 {
		next.Divider = 5
	}
	if len(prev.Graduations) == 0 {
		return next
	}

	firstValue := prev.Graduations[0].Value
	lastValue := prev.Graduations[len(prev.Graduations)-1].Value
	n := int(math.Round((lastValue-firstValue)/(next.Step*b.direction))) + 1
	if n < 1 {
		return next
	}
	for _, value := range vec.Linspace(firstValue, lastValue, n) {
		if g, ok := b.shape.graduation(round10(value), space); ok {
			next.Graduations = append(next.Graduations, g)
		}
	}
	return next
}

// HandleMovement keeps only the graduations near the visible surface and
// adjusts their density after a pan or zoom:
//
//  1. drop the leading first order graduation when it and its neighbour are
//     off screen, or look for the scale on the screen borders when the set is empty
//  2. the same at the tail
//  3. extend one step at each end when the edge graduation is visible
//  4. refine or coarsen from the average second order spacing
//
// The first order always holds zero or at least two graduations.
func (b *Base) HandleMovement(space Space) {
	v, ok := space.view()
	if !ok {
		return
	}
	o := &b.grads[v]

	if len(o.First.Graduations) > 0 {
		g := o.First.Graduations
		if len(g) < 2 || (!b.GraduationInsideScreen(g[0], space) && !b.GraduationInsideScreen(g[1], space)) {
			o.First.Graduations = g[1:]
			if len(o.First.Graduations) < 2 {
				*o = Orders{}
			} else {
				b.removeSecondOrderHead(o, o.First.Graduations[0].Value)
			}
		}
	} else {
		b.tryAddingGraduations(space)
	}

	if n := len(o.First.Graduations); n >= 2 {
		g := o.First.Graduations
		if !b.GraduationInsideScreen(g[n-1], space) && !b.GraduationInsideScreen(g[n-2], space) {
			o.First.Graduations = g[:n-1]
			if len(o.First.Graduations) < 2 {
				*o = Orders{}
			} else {
				b.removeSecondOrderTail(o, o.First.Graduations[n-2].Value)
			}
		}
	}

	if len(o.First.Graduations) > 0 {
		head := o.First.Graduations[0]
		if b.GraduationInsideScreen(head, space) {
			value := round10(head.Value - b.direction*o.First.Step)
			if b.IsInsideBounds(value) {
				if g, ok := b.shape.graduation(value, space); ok {
					o.First.Graduations = append([]Graduation{g}, o.First.Graduations...)
					b.addSecondOrderHead(o, value, head.Value, space)
				}
			}
		}

		tail := o.First.Graduations[len(o.First.Graduations)-1]
		if b.GraduationInsideScreen(tail, space) {
			value := round10(tail.Value + b.direction*o.First.Step)
			if b.IsInsideBounds(value) {
				if g, ok := b.shape.graduation(value, space); ok {
					o.First.Graduations = append(o.First.Graduations, g)
					b.addSecondOrderTail(o, value, tail.Value, space)
				}
			}
		}
	}

	if len(o.First.Graduations) > 0 {
		spacing, ok := averageSpacing(o.Second.Graduations)
		if !ok {
			return
		}
		entry := b.log.WithFields(logrus.Fields{"space": space, "spacing": spacing})
		if spacing > refineSpacing/o.First.Divider {
			b.refine(o, space)
			b.zoomLevel[v]++
			entry.WithField("level", b.zoomLevel[v]).Debug("graduations refined")
		}
		if b.zoomLevel[v] > 1 && spacing < coarsenSpacing {
			if b.coarsen(o) {
				b.zoomLevel[v]--
				entry.WithField("level", b.zoomLevel[v]).Debug("graduations coarsened")
			}
		}
	}
}

// refine promotes the second order to first order and generates a new,
// finer second order
func (b *Base) refine(o *Orders, space Space) {
	promoted := append([]Graduation(nil), o.Second.Graduations...)
	dir := b.direction
	sort.SliceStable(promoted, func(i, j int) bool {
		return promoted[i].Value*dir < promoted[j].Value*dir
	})
	o.First = Order{Graduations: promoted, Step: o.Second.Step, Divider: o.Second.Divider}
	o.Second = b.nextOrder(o.First, space)
}

// coarsen demotes the first order to second order and keeps, as the new
// first order, the values that are multiples of the coarser step.
// It gives up when fewer than two graduations would remain.
func (b *Base) coarsen(o *Orders) bool {
	divider := o.Second.Divider
	first := Order{Step: o.First.Step * divider, Divider: divider}
	for _, g := range o.First.Graduations {
		div := g.Value / first.Step
		if math.Abs(div-math.Round(div)) < 1e-6 {
			first.Graduations = append(first.Graduations, g)
		}
	}
	if len(first.Graduations) < 2 {
		return false
	}
	o.Second = o.First
	o.First = first
	// the demoted order must not run past the new first order extremes
	b.removeSecondOrderHead(o, first.Graduations[0].Value)
	b.removeSecondOrderTail(o, first.Graduations[len(first.Graduations)-1].Value)
	return true
}

// tryAddingGraduations rebuilds the graduations once the scale is back on
// screen: either both ends are visible or one of the screen borders crosses it
func (b *Base) tryAddingGraduations(space Space) {
	start, end, err := b.ends(space)
	if err != nil {
		return
	}
	if b.IsInsideScreen(start, space) && b.IsInsideScreen(end, space) {
		b.BuildGraduations(space)
		return
	}
	for _, border := range geom.ScreenBorders(b.Screen(space)) {
		if b.shape.reappears(border, space) {
			b.BuildGraduations(space)
			return
		}
	}
}

// sameValue compares graduation values built through different step paths
func sameValue(a, b, step float64) bool {
	return math.Abs(a-b) <= math.Abs(step)*1e-6
}

// removeSecondOrderHead drops the second order graduations that precede upTo
func (b *Base) removeSecondOrderHead(o *Orders, upTo float64) {
	g := o.Second.Graduations
	n := 0
	for n < len(g) && !sameValue(g[n].Value, upTo, o.Second.Step) {
		n++
	}
	o.Second.Graduations = g[n:]
}

// removeSecondOrderTail drops the second order graduations that follow upTo
func (b *Base) removeSecondOrderTail(o *Orders, upTo float64) {
	g := o.Second.Graduations
	n := len(g)
	for n > 0 && !sameValue(g[n-1].Value, upTo, o.Second.Step) {
		n--
	}
	o.Second.Graduations = g[:n]
}

// addSecondOrderHead prepends the second order graduations in [from, to)
func (b *Base) addSecondOrderHead(o *Orders, from, to float64, space Space) {
	values := b.secondOrderBetween(o, from, to)
	added := make([]Graduation, 0, len(values))
	for _, value := range values {
		if g, ok := b.shape.graduation(value, space); ok {
			added = append(added, g)
		}
	}
	o.Second.Graduations = append(added, o.Second.Graduations...)
}

// addSecondOrderTail appends the second order graduations in (to, from]
func (b *Base) addSecondOrderTail(o *Orders, from, to float64, space Space) {
	values := b.secondOrderBetween(o, to, from)
	if len(values) > 0 {
		// (to, from] instead of [to, from)
		values = append(values[1:], from)
	}
	for _, value := range values {
		if g, ok := b.shape.graduation(value, space); ok {
			o.Second.Graduations = append(o.Second.Graduations, g)
		}
	}
}

// secondOrderBetween returns the second order values in [lo, hi), walking
// in the scale direction
func (b *Base) secondOrderBetween(o *Orders, lo, hi float64) []float64 {
	step := o.Second.Step * b.direction
	if step == 0 {
		return nil
	}
	n := int(math.Round((hi - lo) / step))
	if n <= 0 {
		return nil
	}
	values := vec.Linspace(lo, hi, n+1)[:n]
	for i := range values {
		values[i] = round10(values[i])
	}
	return values
}

// averageSpacing returns the mean distance between consecutive graduations
func averageSpacing(g []Graduation) (float64, bool) {
	if len(g) < 2 {
		return 0, false
	}
	d := make([]float64, len(g)-1)
	for i := 1; i < len(g); i++ {
		d[i-1] = geom.Distance(g[i].Point, g[i-1].Point)
	}
	return vec.Sum(d) / float64(len(d)), true
}
