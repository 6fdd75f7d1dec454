// Package nomogram assembles three scales into an alignment chart for
// f(C) = f(A) + f(B) + k, f(C) = k·f(A)·f(B) or X² + BX + C = 0, and keeps
// their values consistent as the user edits them.
package nomogram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/sirupsen/logrus"
)

// OperationType is the equation a nomogram solves
type OperationType int

const (
	Addition OperationType = iota
	Multiplication
	SecondDegree
)

// String returns the operation name
func (o OperationType) String() string {
	switch o {
	case Addition:
		return "addition"
	case Multiplication:
		return "multiplication"
	case SecondDegree:
		return "second-degree"
	default:
		return fmt.Sprintf("OperationType(%d)", int(o))
	}
}

// ParseOperationType accepts the names returned by String
func ParseOperationType(s string) (OperationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "addition", "add":
		return Addition, nil
	case "multiplication", "mul":
		return Multiplication, nil
	case "second-degree", "seconddegree", "quadratic":
		return SecondDegree, nil
	}
	return 0, fmt.Errorf("%w: unknown operation %q", ErrInvalidDefinition, s)
}

// Kind tells bundled nomograms from user supplied ones
type Kind int

const (
	Premade Kind = iota
	Custom
)

// String returns the kind name
func (k Kind) String() string {
	if k == Custom {
		return "custom"
	}
	return "premade"
}

// Range is the value interval of a scale, from Start to End
type Range struct {
	Start float64
	End   float64
}

// Initializer describes one variable of a definition.
// The output range is derived and may be nil.
type Initializer struct {
	Name     string
	Unit     string
	Factor   float64
	Exponent float64
	Range    *Range
}

// Definition is everything needed to build a nomogram
type Definition struct {
	ID    string
	Kind  Kind
	Name  string
	Label string // overrides the generated equation label when set

	Op       OperationType
	Input1   Initializer
	Input2   Initializer
	Output   Initializer
	Constant float64 // added term for addition, factor for multiplication
}

// Errors returned by nomogram operations
var (
	ErrInvalidDefinition    = errors.New("nomogram: invalid definition")
	ErrNotInitialized       = errors.New("nomogram: scales not initialized")
	ErrUnknownScale         = errors.New("nomogram: scale does not belong to this nomogram")
	ErrOutOfBounds          = errors.New("nomogram: value out of bounds")
	ErrFixed                = errors.New("nomogram: scale is fixed")
	ErrCompanionOutOfBounds = errors.New("nomogram: dependent value out of bounds")
	ErrInvalidRange         = errors.New("nomogram: invalid range")
	ErrDegenerate           = errors.New("nomogram: degenerate construction")
)

// Validate checks that a definition can be constructed
func (d Definition) Validate() error {
	for _, in := range []struct {
		init *Initializer
		role string
	}{{&d.Input1, "input1"}, {&d.Input2, "input2"}} {
		if in.init.Range == nil {
			return fmt.Errorf("%w: %s has no range", ErrInvalidDefinition, in.role)
		}
		if in.init.Range.Start == in.init.Range.End {
			return fmt.Errorf("%w: %s range is empty", ErrInvalidDefinition, in.role)
		}
		if in.init.Factor == 0 || in.init.Exponent == 0 {
			return fmt.Errorf("%w: %s factor and exponent must be non zero", ErrInvalidDefinition, in.role)
		}
		if d.Op == Multiplication && (in.init.Range.Start <= 0 || in.init.Range.End <= 0) {
			return fmt.Errorf("%w: %s range must be positive for a multiplication", ErrInvalidDefinition, in.role)
		}
	}
	if d.Output.Factor == 0 || d.Output.Exponent == 0 {
		return fmt.Errorf("%w: output factor and exponent must be non zero", ErrInvalidDefinition)
	}

	switch d.Op {
	case Addition:
	case Multiplication:
		if d.Constant <= 0 {
			return fmt.Errorf("%w: multiplication constant must be positive", ErrInvalidDefinition)
		}
		if d.Input1.Factor < 0 || d.Input2.Factor < 0 || d.Output.Factor < 0 {
			return fmt.Errorf("%w: multiplication factors must be positive", ErrInvalidDefinition)
		}
	case SecondDegree:
		c, b := d.Input1.Range, d.Input2.Range
		if c.Start != 0 || b.Start != 0 {
			return fmt.Errorf("%w: second degree ranges start at 0", ErrInvalidDefinition)
		}
		if c.End >= 0 || b.End != -c.End {
			return fmt.Errorf("%w: second degree needs C end < 0 and B end = -C end", ErrInvalidDefinition)
		}
		if b.End > MaxSecondDegreeEnd {
			return fmt.Errorf("%w: second degree ends are limited to %v", ErrInvalidDefinition, MaxSecondDegreeEnd)
		}
	default:
		return fmt.Errorf("%w: unknown operation %d", ErrInvalidDefinition, int(d.Op))
	}
	return nil
}

// clone copies the definition so range edits never reach the caller's copy
func (d Definition) clone() Definition {
	for _, init := range []*Initializer{&d.Input1, &d.Input2, &d.Output} {
		if init.Range != nil {
			r := *init.Range
			init.Range = &r
		}
	}
	return d
}

// Notifier receives the redraw requests of a nomogram
type Notifier interface {
	// BuildView is called after the scales were rebuilt from scratch
	BuildView(n *Nomogram)
	ReloadTopView()
	ReloadBottomView()
}

// NopNotifier ignores every notification
type NopNotifier struct{}

func (NopNotifier) BuildView(*Nomogram) {}
func (NopNotifier) ReloadTopView()      {}
func (NopNotifier) ReloadBottomView()   {}

// Option configures a Nomogram
type Option func(*Nomogram)

// WithLogger sets the log entry used by the nomogram and its scales
func WithLogger(log *logrus.Entry) Option {
	return func(n *Nomogram) {
		if log != nil {
			n.log = log
		}
	}
}

// WithNotifier sets the receiver of redraw requests
func WithNotifier(notifier Notifier) Option {
	return func(n *Nomogram) {
		if notifier != nil {
			n.notifier = notifier
		}
	}
}

// WithMeasurer sets the text measurer used to lay out graduation labels
func WithMeasurer(m scale.TextMeasurer) Option {
	return func(n *Nomogram) { n.measurer = m }
}

// WithZoomedScreen sets the detail view surface size
func WithZoomedScreen(size geom.Size) Option {
	return func(n *Nomogram) { n.zoomed = size }
}

// WithCurveFit tunes the Bézier fit of second degree nomograms
func WithCurveFit(slope scale.SlopeMode, maxIterations int) Option {
	return func(n *Nomogram) {
		n.slope = slope
		n.maxIterations = maxIterations
	}
}

// Nomogram holds the three scales of one definition and the index line
// joining the current values
type Nomogram struct {
	Definition

	IndexLine IndexLine

	scales   []scale.Scale
	screen   geom.Size
	zoomed   geom.Size
	notifier Notifier
	measurer scale.TextMeasurer
	log      *logrus.Entry

	slope         scale.SlopeMode
	maxIterations int
}

// New returns a nomogram for def. Call Init before using it.
func New(def Definition, opts ...Option) (*Nomogram, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("nomogram %q: %w", def.Name, err)
	}
	n := &Nomogram{
		Definition:    def.clone(),
		notifier:      NopNotifier{},
		log:           scale.Discard(),
		maxIterations: scale.MaxFitIterations,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.WithField("nomogram", def.Name)
	return n, nil
}

// Init builds the scales for a top view surface of the given size and
// places the index line
func (n *Nomogram) Init(screen geom.Size) error {
	if screen.IsZero() {
		return fmt.Errorf("%w: empty screen %vx%v", ErrInvalidDefinition, screen.Width, screen.Height)
	}
	n.screen = screen

	var (
		scales []scale.Scale
		err    error
	)
	switch n.Op {
	case Addition:
		scales, err = n.addition(n.Input1, n.Input2, n.Output, n.Constant)
	case Multiplication:
		scales, err = n.multiplication()
	case SecondDegree:
		scales, err = n.secondDegree()
	}
	if err != nil {
		return fmt.Errorf("nomogram %q: %w", n.Name, err)
	}
	n.scales = scales
	n.UpdateIndexLine()

	n.log.WithFields(logrus.Fields{
		"op":     n.Op,
		"width":  screen.Width,
		"height": screen.Height,
	}).Debug("scales built")
	return nil
}

// Screen returns the top view size given to Init
func (n *Nomogram) Screen() geom.Size {
	return n.screen
}

// SetZoomedScreen records the detail view size on every scale
func (n *Nomogram) SetZoomedScreen(size geom.Size) {
	n.zoomed = size
	for _, s := range n.scales {
		s.Core().SetScreen(scale.ZoomedView, size)
		if c, ok := s.(*scale.Curved); ok {
			c.C.SetScreen(scale.ZoomedView, size)
			c.B.SetScreen(scale.ZoomedView, size)
		}
	}
}

// Scales returns the scales ordered left to right
func (n *Nomogram) Scales() []scale.Scale {
	return n.scales
}

// Scale returns the scale playing the given role in the equation
func (n *Nomogram) Scale(eq scale.Equation) (scale.Scale, bool) {
	for _, s := range n.scales {
		if s.Core().Equation == eq {
			return s, true
		}
	}
	return nil, false
}

// ScaleByName returns the scale whose variable is called name
func (n *Nomogram) ScaleByName(name string) (scale.Scale, bool) {
	for _, s := range n.scales {
		if s.Core().Name == name {
			return s, true
		}
	}
	return nil, false
}

func (n *Nomogram) owns(s scale.Scale) bool {
	for _, o := range n.scales {
		if o == s {
			return true
		}
	}
	return false
}

func (n *Nomogram) value(eq scale.Equation) *scale.Base {
	s, ok := n.Scale(eq)
	if !ok {
		return nil
	}
	return s.Core()
}

// Fix fixes s and releases the two other scales
func (n *Nomogram) Fix(s scale.Scale) error {
	if !n.owns(s) {
		return ErrUnknownScale
	}
	for _, o := range n.scales {
		o.Core().Fixed = o == s
	}
	n.log.WithField("scale", s.Core().Name).Debug("scale fixed")
	n.notifier.ReloadTopView()
	n.notifier.ReloadBottomView()
	return nil
}

// UpdateIndexLine joins the values of the outer scales.
// Second degree nomograms join C and B, on either side of the curve.
func (n *Nomogram) UpdateIndexLine() {
	if n.Op == SecondDegree {
		if p, ok := n.scalePoint(scale.Input1); ok {
			n.IndexLine.Start = p
		}
		if p, ok := n.scalePoint(scale.Input2); ok {
			n.IndexLine.End = p
		}
		return
	}
	for _, s := range n.scales {
		p, ok := s.PointAt(s.Core().Value, scale.TopView)
		if !ok {
			continue
		}
		switch s.Core().Index {
		case 0:
			n.IndexLine.Start = p
		case 2:
			n.IndexLine.End = p
		}
	}
}

func (n *Nomogram) scalePoint(eq scale.Equation) (geom.Point, bool) {
	s, ok := n.Scale(eq)
	if !ok {
		return geom.Point{}, false
	}
	return s.PointAt(s.Core().Value, scale.TopView)
}
