package ui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OpenTraceLab/nomograph/internal/config"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/sirupsen/logrus"
)

// Bound selects the end of a range edited by the user
type Bound int

const (
	Lower Bound = iota
	Upper
)

// StateSnapshot captures a copy of the state data for rendering without
// requiring the UI to hold locks while laying out widgets.
type StateSnapshot struct {
	Name     string
	Equation string
	Status   string

	LastError error
	Logs      []string

	Builds      int
	TopReloads  int
	ZoomReloads int

	LastUpdated time.Time
}

// State tracks the nomogram shown by the viewer. Nomogram edits run on the
// Gio event loop; logs and status may be written from any goroutine.
type State struct {
	mu sync.RWMutex

	conf *config.Config
	log  *logrus.Entry

	def      nomogram.Definition
	n        *nomogram.Nomogram
	measurer scale.TextMeasurer
	selected scale.Equation
	rebuilt  bool

	lastError error
	status    string

	builds      int
	topReloads  int
	zoomReloads int

	logs     []string
	logLimit int

	invalidate  func()
	lastUpdated time.Time
}

// NewState returns a state without nomogram. conf may be nil for the
// built in defaults.
func NewState(conf *config.Config, log *logrus.Entry) *State {
	if conf == nil {
		c := config.Default()
		conf = &c
	}
	if log == nil {
		log = scale.Discard()
	}
	return &State{
		conf:        conf,
		log:         log,
		selected:    scale.Input1,
		logLimit:    200,
		status:      "Idle",
		invalidate:  func() {},
		lastUpdated: time.Now(),
	}
}

// SetMeasurer sets the text measurer handed to the nomograms built next
func (s *State) SetMeasurer(m scale.TextMeasurer) {
	s.measurer = m
}

// SetInvalidateCallback registers the function asking for a new frame
func (s *State) SetInvalidateCallback(f func()) {
	if f == nil {
		f = func() {}
	}
	s.invalidate = f
}

// Load builds def and makes it the current nomogram. The previous
// nomogram is kept when def cannot be built.
func (s *State) Load(def nomogram.Definition) error {
	opts := []nomogram.Option{
		nomogram.WithLogger(s.log),
		nomogram.WithNotifier(s),
		nomogram.WithCurveFit(s.conf.SlopeMode(), s.conf.Curve.MaxIterations),
		nomogram.WithZoomedScreen(s.conf.Zoomed.Geom()),
	}
	if s.measurer != nil {
		opts = append(opts, nomogram.WithMeasurer(s.measurer))
	}
	n, err := nomogram.New(def, opts...)
	if err == nil {
		err = n.Init(s.conf.Screen.Geom())
	}
	if err != nil {
		s.setError(err)
		return err
	}

	s.def = def
	s.n = n
	s.selected = scale.Input1
	s.BuildView(n)
	s.setStatus(fmt.Sprintf("Loaded %s", def.Name))
	return nil
}

// Reset rebuilds the current definition, restoring the initial layout
func (s *State) Reset() error {
	if s.n == nil {
		return nomogram.ErrNotInitialized
	}
	return s.Load(s.def)
}

// Nomogram returns the current nomogram, nil before the first Load
func (s *State) Nomogram() *nomogram.Nomogram {
	return s.n
}

// Definition returns the definition of the current nomogram
func (s *State) Definition() nomogram.Definition {
	return s.def
}

// Selected returns the scale shown by the detail view
func (s *State) Selected() (scale.Scale, bool) {
	if s.n == nil {
		return nil, false
	}
	return s.n.Scale(s.selected)
}

// Select shows the scale playing eq in the detail view
func (s *State) Select(eq scale.Equation) {
	if s.selected == eq {
		return
	}
	s.selected = eq
	s.rebuilt = true
	s.invalidate()
}

// TakeRebuilt reports whether the scales were replaced since the last call,
// in which case gesture controllers must be recreated
func (s *State) TakeRebuilt() bool {
	r := s.rebuilt
	s.rebuilt = false
	return r
}

func (s *State) scale(eq scale.Equation) (scale.Scale, error) {
	if s.n == nil {
		return nil, nomogram.ErrNotInitialized
	}
	sc, ok := s.n.Scale(eq)
	if !ok {
		return nil, nomogram.ErrUnknownScale
	}
	return sc, nil
}

// Fix fixes the scale playing eq
func (s *State) Fix(eq scale.Equation) error {
	sc, err := s.scale(eq)
	if err != nil {
		return err
	}
	if err := s.n.Fix(sc); err != nil {
		s.setError(err)
		return err
	}
	s.setStatus(fmt.Sprintf("%s fixed", sc.Core().Name))
	return nil
}

// ValueText returns the value of the scale playing eq as shown in the
// value editor, rounded to the precision of the overview zoom
func (s *State) ValueText(eq scale.Equation) string {
	sc, err := s.scale(eq)
	if err != nil {
		return ""
	}
	return scale.FormatValue(sc.Core().DisplayedValue(scale.TopView))
}

// BoundText returns the start or the end of the scale playing eq
func (s *State) BoundText(eq scale.Equation, b Bound) string {
	sc, err := s.scale(eq)
	if err != nil {
		return ""
	}
	if b == Lower {
		return scale.FormatValue(sc.Core().StartValue)
	}
	return scale.FormatValue(sc.Core().EndValue)
}

func parseNumber(text string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text, ",", ".")), 64)
}

// EditValue applies a value typed by the user. It returns the text the
// editor shows afterwards: the new value, or the previous one when the
// text is not a number or the edit is rejected.
func (s *State) EditValue(eq scale.Equation, text string) (string, error) {
	sc, err := s.scale(eq)
	if err != nil {
		return text, err
	}
	v, err := parseNumber(text)
	if err == nil {
		err = s.n.UpdateVariableValue(sc, v)
	}
	if err != nil {
		s.setError(fmt.Errorf("%s: %w", sc.Core().Name, err))
		return s.ValueText(eq), err
	}
	s.setStatus(fmt.Sprintf("%s = %s", sc.Core().Name, s.ValueText(eq)))
	return s.ValueText(eq), nil
}

// EditRange applies a range bound typed by the user and returns the text
// the bound editor shows afterwards, like EditValue
func (s *State) EditRange(eq scale.Equation, b Bound, text string) (string, error) {
	sc, err := s.scale(eq)
	if err != nil {
		return text, err
	}
	v, err := parseNumber(text)
	if err == nil {
		if b == Lower {
			err = s.n.UpdateRange(sc, &v, nil)
		} else {
			err = s.n.UpdateRange(sc, nil, &v)
		}
	}
	if err != nil {
		s.setError(fmt.Errorf("%s: %w", sc.Core().Name, err))
		return s.BoundText(eq, b), err
	}
	s.setStatus(fmt.Sprintf("%s range [%s, %s]", sc.Core().Name, s.BoundText(eq, Lower), s.BoundText(eq, Upper)))
	return s.BoundText(eq, b), nil
}

// BuildView is called when the scales have been replaced
func (s *State) BuildView(n *nomogram.Nomogram) {
	s.mu.Lock()
	s.builds++
	s.lastUpdated = time.Now()
	s.mu.Unlock()
	s.n = n
	s.rebuilt = true
	s.invalidate()
}

// ReloadTopView is called when the overview must be redrawn
func (s *State) ReloadTopView() {
	s.mu.Lock()
	s.topReloads++
	s.lastUpdated = time.Now()
	s.mu.Unlock()
	s.invalidate()
}

// ReloadBottomView is called when the detail view and the editors must be
// refreshed
func (s *State) ReloadBottomView() {
	s.mu.Lock()
	s.zoomReloads++
	s.lastUpdated = time.Now()
	s.mu.Unlock()
	s.invalidate()
}

func (s *State) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.lastError = nil
	s.mu.Unlock()
	s.log.Debug(status)
}

func (s *State) setError(err error) {
	s.mu.Lock()
	s.lastError = err
	s.status = err.Error()
	s.mu.Unlock()
	s.log.WithError(err).Warn("edit rejected")
}

// Levels makes State a logrus hook collecting messages for the log pane
func (s *State) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

// Fire appends a log entry to the log pane
func (s *State) Fire(e *logrus.Entry) error {
	line := fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), strings.ToUpper(e.Level.String()[:4]), e.Message)
	if err, ok := e.Data[logrus.ErrorKey].(error); ok {
		line += ": " + err.Error()
	}
	s.mu.Lock()
	s.logs = append(s.logs, line)
	if over := len(s.logs) - s.logLimit; over > 0 {
		s.logs = s.logs[over:]
	}
	s.mu.Unlock()
	s.invalidate()
	return nil
}

// Snapshot returns a copy of the mutable state for rendering.
func (s *State) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logCopy := make([]string, len(s.logs))
	copy(logCopy, s.logs)

	snap := StateSnapshot{
		Status:      s.status,
		LastError:   s.lastError,
		Logs:        logCopy,
		Builds:      s.builds,
		TopReloads:  s.topReloads,
		ZoomReloads: s.zoomReloads,
		LastUpdated: s.lastUpdated,
	}
	if s.n != nil {
		snap.Name = s.def.Name
		snap.Equation = nomogram.EquationLabel(s.def)
	}
	return snap
}
