package boxmodel

import (
	"context"
	"errors"
	"fmt"
)

// Registry keys owned by the driver.
const (
	KeyStep = "step"
	KeyTime = "time"
)

// Option configures a Model.
type Option func(*Model)

// WithStepPair sets the total step count and the step length together.
func WithStepPair(steps int, stepLength float64) Option {
	return func(m *Model) {
		m.totalSteps = steps
		m.stepLength = stepLength
	}
}

func WithSteps(steps int) Option {
	return func(m *Model) { m.totalSteps = steps }
}

func WithStepLength(stepLength float64) Option {
	return func(m *Model) { m.stepLength = stepLength }
}

// Model drives a set of boxes through explicit Euler steps and records the
// registry after every step.
type Model struct {
	stepLength float64
	totalSteps int
	step       *Int
	time       *Float
	boxes      []*Box
	boxIndex   map[string]*Box
	registry   *Registry
	history    *History
	observers  []Observer
	metrics    []Metric
}

// New creates an unstepped model with "step" and "time" registered.
func New(opts ...Option) *Model {
	m := &Model{
		step:      NewInt(0),
		time:      NewFloat(0.0),
		boxes:     make([]*Box, 0),
		boxIndex:  make(map[string]*Box),
		registry:  NewRegistry(),
		observers: make([]Observer, 0),
		metrics:   make([]Metric, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	// fresh registry and fresh cells: cannot fail
	_ = m.registry.Register(KeyStep, m.step)
	_ = m.registry.Register(KeyTime, m.time)
	return m
}

func (m *Model) AddObserver(o Observer) { m.observers = append(m.observers, o) }
func (m *Model) AddMetric(mt Metric)    { m.metrics = append(m.metrics, mt) }

func (m *Model) StepLength() float64 { return m.stepLength }
func (m *Model) TotalSteps() int     { return m.totalSteps }
func (m *Model) Step() int           { return int(m.step.Value()) }
func (m *Model) Time() float64       { return m.time.Get() }
func (m *Model) Registry() *Registry { return m.registry }
func (m *Model) History() *History   { return m.history }
func (m *Model) Running() bool       { return m.history != nil }

// AddBox creates a box and registers each of its attribute cells globally
// as "{label}_{attribute}". The registry holds the box's own cells.
func (m *Model) AddBox(label string, attrs ...Attribute) (*Box, error) {
	if m.Running() {
		return nil, fmt.Errorf("%w: cannot add box %q", ErrAlreadyRunning, label)
	}
	if _, ok := m.boxIndex[label]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateBoxLabel, label)
	}
	b, err := NewBox(label, attrs...)
	if err != nil {
		return nil, err
	}
	for _, k := range b.keys {
		if m.registry.Has(GlobalKey(label, k)) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, GlobalKey(label, k))
		}
	}
	for _, k := range b.keys {
		if err := m.registry.Register(GlobalKey(label, k), b.attrs[k]); err != nil {
			return nil, err
		}
	}
	m.boxes = append(m.boxes, b)
	m.boxIndex[label] = b
	return b, nil
}

// GlobalKey is the registry name of a box attribute.
func GlobalKey(box, attr string) string {
	return box + "_" + attr
}

func (m *Model) Box(label string) (*Box, error) {
	b, ok := m.boxIndex[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBox, label)
	}
	return b, nil
}

// Boxes returns the boxes in the order they were added.
func (m *Model) Boxes() []*Box {
	boxes := make([]*Box, len(m.boxes))
	copy(boxes, m.boxes)
	return boxes
}

// AddProcess registers a process on the box labelled box.
func (m *Model) AddProcess(box, label, target string, flux Flux, args []Cell, sign Sign) error {
	b, err := m.Box(box)
	if err != nil {
		return err
	}
	return b.AddProcess(label, target, flux, args, sign)
}

// Ref returns the registry cell for name.
func (m *Model) Ref(name string) (Cell, error) { return m.registry.Ref(name) }

// Refs resolves several registry names at once, in order.
func (m *Model) Refs(names ...string) ([]Cell, error) {
	cells := make([]Cell, len(names))
	for i, n := range names {
		c, err := m.registry.Ref(n)
		if err != nil {
			return nil, err
		}
		cells[i] = c
	}
	return cells, nil
}

func (m *Model) Get(name string) (float64, error) { return m.registry.Get(name) }
func (m *Model) Set(name string, v float64) error { return m.registry.Set(name, v) }

// CheckSetup reports whether the model can be run: a positive step length,
// a positive total step count and at least one box.
func (m *Model) CheckSetup() error {
	switch {
	case m.stepLength <= 0:
		return fmt.Errorf("%w: step length must be positive, got %g", ErrNotConfigured, m.stepLength)
	case m.totalSteps <= 0:
		return fmt.Errorf("%w: total steps must be positive, got %d", ErrNotConfigured, m.totalSteps)
	case len(m.boxes) < 1:
		return fmt.Errorf("%w: no boxes", ErrNotConfigured)
	}
	return nil
}

// record appends the current state unless this step is already recorded.
func (m *Model) record() {
	if m.history == nil {
		m.history = newHistory(m.registry.Keys(), m.totalSteps+1)
	}
	if m.history.Len() == m.Step() {
		m.history.record(m.registry)
	}
}

// DoStep records the current state, then advances every box once, in the
// order they were added. Metrics are reset before the first step only, so
// they cover the same states as the history.
func (m *Model) DoStep() error {
	if !m.Running() {
		for _, mt := range m.metrics {
			mt.Reset()
		}
	}
	m.record()

	step, t := m.Step(), m.Time()
	for _, o := range m.observers {
		o.OnStep(step, t, m.registry)
	}
	for _, mt := range m.metrics {
		mt.Observe(step, t, m.registry)
	}

	for _, b := range m.boxes {
		if err := b.DoStep(m.stepLength); err != nil {
			var se *StepError
			if errors.As(err, &se) {
				se.Step, se.Time = step, t
			}
			return err
		}
	}

	m.step.Inc()
	// recomputed, not accumulated, so time does not drift
	m.time.Set(float64(m.Step()) * m.stepLength)
	return nil
}

// Run steps until the total step count is reached and returns the history,
// which then holds TotalSteps()+1 entries per series.
func (m *Model) Run(ctx context.Context) (*History, error) {
	for _, o := range m.observers {
		if ro, ok := o.(RunObserver); ok {
			ro.OnRunStart(m)
		}
	}

	err := m.run(ctx)

	for _, o := range m.observers {
		if ro, ok := o.(RunObserver); ok {
			ro.OnRunEnd(m, err)
		}
	}
	return m.history, err
}

func (m *Model) run(ctx context.Context) error {
	for m.Step() < m.totalSteps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := m.DoStep(); err != nil {
			return err
		}
	}

	m.Finish()
	return nil
}

// Finish records the current state as the last history entry, letting
// metrics observe it. Calling it again at the same step is a no-op.
func (m *Model) Finish() {
	final := m.history == nil || m.history.Len() == m.Step()
	m.record()
	if final {
		for _, mt := range m.metrics {
			mt.Observe(m.Step(), m.Time(), m.registry)
		}
	}
}

// Metrics returns the current value of every metric by name.
func (m *Model) Metrics() map[string]float64 {
	out := make(map[string]float64, len(m.metrics))
	for _, mt := range m.metrics {
		out[mt.Name()] = mt.Value()
	}
	return out
}
