package boxmodel

// Observer is notified once per step with the pre-step state.
type Observer interface {
	OnStep(step int, t float64, reg *Registry)
}

// Metric summarizes a run from the pre-step state of every step plus the
// final state.
type Metric interface {
	Name() string
	Observe(step int, t float64, reg *Registry)
	Value() float64
	Reset()
}

// RunObserver is implemented by observers that want run boundaries too.
type RunObserver interface {
	Observer
	OnRunStart(m *Model)
	OnRunEnd(m *Model, err error)
}
