package boxmodel

import (
	"fmt"
	"strings"
)

// Attribute is an initial attribute value for a box.
type Attribute struct {
	Name  string
	Value float64
}

// Attr is shorthand for building an Attribute.
func Attr(name string, v float64) Attribute { return Attribute{Name: name, Value: v} }

// Box is a compartment. It owns one cell per attribute; the attribute set is
// fixed at construction.
type Box struct {
	label     string
	keys      []string
	attrs     map[string]*Float
	local     *Registry
	processes []*Process
	byLabel   map[string]*Process
	delta     *Delta
}

// NewBox creates a box with the given attributes, in order.
func NewBox(label string, attrs ...Attribute) (*Box, error) {
	b := &Box{
		label:     label,
		keys:      make([]string, 0, len(attrs)),
		attrs:     make(map[string]*Float, len(attrs)),
		local:     NewRegistry(),
		processes: make([]*Process, 0),
		byLabel:   make(map[string]*Process),
	}
	for _, a := range attrs {
		c := NewFloat(a.Value)
		if err := b.local.Register(a.Name, c); err != nil {
			return nil, fmt.Errorf("box %q: %w", label, err)
		}
		b.keys = append(b.keys, a.Name)
		b.attrs[a.Name] = c
	}
	return b, nil
}

func (b *Box) Label() string { return b.label }

// Keys returns the attribute names in construction order.
func (b *Box) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

func (b *Box) String() string {
	return fmt.Sprintf("Box[%s]", strings.Join(b.keys, ","))
}

func (b *Box) attr(name string) (*Float, error) {
	c, ok := b.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in box %q", ErrUnknownAttribute, name, b.label)
	}
	return c, nil
}

func (b *Box) Get(name string) (float64, error) {
	c, err := b.attr(name)
	if err != nil {
		return 0, err
	}
	return c.Get(), nil
}

func (b *Box) Set(name string, v float64) error {
	c, err := b.attr(name)
	if err != nil {
		return err
	}
	c.Set(v)
	return nil
}

func (b *Box) Add(name string, v float64) error {
	c, err := b.attr(name)
	if err != nil {
		return err
	}
	c.Add(v)
	return nil
}

func (b *Box) Sub(name string, v float64) error {
	return b.Add(name, -v)
}

// Ref returns the attribute cell itself, for use as a process argument.
func (b *Box) Ref(name string) (Cell, error) {
	c, err := b.local.Ref(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in box %q", ErrUnknownAttribute, name, b.label)
	}
	return c, nil
}

// AddProcess registers a flux on target. Processes may share a target and
// arguments; only labels must be unique.
func (b *Box) AddProcess(label, target string, flux Flux, args []Cell, sign Sign) error {
	if _, ok := b.byLabel[label]; ok {
		return fmt.Errorf("%w: %q in box %q", ErrDuplicateProcessLabel, label, b.label)
	}
	if _, err := b.attr(target); err != nil {
		return err
	}
	if sign == "" {
		sign = Plus
	}
	p := &Process{
		label:  label,
		target: target,
		flux:   flux,
		args:   append([]Cell(nil), args...),
		sign:   sign,
	}
	b.processes = append(b.processes, p)
	b.byLabel[label] = p
	return nil
}

// ListProcesses returns the process labels in registration order.
func (b *Box) ListProcesses() []string {
	labels := make([]string, len(b.processes))
	for i, p := range b.processes {
		labels[i] = p.label
	}
	return labels
}

func (b *Box) Process(label string) (*Process, bool) {
	p, ok := b.byLabel[label]
	return p, ok
}

// Delta returns the delta of the last step, nil before the first one.
func (b *Box) Delta() *Delta { return b.delta }

// ResetDeltas replaces the delta with a zero one scaled by stepLength.
func (b *Box) ResetDeltas(stepLength float64) {
	b.delta = NewDelta(b, stepLength)
}

// RunProcesses evaluates every process against the current attribute values
// and accumulates the results into the delta. Attributes are not touched, so
// no process observes another's effect within a step.
func (b *Box) RunProcesses() error {
	if b.delta == nil {
		b.ResetDeltas(1)
	}
	for _, p := range b.processes {
		d, err := p.Eval()
		if err != nil {
			return &StepError{Box: b.label, Process: p.label, Wrapped: err}
		}
		if err := b.delta.Add(p.target, d); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDelta adds delta * step length to every attribute.
func (b *Box) ApplyDelta() {
	if b.delta == nil {
		return
	}
	for _, k := range b.keys {
		b.attrs[k].Add(b.delta.GetDelta(k))
	}
}

// DoStep advances the box by one explicit Euler step.
func (b *Box) DoStep(stepLength float64) error {
	b.ResetDeltas(stepLength)
	if err := b.RunProcesses(); err != nil {
		return err
	}
	b.ApplyDelta()
	return nil
}
