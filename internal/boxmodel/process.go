package boxmodel

// Flux computes a rate from the current values of its argument cells.
type Flux interface {
	Eval(args []float64) (float64, error)
}

// FluxFunc adapts a plain function to Flux.
type FluxFunc func(args ...float64) float64

func (f FluxFunc) Eval(args []float64) (float64, error) { return f(args...), nil }

// Sign selects the direction a process contributes to its target.
type Sign string

const (
	Plus     Sign = "+"
	Minus    Sign = "-"
	MinusStr Sign = "minus"
	Negative Sign = "negative"
)

// IsNegative reports whether s denotes an outgoing flux. Unrecognized tokens
// count as positive.
func (s Sign) IsNegative() bool {
	switch s {
	case Minus, MinusStr, Negative:
		return true
	}
	return false
}

// Process is a flux rule bound to one box attribute.
type Process struct {
	label  string
	target string
	flux   Flux
	args   []Cell
	sign   Sign
}

func (p *Process) Label() string  { return p.label }
func (p *Process) Target() string { return p.target }
func (p *Process) Sign() Sign     { return p.sign }

// Args returns the argument cells. They are the shared cells themselves.
func (p *Process) Args() []Cell {
	args := make([]Cell, len(p.args))
	copy(args, p.args)
	return args
}

// Eval evaluates the flux on the current argument values with the sign applied.
func (p *Process) Eval() (float64, error) {
	vals := make([]float64, len(p.args))
	for i, c := range p.args {
		vals[i] = c.Get()
	}
	d, err := p.flux.Eval(vals)
	if err != nil {
		return 0, err
	}
	if p.sign.IsNegative() {
		d = -d
	}
	return d, nil
}
