package flux

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

// Factory builds a flux from its parameters.
type Factory func(params map[string]float64) (boxmodel.Flux, error)

// Builtin describes a registered flux for listings.
type Builtin struct {
	Name   string
	Arity  int
	Params []string
	Doc    string
}

type entry struct {
	info    Builtin
	factory Factory
}

// Library maps flux names to factories.
type Library struct {
	fluxes map[string]entry
}

// NewLibrary returns a library holding the built-in rate laws.
func NewLibrary() *Library {
	l := &Library{fluxes: make(map[string]entry)}

	l.mustRegister(Builtin{"constant", 0, []string{"rate"}, "rate"}, func(p map[string]float64) (boxmodel.Flux, error) {
		rate := p["rate"]
		return boxmodel.FluxFunc(func(...float64) float64 { return rate }), nil
	})
	l.mustRegister(Builtin{"linear", 1, []string{"k"}, "k * x"}, func(p map[string]float64) (boxmodel.Flux, error) {
		k := p["k"]
		return arity(1, func(a []float64) float64 { return k * a[0] }), nil
	})
	l.mustRegister(Builtin{"product", -1, []string{"k"}, "k * x1 * x2 * ..."}, func(p map[string]float64) (boxmodel.Flux, error) {
		k := p["k"]
		return boxmodel.FluxFunc(func(args ...float64) float64 {
			v := k
			for _, a := range args {
				v *= a
			}
			return v
		}), nil
	})
	l.mustRegister(Builtin{"ratio", 2, []string{"k"}, "k * x / y"}, func(p map[string]float64) (boxmodel.Flux, error) {
		k := p["k"]
		return arity(2, func(a []float64) float64 { return k * a[0] / a[1] }), nil
	})
	l.mustRegister(Builtin{"exchange", 2, []string{"k"}, "k * (x - y)"}, func(p map[string]float64) (boxmodel.Flux, error) {
		k := p["k"]
		return arity(2, func(a []float64) float64 { return k * (a[0] - a[1]) }), nil
	})
	l.mustRegister(Builtin{"logistic", 1, []string{"r", "capacity"}, "r * x * (1 - x / capacity)"}, func(p map[string]float64) (boxmodel.Flux, error) {
		r, capacity := p["r"], p["capacity"]
		if capacity == 0 {
			return nil, fmt.Errorf("logistic: capacity must be non-zero")
		}
		return arity(1, func(a []float64) float64 { return r * a[0] * (1 - a[0]/capacity) }), nil
	})
	l.mustRegister(Builtin{"michaelis_menten", 1, []string{"vmax", "km"}, "vmax * x / (km + x)"}, func(p map[string]float64) (boxmodel.Flux, error) {
		vmax, km := p["vmax"], p["km"]
		return arity(1, func(a []float64) float64 { return vmax * a[0] / (km + a[0]) }), nil
	})
	l.mustRegister(Builtin{"power", 1, []string{"k", "n"}, "k * x^n"}, func(p map[string]float64) (boxmodel.Flux, error) {
		k, n := p["k"], p["n"]
		return arity(1, func(a []float64) float64 { return k * math.Pow(a[0], n) }), nil
	})

	return l
}

// Register adds a named flux. Names are unique.
func (l *Library) Register(info Builtin, f Factory) error {
	if _, ok := l.fluxes[info.Name]; ok {
		return fmt.Errorf("flux %q already registered", info.Name)
	}
	l.fluxes[info.Name] = entry{info: info, factory: f}
	return nil
}

func (l *Library) mustRegister(info Builtin, f Factory) {
	if err := l.Register(info, f); err != nil {
		panic(err)
	}
}

// Get builds the flux registered under name.
func (l *Library) Get(name string, params map[string]float64) (boxmodel.Flux, error) {
	e, ok := l.fluxes[name]
	if !ok {
		return nil, fmt.Errorf("unknown flux: %s", name)
	}
	for k := range params {
		if !contains(e.info.Params, k) {
			return nil, fmt.Errorf("flux %s: unknown parameter %q (accepts %v)", name, k, e.info.Params)
		}
	}
	return e.factory(params)
}

// Arity reports how many arguments a named flux takes, -1 for any.
func (l *Library) Arity(name string) (int, bool) {
	e, ok := l.fluxes[name]
	return e.info.Arity, ok
}

// List returns the registered fluxes sorted by name.
func (l *Library) List() []Builtin {
	out := make([]Builtin, 0, len(l.fluxes))
	for _, e := range l.fluxes {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// arityFlux rejects calls with the wrong number of arguments.
type arityFlux struct {
	n  int
	fn func([]float64) float64
}

func arity(n int, fn func([]float64) float64) boxmodel.Flux {
	return &arityFlux{n: n, fn: fn}
}

func (f *arityFlux) Eval(args []float64) (float64, error) {
	if len(args) != f.n {
		return 0, fmt.Errorf("expected %d arguments, got %d", f.n, len(args))
	}
	return f.fn(args), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
