package config

import (
	"fmt"

	"github.com/san-kum/boxsim/internal/boxmodel"
	"github.com/san-kum/boxsim/internal/flux"
)

// Build assembles a model from its file description. Boxes are added
// in file order, then processes. Process args name registry keys.
func Build(mf *ModelFile, lib *flux.Library) (*boxmodel.Model, error) {
	m := boxmodel.New(boxmodel.WithStepPair(mf.Steps, mf.StepLength))

	for _, b := range mf.Boxes {
		if _, err := m.AddBox(b.Label, b.Attrs...); err != nil {
			return nil, fmt.Errorf("box %q: %w", b.Label, err)
		}
	}

	for i, p := range mf.Processes {
		label := p.Label
		if label == "" {
			label = fmt.Sprintf("process_%d", i)
		}
		f, err := buildFlux(p, lib)
		if err != nil {
			return nil, fmt.Errorf("process %s/%s: %w", p.Box, label, err)
		}
		args, err := m.Refs(p.Args...)
		if err != nil {
			return nil, fmt.Errorf("process %s/%s: %w", p.Box, label, err)
		}
		if err := m.AddProcess(p.Box, label, p.Target, f, args, boxmodel.Sign(p.Sign)); err != nil {
			return nil, fmt.Errorf("process %s/%s: %w", p.Box, label, err)
		}
	}

	return m, nil
}

func buildFlux(p ProcessSpec, lib *flux.Library) (boxmodel.Flux, error) {
	switch {
	case p.Flux != nil && p.Expr != "":
		return nil, fmt.Errorf("flux and expr are mutually exclusive")
	case p.Flux != nil:
		if n, ok := lib.Arity(p.Flux.Name); ok && n >= 0 && n != len(p.Args) {
			return nil, fmt.Errorf("flux %s takes %d args, got %d", p.Flux.Name, n, len(p.Args))
		}
		return lib.Get(p.Flux.Name, p.Flux.Params)
	case p.Expr != "":
		return flux.NewLua(p.Expr, p.Args)
	default:
		return nil, fmt.Errorf("no flux or expr given")
	}
}
