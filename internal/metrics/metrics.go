package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

// Keyed is implemented by metrics that read named registry values.
type Keyed interface {
	Keys() []string
}

func value(reg *boxmodel.Registry, key string) float64 {
	v, err := reg.Get(key)
	if err != nil {
		return math.NaN()
	}
	return v
}

func total(reg *boxmodel.Registry, keys []string) float64 {
	var sum float64
	for _, k := range keys {
		sum += value(reg, k)
	}
	return sum
}

// Check reports keys a metric reads that reg does not hold.
func Check(m boxmodel.Metric, reg *boxmodel.Registry) error {
	k, ok := m.(Keyed)
	if !ok {
		return nil
	}
	for _, key := range k.Keys() {
		if !reg.Has(key) {
			return fmt.Errorf("metric %s: %w: %q", m.Name(), boxmodel.ErrUnknownKey, key)
		}
	}
	return nil
}

type factory struct {
	minKeys int
	maxKeys int
	build   func(keys []string) boxmodel.Metric
}

var factories = map[string]factory{
	"mass_balance": {1, -1, func(k []string) boxmodel.Metric { return NewMassBalance(k...) }},
	"peak":         {1, 1, func(k []string) boxmodel.Metric { return NewPeak(k[0]) }},
	"trough":       {1, 1, func(k []string) boxmodel.Metric { return NewTrough(k[0]) }},
	"mean":         {1, 1, func(k []string) boxmodel.Metric { return NewMean(k[0]) }},
	"variation":    {1, 1, func(k []string) boxmodel.Metric { return NewVariation(k[0]) }},
	"final":        {1, 1, func(k []string) boxmodel.Metric { return NewFinal(k[0]) }},
	"finite":       {0, 0, func([]string) boxmodel.Metric { return NewFinite() }},
}

// Parse builds a metric from "name" or "name:key1,key2".
func Parse(s string) (boxmodel.Metric, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(s), ":")
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %s)", name, strings.Join(Names(), ", "))
	}

	var keys []string
	if rest != "" {
		for _, k := range strings.Split(rest, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	if len(keys) < f.minKeys || (f.maxKeys >= 0 && len(keys) > f.maxKeys) {
		return nil, fmt.Errorf("metric %s: wrong number of keys: %d", name, len(keys))
	}
	return f.build(keys), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
