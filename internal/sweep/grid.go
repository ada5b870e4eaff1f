package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

// Builder returns a fresh, unrun model for each grid point.
type Builder func() (*boxmodel.Model, error)

// MetricFactory returns a fresh metric for each grid point.
type MetricFactory func() (boxmodel.Metric, error)

// Point is the outcome of one run.
type Point struct {
	Index   int
	Params  map[string]float64
	Value   float64
	Metrics map[string]float64
	Err     error
}

// Grid runs a model over the cartesian product of parameter values. Each
// point gets its own model, so runs share nothing and execute in parallel.
type Grid struct {
	params  []Param
	workers int
	logger  *slog.Logger
}

// NewGrid uses GOMAXPROCS workers when workers is not positive.
func NewGrid(params []Param, workers int, logger *slog.Logger) *Grid {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Grid{params: params, workers: workers, logger: logger}
}

// Size is the number of grid points.
func (g *Grid) Size() int {
	if len(g.params) == 0 {
		return 0
	}
	n := 1
	for _, p := range g.params {
		n *= len(p.Values)
	}
	return n
}

// Points enumerates the grid with the first parameter varying slowest.
func (g *Grid) Points() []map[string]float64 {
	if len(g.params) == 0 {
		return nil
	}
	out := make([]map[string]float64, 0, g.Size())
	g.points(0, map[string]float64{}, &out)
	return out
}

func (g *Grid) points(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.params) {
		*out = append(*out, current)
		return
	}
	p := g.params[depth]
	for _, v := range p.Values {
		next := make(map[string]float64, len(current)+1)
		for k, cv := range current {
			next[k] = cv
		}
		next[p.Key] = v
		g.points(depth+1, next, out)
	}
}

// Validate checks every swept key against a model from build.
func (g *Grid) Validate(build Builder) error {
	m, err := build()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(g.params))
	for _, p := range g.params {
		switch {
		case p.Key == boxmodel.KeyStep || p.Key == boxmodel.KeyTime:
			return fmt.Errorf("cannot sweep %q", p.Key)
		case seen[p.Key]:
			return fmt.Errorf("parameter %q given twice", p.Key)
		case len(p.Values) == 0:
			return fmt.Errorf("parameter %q has no values", p.Key)
		case !m.Registry().Has(p.Key):
			return fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, p.Key)
		}
		seen[p.Key] = true
	}
	return nil
}

// Run executes every grid point and returns results in grid order. Per-point
// failures are reported in Point.Err; the error return is for setup problems.
func (g *Grid) Run(ctx context.Context, build Builder, metric MetricFactory) ([]Point, error) {
	if err := g.Validate(build); err != nil {
		return nil, err
	}

	grid := g.Points()
	results := make([]Point, len(grid))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(g.workers, len(grid)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = g.runPoint(ctx, idx, grid[idx], build, metric)
			}
		}()
	}

	for i := range grid {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

func (g *Grid) runPoint(ctx context.Context, idx int, params map[string]float64, build Builder, metric MetricFactory) Point {
	p := Point{Index: idx, Params: params, Value: math.NaN()}

	m, err := build()
	if err != nil {
		p.Err = err
		return p
	}
	for k, v := range params {
		if err := m.Set(k, v); err != nil {
			p.Err = err
			return p
		}
	}

	mt, err := metric()
	if err != nil {
		p.Err = err
		return p
	}
	m.AddMetric(mt)

	if _, err := m.Run(ctx); err != nil {
		p.Err = err
		g.logger.Debug("sweep_point_failed", slog.Int("index", idx), slog.Any("params", params), slog.Any("error", err))
		return p
	}

	p.Value = mt.Value()
	p.Metrics = m.Metrics()
	g.logger.Debug("sweep_point", slog.Int("index", idx), slog.Any("params", params), slog.Float64(mt.Name(), p.Value))
	return p
}

// Best returns the successful point with the lowest value, or the highest
// when maximize is set. Failed points and NaN values are skipped.
func Best(points []Point, maximize bool) (Point, bool) {
	var best Point
	found := false
	for _, p := range points {
		if p.Err != nil || math.IsNaN(p.Value) {
			continue
		}
		if !found || (maximize && p.Value > best.Value) || (!maximize && p.Value < best.Value) {
			best, found = p, true
		}
	}
	return best, found
}

// Keys returns the swept keys in grid order.
func (g *Grid) Keys() []string {
	keys := make([]string, len(g.params))
	for i, p := range g.params {
		keys[i] = p.Key
	}
	return keys
}

// Ranked returns successful points ordered best first.
func Ranked(points []Point, maximize bool) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Err == nil && !math.IsNaN(p.Value) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if maximize {
			return out[i].Value > out[j].Value
		}
		return out[i].Value < out[j].Value
	})
	return out
}
