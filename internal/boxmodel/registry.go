package boxmodel

import "fmt"

// Registry maps names to cells it does not own. Both names and cells are
// unique: a cell can be reachable under one name only. Keys enumerate in
// registration order.
type Registry struct {
	keys  []string
	cells map[string]Cell
	names map[Cell]string
}

// Item is one registry binding.
type Item struct {
	Name string
	Cell Cell
}

func NewRegistry() *Registry {
	return &Registry{
		keys:  make([]string, 0),
		cells: make(map[string]Cell),
		names: make(map[Cell]string),
	}
}

// Register binds name to cell.
func (r *Registry) Register(name string, cell Cell) error {
	if _, ok := r.cells[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, name)
	}
	if prev, ok := r.names[cell]; ok {
		return fmt.Errorf("%w: %q is already bound as %q", ErrDuplicateIdentity, name, prev)
	}
	r.keys = append(r.keys, name)
	r.cells[name] = cell
	r.names[cell] = name
	return nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.cells[name]
	return ok
}

func (r *Registry) Len() int { return len(r.keys) }

// Get returns the current value bound to name.
func (r *Registry) Get(name string) (float64, error) {
	c, err := r.Ref(name)
	if err != nil {
		return 0, err
	}
	return c.Get(), nil
}

// Ref returns the cell bound to name. The cell is shared, not copied.
func (r *Registry) Ref(name string) (Cell, error) {
	c, ok := r.cells[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return c, nil
}

// Set writes v into the cell bound to name.
func (r *Registry) Set(name string, v float64) error {
	c, err := r.Ref(name)
	if err != nil {
		return err
	}
	c.Set(v)
	return nil
}

// NameOf reports the name a cell is registered under.
func (r *Registry) NameOf(cell Cell) (string, bool) {
	name, ok := r.names[cell]
	return name, ok
}

// Keys returns a copy of the registered names.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Registry) Values() []Cell {
	values := make([]Cell, len(r.keys))
	for i, k := range r.keys {
		values[i] = r.cells[k]
	}
	return values
}

func (r *Registry) Items() []Item {
	items := make([]Item, len(r.keys))
	for i, k := range r.keys {
		items[i] = Item{Name: k, Cell: r.cells[k]}
	}
	return items
}

// Snapshot copies the current value of every binding.
func (r *Registry) Snapshot() map[string]float64 {
	snap := make(map[string]float64, len(r.keys))
	for _, k := range r.keys {
		snap[k] = r.cells[k].Get()
	}
	return snap
}
