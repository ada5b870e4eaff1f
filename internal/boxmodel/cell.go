package boxmodel

import "strconv"

// Cell is a shared, mutable scalar. Identity matters: two cells holding the
// same value are distinct, and registries compare cells by identity.
type Cell interface {
	Get() float64
	Set(v float64)
	Add(v float64)
	Mult(v float64)
}

// Float is a float64 cell.
type Float struct{ v float64 }

func NewFloat(v float64) *Float { return &Float{v: v} }

func (c *Float) Get() float64   { return c.v }
func (c *Float) Set(v float64)  { c.v = v }
func (c *Float) Add(v float64)  { c.v += v }
func (c *Float) Mult(v float64) { c.v *= v }
func (c *Float) String() string { return strconv.FormatFloat(c.v, 'g', -1, 64) }

// Int is an integer cell. Values written to it are truncated toward zero.
type Int struct{ v int64 }

func NewInt(v int64) *Int { return &Int{v: v} }

func (c *Int) Get() float64   { return float64(c.v) }
func (c *Int) Value() int64   { return c.v }
func (c *Int) Set(v float64)  { c.v = int64(v) }
func (c *Int) Add(v float64)  { c.v += int64(v) }
func (c *Int) Mult(v float64) { c.v = int64(float64(c.v) * v) }
func (c *Int) Inc()           { c.v++ }
func (c *Int) String() string { return strconv.FormatInt(c.v, 10) }
