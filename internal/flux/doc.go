// Package flux provides flux functions for box models.
//
// Fluxes come from two places:
//
//   - [Library]: named built-in rate laws (constant, linear, exchange, ...)
//     parameterized by a map of constants
//   - [Lua]: an arithmetic expression over named arguments, compiled once
//     with an embedded Lua interpreter
//
// Both implement [boxmodel.Flux].
package flux
