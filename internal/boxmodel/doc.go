// Package boxmodel provides the compartment ("box") simulation kernel.
//
// A model is assembled from named compartments holding scalar state and
// flux processes that move quantities between them:
//
//   - [Cell]: a shared, mutable scalar handle
//   - [Registry]: a name to cell directory, unique by name and by cell
//   - [Box]: a compartment owning its attribute cells and processes
//   - [Delta]: the per-step accumulation of rates for one box
//   - [Model]: the driver stepping every box with explicit Euler updates
//
// # Example
//
//	m := boxmodel.New(boxmodel.WithStepPair(3, 1.0))
//	m.AddBox("tank", boxmodel.Attr("volume", 100))
//	outflow := boxmodel.FluxFunc(func(...float64) float64 { return 5 })
//	m.AddProcess("tank", "outflow", "volume", outflow, nil, boxmodel.Minus)
//	hist, _ := m.Run(ctx)
//	hist.Series("tank_volume") // [100 95 90 85]
//
// # Aliasing
//
// Cells are handles. The global registry, the owning box and any process
// argument list all hold the same cell, so a write through one is visible
// through every other immediately. Every mutation path updates cells in
// place; nothing rebinds a name to a new cell.
//
// # Ordering
//
// Within a box all processes read pre-step values. Boxes step one after
// another in the order they were added, so a process reading another box's
// cell sees that box's post-step value if it was added earlier and its
// pre-step value otherwise.
//
// # Thread Safety
//
// Model instances are NOT thread-safe. Run independent models in parallel
// instead (see package sweep).
package boxmodel
