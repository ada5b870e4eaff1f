// Package viz renders box model runs in the terminal.
//
//   - [Plot]: one asciigraph chart per series against time
//   - [Summary]: final values, peaks and metrics as a styled table
//   - [Live]: Bubble Tea viewer that steps a model tick by tick
//
// # Key Bindings
//
//	Space - Pause/Resume stepping
//	Tab   - Cycle the charted series
//	+/-   - Steps per tick
//	T     - Cycle color themes
//	Q     - Quit
package viz
