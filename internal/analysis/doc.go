// Package analysis inspects a recorded run after the fact.
//
//   - [HistorySpectrum]: power spectrum of a series via FFT
//   - [DominantPeriod]: period of the strongest oscillation in a series
//   - [Crossings]: times a series rises through a threshold
//   - [NewPhasePortrait]: one series plotted against another
//
// # Oscillations
//
// Predator-prey style models cycle rather than settle. The period can be
// read off the spectrum or from successive crossings of the mean:
//
//	period, err := analysis.DominantPeriod(h, "prey_n")
package analysis
