// Package analysis post-processes recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: windowed FFT of an energy or
//     height trace
//   - [TrajectoryDivergence]: separation growth between a world and a
//     displaced copy
//   - [Portrait]: ASCII scatter of two series against each other
//
// A bouncing pair shows up as a clear peak in the height spectrum:
//
//	f := analysis.DominantFrequency(analysis.Column(result.Heights, 0), 60)
package analysis
