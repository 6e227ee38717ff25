// Package analysis turns recorded frames into numbers and small plots.
//
// The package includes tools for characterizing atom runs:
//
//   - [RadialSeries]: an electron's distance to a nucleus over time
//   - [PowerSpectrum], [DominantFrequency]: oscillation of that distance
//   - [PhasePortrait]: radius against radial speed
//   - [Divergence]: separation of two runs that differ only by seed
//   - [SweepParam]: settle a world for a range of one parameter
//   - [OccupancyStats]: mean and spread of each shell's population
//
// # Spectra
//
// A settled electron breathes around its shell radius. The dominant
// frequency of its radial series is the breathing rate in cycles per
// sample:
//
//	series := analysis.RadialSeries(result.Frames, e, n)
//	f, power := analysis.DominantFrequency(series)
package analysis
