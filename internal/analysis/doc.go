// Package analysis provides post-run tools for fluid simulations.
//
// Time series (one value per sample, as stored in series.csv):
//
//   - [PowerSpectrum]: magnitude spectrum of a metric series
//   - [DominantFrequency]: strongest non-zero frequency and its period
//   - [DecayRate]: exponential decay rate fitted to a positive series
//
// Fields (one density value per cell):
//
//   - [Centroid]: density-weighted centre of mass
//   - [Spread]: density-weighted radius of gyration about the centroid
//
// # Mass decay
//
// With no sources, density leaves the grid only through fading and the
// walls, so a clean run decays at about ln(fade) per tick:
//
//	rate, _ := analysis.DecayRate(masses, 1)
//	// rate ≈ math.Log(0.99)
package analysis
