// Package crossover provides the two-way Linkwitz-Riley network used to
// split a signal into a low band and a high band.
//
// The lowpass and highpass outputs of a [Crossover] sum to an allpass
// response, so recombining untouched bands preserves the input magnitude.
// The crossover point can be moved while audio runs via
// [Crossover.SetFreq]; filter state carries across the retune.
//
// Example:
//
//	xo, _ := crossover.New(440, 4, 48000) // LR4 at 440 Hz
//	lo, hi := xo.ProcessSample(inputSample)
//	sum := lo + hi // ≈ allpass-filtered input
package crossover
