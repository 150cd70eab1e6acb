// Package biquad runs second-order IIR sections and their cascades.
//
// A [Section] filters in Direct Form II Transposed with [Coefficients]
// designed by dsp/filter/design/pass. A [Chain] cascades sections into the
// Linkwitz-Riley halves of the band crossover and can be retuned in place
// while keeping its state.
//
// Block processing uses the fastest kernel the running CPU supports.
package biquad
