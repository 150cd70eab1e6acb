// Package distort implements the per-band nonlinear shapers: a bit
// crusher, a three-zone fuzz, a triangle wave folder and a power-law wave
// shaper.
//
// Every variant is configured from three normalized controls ([Controls])
// and processes blocks in place without allocating. [Unit] holds one
// instance of each variant and dispatches to the selected one once per
// block, so the audio path never goes through an interface call per
// sample.
package distort
