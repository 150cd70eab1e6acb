// Package signal generates deterministic test material: sine tones,
// harmonic-rich tones, sweeps and noise. cmd/bandcrush renders these when
// no input file is given.
package signal
