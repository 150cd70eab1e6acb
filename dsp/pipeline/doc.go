// Package pipeline is the two-band distortion engine.
//
// A Processor splits each channel into two bands, either with a
// Linkwitz-Riley crossover (ModeEQ) or with a harmonic spectral mask
// (ModeHarmonic), runs each band through its distortion unit, restores
// loudness with auto makeup gain, removes DC when a band needs it, and
// blends the result with the dry signal in place.
//
// Parameters live in Params, an immutable Snapshot behind an atomic
// pointer. Any goroutine may write; the audio path loads one snapshot
// per block and feeds the continuous values through linear smoothers.
//
// Lifecycle: New, then Prepare before the first ProcessBlock. Prepare
// allocates every buffer, so ProcessBlock never allocates, locks or
// returns an error. ProcessBlock before Prepare is a no-op.
package pipeline
