// Package gain restores perceived loudness after a level-altering stage.
//
// AutoMakeup compares the RMS of a block before and after distortion and
// glides a corrective gain toward pre/post, clamped to [MinGain, MaxGain].
// The gain ramps per sample so drive changes never produce a gain step.
package gain
