// Package dcblock provides a first-order DC blocking highpass.
package dcblock

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
)

const (
	// DefaultCutoff is the corner frequency used when none is given.
	DefaultCutoff = 10.0

	minPole = 0.9
	maxPole = 0.9999
)

// Blocker removes DC offset with y[n] = x[n] - x[n-1] + R*y[n-1].
type Blocker struct {
	pole   float64
	cutoff float64
	x1, y1 float64
}

// New returns a Blocker with its corner at cutoffHz. The pole
// R = 1 - 2*pi*fc/fs is clamped to [0.9, 0.9999] to stay stable.
func New(cutoffHz, sampleRate float64) (*Blocker, error) {
	b := &Blocker{}
	if err := b.SetCutoff(cutoffHz, sampleRate); err != nil {
		return nil, err
	}
	return b, nil
}

// SetCutoff recomputes the pole without touching filter state.
func (b *Blocker) SetCutoff(cutoffHz, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return fmt.Errorf("dcblock: sample rate must be positive: %v", sampleRate)
	}
	if cutoffHz <= 0 || math.IsNaN(cutoffHz) {
		return fmt.Errorf("dcblock: cutoff must be positive: %v", cutoffHz)
	}

	b.cutoff = cutoffHz
	b.pole = core.Clamp(1-2*math.Pi*cutoffHz/sampleRate, minPole, maxPole)
	return nil
}

// ProcessSample filters one sample. A non-finite result is passed
// through once and the filter memory is cleared.
func (b *Blocker) ProcessSample(x float64) float64 {
	y := x - b.x1 + b.pole*b.y1
	if !finite(y) {
		b.Reset()
		return y
	}
	b.x1 = x
	b.y1 = core.FlushDenormals(y)
	return y
}

// ProcessInPlace filters buf in place.
func (b *Blocker) ProcessInPlace(buf []float64) {
	x1, y1, r := b.x1, b.y1, b.pole
	for i, x := range buf {
		y := x - x1 + r*y1
		buf[i] = y
		if !finite(y) {
			x1, y1 = 0, 0
			continue
		}
		x1 = x
		y1 = core.FlushDenormals(y)
	}
	b.x1, b.y1 = x1, y1
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Reset clears the filter memory.
func (b *Blocker) Reset() {
	b.x1, b.y1 = 0, 0
}

// Pole returns the feedback coefficient R.
func (b *Blocker) Pole() float64 { return b.pole }

// Cutoff returns the configured corner frequency in Hz.
func (b *Blocker) Cutoff() float64 { return b.cutoff }
