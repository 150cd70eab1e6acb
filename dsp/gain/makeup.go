package gain

import (
	"math"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
	"github.com/cwbudde/algo-bandcrush/dsp/smooth"
)

const (
	// MinGain and MaxGain bound the corrective gain.
	MinGain = 0.25
	MaxGain = 4.0

	// DefaultRampSeconds is the gain glide time.
	DefaultRampSeconds = 0.01

	// silentRMS is the post level below which no correction is attempted.
	silentRMS = 1e-9
)

// AutoMakeup is an RMS-ratio loudness compensator. The zero value applies
// unity gain until Prepare is called.
type AutoMakeup struct {
	gain   smooth.Smoother
	target float64
	ready  bool
}

// Prepare resets the gain to unity with a DefaultRampSeconds glide.
func (m *AutoMakeup) Prepare(sampleRate float64) {
	m.gain.Init(sampleRate, DefaultRampSeconds, 1)
	m.target = 1
	m.ready = true
}

// Reset jumps back to unity gain.
func (m *AutoMakeup) Reset() {
	m.gain.Reset(1)
	m.target = 1
}

// Ratio returns RMS(pre)/RMS(post) without clamping, or 1 when post is
// effectively silent. The silence test uses the unfloored level.
func Ratio(pre, post []float64) float64 {
	ms := meanSquare(post)
	if math.Sqrt(ms) <= silentRMS {
		return 1
	}
	return RMS(pre) / math.Sqrt(ms+rmsFloor)
}

// Apply retargets the gain to the clamped pre/post ratio and multiplies
// post by the per-sample smoothed gain. pre is only read.
func (m *AutoMakeup) Apply(pre, post []float64) {
	if !m.ready {
		return
	}
	m.target = core.Clamp(Ratio(pre, post), MinGain, MaxGain)
	m.gain.Set(m.target)

	if m.gain.IsDone() {
		g := m.gain.Current()
		if g == 1 {
			return
		}
		for i := range post {
			post[i] *= g
		}
		return
	}
	for i := range post {
		post[i] *= m.gain.Next()
	}
}

// TargetGain returns the last clamped target.
func (m *AutoMakeup) TargetGain() float64 {
	if !m.ready {
		return 1
	}
	return m.target
}

// Gain returns the current smoothed gain.
func (m *AutoMakeup) Gain() float64 {
	if !m.ready {
		return 1
	}
	return m.gain.Current()
}
