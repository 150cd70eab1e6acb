// Package smooth provides the linear parameter ramp used to de-zipper
// control changes between audio blocks.
package smooth

import "math"

// Smoother glides linearly from its current value to a target over a fixed
// number of samples. The zero value holds 0 and jumps immediately.
type Smoother struct {
	current   float64
	target    float64
	step      float64
	countdown int
	ramp      int
}

// Init sets the ramp length to floor(rampSeconds*sampleRate) samples and
// pins both current and target to value.
func (s *Smoother) Init(sampleRate, rampSeconds, value float64) {
	s.ramp = 0
	if sampleRate > 0 && rampSeconds > 0 {
		s.ramp = int(math.Floor(rampSeconds * sampleRate))
	}
	s.Reset(value)
}

// Reset jumps to value and ends any ramp in progress.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.step = 0
	s.countdown = 0
}

// Set retargets the ramp from the current value. NaN is ignored.
func (s *Smoother) Set(target float64) {
	if math.IsNaN(target) || target == s.target {
		return
	}

	s.target = target
	if s.ramp <= 0 {
		s.current = target
		s.countdown = 0
		return
	}

	s.countdown = s.ramp
	s.step = (target - s.current) / float64(s.ramp)
}

// Peek advances the ramp by n samples and returns the value reached.
// Peek(0) returns the current value without advancing.
func (s *Smoother) Peek(n int) float64 {
	if n <= 0 || s.countdown == 0 {
		return s.current
	}

	if n >= s.countdown {
		s.current = s.target
		s.countdown = 0
		return s.current
	}

	s.countdown -= n
	s.current = s.target - s.step*float64(s.countdown)
	return s.current
}

// Next advances one sample.
func (s *Smoother) Next() float64 {
	return s.Peek(1)
}

// IsDone reports whether the ramp has reached its target.
func (s *Smoother) IsDone() bool {
	return s.countdown == 0 && s.current == s.target
}

// Current returns the present value without advancing.
func (s *Smoother) Current() float64 { return s.current }

// Target returns the value being ramped toward.
func (s *Smoother) Target() float64 { return s.target }

// RampSamples returns the configured ramp length.
func (s *Smoother) RampSamples() int { return s.ramp }
