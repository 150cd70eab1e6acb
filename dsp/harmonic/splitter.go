package harmonic

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
	"github.com/cwbudde/algo-bandcrush/dsp/window"
)

const (
	// DefaultSize is the default transform size.
	DefaultSize = 2048

	minSize = 256

	// FreqTolerance is how far the fundamental may move before the mask is rebuilt.
	FreqTolerance = 0.01

	normFloor = 1e-12
)

// FrameShaper processes the two band slices of one frame in place. a holds
// the masked (harmonic) band, b the complement. Both have the transform
// size.
type FrameShaper interface {
	ShapeBands(a, b []float64)
}

// Option configures a Splitter.
type Option func(*config) error

type config struct {
	size          int
	widthFraction float64
	falloff       float64
}

// WithSize sets the transform size, a power of two >= 256.
func WithSize(n int) Option {
	return func(c *config) error {
		if n < minSize || n&(n-1) != 0 {
			return fmt.Errorf("harmonic: transform size must be a power of two >= %d: %d", minSize, n)
		}
		c.size = n
		return nil
	}
}

// WithWidthFraction sets the harmonic half-width relative to the fundamental.
func WithWidthFraction(f float64) Option {
	return func(c *config) error {
		if !(f > 0) || f > 1 {
			return fmt.Errorf("harmonic: width fraction must be in (0, 1]: %g", f)
		}
		c.widthFraction = f
		return nil
	}
}

// WithFalloff sets the weight decay exponent.
func WithFalloff(p float64) Option {
	return func(c *config) error {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("harmonic: falloff must be finite and >= 0: %g", p)
		}
		c.falloff = p
		return nil
	}
}

var errSampleRate = errors.New("harmonic: sample rate must be > 0")

// Splitter is the shared part of the harmonic STFT: plan, window, mask
// and frame scratch. Per-channel streaming state lives in Channel.
// Channels must be processed one at a time.
type Splitter struct {
	size       int
	hop        int
	sampleRate float64

	plan    *algofft.Plan[complex128]
	window  []float64
	invNorm []float64

	set  *Set
	mask *Mask

	fundamental float64
	cached      bool

	spec  []complex128
	specA []complex128
	specB []complex128
	timeA []float64
	timeB []float64
}

// NewSplitter creates a splitter for sampleRate. The mask is empty until
// SetFundamental is called.
func NewSplitter(sampleRate float64, opts ...Option) (*Splitter, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, errSampleRate
	}
	cfg := config{
		size:          DefaultSize,
		widthFraction: DefaultWidthFraction,
		falloff:       DefaultFalloff,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(cfg.size)
	if err != nil {
		return nil, fmt.Errorf("harmonic: failed to create FFT plan: %w", err)
	}

	hop := cfg.size / 2
	win, err := window.Hann(cfg.size)
	if err != nil {
		return nil, fmt.Errorf("harmonic: %w", err)
	}
	norm, err := window.OverlapSquaredSum(win, hop)
	if err != nil {
		return nil, fmt.Errorf("harmonic: %w", err)
	}
	for i, v := range norm {
		norm[i] = 1 / math.Max(v, normFloor)
	}

	nyquist := sampleRate / 2
	return &Splitter{
		size:       cfg.size,
		hop:        hop,
		sampleRate: sampleRate,
		plan:       plan,
		window:     win,
		invNorm:    norm,
		set:        NewSet(nyquist, cfg.widthFraction, cfg.falloff),
		mask:       NewMask(cfg.size, sampleRate),
		spec:       make([]complex128, cfg.size),
		specA:      make([]complex128, cfg.size),
		specB:      make([]complex128, cfg.size),
		timeA:      make([]float64, cfg.size),
		timeB:      make([]float64, cfg.size),
	}, nil
}

// Size returns the transform size.
func (s *Splitter) Size() int { return s.size }

// Hop returns the hop size (Size/2).
func (s *Splitter) Hop() int { return s.hop }

// Latency returns the delay in samples between input and output.
func (s *Splitter) Latency() int { return s.size - 1 }

// Set returns the current harmonic set.
func (s *Splitter) Set() *Set { return s.set }

// Mask returns the current mask.
func (s *Splitter) Mask() *Mask { return s.mask }

// Fundamental returns the frequency the mask was last built for.
func (s *Splitter) Fundamental() float64 { return s.fundamental }

// SetFundamental rebuilds the set and mask for f0 unless it is within
// FreqTolerance of the cached frequency. It reports whether a rebuild
// happened.
func (s *Splitter) SetFundamental(f0 float64) bool {
	if s.cached && math.Abs(f0-s.fundamental) <= FreqTolerance {
		return false
	}
	s.fundamental = f0
	s.cached = true
	s.set.Generate(f0, s.sampleRate/2)
	s.mask.Build(s.set)
	return true
}

// NewChannel allocates streaming state sized for this splitter.
func (s *Splitter) NewChannel() *Channel {
	return &Channel{
		history: make([]float64, s.size),
		accum:   make([]float64, s.size),
		out:     make([]float64, s.hop),
	}
}

// Process streams buf through the splitter in place using ch's state.
// shaper may be nil, in which case bands are recombined untouched.
func (s *Splitter) Process(ch *Channel, buf []float64, shaper FrameShaper) {
	if ch == nil || len(ch.history) != s.size {
		return
	}
	hop := s.hop
	for i, x := range buf {
		ch.history[hop+ch.fill] = x
		ch.fill++
		if ch.fill == hop {
			s.frame(ch, shaper)
			ch.fill = 0
		}
		buf[i] = ch.out[ch.fill]
	}
}

// frame analyzes the current history window and emits the next hop. A
// failed transform emits a hop of silence; the streams still advance.
func (s *Splitter) frame(ch *Channel, shaper FrameShaper) {
	hop := s.hop

	if s.split(ch.history, shaper) {
		for i, w := range s.window {
			ch.accum[i] += (s.timeA[i] + s.timeB[i]) * w
		}
		for i := range hop {
			ch.out[i] = ch.accum[i] * s.invNorm[i]
		}
	} else {
		clear(ch.out)
	}

	core.ShiftLeft(ch.accum, hop)
	core.ShiftLeft(ch.history, hop)
}

// split windows history, separates it into the masked band A and the
// residual band B in timeA and timeB, and runs shaper over them.
func (s *Splitter) split(history []float64, shaper FrameShaper) bool {
	n := s.size

	for i, x := range history {
		s.spec[i] = complex(x*s.window[i], 0)
	}
	if err := s.plan.Forward(s.spec, s.spec); err != nil {
		return false
	}

	half := n / 2
	for k := 0; k <= half; k++ {
		m := complex(s.mask.weights[k], 0)
		s.specA[k] = s.spec[k] * m
		s.specB[k] = s.spec[k] - s.specA[k]
		if k > 0 && k < half {
			s.specA[n-k] = s.spec[n-k] * m
			s.specB[n-k] = s.spec[n-k] - s.specA[n-k]
		}
	}

	if err := s.plan.Inverse(s.specA, s.specA); err != nil {
		return false
	}
	if err := s.plan.Inverse(s.specB, s.specB); err != nil {
		return false
	}
	for i := range s.timeA {
		s.timeA[i] = real(s.specA[i])
		s.timeB[i] = real(s.specB[i])
	}

	if shaper != nil {
		shaper.ShapeBands(s.timeA, s.timeB)
	}
	return true
}
