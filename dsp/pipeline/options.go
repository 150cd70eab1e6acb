package pipeline

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-bandcrush/dsp/filter/dcblock"
	"github.com/cwbudde/algo-bandcrush/dsp/harmonic"
)

const (
	// DefaultCrossoverOrder is LR4.
	DefaultCrossoverOrder = 4

	// DefaultSmoothingTime is the parameter glide in seconds.
	DefaultSmoothingTime = 0.05
)

// Option configures a Processor.
type Option func(*config) error

type config struct {
	transformSize  int
	crossoverOrder int
	smoothingTime  float64
	harmonicWidth  float64
	falloff        float64
	dcCutoff       float64
	params         *Params
}

func defaultConfig() config {
	return config{
		transformSize:  harmonic.DefaultSize,
		crossoverOrder: DefaultCrossoverOrder,
		smoothingTime:  DefaultSmoothingTime,
		harmonicWidth:  harmonic.DefaultWidthFraction,
		falloff:        harmonic.DefaultFalloff,
		dcCutoff:       dcblock.DefaultCutoff,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// WithTransformSize sets the harmonic-mode FFT size (power of two >= 256).
func WithTransformSize(n int) Option {
	return func(c *config) error {
		if n < 256 || n&(n-1) != 0 {
			return fmt.Errorf("pipeline: transform size must be a power of two >= 256: %d", n)
		}
		c.transformSize = n
		return nil
	}
}

// WithCrossoverOrder sets the Linkwitz-Riley order (positive, even).
func WithCrossoverOrder(order int) Option {
	return func(c *config) error {
		if order <= 0 || order%2 != 0 {
			return fmt.Errorf("pipeline: crossover order must be a positive even integer: %d", order)
		}
		c.crossoverOrder = order
		return nil
	}
}

// WithSmoothingTime sets the parameter glide in seconds. Zero disables smoothing.
func WithSmoothingTime(seconds float64) Option {
	return func(c *config) error {
		if seconds < 0 || !finite(seconds) {
			return fmt.Errorf("pipeline: smoothing time must be finite and >= 0: %g", seconds)
		}
		c.smoothingTime = seconds
		return nil
	}
}

// WithHarmonicWidth sets the harmonic half-width as a fraction of the split frequency.
func WithHarmonicWidth(fraction float64) Option {
	return func(c *config) error {
		if !(fraction > 0 && fraction <= 1) {
			return fmt.Errorf("pipeline: harmonic width must be in (0, 1]: %g", fraction)
		}
		c.harmonicWidth = fraction
		return nil
	}
}

// WithHarmonicFalloff sets the exponent of the harmonic weight decay.
func WithHarmonicFalloff(p float64) Option {
	return func(c *config) error {
		if p < 0 || !finite(p) {
			return fmt.Errorf("pipeline: harmonic falloff must be finite and >= 0: %g", p)
		}
		c.falloff = p
		return nil
	}
}

// WithDCCutoff sets the DC blocker corner frequency in Hz.
func WithDCCutoff(hz float64) Option {
	return func(c *config) error {
		if !(hz > 0) || !finite(hz) {
			return fmt.Errorf("pipeline: DC cutoff must be > 0: %g", hz)
		}
		c.dcCutoff = hz
		return nil
	}
}

// WithParams shares an existing parameter surface instead of creating one.
func WithParams(p *Params) Option {
	return func(c *config) error {
		if p == nil {
			return fmt.Errorf("pipeline: params must not be nil")
		}
		c.params = p
		return nil
	}
}
