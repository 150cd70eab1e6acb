package signal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the noise seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator. coreOpts set the sample rate.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 { return g.cfg.SampleRate }

func (g *Generator) validate(what string, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("signal: %s samples must be > 0: %d", what, samples)
	}
	if g.cfg.SampleRate <= 0 {
		return fmt.Errorf("signal: %s sample rate must be > 0: %f", what, g.cfg.SampleRate)
	}
	return nil
}

// Sine generates a sine wave starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.validate("sine", samples); err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Harmonic generates a band-limited sawtooth on f0: every partial below
// Nyquist at amplitude 1/n, scaled so the peak is close to amplitude.
func (g *Generator) Harmonic(f0, amplitude float64, samples int) ([]float64, error) {
	if err := g.validate("harmonic", samples); err != nil {
		return nil, err
	}
	nyquist := g.cfg.SampleRate / 2
	if f0 <= 0 || f0 >= nyquist {
		return nil, fmt.Errorf("signal: harmonic fundamental must be in (0, %g): %g", nyquist, f0)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * f0 / g.cfg.SampleRate
	for n := 1; float64(n)*f0 < nyquist; n++ {
		a := 1 / float64(n)
		w := step * float64(n)
		for i := range out {
			out[i] += a * math.Sin(w*float64(i))
		}
	}
	// The Gibbs overshoot of a band-limited saw peaks near 1.18*pi/2.
	scale := amplitude * 2 / (math.Pi * 1.18)
	for i := range out {
		out[i] *= scale
	}
	return out, nil
}

// LogSweep generates an exponential sine sweep from startHz to endHz.
func (g *Generator) LogSweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.validate("sweep", samples); err != nil {
		return nil, err
	}
	if startHz <= 0 || endHz <= 0 {
		return nil, fmt.Errorf("signal: sweep frequencies must be > 0: %g..%g", startHz, endHz)
	}

	if startHz == endHz {
		return g.Sine(startHz, amplitude, samples)
	}

	out := make([]float64, samples)
	duration := float64(samples) / g.cfg.SampleRate
	k := math.Log(endHz / startHz)
	c := 2 * math.Pi * startHz * duration / k
	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		out[i] = amplitude * math.Sin(c*(math.Exp(t*k/duration)-1))
	}
	return out, nil
}

// WhiteNoise generates uniform noise in [-amplitude, amplitude).
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if err := g.validate("noise", samples); err != nil {
		return nil, err
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewPCG(g.seed, g.seed+1))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data to targetPeak and returns a new slice. Silence
// stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty")
	}

	peak := 0.0
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}

	out := make([]float64, len(data))
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}
	scale := targetPeak / peak
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
