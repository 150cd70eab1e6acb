package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-bandcrush/dsp/filter/biquad"
	"github.com/cwbudde/algo-bandcrush/dsp/filter/design/pass"
)

// Crossover is a two-way Linkwitz-Riley crossover network that splits
// an input signal into complementary lowpass and highpass outputs.
//
// The lowpass and highpass outputs sum to an allpass-filtered version
// of the input (flat magnitude response). Polarity correction for
// orders ≡ 2 mod 4 (LR2, LR6, …) is handled automatically.
type Crossover struct {
	lp    *biquad.Chain
	hp    *biquad.Chain
	freq  float64
	order int
	sr    float64

	// design scratch, sized once so SetFreq never allocates
	lpCoeffs []biquad.Coefficients
	hpCoeffs []biquad.Coefficients
}

// New creates a two-way Linkwitz-Riley crossover at the given frequency
// and order. The order must be a positive even integer (2, 4, 6, 8, …).
func New(freq float64, order int, sampleRate float64) (*Crossover, error) {
	if order <= 0 || order%2 != 0 {
		return nil, fmt.Errorf("crossover: order must be a positive even integer, got %d", order)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("crossover: sample rate must be positive, got %v", sampleRate)
	}
	if err := checkFreq(freq, sampleRate); err != nil {
		return nil, err
	}

	n := pass.LinkwitzRileySections(order)
	c := &Crossover{
		order:    order,
		sr:       sampleRate,
		lpCoeffs: make([]biquad.Coefficients, 0, n),
		hpCoeffs: make([]biquad.Coefficients, 0, n),
	}
	c.design(freq)
	c.lp = biquad.NewChain(c.lpCoeffs)
	c.hp = biquad.NewChain(c.hpCoeffs)

	return c, nil
}

// SetFreq moves the crossover point. Both cascades keep their delay-line
// state, so the split frequency can follow automation without clicks.
// It does not allocate.
func (c *Crossover) SetFreq(freq float64) error {
	if err := checkFreq(freq, c.sr); err != nil {
		return err
	}
	if freq == c.freq {
		return nil
	}

	c.design(freq)
	c.lp.SetCoefficients(c.lpCoeffs)
	c.hp.SetCoefficients(c.hpCoeffs)

	return nil
}

func (c *Crossover) design(freq float64) {
	c.freq = freq
	c.lpCoeffs = pass.AppendLinkwitzRileyLP(c.lpCoeffs[:0], freq, c.order, c.sr)
	c.hpCoeffs = pass.AppendLinkwitzRileyHP(c.hpCoeffs[:0], freq, c.order, c.sr,
		pass.LinkwitzRileyNeedsHPInvert(c.order))
}

func checkFreq(freq, sampleRate float64) error {
	if !(freq > 0 && freq < sampleRate/2) {
		return fmt.Errorf("crossover: frequency must be in (0, %v), got %v", sampleRate/2, freq)
	}
	return nil
}

// ProcessSample filters one input sample and returns the lowpass and
// highpass outputs. Their sum is allpass (flat magnitude response).
func (c *Crossover) ProcessSample(x float64) (lo, hi float64) {
	return c.lp.ProcessSample(x), c.hp.ProcessSample(x)
}

// ProcessBlock filters a block of input samples, writing the lowpass
// output to lo and the highpass output to hi. lo and hi must be at least
// as long as input; input may alias neither.
func (c *Crossover) ProcessBlock(input, lo, hi []float64) {
	n := len(input)
	if n == 0 {
		return
	}
	c.lp.ProcessBlockInto(lo, input)
	c.hp.ProcessBlockInto(hi, input)
}

// LP returns the lowpass chain for direct inspection or analysis.
func (c *Crossover) LP() *biquad.Chain { return c.lp }

// HP returns the highpass chain for direct inspection or analysis.
// For orders ≡ 2 mod 4, this chain includes the polarity inversion.
func (c *Crossover) HP() *biquad.Chain { return c.hp }

// Freq returns the crossover frequency in Hz.
func (c *Crossover) Freq() float64 { return c.freq }

// Order returns the Linkwitz-Riley order (always even).
func (c *Crossover) Order() int { return c.order }

// SampleRate returns the sample rate in Hz.
func (c *Crossover) SampleRate() float64 { return c.sr }

// Reset clears the internal filter states of both LP and HP chains.
func (c *Crossover) Reset() {
	c.lp.Reset()
	c.hp.Reset()
}
