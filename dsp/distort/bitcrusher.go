package distort

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
)

const (
	minCrusherBits = 1
	maxCrusherBits = 16

	defaultCrusherMaxHold = 32
	maxCrusherHold        = 1024

	// Hold lengths wander by up to this fraction of the base interval.
	crusherJitter = 0.6

	// Noise amounts above this inject dither before quantization.
	crusherNoiseThreshold = 0.5

	// Full wrap drive multiplies the crushed signal by 1+crusherWrapGain.
	crusherWrapGain = 7.0
)

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	seed    uint64
	maxHold int
}

// WithBitCrusherSeed fixes the jitter and dither random sequence.
func WithBitCrusherSeed(seed uint64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		cfg.seed = seed
		return nil
	}
}

// WithBitCrusherMaxHold sets the sample-and-hold interval reached at full
// crush. Range: [1, 1024].
func WithBitCrusherMaxHold(samples int) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if samples < 1 || samples > maxCrusherHold {
			return fmt.Errorf("bit crusher max hold must be in [1, %d]: %d", maxCrusherHold, samples)
		}
		cfg.maxHold = samples
		return nil
	}
}

// BitCrusher quantizes amplitude and holds samples for a jittered number
// of frames.
//
// Controls: Param sets the resolution (amount 0 → 1 bit, 1 → 16 bits),
// Drive sets crush, dither noise and wrap drive together, Level scales
// the output. With amount 1 and drive 0 the crusher is transparent to
// within one 16-bit step.
type BitCrusher struct {
	amount float64
	crush  float64
	noise  float64
	wrap   float64
	level  float64

	bits    int
	levels  float64
	maxHold int

	holdLeft  int
	holdValue float64

	rng *rand.Rand
}

// NewBitCrusher creates a bit crusher at 16 bits with no crush.
func NewBitCrusher(opts ...BitCrusherOption) (*BitCrusher, error) {
	cfg := bitCrusherConfig{seed: 0x5eed, maxHold: defaultCrusherMaxHold}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	bc := &BitCrusher{
		maxHold: cfg.maxHold,
		level:   1,
		rng:     rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)),
	}
	bc.SetAmount(1)
	return bc, nil
}

// SetAmount sets the resolution control in [0, 1]; bits = 1 + round(15*amount).
func (bc *BitCrusher) SetAmount(amount float64) {
	bc.amount = core.ClampUnit(amount, 1)
	bc.bits = minCrusherBits + int(math.Round(bc.amount*(maxCrusherBits-minCrusherBits)))
	bc.levels = math.Exp2(float64(bc.bits - 1))
}

// SetCrush sets the sample-and-hold amount in [0, 1].
func (bc *BitCrusher) SetCrush(crush float64) { bc.crush = core.ClampUnit(crush, 0) }

// SetNoise sets the dither amount in [0, 1]. Values at or below 0.5 add no noise.
func (bc *BitCrusher) SetNoise(noise float64) { bc.noise = core.ClampUnit(noise, 0) }

// SetWrapDrive sets the modulo wrap-around drive in [0, 1].
func (bc *BitCrusher) SetWrapDrive(wrap float64) { bc.wrap = core.ClampUnit(wrap, 0) }

// SetLevel sets the output level in [0, 1].
func (bc *BitCrusher) SetLevel(level float64) { bc.level = core.ClampUnit(level, 1) }

// Configure maps the generic band controls onto the crusher.
func (bc *BitCrusher) Configure(c Controls) {
	bc.SetAmount(c.Param)
	bc.SetCrush(c.Drive)
	bc.SetNoise(c.Drive)
	bc.SetWrapDrive(c.Drive)
	bc.SetLevel(c.Level)
}

// Reset clears the sample-and-hold state.
func (bc *BitCrusher) Reset() {
	bc.holdLeft = 0
	bc.holdValue = 0
}

// ProcessSample processes one sample.
func (bc *BitCrusher) ProcessSample(x float64) float64 {
	if bc.holdLeft <= 0 {
		bc.holdValue = bc.crushSample(x)
		bc.holdLeft = bc.nextHold()
	}
	bc.holdLeft--
	return bc.holdValue
}

// ProcessInPlace applies the crusher to buf in place.
func (bc *BitCrusher) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = bc.ProcessSample(x)
	}
}

// Bits returns the current quantizer resolution.
func (bc *BitCrusher) Bits() int { return bc.bits }

// BaseHold returns the un-jittered hold interval for the current crush.
func (bc *BitCrusher) BaseHold() int {
	return 1 + int(math.Round(bc.crush*float64(bc.maxHold-1)))
}

func (bc *BitCrusher) nextHold() int {
	base := bc.BaseHold()
	jitter := int(math.Floor(crusherJitter * float64(base)))
	if jitter == 0 {
		return base
	}
	n := base + bc.rng.IntN(2*jitter+1) - jitter
	if n < 1 {
		n = 1
	}
	return n
}

func (bc *BitCrusher) crushSample(x float64) float64 {
	if bc.noise > crusherNoiseThreshold {
		depth := (bc.noise - crusherNoiseThreshold) / (1 - crusherNoiseThreshold)
		x += (bc.rng.Float64()*2 - 1) * depth / bc.levels
	}

	q := math.Round(x*bc.levels) / bc.levels

	if bc.wrap > 0 {
		q = wrapUnit(q * (1 + crusherWrapGain*bc.wrap))
	}

	return q * bc.level
}

// wrapUnit folds v into [-1, 1) with modulo arithmetic; values already in
// [-1, 1] pass unchanged.
func wrapUnit(v float64) float64 {
	if v >= -1 && v <= 1 {
		return v
	}
	v = math.Mod(v+1, 2)
	if v < 0 {
		v += 2
	}
	return v - 1
}
