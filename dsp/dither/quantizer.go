package dither

import (
	"math"
	"math/rand/v2"
)

// Quantizer rounds samples to a bit depth with dither noise and
// optional noise shaping. Keep one per channel: the shaper carries
// error history.
type Quantizer struct {
	bitDepth        int
	ditherType      DitherType
	ditherAmplitude float64
	shaper          NoiseShaper
	rng             *rand.Rand

	scale   float64
	limitLo int
	limitHi int
}

// NewQuantizer creates a Quantizer. The default is 16-bit TPDF dither
// with amplitude 1 LSB and no noise shaping.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:        cfg.bitDepth,
		ditherType:      cfg.ditherType,
		ditherAmplitude: cfg.ditherAmplitude,
		shaper:          cfg.shaper,
		rng:             cfg.rng,
	}
	if q.shaper == nil {
		q.shaper = NewFIRShaper(nil)
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	q.scale = math.Exp2(float64(q.bitDepth - 1))
	q.limitHi = int(q.scale) - 1
	q.limitLo = -int(q.scale)
	return q, nil
}

// ProcessInteger quantizes input (nominally in [-1, 1]) to an integer
// in [-2^(B-1), 2^(B-1)-1].
func (q *Quantizer) ProcessInteger(input float64) int {
	if math.IsNaN(input) {
		input = 0
	}
	shaped := q.shaper.Shape(input * q.scale)
	result := int(math.Round(shaped + q.noise()))
	result = max(q.limitLo, min(q.limitHi, result))
	q.shaper.RecordError(float64(result) - shaped)
	return result
}

// ProcessSample quantizes input and returns it at full scale 1.
func (q *Quantizer) ProcessSample(input float64) float64 {
	return float64(q.ProcessInteger(input)) / q.scale
}

// ProcessInPlace quantizes each sample in buf in place.
func (q *Quantizer) ProcessInPlace(buf []float64) {
	for i, v := range buf {
		buf[i] = q.ProcessSample(v)
	}
}

// Reset clears the noise shaper history.
func (q *Quantizer) Reset() {
	q.shaper.Reset()
}

func (q *Quantizer) noise() float64 {
	switch q.ditherType {
	case DitherRectangular:
		return q.ditherAmplitude * (q.rng.Float64() - 0.5)
	case DitherTriangular:
		return q.ditherAmplitude * (q.rng.Float64() - q.rng.Float64())
	case DitherGaussian:
		return q.ditherAmplitude * 0.5 * q.rng.NormFloat64()
	default:
		return 0
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise type.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }
