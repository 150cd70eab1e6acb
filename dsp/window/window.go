package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	return out
}

// Hann returns raised-cosine coefficients 0.5 - 0.5*cos(2*pi*n/(N-1)).
func Hann(size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}
	return Generate(TypeHann, size, opts...), nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// OverlapSquaredSum returns, for each of the first hop positions of a frame,
// the sum of squared coefficients of every frame overlapping that position
// when frames advance by hop. Dividing weighted overlap-add output by this
// sum restores unity gain for analysis*synthesis windowing.
func OverlapSquaredSum(coeffs []float64, hop int) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, errEmptyCoeffs
	}
	if hop <= 0 || hop > len(coeffs) || len(coeffs)%hop != 0 {
		return nil, errInvalidHop
	}

	out := make([]float64, hop)
	for i := range out {
		for k := i; k < len(coeffs); k += hop {
			out[i] += coeffs[k] * coeffs[k]
		}
	}

	return out, nil
}

func evalWindow(t Type, x float64) float64 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}

	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineSum(x, 0.5, 0.5, 0)
	case TypeHamming:
		return cosineSum(x, 0.54, 0.46, 0)
	case TypeBlackman:
		return cosineSum(x, 0.42, 0.5, 0.08)
	default:
		return 1
	}
}

func cosineSum(x, a0, a1, a2 float64) float64 {
	phase := 2 * math.Pi * x
	return a0 - a1*math.Cos(phase) + a2*math.Cos(2*phase)
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
