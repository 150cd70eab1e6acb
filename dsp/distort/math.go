//go:build !fastmath

package distort

import "math"

func mathTanh(x float64) float64 {
	return math.Tanh(x)
}

// mathPowAbs computes |x|^p for p > 0.
func mathPowAbs(x, p float64) float64 {
	return math.Pow(math.Abs(x), p)
}
