//go:build fastmath

package distort

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// mathTanh evaluates tanh through a fast exponential on |x| and restores
// the sign, so the curve stays odd and within [-1, 1]. Large arguments
// saturate before the exponential can overflow.
func mathTanh(x float64) float64 {
	a := math.Abs(x)
	if a > 20 {
		return math.Copysign(1, x)
	}
	e := approx.FastExp(2 * a)
	return math.Copysign(min((e-1)/(e+1), 1), x)
}

// mathPowAbs computes |x|^p = exp(p*ln|x|) for p > 0. The fixed points
// 0 and 1 are exact, and |x| <= 1 never maps above 1.
func mathPowAbs(x, p float64) float64 {
	a := math.Abs(x)
	switch {
	case a == 0:
		return 0
	case a == 1 || p == 1:
		return a
	}
	y := approx.FastExp(p * approx.FastLog(a))
	if a < 1 {
		return min(y, 1)
	}
	return y
}
