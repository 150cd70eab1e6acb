package gain

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// rmsFloor keeps the square root away from zero on silent blocks.
const rmsFloor = 1e-12

// RMS returns sqrt(mean(x²) + 1e-12). An empty block yields sqrt(1e-12).
func RMS(x []float64) float64 {
	return math.Sqrt(meanSquare(x) + rmsFloor)
}

func meanSquare(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return vecmath.DotProduct(x, x) / float64(len(x))
}
