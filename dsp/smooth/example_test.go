package smooth_test

import (
	"fmt"

	"github.com/cwbudde/algo-bandcrush/dsp/smooth"
)

func ExampleSmoother() {
	var s smooth.Smoother
	s.Init(1000, 0.004, 0) // four-sample ramp
	s.Set(1)

	for !s.IsDone() {
		fmt.Printf("%.2f ", s.Next())
	}
	fmt.Println()

	// Output:
	// 0.25 0.50 0.75 1.00
}
