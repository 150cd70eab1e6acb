package biquad

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// kernelFn runs one section over buf in place, starting from and
// returning the delay-line state.
type kernelFn func(c *Coefficients, d0, d1 float64, buf []float64) (float64, float64)

type kernel struct {
	name  string
	level cpu.SIMDLevel
	fn    kernelFn
}

// kernels is ordered by preference. The last entry runs everywhere.
var kernels = []kernel{
	{name: "block4", level: cpu.SIMDAVX2, fn: processBlock4},
	{name: "unroll2", level: cpu.SIMDNone, fn: processUnroll2},
}

var selected = sync.OnceValue(func() kernel {
	return pickKernel(cpu.DetectFeatures())
})

func blockKernel() kernel { return selected() }

// pickKernel returns the first kernel the CPU features support.
func pickKernel(f cpu.Features) kernel {
	for _, k := range kernels {
		if cpu.Supports(f, k.level) {
			return k
		}
	}
	return kernels[len(kernels)-1]
}

// KernelName reports which block kernel was selected for this CPU.
func KernelName() string { return blockKernel().name }

// processUnroll2 interleaves two samples per iteration.
func processUnroll2(c *Coefficients, d0, d1 float64, buf []float64) (float64, float64) {
	b0, b1, b2, a1, a2 := c.B0, c.B1, c.B2, c.A1, c.A2

	n := len(buf)
	i := 0
	for ; i+1 < n; i += 2 {
		x0 := buf[i]
		y0 := b0*x0 + d0
		t0 := b1*x0 - a1*y0 + d1
		t1 := b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + t0
		d0 = b1*x1 - a1*y1 + t1
		d1 = b2*x1 - a2*y1

		buf[i], buf[i+1] = y0, y1
	}
	if i < n {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return d0, d1
}

// processBlock4 walks buf in fixed four-sample windows so the compiler
// drops the per-sample bounds checks. It is preferred on AVX2-era cores.
func processBlock4(c *Coefficients, d0, d1 float64, buf []float64) (float64, float64) {
	b0, b1, b2, a1, a2 := c.B0, c.B1, c.B2, c.A1, c.A2

	n := len(buf)
	i := 0
	for ; i+3 < n; i += 4 {
		blk := buf[i : i+4 : i+4]
		for j, x := range blk {
			y := b0*x + d0
			d0 = b1*x - a1*y + d1
			d1 = b2*x - a2*y
			blk[j] = y
		}
	}

	return processUnroll2(c, d0, d1, buf[i:])
}
