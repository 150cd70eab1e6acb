package pipeline

import "github.com/cwbudde/algo-bandcrush/dsp/distort"

// bandShaper routes the harmonic band to the low unit and the rest to the
// high unit, or both to the low unit when linked.
type bandShaper struct {
	low  *distort.Unit
	high *distort.Unit
	link bool
}

func (b *bandShaper) ShapeBands(a, rest []float64) {
	b.low.ProcessInPlace(a)
	if b.link {
		b.low.ProcessInPlace(rest)
		return
	}
	b.high.ProcessInPlace(rest)
}
