package distort

import "github.com/cwbudde/algo-bandcrush/dsp/core"

const (
	minShape     = 0.25
	maxShape     = 4.0
	maxShaperAmt = 0.99999
)

// WaveShaper bends the transfer curve with a power law and then a
// rational soft clip:
//
//	y = sign(x)*|x|^shape
//	y = (1+k)*y / (1+k*|y|),  k = 2a/(1-a)
//
// Controls: Drive is the amount a (capped just below 1), Param sets the
// exponent (0 → 4, 1 → 0.25), Level is the output level. For |x| ≤ 1 the
// output stays within ±level.
type WaveShaper struct {
	k     float64
	shape float64
	level float64
}

// NewWaveShaper creates a shaper at default controls.
func NewWaveShaper() *WaveShaper {
	w := &WaveShaper{}
	w.Configure(DefaultControls())
	return w
}

// Configure maps the generic band controls onto the shaper.
func (w *WaveShaper) Configure(c Controls) {
	a := core.ClampUnit(c.Drive, 0.5)
	w.k = 2 * a / (1 - min(a, maxShaperAmt))
	w.shape = core.MapRange(1-core.ClampUnit(c.Param, 0.7), minShape, maxShape)
	w.level = core.ClampUnit(c.Level, 1)
}

// Shape returns the current exponent.
func (w *WaveShaper) Shape() float64 { return w.shape }

// Reset is a no-op; the shaper is memoryless.
func (w *WaveShaper) Reset() {}

// ProcessSample processes one sample.
func (w *WaveShaper) ProcessSample(x float64) float64 {
	y := core.Sign(x) * mathPowAbs(x, w.shape)
	a := y
	if a < 0 {
		a = -a
	}
	return (1 + w.k) * y / (1 + w.k*a) * w.level
}

// ProcessInPlace applies the shaper to buf in place.
func (w *WaveShaper) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = w.ProcessSample(x)
	}
}
