package distort

import (
	"math"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
)

const (
	maxFolderGain    = 10.0
	minFoldThreshold = 0.1
	minFolderSat     = 1e-3
)

// WaveFolder drives the signal into a triangle fold and normalizes the
// result through a tanh stage.
//
// With gain g and threshold T the folded value reflects back whenever it
// crosses ±T (wrap with period 4T, then reflect), and the output is
// tanh(g*f/T)/tanh(g) scaled by level. Controls: Drive maps to g in
// [1, 10], Param to T in [0.1, 1], Level is the output level. Level and
// drive are independent, so more drive means more folds, not more volume.
type WaveFolder struct {
	gain      float64
	threshold float64
	level     float64
	norm      float64
}

// NewWaveFolder creates a folder at default controls.
func NewWaveFolder() *WaveFolder {
	w := &WaveFolder{}
	w.Configure(DefaultControls())
	return w
}

// Configure maps the generic band controls onto the folder.
func (w *WaveFolder) Configure(c Controls) {
	w.gain = core.MapRange(core.ClampUnit(c.Drive, 0.5), 1, maxFolderGain)
	w.threshold = core.MapRange(core.ClampUnit(c.Param, 0.7), minFoldThreshold, 1)
	w.level = core.ClampUnit(c.Level, 1)
	w.norm = 1 / mathTanh(math.Max(w.gain, minFolderSat))
}

// Reset is a no-op; the folder is memoryless.
func (w *WaveFolder) Reset() {}

// ProcessSample processes one sample.
func (w *WaveFolder) ProcessSample(x float64) float64 {
	f := fold(x*w.gain, w.threshold)
	return core.Clamp(mathTanh(w.gain*f/w.threshold)*w.norm, -1, 1) * w.level
}

// ProcessInPlace applies the folder to buf in place.
func (w *WaveFolder) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = w.ProcessSample(x)
	}
}

// fold maps v onto a triangle wave of amplitude t: identity on [-t, t],
// mirrored beyond it.
func fold(v, t float64) float64 {
	period := 4 * t
	u := math.Mod(v+t, period)
	if u < 0 {
		u += period
	}
	return t - math.Abs(u-2*t)
}
