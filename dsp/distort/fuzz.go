package distort

import "github.com/cwbudde/algo-bandcrush/dsp/core"

const (
	// DefaultFuzzCutoff is the gate below which the fuzz outputs silence.
	DefaultFuzzCutoff = 0.02

	minFuzzThreshold = 0.02
	maxFuzzThreshold = 0.5
	maxFuzzDrive     = 10.0
)

// Fuzz is a three-zone gated square fuzz. On the input-scaled sample s:
//
//	|s| > threshold         → clamp(drive*s, -1, 1)
//	cutoff < |s| ≤ threshold → sign(s)
//	|s| ≤ cutoff            → 0
//
// Controls: Level is the input level, Drive maps to a drive factor in
// [1, 10], Param moves the square-wave threshold across [0.02, 0.5].
type Fuzz struct {
	input     float64
	drive     float64
	threshold float64
	cutoff    float64
}

// NewFuzz creates a fuzz at default controls.
func NewFuzz() *Fuzz {
	f := &Fuzz{cutoff: DefaultFuzzCutoff}
	f.Configure(DefaultControls())
	return f
}

// Configure maps the generic band controls onto the fuzz.
func (f *Fuzz) Configure(c Controls) {
	f.input = core.ClampUnit(c.Level, 1)
	f.drive = core.MapRange(core.ClampUnit(c.Drive, 0.5), 1, maxFuzzDrive)
	f.threshold = core.MapRange(core.ClampUnit(c.Param, 0.7), minFuzzThreshold, maxFuzzThreshold)
}

// SetCutoff sets the silence gate in [0, threshold].
func (f *Fuzz) SetCutoff(cutoff float64) {
	f.cutoff = core.Clamp(core.Sanitize(cutoff), 0, maxFuzzThreshold)
}

// Threshold returns the square-wave threshold.
func (f *Fuzz) Threshold() float64 { return f.threshold }

// Cutoff returns the silence gate.
func (f *Fuzz) Cutoff() float64 { return f.cutoff }

// Reset is a no-op; the fuzz is memoryless.
func (f *Fuzz) Reset() {}

// ProcessSample processes one sample.
func (f *Fuzz) ProcessSample(x float64) float64 {
	s := x * f.input
	a := s
	if a < 0 {
		a = -a
	}

	switch {
	case a > f.threshold:
		return core.Clamp(f.drive*s, -1, 1)
	case a > f.cutoff:
		return core.Sign(s)
	default:
		return 0
	}
}

// ProcessInPlace applies the fuzz to buf in place.
func (f *Fuzz) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}
