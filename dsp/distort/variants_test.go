package distort

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-bandcrush/internal/testutil"
)

type processor interface {
	ProcessInPlace(buf []float64)
}

func newCrusher(t *testing.T, c Controls) *BitCrusher {
	t.Helper()
	bc, err := NewBitCrusher(WithBitCrusherSeed(7))
	if err != nil {
		t.Fatal(err)
	}
	bc.Configure(c)
	return bc
}

func TestBitCrusherTransparentAtFullResolution(t *testing.T) {
	bc := newCrusher(t, Controls{Level: 1, Drive: 0, Param: 1})
	if bc.Bits() != 16 {
		t.Fatalf("bits = %d, want 16", bc.Bits())
	}
	if bc.BaseHold() != 1 {
		t.Fatalf("base hold = %d, want 1", bc.BaseHold())
	}

	in := testutil.DeterministicSine(440, 48000, 0.8, 512)
	out := append([]float64(nil), in...)
	bc.ProcessInPlace(out)

	step := 1.0 / math.Exp2(15)
	for i := range in {
		if d := math.Abs(out[i] - in[i]); d > step {
			t.Fatalf("sample %d: |out-in| = %g exceeds one step %g", i, d, step)
		}
	}
}

func TestBitCrusherBitsMapping(t *testing.T) {
	tests := []struct {
		amount float64
		bits   int
	}{
		{0, 1},
		{0.5, 9},
		{1, 16},
		{-3, 1},
		{9, 16},
	}
	bc := newCrusher(t, DefaultControls())
	for _, tt := range tests {
		bc.SetAmount(tt.amount)
		if bc.Bits() != tt.bits {
			t.Fatalf("amount %v: bits = %d, want %d", tt.amount, bc.Bits(), tt.bits)
		}
	}
}

func TestBitCrusherOneBitIsTernary(t *testing.T) {
	bc := newCrusher(t, Controls{Level: 1, Drive: 0, Param: 0})
	buf := testutil.DeterministicSine(100, 48000, 1, 480)
	bc.ProcessInPlace(buf)
	for i, v := range buf {
		if v != -1 && v != 0 && v != 1 {
			t.Fatalf("sample %d = %v, want one of -1, 0, 1", i, v)
		}
	}
}

func TestBitCrusherHoldsSamples(t *testing.T) {
	bc := newCrusher(t, Controls{Level: 1, Drive: 0, Param: 1})
	bc.SetCrush(1)
	if bc.BaseHold() != defaultCrusherMaxHold {
		t.Fatalf("base hold = %d, want %d", bc.BaseHold(), defaultCrusherMaxHold)
	}

	buf := testutil.DeterministicSine(1000, 48000, 0.5, 2048)
	bc.ProcessInPlace(buf)

	changes := 0
	for i := 1; i < len(buf); i++ {
		if buf[i] != buf[i-1] {
			changes++
		}
	}
	// Minimum hold is base-floor(0.6*base) = 13 samples.
	if changes > len(buf)/13+1 {
		t.Fatalf("value changed %d times; hold is not in effect", changes)
	}
	if changes == 0 {
		t.Fatal("output never changed")
	}
}

func TestBitCrusherSeedIsDeterministic(t *testing.T) {
	run := func() []float64 {
		bc := newCrusher(t, Controls{Level: 1, Drive: 0.9, Param: 0.4})
		buf := testutil.DeterministicNoise(3, 0.5, 1024)
		bc.ProcessInPlace(buf)
		return buf
	}
	testutil.RequireSliceNearlyEqual(t, run(), run(), 0)
}

func TestBitCrusherWrapStaysBounded(t *testing.T) {
	bc := newCrusher(t, Controls{Level: 1, Drive: 1, Param: 1})
	buf := testutil.DeterministicSine(220, 48000, 1, 4096)
	bc.ProcessInPlace(buf)
	for i, v := range buf {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d = %v outside [-1, 1]", i, v)
		}
	}
}

func TestWithBitCrusherMaxHoldValidation(t *testing.T) {
	if _, err := NewBitCrusher(WithBitCrusherMaxHold(0)); err == nil {
		t.Fatal("expected error for zero max hold")
	}
	if _, err := NewBitCrusher(WithBitCrusherMaxHold(maxCrusherHold + 1)); err == nil {
		t.Fatal("expected error for oversized max hold")
	}
	bc, err := NewBitCrusher(WithBitCrusherMaxHold(4), nil)
	if err != nil {
		t.Fatal(err)
	}
	bc.SetCrush(1)
	if bc.BaseHold() != 4 {
		t.Fatalf("base hold = %d, want 4", bc.BaseHold())
	}
}

func TestWrapUnit(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{1, 1},
		{-1, -1},
		{1.5, -0.5},
		{-1.5, 0.5},
		{3.25, -0.75},
	}
	for _, tt := range tests {
		if got := wrapUnit(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("wrapUnit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFuzzZones(t *testing.T) {
	f := NewFuzz()
	f.Configure(Controls{Level: 1, Drive: 0, Param: 0.5})
	// drive factor 1, threshold 0.26, cutoff 0.02
	tests := []struct {
		in, want float64
	}{
		{0.01, 0},
		{-0.01, 0},
		{0.1, 1},
		{-0.1, -1},
		{0.5, 0.5},
		{-0.9, -0.9},
	}
	for _, tt := range tests {
		if got := f.ProcessSample(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("fuzz(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFuzzDriveClamps(t *testing.T) {
	f := NewFuzz()
	f.Configure(Controls{Level: 1, Drive: 1, Param: 0})
	if got := f.ProcessSample(0.5); got != 1 {
		t.Fatalf("fuzz(0.5) = %v, want 1", got)
	}
	if f.Threshold() != minFuzzThreshold {
		t.Fatalf("threshold = %v", f.Threshold())
	}
}

func TestFuzzInputLevelGates(t *testing.T) {
	f := NewFuzz()
	f.Configure(Controls{Level: 0, Drive: 1, Param: 1})
	if got := f.ProcessSample(0.9); got != 0 {
		t.Fatalf("zero input level: got %v, want 0", got)
	}
}

func TestFoldTriangle(t *testing.T) {
	tests := []struct {
		v, th, want float64
	}{
		{0.3, 1, 0.3},
		{1, 1, 1},
		{1.5, 1, 0.5},
		{3, 1, -1},
		{-1.5, 1, -0.5},
		{5, 1, 1},
		{0.25, 0.5, 0.25},
		{0.75, 0.5, 0.25},
	}
	for _, tt := range tests {
		if got := fold(tt.v, tt.th); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("fold(%v, %v) = %v, want %v", tt.v, tt.th, got, tt.want)
		}
	}
}

func TestWaveFolderBoundedByLevel(t *testing.T) {
	for _, c := range []Controls{
		{Level: 1, Drive: 0, Param: 1},
		{Level: 0.5, Drive: 1, Param: 0},
		{Level: 1, Drive: 0.5, Param: 0.7},
	} {
		w := NewWaveFolder()
		w.Configure(c)
		buf := testutil.DeterministicSine(330, 48000, 1, 1024)
		w.ProcessInPlace(buf)
		for i, v := range buf {
			if math.Abs(v) > c.Level+1e-12 {
				t.Fatalf("controls %+v sample %d = %v exceeds level", c, i, v)
			}
		}
	}
}

func TestWaveFolderIsOdd(t *testing.T) {
	w := NewWaveFolder()
	for _, x := range []float64{0.05, 0.2, 0.6, 0.95} {
		if a, b := w.ProcessSample(x), w.ProcessSample(-x); math.Abs(a+b) > 1e-12 {
			t.Fatalf("f(%v)=%v, f(-%v)=%v", x, a, x, b)
		}
	}
}

func TestWaveShaperCurve(t *testing.T) {
	w := NewWaveShaper()
	w.Configure(Controls{Level: 1, Drive: 0, Param: 1})
	// k = 0 and shape = 0.25
	if got, want := w.ProcessSample(0.0625), 0.5; math.Abs(got-want) > curveTolerance {
		t.Fatalf("shape 0.25: got %v, want %v", got, want)
	}
	if w.ProcessSample(1) != 1 || w.ProcessSample(-1) != -1 {
		t.Fatal("unit input should map to unit output")
	}

	w.Configure(Controls{Level: 1, Drive: 0.5, Param: 1 - 0.75/3.75})
	// k = 2, shape = 1: y = 3x/(1+2|x|)
	if got, want := w.ProcessSample(0.5), 0.75; math.Abs(got-want) > curveTolerance {
		t.Fatalf("k=2: got %v, want %v", got, want)
	}
}

func TestWaveShaperFullDriveIsFinite(t *testing.T) {
	w := NewWaveShaper()
	w.Configure(Controls{Level: 1, Drive: 1, Param: 0.5})
	buf := testutil.DeterministicSine(1000, 48000, 1, 256)
	w.ProcessInPlace(buf)
	testutil.RequireFinite(t, buf)
	for i, v := range buf {
		if math.Abs(v) > 1+1e-9 {
			t.Fatalf("sample %d = %v", i, v)
		}
	}
}

func TestVariantsSilenceInSilenceOut(t *testing.T) {
	crusher := newCrusher(t, Controls{Level: 1, Drive: 0.3, Param: 0.5})
	fuzz := NewFuzz()
	folder := NewWaveFolder()
	shaper := NewWaveShaper()

	for name, p := range map[string]processor{
		"bitcrusher": crusher,
		"fuzz":       fuzz,
		"wavefolder": folder,
		"waveshaper": shaper,
	} {
		buf := make([]float64, 256)
		p.ProcessInPlace(buf)
		for i, v := range buf {
			if v != 0 {
				t.Fatalf("%s: sample %d = %v, want 0", name, i, v)
			}
		}
	}
}

func TestUnitConfigureAndDC(t *testing.T) {
	u, err := NewUnit(1)
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind() != KindOff || u.IntroducesDC() {
		t.Fatalf("new unit: kind %v dc %v", u.Kind(), u.IntroducesDC())
	}

	tests := []struct {
		kind Kind
		dc   bool
	}{
		{KindBitCrusher, true},
		{KindFuzz, false},
		{KindWaveFolder, true},
		{KindWaveShaper, false},
		{Kind(99), false},
	}
	for _, tt := range tests {
		u.Configure(tt.kind, DefaultControls())
		if u.IntroducesDC() != tt.dc {
			t.Fatalf("%v: IntroducesDC = %v, want %v", tt.kind, u.IntroducesDC(), tt.dc)
		}
	}
	if u.Kind() != KindOff {
		t.Fatalf("invalid kind should select off, got %v", u.Kind())
	}
}

func TestUnitOffPassesThrough(t *testing.T) {
	u, err := NewUnit(1)
	if err != nil {
		t.Fatal(err)
	}
	in := testutil.DeterministicNoise(9, 1, 128)
	out := append([]float64(nil), in...)
	u.ProcessInPlace(out)
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestUnitProcessNoAllocs(t *testing.T) {
	u, err := NewUnit(1)
	if err != nil {
		t.Fatal(err)
	}
	buf := testutil.DeterministicSine(440, 48000, 0.7, 512)
	for _, k := range Kinds() {
		u.Configure(k, DefaultControls())
		allocs := testing.AllocsPerRun(20, func() {
			u.ProcessInPlace(buf)
		})
		if allocs != 0 {
			t.Fatalf("%v: %v allocs per block", k, allocs)
		}
	}
}

func BenchmarkUnit(b *testing.B) {
	u, err := NewUnit(1)
	if err != nil {
		b.Fatal(err)
	}
	buf := testutil.DeterministicSine(440, 48000, 0.7, 512)
	for _, k := range Kinds()[1:] {
		u.Configure(k, DefaultControls())
		b.Run(k.String(), func(b *testing.B) {
			b.SetBytes(int64(len(buf) * 8))
			for i := 0; i < b.N; i++ {
				u.ProcessInPlace(buf)
			}
		})
	}
}
