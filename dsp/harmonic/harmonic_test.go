package harmonic

import (
	"math"
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-bandcrush/internal/testutil"
)

const sr = 48000.0

func newSplitter(t *testing.T, opts ...Option) *Splitter {
	t.Helper()
	s, err := NewSplitter(sr, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSetGenerate(t *testing.T) {
	s := NewSet(sr/2, DefaultWidthFraction, DefaultFalloff)
	s.Generate(440, sr/2)

	hs := s.Harmonics()
	if len(hs) != 54 {
		// 54*440 = 23760 < 24000, 55*440 = 24200
		t.Fatalf("len = %d, want 54", len(hs))
	}
	for i, h := range hs {
		n := float64(i + 1)
		if h.Freq != n*440 {
			t.Fatalf("harmonic %d freq = %v", i, h.Freq)
		}
		if math.Abs(h.WidthHz-132) > 1e-9 {
			t.Fatalf("harmonic %d width = %v, want 132", i, h.WidthHz)
		}
		if math.Abs(h.Weight-1/math.Sqrt(n)) > 1e-12 {
			t.Fatalf("harmonic %d weight = %v", i, h.Weight)
		}
	}
}

func TestSetGenerateEdgeCases(t *testing.T) {
	s := NewSet(sr/2, DefaultWidthFraction, DefaultFalloff)
	for _, f0 := range []float64{0, -10, math.NaN(), math.Inf(1), sr} {
		s.Generate(f0, sr/2)
		if s.Len() != 0 {
			t.Fatalf("f0=%v: len = %d, want 0", f0, s.Len())
		}
	}

	s.Generate(MinFundamental, sr/2)
	if s.Len() != 1199 {
		t.Fatalf("lowest fundamental: len = %d, want 1199", s.Len())
	}
	// Below the sized minimum the series is truncated rather than grown.
	s.Generate(5, sr/2)
	if s.Len() != cap(s.harmonics) {
		t.Fatalf("len = %d, want capacity %d", s.Len(), cap(s.harmonics))
	}
}

func TestMask440(t *testing.T) {
	s := newSplitter(t)
	s.SetFundamental(440)
	m := s.Mask()

	for _, f := range []float64{440, 880, 1320} {
		if w := m.Weight(m.Bin(f)); w <= 0 {
			t.Fatalf("bin near %v Hz has weight %v, want > 0", f, w)
		}
	}
	if w := m.Weight(m.Bin(700)); w != 0 {
		t.Fatalf("bin near 700 Hz has weight %v, want 0", w)
	}
}

func TestMaskBoundsAndComplement(t *testing.T) {
	s := newSplitter(t, WithFalloff(0))
	s.SetFundamental(110)
	m := s.Mask()
	for bin, w := range m.Weights() {
		if w < 0 || w > 1 {
			t.Fatalf("bin %d weight %v outside [0, 1]", bin, w)
		}
		if c := m.Complement(bin); math.Abs(w+c-1) > 1e-15 {
			t.Fatalf("bin %d: weight %v + complement %v != 1", bin, w, c)
		}
	}
	if cov := m.Coverage(); cov <= 0 || cov > 1 {
		t.Fatalf("coverage = %v", cov)
	}
}

func TestMaskTriangle(t *testing.T) {
	set := NewSet(sr/2, 0.5, 0)
	// Fundamental on an exact bin: 100 bins * 23.4375 Hz.
	f0 := 100 * sr / DefaultSize
	set.Generate(f0, sr/2)
	m := NewMask(DefaultSize, sr)
	m.Build(set)

	if w := m.Weight(100); w != 1 {
		t.Fatalf("center weight = %v, want 1", w)
	}
	// Half-width is 50 bins; 25 bins away is halfway down the slope.
	if w := m.Weight(125); math.Abs(w-0.5) > 1e-12 {
		t.Fatalf("weight at 25 bins = %v, want 0.5", w)
	}
	if w := m.Weight(-1); w != 0 {
		t.Fatalf("out-of-range weight = %v", w)
	}
}

func TestSetFundamentalCache(t *testing.T) {
	s := newSplitter(t)
	if !s.SetFundamental(440) {
		t.Fatal("first call should rebuild")
	}
	if s.SetFundamental(440.005) {
		t.Fatal("move within tolerance should not rebuild")
	}
	if s.Fundamental() != 440 {
		t.Fatalf("cached fundamental = %v", s.Fundamental())
	}
	if !s.SetFundamental(440.5) {
		t.Fatal("move beyond tolerance should rebuild")
	}
}

func TestOptionsValidation(t *testing.T) {
	if _, err := NewSplitter(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	for _, opt := range []Option{WithSize(1000), WithSize(128), WithWidthFraction(0), WithFalloff(-1)} {
		if _, err := NewSplitter(sr, opt); err == nil {
			t.Fatal("expected option error")
		}
	}
	s := newSplitter(t, WithSize(512), nil)
	if s.Size() != 512 || s.Hop() != 256 || s.Latency() != 511 {
		t.Fatalf("size=%d hop=%d latency=%d", s.Size(), s.Hop(), s.Latency())
	}
}

func TestIdentityReconstructsDelayedInput(t *testing.T) {
	for _, size := range []int{256, DefaultSize} {
		s := newSplitter(t, WithSize(size))
		s.SetFundamental(440)
		ch := s.NewChannel()

		in := testutil.DeterministicNoise(11, 0.5, 4*size+37)
		out := append([]float64(nil), in...)
		// Uneven block sizes must not matter.
		for start, block := 0, 1; start < len(out); start, block = start+block, block*2+1 {
			end := min(start+block, len(out))
			s.Process(ch, out[start:end], nil)
		}

		lat := s.Latency()
		for i := range out {
			want := 0.0
			if i >= lat {
				want = in[i-lat]
			}
			if math.Abs(out[i]-want) > 1e-9 {
				t.Fatalf("size %d sample %d: got %v, want %v", size, i, out[i], want)
			}
		}
	}
}

type recordShaper struct {
	frames int
	energy [2]float64
}

func (r *recordShaper) ShapeBands(a, b []float64) {
	r.frames++
	for i := range a {
		r.energy[0] += a[i] * a[i]
		r.energy[1] += b[i] * b[i]
	}
}

func TestShaperSeesSeparatedBands(t *testing.T) {
	s := newSplitter(t)
	s.SetFundamental(440)
	ch := s.NewChannel()

	// 440 Hz lands in band A, 700 Hz in band B.
	var r recordShaper
	s.Process(ch, testutil.DeterministicSine(440, sr, 0.5, 8*s.Hop()), &r)
	if r.frames != 8 {
		t.Fatalf("frames = %d, want 8", r.frames)
	}
	if r.energy[0] < 10*r.energy[1] {
		t.Fatalf("440 Hz: band A energy %v not dominant over B %v", r.energy[0], r.energy[1])
	}

	ch.Reset()
	r = recordShaper{}
	s.Process(ch, testutil.DeterministicSine(700, sr, 0.5, 8*s.Hop()), &r)
	if r.energy[1] < 10*r.energy[0] {
		t.Fatalf("700 Hz: band B energy %v not dominant over A %v", r.energy[1], r.energy[0])
	}
}

type muteA struct{}

func (muteA) ShapeBands(a, _ []float64) { clear(a) }

func TestMutingHarmonicBandRemovesFundamental(t *testing.T) {
	s := newSplitter(t)
	s.SetFundamental(440)
	ch := s.NewChannel()

	buf := testutil.DeterministicSine(440, sr, 0.5, 16*s.Hop())
	s.Process(ch, buf, muteA{})

	tail := buf[len(buf)-4800:]
	if mag := testutil.ToneMagnitude(tail, 440, sr); mag > 0.2 {
		t.Fatalf("440 Hz magnitude after muting band A = %v", mag)
	}
}

func TestFailedTransformEmitsSilence(t *testing.T) {
	s := newSplitter(t, WithSize(256))
	s.SetFundamental(440)
	ch := s.NewChannel()
	hop := s.Hop()
	in := testutil.DeterministicSine(440, sr, 0.5, 12*hop)

	warm := append([]float64(nil), in[:4*hop]...)
	s.Process(ch, warm, nil)

	good := s.plan
	mismatched, err := algofft.NewPlan64(2 * s.size)
	if err != nil {
		t.Fatal(err)
	}
	s.plan = mismatched
	broken := append([]float64(nil), in[4*hop:6*hop]...)
	s.Process(ch, broken, nil)
	testutil.RequireSilent(t, broken[hop-1:])
	testutil.RequireSliceNearlyEqual(t, ch.history[:hop], in[5*hop:6*hop], 0)

	s.plan = good
	healed := append([]float64(nil), in[6*hop:]...)
	s.Process(ch, healed, nil)
	if peak := testutil.RMS(healed[len(healed)-2*hop:]); peak < 0.2 {
		t.Fatalf("RMS after recovery = %v", peak)
	}
}

func TestProcessNoAllocs(t *testing.T) {
	s := newSplitter(t)
	s.SetFundamental(440)
	ch := s.NewChannel()
	buf := testutil.DeterministicSine(440, sr, 0.5, 512)
	allocs := testing.AllocsPerRun(10, func() {
		s.Process(ch, buf, nil)
		s.SetFundamental(445)
		s.SetFundamental(440)
	})
	if allocs != 0 {
		t.Fatalf("Process allocated %v times", allocs)
	}
}

func BenchmarkProcess(b *testing.B) {
	s, err := NewSplitter(sr)
	if err != nil {
		b.Fatal(err)
	}
	s.SetFundamental(440)
	ch := s.NewChannel()
	buf := testutil.DeterministicSine(440, sr, 0.5, 512)
	b.SetBytes(int64(len(buf) * 8))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Process(ch, buf, nil)
	}
}
