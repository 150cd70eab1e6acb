package thd

import (
	"math"
	"testing"
)

const sr = 48000.0

func tone(n int, parts map[int]float64, f0 float64) []float64 {
	out := make([]float64, n)
	for k, amp := range parts {
		step := 2 * math.Pi * float64(k) * f0 / sr
		for i := range out {
			out[i] += amp * math.Sin(step*float64(i))
		}
	}
	return out
}

func TestPureSine(t *testing.T) {
	res, err := AnalyzeSignal(tone(8192, map[int]float64{1: 0.5}, 1000), Config{SampleRate: sr})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.FundamentalFreq-1000) > 2 {
		t.Fatalf("fundamental = %.2f Hz, want 1000", res.FundamentalFreq)
	}
	if math.Abs(res.FundamentalLevel-0.5) > 0.005 {
		t.Fatalf("level = %.4f, want 0.5", res.FundamentalLevel)
	}
	if res.THD > 1e-3 {
		t.Fatalf("THD = %v for a pure sine", res.THD)
	}
	if len(res.Harmonics) != defaultMaxHarmonics {
		t.Fatalf("harmonics = %d, want %d", len(res.Harmonics), defaultMaxHarmonics)
	}
}

func TestKnownHarmonics(t *testing.T) {
	x := tone(6000, map[int]float64{1: 0.5, 2: 0.025, 3: 0.05}, 440)
	res, err := AnalyzeSignal(x, Config{SampleRate: sr, FundamentalFreq: 440, MaxHarmonics: 4})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		got, want float64
	}{
		{"2nd", res.Harmonics[0], 0.05},
		{"3rd", res.Harmonics[1], 0.1},
		{"THD", res.THD, math.Sqrt(0.05*0.05 + 0.1*0.1)},
		{"odd", res.OddHD, 0.1},
		{"even", res.EvenHD, 0.05},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 0.02*tt.want {
			t.Fatalf("%s = %.5f, want %.5f", tt.name, tt.got, tt.want)
		}
	}
	if len(res.Harmonics) != 4 {
		t.Fatalf("harmonics = %d, want 4", len(res.Harmonics))
	}
	if math.Abs(res.THD_dB-20*math.Log10(res.THD)) > 1e-9 {
		t.Fatalf("THD_dB = %v", res.THD_dB)
	}
}

func TestSymmetricClipIsOdd(t *testing.T) {
	x := tone(8192, map[int]float64{1: 1}, 200)
	for i, v := range x {
		x[i] = math.Max(-0.5, math.Min(0.5, v))
	}
	res, err := AnalyzeSignal(x, Config{SampleRate: sr, RangeUpperFreq: 10000})
	if err != nil {
		t.Fatal(err)
	}
	if res.OddHD < 0.1 {
		t.Fatalf("odd HD = %v, want strong odd harmonics", res.OddHD)
	}
	if res.EvenHD > 0.01*res.OddHD {
		t.Fatalf("even HD = %v vs odd %v", res.EvenHD, res.OddHD)
	}
}

func TestSilenceAndErrors(t *testing.T) {
	res, err := AnalyzeSignal(make([]float64, 1024), Config{SampleRate: sr})
	if err != nil {
		t.Fatal(err)
	}
	if res.FundamentalLevel != 0 || !math.IsInf(res.THD_dB, -1) {
		t.Fatalf("silence: %+v", res)
	}

	if _, err := AnalyzeSignal(make([]float64, 10), Config{SampleRate: sr}); err == nil {
		t.Fatal("expected error for short signal")
	}
	if _, err := AnalyzeSignal(make([]float64, 1024), Config{}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func BenchmarkAnalyzeSignal(b *testing.B) {
	x := tone(8192, map[int]float64{1: 0.5, 3: 0.05}, 440)
	b.ResetTimer()
	for range b.N {
		_, _ = AnalyzeSignal(x, Config{SampleRate: sr})
	}
}
