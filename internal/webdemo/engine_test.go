package webdemo

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-bandcrush/dsp/distort"
	"github.com/cwbudde/algo-bandcrush/dsp/pipeline"
)

func TestNewEngineRejectsBadRate(t *testing.T) {
	if _, err := NewEngine(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestRenderSilentWhenStopped(t *testing.T) {
	e, err := NewEngine(48000)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float32, 3000)
	e.Render(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %v, want silence", i, v)
		}
	}
}

func TestRenderRunningIsBounded(t *testing.T) {
	e, err := NewEngine(48000)
	if err != nil {
		t.Fatal(err)
	}
	e.SetRunning(true)
	if err := e.SetParam("low.kind", float64(distort.KindBitCrusher)); err != nil {
		t.Fatal(err)
	}

	buf := make([]float32, 9000)
	e.Render(buf)

	peak := 0.0
	for i, v := range buf {
		x := float64(v)
		if math.IsNaN(x) || math.Abs(x) > 1 {
			t.Fatalf("sample %d = %v out of range", i, v)
		}
		peak = math.Max(peak, math.Abs(x))
	}
	if peak == 0 {
		t.Fatal("running sequencer produced silence")
	}
}

func TestPresetRoundTrip(t *testing.T) {
	e, err := NewEngine(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.LoadPreset([]byte(`{"mode":"harmonic","freq":220,"low":{"kind":"waveshaper"}}`)); err != nil {
		t.Fatal(err)
	}
	snap := e.Params().Load()
	if snap.Mode != pipeline.ModeHarmonic || snap.Freq != 220 || snap.Low.Kind != distort.KindWaveShaper {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Low.Drive != pipeline.DefaultSnapshot().Low.Drive {
		t.Fatalf("missing field changed: drive = %v", snap.Low.Drive)
	}
	if e.Latency() == 0 {
		t.Fatal("harmonic mode should report latency")
	}

	data, err := e.Preset()
	if err != nil {
		t.Fatal(err)
	}
	other, _ := NewEngine(44100)
	if err := other.LoadPreset(data); err != nil {
		t.Fatal(err)
	}
	if other.Params().Load() != snap {
		t.Fatal("preset did not round-trip")
	}

	if err := e.LoadPreset([]byte(`{"mode":"chorus"}`)); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSpectrumFindsTone(t *testing.T) {
	e, err := NewEngine(48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetSpectrum(SpectrumParams{FFTSize: 1024, Window: "hann"}); err != nil {
		t.Fatal(err)
	}
	if got := e.SpectrumCurveDB([]float64{1000}); got[0] != spectrumFloorDB {
		t.Fatalf("empty analyzer = %v, want floor", got[0])
	}

	for i := range 4096 {
		e.pushSpectrumSample(0.5 * math.Sin(2*math.Pi*1500*float64(i)/48000))
	}
	curve := e.SpectrumCurveDB([]float64{1500, 9000})
	if curve[0] < -10 || curve[0] > -3 {
		t.Fatalf("tone level = %.2f dB, want about -6", curve[0])
	}
	if curve[1] > curve[0]-40 {
		t.Fatalf("off-tone level %.2f dB too close to tone %.2f dB", curve[1], curve[0])
	}

	if err := e.SetSpectrum(SpectrumParams{Window: "kaiser"}); err == nil {
		t.Fatal("expected error for unsupported window")
	}
}

func TestSetParamUnknown(t *testing.T) {
	e, err := NewEngine(48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetParam("tempo", 1); err == nil {
		t.Fatal("expected error")
	}
	if _, err := e.Param("freq"); err != nil {
		t.Fatal(err)
	}
}
