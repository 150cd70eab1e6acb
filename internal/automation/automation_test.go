package automation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-bandcrush/dsp/distort"
	"github.com/cwbudde/algo-bandcrush/dsp/pipeline"
)

func TestSetAndGet(t *testing.T) {
	p := pipeline.NewParams()
	s, err := Load(`
		set("freq", 880)
		set("mode", "harmonic")
		set("low.kind", "bitcrusher")
		set("link", true)
		set("high.drive", get("low.param"))
	`, p)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	snap := p.Load()
	if snap.Freq != 880 || snap.Mode != pipeline.ModeHarmonic || !snap.Link {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Low.Kind != distort.KindBitCrusher {
		t.Fatalf("low kind = %v", snap.Low.Kind)
	}
	if snap.High.Drive != 0.7 {
		t.Fatalf("high drive = %v, want 0.7", snap.High.Drive)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown parameter", `set("low.color", 1)`, "unknown parameter"},
		{"unknown kind", `set("high.kind", "chorus")`, "unknown kind"},
		{"name for scalar", `set("mix", "loud")`, "does not take a name"},
		{"table value", `set("mix", {})`, "unsupported value type"},
		{"unknown get", `get("tempo")`, "unknown parameter"},
		{"syntax", `set(`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src, pipeline.NewParams())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestNilTarget(t *testing.T) {
	if _, err := Load("", nil); err == nil {
		t.Fatal("expected error for nil target")
	}
}

func TestNames(t *testing.T) {
	p := pipeline.NewParams()
	s, err := Load(`set("mix", #names() / 100)`, p)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got := p.Load().Mix; got != 0.12 {
		t.Fatalf("mix = %v, want 0.12", got)
	}
}

func TestTick(t *testing.T) {
	p := pipeline.NewParams()
	s, err := Load(`
		function tick(t)
			set("freq", 100 + 1000 * t)
		end
	`, p)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if !s.HasTick() {
		t.Fatal("tick not detected")
	}
	if err := s.Tick(0.5); err != nil {
		t.Fatal(err)
	}
	if got := p.Load().Freq; got != 600 {
		t.Fatalf("freq = %v, want 600", got)
	}
}

func TestTickErrorAndMissingTick(t *testing.T) {
	s, err := Load(`function tick(t) set("nope", t) end`, pipeline.NewParams())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Tick(1); err == nil {
		t.Fatal("expected tick error")
	}

	plain, err := Load(`set("mix", 0.5)`, pipeline.NewParams())
	if err != nil {
		t.Fatal(err)
	}
	defer plain.Close()
	if plain.HasTick() {
		t.Fatal("unexpected tick")
	}
	if err := plain.Tick(1); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.lua")
	if err := os.WriteFile(path, []byte(`set("low.level", 0.25)`), 0o600); err != nil {
		t.Fatal(err)
	}
	p := pipeline.NewParams()
	s, err := LoadFile(path, p)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if p.Load().Low.Level != 0.25 {
		t.Fatalf("low level = %v", p.Load().Low.Level)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "none.lua"), p); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name, in string
		want     float64
		wantErr  bool
	}{
		{"freq", "880", 880, false},
		{"link", "true", 1, false},
		{"link", "false", 0, false},
		{"mode", "harmonic", float64(pipeline.ModeHarmonic), false},
		{"high.kind", " WaveShaper ", float64(distort.KindWaveShaper), false},
		{"low.kind", "reverb", 0, true},
		{"mix", "half", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.name, tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseValue(%q, %q) err = %v", tt.name, tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseValue(%q, %q) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestClose(t *testing.T) {
	s, err := Load(`function tick(t) end`, pipeline.NewParams())
	if err != nil {
		t.Fatal(err)
	}
	if !s.HasTick() {
		t.Fatal("HasTick() = false before Close")
	}
	s.Close()
	s.Close()
	if s.HasTick() {
		t.Fatal("HasTick() = true after Close")
	}
	if err := s.Tick(1); !errors.Is(err, errClosed) {
		t.Fatalf("Tick after Close: err = %v", err)
	}
}
