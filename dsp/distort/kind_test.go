package distort

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"off", KindOff, false},
		{"BitCrusher", KindBitCrusher, false},
		{" fuzz ", KindFuzz, false},
		{"wavefolder", KindWaveFolder, false},
		{"WAVESHAPER", KindWaveShaper, false},
		{"chorus", KindOff, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseKind(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindFromIndex(t *testing.T) {
	tests := []struct {
		in   float64
		want Kind
	}{
		{0, KindOff},
		{1, KindBitCrusher},
		{2.4, KindFuzz},
		{2.6, KindWaveFolder},
		{4, KindWaveShaper},
		{5, KindOff},
		{-1, KindOff},
		{math.NaN(), KindOff},
	}
	for _, tt := range tests {
		if got := KindFromIndex(tt.in); got != tt.want {
			t.Fatalf("KindFromIndex(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	type wrapper struct {
		Kind Kind `json:"kind"`
	}
	data, err := json.Marshal(wrapper{Kind: KindWaveFolder})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"kind":"wavefolder"}` {
		t.Fatalf("marshal = %s", data)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"kind":"fuzz"}`), &w); err != nil {
		t.Fatal(err)
	}
	if w.Kind != KindFuzz {
		t.Fatalf("unmarshal = %v, want fuzz", w.Kind)
	}

	if _, err := Kind(42).MarshalText(); err == nil {
		t.Fatal("expected error for invalid kind")
	}
	if Kind(42).String() != "Kind(42)" {
		t.Fatalf("String() = %q", Kind(42).String())
	}
}

func TestKindsOrder(t *testing.T) {
	ks := Kinds()
	if len(ks) != 5 {
		t.Fatalf("len = %d, want 5", len(ks))
	}
	for i, k := range ks {
		if int(k) != i {
			t.Fatalf("Kinds()[%d] = %v", i, k)
		}
	}
}
