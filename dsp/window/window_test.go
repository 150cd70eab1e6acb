package window

import (
	"math"
	"testing"
)

func TestGenerateFinite(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		w := Generate(typ, 64)
		if len(w) != 64 {
			t.Fatalf("type=%d len=%d, want 64", typ, len(w))
		}

		for i, v := range w {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("type=%d coefficient[%d] invalid: %v", typ, i, v)
			}
		}
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("expected nil for zero length, got %v", w)
	}
	if _, err := Hann(-1); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestHannSymmetricEndpoints(t *testing.T) {
	w, err := Hann(2048)
	if err != nil {
		t.Fatalf("Hann() error = %v", err)
	}

	if math.Abs(w[0]) > 1e-15 || math.Abs(w[len(w)-1]) > 1e-15 {
		t.Fatalf("endpoints = %v %v, want 0", w[0], w[len(w)-1])
	}

	for i := range w {
		j := len(w) - 1 - i
		if math.Abs(w[i]-w[j]) > 1e-12 {
			t.Fatalf("w[%d]=%v != w[%d]=%v", i, w[i], j, w[j])
		}
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)
	b := Generate(TypeHann, 16, WithPeriodic())

	same := true
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			same = false
			break
		}
	}
	if same {
		t.Fatal("periodic and symmetric windows should differ")
	}
}

func TestOverlapSquaredSumPositive(t *testing.T) {
	w := Generate(TypeHann, 2048)

	norm, err := OverlapSquaredSum(w, 1024)
	if err != nil {
		t.Fatalf("OverlapSquaredSum() error = %v", err)
	}

	if len(norm) != 1024 {
		t.Fatalf("len = %d, want 1024", len(norm))
	}

	for i, v := range norm {
		if v < 0.49 || v > 1.01 {
			t.Fatalf("norm[%d] = %v, want within [0.5, 1]", i, v)
		}
	}
}

func TestOverlapSquaredSumErrors(t *testing.T) {
	if _, err := OverlapSquaredSum(nil, 1); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if _, err := OverlapSquaredSum(make([]float64, 10), 3); err == nil {
		t.Fatal("expected error for hop not dividing length")
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	samples := []float64{2, 2, 2, 2}
	coeffs := []float64{0, 0.5, 1, 0.25}

	if err := ApplyCoefficientsInPlace(samples, coeffs); err != nil {
		t.Fatalf("ApplyCoefficientsInPlace() error = %v", err)
	}

	want := []float64{0, 1, 2, 0.5}
	for i := range want {
		if math.Abs(samples[i]-want[i]) > 1e-15 {
			t.Fatalf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs[:2]); err == nil {
		t.Fatal("expected mismatched length error")
	}
}
