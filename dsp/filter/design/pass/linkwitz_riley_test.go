package pass

import (
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-bandcrush/dsp/filter/biquad"
)

func TestLinkwitzRileySectionCount(t *testing.T) {
	tests := []struct {
		order    int
		sections int
	}{
		{2, 2},
		{4, 2},
		{6, 4},
		{8, 4},
	}
	for _, tt := range tests {
		if got := len(LinkwitzRileyLP(1000, tt.order, 48000)); got != tt.sections {
			t.Fatalf("LR%d LP: sections=%d, want %d", tt.order, got, tt.sections)
		}
		if got := LinkwitzRileySections(tt.order); got != tt.sections {
			t.Fatalf("LinkwitzRileySections(%d) = %d, want %d", tt.order, got, tt.sections)
		}
	}
}

func TestLinkwitzRileyRejectsOddOrder(t *testing.T) {
	if LinkwitzRileyLP(1000, 3, 48000) != nil || LinkwitzRileyHP(1000, 5, 48000) != nil {
		t.Fatal("expected nil for odd order")
	}
}

func TestLinkwitzRileyMinus6dBAtCrossover(t *testing.T) {
	const sr = 48000.0
	for _, order := range []int{2, 4, 8} {
		lp := chainDB(LinkwitzRileyLP(440, order, sr), 440, sr)
		hp := chainDB(LinkwitzRileyHP(440, order, sr), 440, sr)
		if !almostEqual(lp, -6.0206, 0.02) || !almostEqual(hp, -6.0206, 0.02) {
			t.Fatalf("LR%d: lp=%.4f hp=%.4f dB, want -6.02", order, lp, hp)
		}
	}
}

func TestLinkwitzRileySumIsAllpass(t *testing.T) {
	const sr = 48000.0
	for _, order := range []int{2, 4, 6, 8} {
		invert := LinkwitzRileyNeedsHPInvert(order)
		lp := biquad.NewChain(LinkwitzRileyLP(1000, order, sr))
		hp := biquad.NewChain(AppendLinkwitzRileyHP(nil, 1000, order, sr, invert))

		for _, f := range []float64{30, 300, 1000, 3000, 15000} {
			sum := cmplx.Abs(lp.Response(f, sr) + hp.Response(f, sr))
			if !almostEqual(sum, 1, 1e-6) {
				t.Fatalf("LR%d at %v Hz: |LP+HP| = %v, want 1", order, f, sum)
			}
		}
	}
}

func TestNeedsHPInvert(t *testing.T) {
	for order, want := range map[int]bool{2: true, 4: false, 6: true, 8: false, 0: false} {
		if got := LinkwitzRileyNeedsHPInvert(order); got != want {
			t.Fatalf("order %d: got %v, want %v", order, got, want)
		}
	}
}
