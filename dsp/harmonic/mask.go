package harmonic

import (
	"math"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
)

// Mask holds one weight in [0, 1] per non-negative frequency bin of an
// FFT of a given size.
type Mask struct {
	weights []float64
	binHz   float64
}

// NewMask creates an all-zero mask for an FFT of size bins at sampleRate.
func NewMask(size int, sampleRate float64) *Mask {
	return &Mask{
		weights: make([]float64, size/2+1),
		binHz:   sampleRate / float64(size),
	}
}

// Build recomputes the mask from set. Each bin takes the largest
// triangular contribution Weight*(1-|f-Freq|/WidthHz) over the harmonics
// whose width contains it. Only bins inside some width are visited.
func (m *Mask) Build(set *Set) {
	clear(m.weights)
	last := len(m.weights) - 1

	for _, h := range set.Harmonics() {
		if h.WidthHz <= 0 {
			continue
		}
		lo := max(int(math.Ceil((h.Freq-h.WidthHz)/m.binHz)), 0)
		hi := min(int(math.Floor((h.Freq+h.WidthHz)/m.binHz)), last)
		for bin := lo; bin <= hi; bin++ {
			d := math.Abs(float64(bin)*m.binHz - h.Freq)
			w := h.Weight * (1 - d/h.WidthHz)
			if w > m.weights[bin] {
				m.weights[bin] = w
			}
		}
	}

	for i, w := range m.weights {
		m.weights[i] = core.Clamp(w, 0, 1)
	}
}

// Weights returns the per-bin weights. The slice is reused by Build.
func (m *Mask) Weights() []float64 { return m.weights }

// Weight returns the weight of bin, 0 outside the mask.
func (m *Mask) Weight(bin int) float64 {
	if bin < 0 || bin >= len(m.weights) {
		return 0
	}
	return m.weights[bin]
}

// Complement returns 1-Weight(bin).
func (m *Mask) Complement(bin int) float64 { return 1 - m.Weight(bin) }

// BinFreq returns the center frequency of bin in Hz.
func (m *Mask) BinFreq(bin int) float64 { return float64(bin) * m.binHz }

// Bin returns the bin nearest to freq.
func (m *Mask) Bin(freq float64) int {
	return int(math.Round(freq / m.binHz))
}

// Coverage returns the fraction of bins with a non-zero weight.
func (m *Mask) Coverage() float64 {
	if len(m.weights) == 0 {
		return 0
	}
	n := 0
	for _, w := range m.weights {
		if w > 0 {
			n++
		}
	}
	return float64(n) / float64(len(m.weights))
}
