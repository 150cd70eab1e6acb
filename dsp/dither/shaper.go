package dither

import (
	"fmt"
	"strings"
)

// NoiseShaper applies spectral shaping to quantization error via feedback filtering.
// The usage cycle per sample is:
//  1. shaped := shaper.Shape(scaledInput)
//  2. quantized := round(shaped + dither)
//  3. shaper.RecordError(float64(quantized) - shaped)
type NoiseShaper interface {
	Shape(input float64) float64
	RecordError(quantizationError float64)
	Reset()
}

// FIRShaper implements error-feedback noise shaping with FIR coefficients
// and a circular buffer for quantization error history.
type FIRShaper struct {
	coeffs  []float64
	history []float64
	pos     int
}

// NewFIRShaper creates a new FIR noise shaper with the given coefficients.
// A nil or empty slice creates a pass-through.
func NewFIRShaper(coeffs []float64) *FIRShaper {
	return &FIRShaper{
		coeffs:  append([]float64(nil), coeffs...),
		history: make([]float64, len(coeffs)),
	}
}

// Shape subtracts weighted past quantization errors from input.
func (s *FIRShaper) Shape(input float64) float64 {
	order := len(s.coeffs)
	if order == 0 {
		return input
	}
	for i, c := range s.coeffs {
		input -= c * s.history[(order+s.pos-i)%order]
	}
	s.pos = (s.pos + 1) % order
	return input
}

// RecordError stores the quantization error for the current sample.
// Must be called once after each Shape call.
func (s *FIRShaper) RecordError(quantizationError float64) {
	if len(s.history) == 0 {
		return
	}
	s.history[s.pos] = quantizationError
}

// Reset clears the error history.
func (s *FIRShaper) Reset() {
	clear(s.history)
	s.pos = 0
}

// Preset identifies a predefined FIR noise-shaping coefficient set.
type Preset int

const (
	PresetNone Preset = iota // no shaping
	PresetEFB                // simple error feedback, 1st order
	Preset2SC                // simple 2nd-order highpass
	Preset3FC                // F-weighted, 3rd order
	Preset9FC                // F-weighted, 9th order

	presetCount
)

var presetNames = [presetCount]string{"none", "efb", "2sc", "3fc", "9fc"}

var presetCoeffs = [presetCount][]float64{
	PresetNone: nil,
	PresetEFB:  {1},
	Preset2SC:  {1.0, -0.5},
	Preset3FC:  {1.623, -0.982, 0.109},
	Preset9FC: {
		2.412, -3.370, 3.937, -4.174, 3.353,
		-2.205, 1.281, -0.569, 0.0847,
	},
}

// String returns the lower-case name of the preset.
func (p Preset) String() string {
	if p.Valid() {
		return presetNames[p]
	}
	return fmt.Sprintf("Preset(%d)", p)
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	return p >= 0 && p < presetCount
}

// Coefficients returns a copy of the preset's FIR coefficients, nil for
// PresetNone.
func (p Preset) Coefficients() []float64 {
	if !p.Valid() || len(presetCoeffs[p]) == 0 {
		return nil
	}
	return append([]float64(nil), presetCoeffs[p]...)
}

// ParsePreset maps a preset name (case-insensitive) to its Preset.
func ParsePreset(s string) (Preset, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range presetNames {
		if s == name {
			return Preset(i), nil
		}
	}
	return PresetNone, fmt.Errorf("dither: unknown preset %q", s)
}
