// Package time computes level statistics of a time-domain signal.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Stats holds time-domain signal statistics.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	ZeroCrossings  int
}

// ampTodB converts an amplitude to decibels. Zero maps to -Inf.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

// Calculate computes every statistic of signal.
func Calculate(signal []float64) Stats {
	s := Stats{
		Length:         len(signal),
		RMS_dB:         math.Inf(-1),
		Peak_dB:        math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
	if len(signal) == 0 {
		return s
	}

	s.DC = DC(signal)
	s.RMS = RMS(signal)
	s.RMS_dB = ampTodB(s.RMS)
	s.Peak = Peak(signal)
	s.Peak_dB = ampTodB(s.Peak)
	s.CrestFactor = CrestFactor(signal)
	s.CrestFactor_dB = ampTodB(s.CrestFactor)
	s.ZeroCrossings = ZeroCrossings(signal)
	return s
}

// RMS returns the root-mean-square level.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(signal, signal) / float64(len(signal)))
}

// DC returns the mean value.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return vecmath.Sum(signal) / float64(len(signal))
}

// Peak returns the maximum absolute value.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return vecmath.MaxAbs(signal)
}

// CrestFactor returns Peak/RMS, or 0 for silence.
func CrestFactor(signal []float64) float64 {
	rms := RMS(signal)
	if rms == 0 {
		return 0
	}
	return Peak(signal) / rms
}

// ZeroCrossings counts sign changes. Zero samples are skipped.
func ZeroCrossings(signal []float64) int {
	n := 0
	prev := 0.0
	for _, x := range signal {
		if x == 0 {
			continue
		}
		if prev != 0 && (x > 0) != (prev > 0) {
			n++
		}
		prev = x
	}
	return n
}
