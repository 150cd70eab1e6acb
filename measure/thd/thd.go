// Package thd measures harmonic distortion of a periodic test signal.
package thd

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bandcrush/dsp/window"
)

const (
	defaultMaxHarmonics = 10
	defaultLowerHz      = 20.0

	// Blackman main lobe half-width in bins of an unpadded transform.
	blackmanHalfLobe = 3
	// peak search radius around a nominal harmonic bin
	searchBins = 2
)

// Config holds THD calculation parameters.
type Config struct {
	SampleRate float64
	// FundamentalFreq is a hint; zero picks the strongest bin.
	FundamentalFreq float64
	// MaxHarmonics caps the harmonics analyzed, starting at the 2nd.
	MaxHarmonics int
	// RangeUpperFreq bounds the analysis; zero means Nyquist.
	RangeUpperFreq float64
}

// Result holds THD measurement results. Ratios are relative to the
// fundamental amplitude.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64 // estimated peak amplitude
	THD              float64
	THD_dB           float64
	OddHD            float64
	EvenHD           float64
	// Harmonics[i] is the amplitude ratio of harmonic i+2.
	Harmonics []float64
}

// AnalyzeSignal windows signal with a Blackman window, zero-pads it to a
// power of two and evaluates the harmonic series of its fundamental.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	if len(signal) < 64 {
		return Result{}, errors.New("thd: signal shorter than 64 samples")
	}
	if cfg.SampleRate <= 0 {
		return Result{}, errors.New("thd: sample rate must be > 0")
	}
	if cfg.MaxHarmonics <= 0 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}
	nyquist := cfg.SampleRate / 2
	if cfg.RangeUpperFreq <= 0 || cfg.RangeUpperFreq > nyquist {
		cfg.RangeUpperFreq = nyquist
	}

	fftSize := nextPowerOf2(len(signal))
	win := window.Generate(window.TypeBlackman, len(signal))
	in := make([]complex128, fftSize)
	for i, x := range signal {
		in[i] = complex(x*win[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, err
	}
	if err := plan.Forward(in, in); err != nil {
		return Result{}, err
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k], im[k] = real(in[k]), imag(in[k])
	}
	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	a := analysis{
		power:   power,
		binHz:   cfg.SampleRate / float64(fftSize),
		capture: int(math.Ceil(blackmanHalfLobe*float64(fftSize)/float64(len(signal)))) + 1,
		// Parseval: a windowed sine of amplitude A puts N*A^2*sum(w^2)/4
		// into its one-sided main lobe.
		levelScale: 4 / (float64(fftSize) * vecmath.DotProduct(win, win)),
	}
	return a.evaluate(cfg), nil
}

type analysis struct {
	power      []float64
	binHz      float64
	capture    int
	levelScale float64
}

func (a *analysis) evaluate(cfg Config) Result {
	maxBin := len(a.power) - 1
	upperBin := min(int(cfg.RangeUpperFreq/a.binHz), maxBin)
	lowerBin := max(int(math.Ceil(defaultLowerHz/a.binHz)), 1)

	f0Bin := 0
	if cfg.FundamentalFreq > 0 {
		f0Bin = a.peakNear(cfg.FundamentalFreq/a.binHz, lowerBin, upperBin)
	} else {
		f0Bin = a.peakIn(lowerBin, upperBin)
	}
	res := Result{FundamentalFreq: a.interpolatedFreq(f0Bin)}

	fundamental := a.amplitude(f0Bin)
	res.FundamentalLevel = fundamental
	if fundamental <= 0 {
		res.THD_dB = math.Inf(-1)
		return res
	}

	var sum, odd, even float64
	for k := 2; k-2 < cfg.MaxHarmonics; k++ {
		nominal := float64(k) * res.FundamentalFreq / a.binHz
		if nominal > float64(upperBin) {
			break
		}
		ratio := a.amplitude(a.peakNear(nominal, lowerBin, upperBin)) / fundamental
		res.Harmonics = append(res.Harmonics, ratio)
		sum += ratio * ratio
		if k%2 == 0 {
			even += ratio * ratio
		} else {
			odd += ratio * ratio
		}
	}

	res.THD = math.Sqrt(sum)
	res.OddHD = math.Sqrt(odd)
	res.EvenHD = math.Sqrt(even)
	res.THD_dB = ratioToDB(res.THD)
	return res
}

// amplitude integrates the main lobe around bin.
func (a *analysis) amplitude(bin int) float64 {
	lo := max(bin-a.capture, 0)
	hi := min(bin+a.capture, len(a.power)-1)
	p := 0.0
	for k := lo; k <= hi; k++ {
		p += a.power[k]
	}
	return math.Sqrt(p * a.levelScale)
}

func (a *analysis) peakIn(lo, hi int) int {
	best := lo
	for k := lo; k <= hi; k++ {
		if a.power[k] > a.power[best] {
			best = k
		}
	}
	return best
}

func (a *analysis) peakNear(nominal float64, lo, hi int) int {
	radius := searchBins * max(a.capture-1, 1) / blackmanHalfLobe
	c := int(math.Round(nominal))
	return a.peakIn(max(c-radius, lo), min(c+radius, hi))
}

// interpolatedFreq refines a peak bin with a parabolic fit on log power.
func (a *analysis) interpolatedFreq(bin int) float64 {
	if bin <= 0 || bin >= len(a.power)-1 {
		return float64(bin) * a.binHz
	}
	l := math.Log(a.power[bin-1] + 1e-300)
	c := math.Log(a.power[bin] + 1e-300)
	r := math.Log(a.power[bin+1] + 1e-300)
	den := l - 2*c + r
	if den == 0 {
		return float64(bin) * a.binHz
	}
	return (float64(bin) + 0.5*(l-r)/den) * a.binHz
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
