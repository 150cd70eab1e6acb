package webdemo

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-bandcrush/dsp/window"
)

const spectrumFloorDB = -130.0

// SpectrumParams configures the output analyzer.
type SpectrumParams struct {
	FFTSize   int
	Overlap   float64
	Smoothing float64
	Window    string
}

type analyzer struct {
	spectrum           SpectrumParams
	spectrumWindow     []float64
	spectrumWindowGain float64
	spectrumPlan       *algofft.Plan[complex128]

	spectrumFFTSize      int
	spectrumHopSize      int
	spectrumInput        []complex128
	spectrumOutput       []complex128
	spectrumRing         []float64
	spectrumWrite        int
	spectrumFilled       int
	spectrumSamplesToHop int

	spectrumDB    []float64
	spectrumReady bool
}

// SetSpectrum updates analyzer settings. Zero fields take defaults.
func (e *Engine) SetSpectrum(p SpectrumParams) error {
	cfg := sanitizeSpectrumParams(p)

	winType, err := spectrumWindowType(cfg.Window)
	if err != nil {
		return err
	}

	win := window.Generate(winType, cfg.FFTSize, window.WithPeriodic())
	sum := 0.0
	for _, w := range win {
		sum += w
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return fmt.Errorf("spectrum init fft plan: %w", err)
	}

	hop := max(int(math.Round(float64(cfg.FFTSize)*(1-cfg.Overlap))), 1)

	a := &e.analyzer
	a.spectrum = cfg
	a.spectrumWindow = win
	a.spectrumWindowGain = sum / float64(cfg.FFTSize)
	a.spectrumPlan = plan
	a.spectrumFFTSize = cfg.FFTSize
	a.spectrumHopSize = hop
	a.spectrumInput = make([]complex128, cfg.FFTSize)
	a.spectrumOutput = make([]complex128, cfg.FFTSize)
	a.spectrumRing = make([]float64, cfg.FFTSize)
	a.spectrumWrite = 0
	a.spectrumFilled = 0
	a.spectrumSamplesToHop = 0

	a.spectrumDB = make([]float64, cfg.FFTSize/2+1)
	for i := range a.spectrumDB {
		a.spectrumDB[i] = spectrumFloorDB
	}
	a.spectrumReady = false

	return nil
}

// SpectrumCurveDB returns the smoothed output spectrum in dBFS at freqs.
func (e *Engine) SpectrumCurveDB(freqs []float64) []float64 {
	out := make([]float64, len(freqs))
	last := len(e.spectrumDB) - 1
	if !e.spectrumReady || last < 1 {
		for i := range out {
			out[i] = spectrumFloorDB
		}
		return out
	}

	binHz := e.sampleRate / float64(e.spectrumFFTSize)
	for i, f := range freqs {
		bin := clamp(f, 0, e.sampleRate/2) / binHz
		switch {
		case bin <= 0:
			out[i] = e.spectrumDB[0]
		case bin >= float64(last):
			out[i] = e.spectrumDB[last]
		default:
			base := int(bin)
			frac := bin - float64(base)
			out[i] = e.spectrumDB[base] + frac*(e.spectrumDB[base+1]-e.spectrumDB[base])
		}
	}
	return out
}

func (a *analyzer) pushSpectrumSample(x float64) {
	a.spectrumRing[a.spectrumWrite] = x

	a.spectrumWrite++
	if a.spectrumWrite >= a.spectrumFFTSize {
		a.spectrumWrite = 0
	}
	if a.spectrumFilled < a.spectrumFFTSize {
		a.spectrumFilled++
	}

	a.spectrumSamplesToHop++
	if a.spectrumFilled < a.spectrumFFTSize || a.spectrumSamplesToHop < a.spectrumHopSize {
		return
	}

	a.spectrumSamplesToHop = 0
	a.updateSpectrumFrame()
}

func (a *analyzer) updateSpectrumFrame() {
	const eps = 1e-12

	read := a.spectrumWrite
	for i := range a.spectrumFFTSize {
		a.spectrumInput[i] = complex(a.spectrumRing[read]*a.spectrumWindow[i], 0)
		read++
		if read >= a.spectrumFFTSize {
			read = 0
		}
	}

	if err := a.spectrumPlan.Forward(a.spectrumOutput, a.spectrumInput); err != nil {
		return
	}

	norm := float64(a.spectrumFFTSize) * math.Max(a.spectrumWindowGain, eps)
	last := len(a.spectrumDB) - 1
	for k := 0; k <= last; k++ {
		mag := cmplx.Abs(a.spectrumOutput[k]) / norm
		if k > 0 && k < last {
			mag *= 2
		}
		valDB := math.Max(20*math.Log10(math.Max(eps, mag)), spectrumFloorDB)

		if !a.spectrumReady {
			a.spectrumDB[k] = valDB
			continue
		}
		s := a.spectrum.Smoothing
		a.spectrumDB[k] = s*a.spectrumDB[k] + (1-s)*valDB
	}

	a.spectrumReady = true
}

func sanitizeSpectrumParams(p SpectrumParams) SpectrumParams {
	cfg := p
	switch cfg.FFTSize {
	case 256, 512, 1024, 2048, 4096, 8192:
	default:
		cfg.FFTSize = 2048
	}

	if cfg.Overlap == 0 {
		cfg.Overlap = 0.5
	}
	cfg.Overlap = clamp(cfg.Overlap, 0.25, 0.95)
	cfg.Smoothing = clamp(cfg.Smoothing, 0, 0.95)

	cfg.Window = strings.ToLower(strings.TrimSpace(cfg.Window))
	if cfg.Window == "" {
		cfg.Window = "blackman"
	}
	return cfg
}

func spectrumWindowType(name string) (window.Type, error) {
	switch name {
	case "rectangular":
		return window.TypeRectangular, nil
	case "hann":
		return window.TypeHann, nil
	case "hamming":
		return window.TypeHamming, nil
	case "blackman":
		return window.TypeBlackman, nil
	default:
		return 0, fmt.Errorf("unsupported spectrum window: %s", name)
	}
}
