// Package webdemo runs the browser demo: a step sequencer feeding the
// two-band distortion pipeline, with a spectrum analyzer on the output.
package webdemo

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
	"github.com/cwbudde/algo-bandcrush/dsp/pipeline"
)

const (
	stepCount       = 16
	minDecaySeconds = 0.01
	maxVoices       = 64
	renderBlock     = 512
)

// StepConfig defines one sequencer step. Accented notes play twice as
// loud and drive the distortion harder.
type StepConfig struct {
	Enabled bool
	FreqHz  float64
	Accent  bool
}

// Engine runs the web demo DSP graph in Go.
type Engine struct {
	sampleRate float64
	tempoBPM   float64
	decaySec   float64
	running    bool
	master     float64

	steps       [stepCount]StepConfig
	currentStep int
	waveform    Waveform
	followPitch bool

	samplesUntilNextStep float64
	voices               []voice

	fx    *pipeline.Processor
	block []float64
	chans [][]float64

	analyzer
}

// NewEngine creates an engine prepared for sampleRate.
func NewEngine(sampleRate float64) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	fx, err := pipeline.New()
	if err != nil {
		return nil, err
	}
	if err := fx.Prepare(sampleRate, renderBlock); err != nil {
		return nil, err
	}

	e := &Engine{
		sampleRate: sampleRate,
		tempoBPM:   110,
		decaySec:   0.2,
		master:     0.75,
		waveform:   WaveSaw,
		voices:     make([]voice, 0, maxVoices),
		fx:         fx,
		block:      make([]float64, renderBlock),
	}
	e.chans = [][]float64{e.block}
	for i := range stepCount {
		e.steps[i] = StepConfig{Enabled: i%4 == 0, FreqHz: defaultStepFreq(i), Accent: i%8 == 0}
	}
	if err := e.SetSpectrum(SpectrumParams{}); err != nil {
		return nil, err
	}
	e.samplesUntilNextStep = e.stepDurationSamples()
	return e, nil
}

// Params exposes the pipeline's parameter surface.
func (e *Engine) Params() *pipeline.Params { return e.fx.Params() }

// SetParam writes one pipeline parameter by name.
func (e *Engine) SetParam(name string, value float64) error {
	return e.fx.Params().SetByName(name, value)
}

// Param reads one pipeline parameter by name.
func (e *Engine) Param(name string) (float64, error) {
	return e.fx.Params().GetByName(name)
}

// LoadPreset replaces every pipeline parameter from a JSON snapshot.
// Fields missing from data keep their current values.
func (e *Engine) LoadPreset(data []byte) error {
	snap := e.fx.Params().Load()
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	e.fx.Params().Store(snap)
	return nil
}

// Preset returns the current pipeline parameters as JSON.
func (e *Engine) Preset() ([]byte, error) {
	return json.Marshal(e.fx.Params().Load())
}

// Latency reports the pipeline delay in samples.
func (e *Engine) Latency() int { return e.fx.Latency() }

// SetMaster sets the output gain in [0, 1].
func (e *Engine) SetMaster(gain float64) { e.master = clamp(gain, 0, 1) }

// CurrentStep returns the currently playing step index.
func (e *Engine) CurrentStep() int {
	return e.currentStep
}

// Render fills dst with mono PCM samples in [-1, 1].
func (e *Engine) Render(dst []float32) {
	for len(dst) > 0 {
		n := min(len(dst), renderBlock)
		buf := e.block[:n]
		for i := range buf {
			e.advanceTransport()
			buf[i] = e.nextSample()
		}

		e.chans[0] = buf
		e.fx.ProcessBlock(e.chans, n)

		for i, x := range buf {
			e.pushSpectrumSample(x)
			dst[i] = float32(core.Clamp(x*e.master, -1, 1))
		}
		dst = dst[n:]
	}
}

func (e *Engine) advanceTransport() {
	if !e.running {
		return
	}
	e.samplesUntilNextStep--
	for e.samplesUntilNextStep <= 0 {
		e.triggerCurrentStep()
		e.currentStep = (e.currentStep + 1) % stepCount
		e.samplesUntilNextStep += e.stepDurationSamples()
	}
}

func clamp(v, lo, hi float64) float64 { return core.Clamp(v, lo, hi) }
