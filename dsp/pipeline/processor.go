package pipeline

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
	"github.com/cwbudde/algo-bandcrush/dsp/delay"
	"github.com/cwbudde/algo-bandcrush/dsp/distort"
	"github.com/cwbudde/algo-bandcrush/dsp/filter/crossover"
	"github.com/cwbudde/algo-bandcrush/dsp/filter/dcblock"
	"github.com/cwbudde/algo-bandcrush/dsp/gain"
	"github.com/cwbudde/algo-bandcrush/dsp/harmonic"
	"github.com/cwbudde/algo-bandcrush/dsp/smooth"
)

// MaxChannels is the number of independent channel states. Channel c
// uses state c % MaxChannels, so extra channels share state.
const MaxChannels = 2

// Seeds of the per-band bit crusher random sources.
const (
	lowSeed  = 0x6c6f77
	highSeed = 0x68696768
)

// freqCeilingRatio keeps the crossover well below Nyquist at low rates.
const freqCeilingRatio = 0.45

type bandSmoothers struct {
	level, drive, param smooth.Smoother
}

func (b *bandSmoothers) init(sr, ramp float64, p BandParams) {
	b.level.Init(sr, ramp, p.Level)
	b.drive.Init(sr, ramp, p.Drive)
	b.param.Init(sr, ramp, p.Param)
}

func (b *bandSmoothers) advance(p BandParams, n int) distort.Controls {
	b.level.Set(p.Level)
	b.drive.Set(p.Drive)
	b.param.Set(p.Param)
	return distort.Controls{
		Level: b.level.Peek(n),
		Drive: b.drive.Peek(n),
		Param: b.param.Peek(n),
	}
}

// channelState is everything one channel slot owns.
type channelState struct {
	xover    *crossover.Crossover
	spectral *harmonic.Channel
	dryDelay *delay.Fixed
	dc       *dcblock.Blocker

	makeLo  gain.AutoMakeup
	makeHi  gain.AutoMakeup
	makeWet gain.AutoMakeup
}

func (c *channelState) reset() {
	c.xover.Reset()
	c.spectral.Reset()
	c.dryDelay.Reset()
	c.dc.Reset()
	c.makeLo.Reset()
	c.makeHi.Reset()
	c.makeWet.Reset()
}

// Processor is the two-band distortion engine. ProcessBlock must be
// called from one goroutine; Params may be written from any.
type Processor struct {
	cfg    config
	params *Params

	prepared   bool
	sampleRate float64
	maxBlock   int
	maxFreq    float64

	low    *distort.Unit
	high   *distort.Unit
	shaper bandShaper

	splitter *harmonic.Splitter
	channels [MaxChannels]channelState

	freq  smooth.Smoother
	mix   smooth.Smoother
	bands [2]bandSmoothers

	mode     Mode
	dcActive bool

	// block scratch, sized by Prepare
	dry, lo, hi, preLo, preHi, delayed []float64
}

// New creates an unprepared processor.
func New(opts ...Option) (*Processor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	params := cfg.params
	if params == nil {
		params = NewParams()
	}

	low, err := distort.NewUnit(lowSeed)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	high, err := distort.NewUnit(highSeed)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	p := &Processor{cfg: cfg, params: params, low: low, high: high}
	p.shaper = bandShaper{low: low, high: high}
	return p, nil
}

// Params returns the parameter surface.
func (p *Processor) Params() *Params { return p.params }

// Prepared reports whether Prepare has run since the last Release.
func (p *Processor) Prepared() bool { return p.prepared }

// SampleRate returns the prepared sample rate, 0 when unprepared.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// MaxBlockSize returns the prepared block size, 0 when unprepared.
func (p *Processor) MaxBlockSize() int { return p.maxBlock }

// Latency returns the output delay in samples for the current mode: 0 in
// ModeEQ, the splitter latency in ModeHarmonic.
func (p *Processor) Latency() int {
	if !p.prepared || p.params.Load().Mode != ModeHarmonic {
		return 0
	}
	return p.splitter.Latency()
}

// Prepare sizes every buffer and filter for sampleRate and blocks of up to
// maxBlockSize samples, and resets all state. Smoothers start at the
// current parameter values.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("pipeline: sample rate must be > 0: %v", sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("pipeline: max block size must be > 0: %d", maxBlockSize)
	}

	p.prepared = false
	p.sampleRate = sampleRate
	p.maxBlock = maxBlockSize
	p.maxFreq = min(MaxFreq, freqCeilingRatio*sampleRate)

	snap := p.params.Load()
	freq := p.clampFreq(snap.Freq)

	splitter, err := harmonic.NewSplitter(sampleRate,
		harmonic.WithSize(p.cfg.transformSize),
		harmonic.WithWidthFraction(p.cfg.harmonicWidth),
		harmonic.WithFalloff(p.cfg.falloff))
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	splitter.SetFundamental(freq)
	p.splitter = splitter

	for i := range p.channels {
		ch := &p.channels[i]
		if ch.xover, err = crossover.New(freq, p.cfg.crossoverOrder, sampleRate); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		if ch.dc, err = dcblock.New(p.cfg.dcCutoff, sampleRate); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		if ch.dryDelay, err = delay.NewFixed(splitter.Latency()); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		ch.spectral = splitter.NewChannel()
		ch.makeLo.Prepare(sampleRate)
		ch.makeHi.Prepare(sampleRate)
		ch.makeWet.Prepare(sampleRate)
	}

	p.freq.Init(sampleRate, p.cfg.smoothingTime, freq)
	p.mix.Init(sampleRate, p.cfg.smoothingTime, snap.Mix)
	p.bands[0].init(sampleRate, p.cfg.smoothingTime, snap.Low)
	p.bands[1].init(sampleRate, p.cfg.smoothingTime, snap.High)

	p.dry = make([]float64, maxBlockSize)
	p.lo = make([]float64, maxBlockSize)
	p.hi = make([]float64, maxBlockSize)
	p.preLo = make([]float64, maxBlockSize)
	p.preHi = make([]float64, maxBlockSize)
	p.delayed = make([]float64, maxBlockSize)

	p.low.Reset()
	p.high.Reset()
	p.mode = snap.Mode
	p.dcActive = false
	p.prepared = true
	return nil
}

// Release drops all buffers and state. ProcessBlock is a no-op until the
// next Prepare.
func (p *Processor) Release() {
	p.prepared = false
	p.splitter = nil
	p.channels = [MaxChannels]channelState{}
	p.dry, p.lo, p.hi, p.preLo, p.preHi, p.delayed = nil, nil, nil, nil, nil, nil
	p.sampleRate = 0
	p.maxBlock = 0
}

// Reset clears all audio state but keeps the preparation.
func (p *Processor) Reset() {
	if !p.prepared {
		return
	}
	for i := range p.channels {
		p.channels[i].reset()
	}
	p.low.Reset()
	p.high.Reset()
}

func (p *Processor) clampFreq(hz float64) float64 {
	return core.Clamp(hz, MinFreq, p.maxFreq)
}

// ProcessBlock processes the first numSamples samples of every channel in
// place. Nil channels are skipped and shorter channels are processed up to
// their length. Blocks longer than the prepared size are split.
func (p *Processor) ProcessBlock(channels [][]float64, numSamples int) {
	if !p.prepared || numSamples <= 0 {
		return
	}
	for offset := 0; offset < numSamples; offset += p.maxBlock {
		n := min(p.maxBlock, numSamples-offset)
		p.processChunk(channels, offset, n)
	}
}

func (p *Processor) processChunk(channels [][]float64, offset, n int) {
	snap := p.params.Load()
	p.configure(&snap, n)

	mix := p.mix.Peek(n)
	for c, buf := range channels {
		if buf == nil || len(buf) <= offset {
			continue
		}
		block := buf[offset:min(offset+n, len(buf))]
		// Filter and splitter memory never recovers from a non-finite
		// sample, so those are silenced before they reach it.
		for i, x := range block {
			block[i] = core.Sanitize(x)
		}
		ch := &p.channels[c%MaxChannels]
		if p.mode == ModeHarmonic {
			p.processHarmonic(ch, block, mix)
		} else {
			p.processEQ(ch, block, mix)
		}
	}
}

// configure advances the smoothers by n samples and pushes the result
// into the splitters, units and DC blockers.
func (p *Processor) configure(snap *Snapshot, n int) {
	if snap.Mode != p.mode {
		p.mode = snap.Mode
		for i := range p.channels {
			p.channels[i].reset()
		}
	}

	p.freq.Set(p.clampFreq(snap.Freq))
	freq := p.freq.Peek(n)
	p.mix.Set(snap.Mix)

	lowControls := p.bands[0].advance(snap.Low, n)
	highControls := p.bands[1].advance(snap.High, n)

	p.low.Configure(snap.Low.Kind, lowControls)
	if !snap.Link {
		p.high.Configure(snap.High.Kind, highControls)
	}
	p.shaper.link = snap.Link

	if p.mode == ModeHarmonic {
		p.splitter.SetFundamental(freq)
	} else {
		for i := range p.channels {
			// freq is clamped below Nyquist, so SetFreq cannot fail.
			_ = p.channels[i].xover.SetFreq(freq)
		}
	}

	dc := p.low.IntroducesDC() || (!snap.Link && p.high.IntroducesDC())
	if dc && !p.dcActive {
		for i := range p.channels {
			p.channels[i].dc.Reset()
		}
	}
	p.dcActive = dc
}

func (p *Processor) processEQ(ch *channelState, buf []float64, mix float64) {
	n := len(buf)
	dry, lo, hi := p.dry[:n], p.lo[:n], p.hi[:n]
	preLo, preHi := p.preLo[:n], p.preHi[:n]

	copy(dry, buf)
	ch.xover.ProcessBlock(buf, lo, hi)
	copy(preLo, lo)
	copy(preHi, hi)

	p.shaper.ShapeBands(lo, hi)

	ch.makeLo.Apply(preLo, lo)
	ch.makeHi.Apply(preHi, hi)
	vecmath.AddBlock(buf, lo, hi)

	p.finish(ch, buf, dry, mix)
}

func (p *Processor) processHarmonic(ch *channelState, buf []float64, mix float64) {
	n := len(buf)
	dry, delayed := p.dry[:n], p.delayed[:n]

	copy(dry, buf)
	p.splitter.Process(ch.spectral, buf, &p.shaper)
	ch.dryDelay.Process(delayed, dry)
	ch.makeWet.Apply(delayed, buf)

	p.finish(ch, buf, delayed, mix)
}

// finish DC-blocks the wet signal in buf, blends in dry and clamps.
// dry is overwritten.
func (p *Processor) finish(ch *channelState, buf, dry []float64, mix float64) {
	if p.dcActive {
		ch.dc.ProcessInPlace(buf)
	}
	if mix < 1 {
		vecmath.ScaleBlockInPlace(buf, mix)
		vecmath.ScaleBlockInPlace(dry, 1-mix)
		vecmath.AddBlockInPlace(buf, dry)
	}
	core.SanitizeClampBlock(buf, 1)
}
