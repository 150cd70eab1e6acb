package pipeline

import (
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
	"github.com/cwbudde/algo-bandcrush/dsp/distort"
)

const (
	// MinFreq and MaxFreq bound the split frequency.
	MinFreq = 20.0
	MaxFreq = 5000.0

	DefaultMix  = 1.0
	DefaultFreq = 440.0
)

// BandParams is the distortion configuration of one band.
type BandParams struct {
	Kind  distort.Kind `json:"kind"`
	Level float64      `json:"level"`
	Drive float64      `json:"drive"`
	Param float64      `json:"param"`
}

// Controls returns the generic distortion controls of the band.
func (b BandParams) Controls() distort.Controls {
	return distort.Controls{Level: b.Level, Drive: b.Drive, Param: b.Param}
}

func (b BandParams) clamped(def BandParams) BandParams {
	if !b.Kind.Valid() {
		b.Kind = distort.KindOff
	}
	b.Level = core.ClampUnit(b.Level, def.Level)
	b.Drive = core.ClampUnit(b.Drive, def.Drive)
	b.Param = core.ClampUnit(b.Param, def.Param)
	return b
}

// Snapshot is one consistent state of the parameter surface. It marshals
// to and from JSON and is the preset format.
type Snapshot struct {
	Mix  float64    `json:"mix"`
	Mode Mode       `json:"mode"`
	Freq float64    `json:"freq"`
	Link bool       `json:"link"`
	Low  BandParams `json:"low"`
	High BandParams `json:"high"`
}

// DefaultSnapshot returns the initial parameter surface: full wet, EQ
// mode at 440 Hz, unlinked, Fuzz on the low band and WaveFolder on the
// high band.
func DefaultSnapshot() Snapshot {
	c := distort.DefaultControls()
	return Snapshot{
		Mix:  DefaultMix,
		Mode: ModeEQ,
		Freq: DefaultFreq,
		Low:  BandParams{Kind: distort.KindFuzz, Level: c.Level, Drive: c.Drive, Param: c.Param},
		High: BandParams{Kind: distort.KindWaveFolder, Level: c.Level, Drive: c.Drive, Param: c.Param},
	}
}

// Clamped returns s with every value forced into its domain. NaN values
// take the default.
func (s Snapshot) Clamped() Snapshot {
	def := DefaultSnapshot()
	s.Mix = core.ClampUnit(s.Mix, def.Mix)
	if s.Mode != ModeEQ && s.Mode != ModeHarmonic {
		s.Mode = ModeEQ
	}
	if math.IsNaN(s.Freq) {
		s.Freq = def.Freq
	}
	s.Freq = core.Clamp(s.Freq, MinFreq, MaxFreq)
	s.Low = s.Low.clamped(def.Low)
	s.High = s.High.clamped(def.High)
	return s
}

// band returns band 0 (low) or 1 (high).
func (s *Snapshot) band(i int) *BandParams {
	if i == 0 {
		return &s.Low
	}
	return &s.High
}

// Params is the shared parameter surface. Writers copy the current
// snapshot, modify it and publish it with compare-and-swap; readers load
// one immutable snapshot. It is safe for concurrent use.
type Params struct {
	cur atomic.Pointer[Snapshot]
}

// NewParams returns a surface holding DefaultSnapshot.
func NewParams() *Params {
	p := &Params{}
	s := DefaultSnapshot()
	p.cur.Store(&s)
	return p
}

// Load returns the current snapshot.
func (p *Params) Load() Snapshot { return *p.cur.Load() }

// Store replaces the whole surface with a clamped copy of s.
func (p *Params) Store(s Snapshot) {
	c := s.Clamped()
	p.cur.Store(&c)
}

// Update applies fn to a copy of the current snapshot and publishes the
// clamped result, retrying if another writer got there first.
func (p *Params) Update(fn func(*Snapshot)) {
	for {
		old := p.cur.Load()
		next := *old
		fn(&next)
		next = next.Clamped()
		if p.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetMix sets the dry/wet blend in [0, 1].
func (p *Params) SetMix(v float64) { p.Update(func(s *Snapshot) { s.Mix = v }) }

// SetMode selects the splitting strategy.
func (p *Params) SetMode(m Mode) { p.Update(func(s *Snapshot) { s.Mode = m }) }

// SetFreq sets the split frequency in Hz, clamped to [MinFreq, MaxFreq].
func (p *Params) SetFreq(hz float64) { p.Update(func(s *Snapshot) { s.Freq = hz }) }

// SetLink makes the low band configuration drive both bands.
func (p *Params) SetLink(on bool) { p.Update(func(s *Snapshot) { s.Link = on }) }

// SetLow replaces the low band configuration.
func (p *Params) SetLow(b BandParams) { p.Update(func(s *Snapshot) { s.Low = b }) }

// SetHigh replaces the high band configuration.
func (p *Params) SetHigh(b BandParams) { p.Update(func(s *Snapshot) { s.High = b }) }

type paramField struct {
	get func(*Snapshot) float64
	set func(*Snapshot, float64)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func bandFields(prefix string, band int, fields map[string]paramField) {
	fields[prefix+".kind"] = paramField{
		get: func(s *Snapshot) float64 { return float64(s.band(band).Kind) },
		set: func(s *Snapshot, v float64) { s.band(band).Kind = distort.KindFromIndex(v) },
	}
	fields[prefix+".level"] = paramField{
		get: func(s *Snapshot) float64 { return s.band(band).Level },
		set: func(s *Snapshot, v float64) { s.band(band).Level = v },
	}
	fields[prefix+".drive"] = paramField{
		get: func(s *Snapshot) float64 { return s.band(band).Drive },
		set: func(s *Snapshot, v float64) { s.band(band).Drive = v },
	}
	fields[prefix+".param"] = paramField{
		get: func(s *Snapshot) float64 { return s.band(band).Param },
		set: func(s *Snapshot, v float64) { s.band(band).Param = v },
	}
}

var namedFields = func() map[string]paramField {
	fields := map[string]paramField{
		"mix": {
			get: func(s *Snapshot) float64 { return s.Mix },
			set: func(s *Snapshot, v float64) { s.Mix = v },
		},
		"mode": {
			get: func(s *Snapshot) float64 { return float64(s.Mode) },
			set: func(s *Snapshot, v float64) { s.Mode = modeFromIndex(v) },
		},
		"freq": {
			get: func(s *Snapshot) float64 { return s.Freq },
			set: func(s *Snapshot, v float64) { s.Freq = v },
		},
		"link": {
			get: func(s *Snapshot) float64 { return boolValue(s.Link) },
			set: func(s *Snapshot, v float64) { s.Link = v >= 0.5 },
		},
	}
	bandFields("low", 0, fields)
	bandFields("high", 1, fields)
	return fields
}()

// ParamNames lists every name accepted by SetByName, sorted.
func ParamNames() []string {
	names := make([]string, 0, len(namedFields))
	for name := range namedFields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetByName writes one parameter as a host scalar. Choices (mode, kinds)
// take their index, link is on for values >= 0.5. Values are clamped;
// only unknown names fail.
func (p *Params) SetByName(name string, value float64) error {
	f, ok := namedFields[name]
	if !ok {
		return fmt.Errorf("pipeline: unknown parameter %q", name)
	}
	p.Update(func(s *Snapshot) { f.set(s, value) })
	return nil
}

// GetByName reads one parameter as a host scalar.
func (p *Params) GetByName(name string) (float64, error) {
	f, ok := namedFields[name]
	if !ok {
		return 0, fmt.Errorf("pipeline: unknown parameter %q", name)
	}
	s := p.Load()
	return f.get(&s), nil
}
