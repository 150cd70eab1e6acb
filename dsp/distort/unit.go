package distort

// Unit is the per-band distortion slot: one instance of every variant
// plus the currently selected kind. Switching kinds keeps each variant's
// state, so returning to a variant resumes where it left off.
type Unit struct {
	kind     Kind
	controls Controls

	crusher *BitCrusher
	fuzz    *Fuzz
	folder  *WaveFolder
	shaper  *WaveShaper
}

// NewUnit builds a unit with every variant ready and Off selected.
// seed feeds the bit crusher's jitter and dither.
func NewUnit(seed uint64) (*Unit, error) {
	crusher, err := NewBitCrusher(WithBitCrusherSeed(seed))
	if err != nil {
		return nil, err
	}

	u := &Unit{
		crusher: crusher,
		fuzz:    NewFuzz(),
		folder:  NewWaveFolder(),
		shaper:  NewWaveShaper(),
	}
	u.Configure(KindOff, DefaultControls())
	return u, nil
}

// Configure selects a variant and hands it the controls. Unknown kinds
// select Off. Only the selected variant is touched.
func (u *Unit) Configure(kind Kind, c Controls) {
	if !kind.Valid() {
		kind = KindOff
	}
	u.kind = kind
	u.controls = c

	switch kind {
	case KindBitCrusher:
		u.crusher.Configure(c)
	case KindFuzz:
		u.fuzz.Configure(c)
	case KindWaveFolder:
		u.folder.Configure(c)
	case KindWaveShaper:
		u.shaper.Configure(c)
	}
}

// ProcessInPlace runs the selected variant over buf.
func (u *Unit) ProcessInPlace(buf []float64) {
	switch u.kind {
	case KindBitCrusher:
		u.crusher.ProcessInPlace(buf)
	case KindFuzz:
		u.fuzz.ProcessInPlace(buf)
	case KindWaveFolder:
		u.folder.ProcessInPlace(buf)
	case KindWaveShaper:
		u.shaper.ProcessInPlace(buf)
	}
}

// IntroducesDC reports whether the selected variant can leave an offset
// in its output and so needs a DC blocker downstream.
func (u *Unit) IntroducesDC() bool {
	return u.kind == KindBitCrusher || u.kind == KindWaveFolder
}

// Kind returns the selected variant.
func (u *Unit) Kind() Kind { return u.kind }

// Controls returns the controls last passed to Configure.
func (u *Unit) Controls() Controls { return u.controls }

// Reset clears the state of every variant.
func (u *Unit) Reset() {
	u.crusher.Reset()
	u.fuzz.Reset()
	u.folder.Reset()
	u.shaper.Reset()
}
