package harmonic

import "math"

const (
	// DefaultWidthFraction is the triangle half-width as a fraction of the fundamental.
	DefaultWidthFraction = 0.3

	// DefaultFalloff is the exponent of the n^-falloff weight decay.
	DefaultFalloff = 0.5

	// MinFundamental is the lowest fundamental a Set is sized for.
	MinFundamental = 20.0
)

// Harmonic is one partial of the series.
type Harmonic struct {
	Freq    float64
	WidthHz float64
	Weight  float64
}

// Set is the ordered harmonic series of a fundamental below Nyquist.
type Set struct {
	harmonics     []Harmonic
	widthFraction float64
	falloff       float64
}

// NewSet allocates room for every harmonic of MinFundamental below nyquist
// so later Generate calls never allocate.
func NewSet(nyquist, widthFraction, falloff float64) *Set {
	capacity := 1
	if nyquist > MinFundamental {
		capacity = int(math.Ceil(nyquist / MinFundamental))
	}
	return &Set{
		harmonics:     make([]Harmonic, 0, capacity),
		widthFraction: widthFraction,
		falloff:       falloff,
	}
}

// Generate rebuilds the series for f0. Harmonic n sits at n*f0 with weight
// n^-falloff and a half-width of widthFraction*f0 shared by every
// harmonic. Generation stops at the first harmonic reaching nyquist or
// when the preallocated capacity is full.
func (s *Set) Generate(f0, nyquist float64) {
	s.harmonics = s.harmonics[:0]
	if !(f0 > 0) || math.IsInf(f0, 0) {
		return
	}
	width := s.widthFraction * f0
	for n := 1; ; n++ {
		freq := float64(n) * f0
		if freq >= nyquist || len(s.harmonics) == cap(s.harmonics) {
			return
		}
		s.harmonics = append(s.harmonics, Harmonic{
			Freq:    freq,
			WidthHz: width,
			Weight:  math.Pow(float64(n), -s.falloff),
		})
	}
}

// Harmonics returns the current series. The slice is reused by Generate.
func (s *Set) Harmonics() []Harmonic { return s.harmonics }

// Len returns the number of harmonics.
func (s *Set) Len() int { return len(s.harmonics) }

// WidthFraction returns the configured width fraction.
func (s *Set) WidthFraction() float64 { return s.widthFraction }

// Falloff returns the configured weight falloff exponent.
func (s *Set) Falloff() float64 { return s.falloff }
