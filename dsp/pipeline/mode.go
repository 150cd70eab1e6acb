package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects the band-splitting strategy.
type Mode int

const (
	// ModeEQ splits with a Linkwitz-Riley crossover at the split frequency.
	ModeEQ Mode = iota
	// ModeHarmonic splits on the harmonic series of the split frequency.
	ModeHarmonic
)

// String returns "eq" or "harmonic".
func (m Mode) String() string {
	switch m {
	case ModeEQ:
		return "eq"
	case ModeHarmonic:
		return "harmonic"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "eq" or "harmonic" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq":
		return ModeEQ, nil
	case "harmonic":
		return ModeHarmonic, nil
	}
	return ModeEQ, fmt.Errorf("pipeline: unknown mode %q", s)
}

// modeFromIndex rounds a host choice index; anything but 1 is ModeEQ.
func modeFromIndex(v float64) Mode {
	if math.Round(v) == 1 {
		return ModeHarmonic
	}
	return ModeEQ
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeEQ && m != ModeHarmonic {
		return nil, fmt.Errorf("pipeline: invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
