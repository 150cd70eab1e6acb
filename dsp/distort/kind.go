package distort

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects a distortion variant.
type Kind int

const (
	KindOff Kind = iota
	KindBitCrusher
	KindFuzz
	KindWaveFolder
	KindWaveShaper

	numKinds
)

var kindNames = [numKinds]string{"off", "bitcrusher", "fuzz", "wavefolder", "waveshaper"}

// String returns the lower-case variant name.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k names a known variant.
func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

// ParseKind maps a variant name (case-insensitive) to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if s == name {
			return Kind(i), nil
		}
	}
	return KindOff, fmt.Errorf("distort: unknown kind %q", s)
}

// KindFromIndex converts a host choice index to a Kind, rounding to the
// nearest integer. Out-of-range and NaN values select KindOff.
func KindFromIndex(v float64) Kind {
	if math.IsNaN(v) {
		return KindOff
	}
	k := Kind(math.Round(v))
	if !k.Valid() {
		return KindOff
	}
	return k
}

// Kinds lists every variant in index order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("distort: invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Controls are the three normalized per-band knobs. Each variant maps
// them onto its own scalars; see the variant types for the mapping.
type Controls struct {
	Level float64 `json:"level"`
	Drive float64 `json:"drive"`
	Param float64 `json:"param"`
}

// DefaultControls returns level 1, drive 0.5 and param 0.7.
func DefaultControls() Controls {
	return Controls{Level: 1, Drive: 0.5, Param: 0.7}
}
