// Package dither reduces floating-point audio to integer PCM with dither
// noise and optional error-feedback noise shaping.
//
// Quantized values use the same full-scale convention as PCM files: a
// B-bit sample v maps to v/2^(B-1), so the output is exact after the
// file writer scales it back.
package dither

import (
	"fmt"
	"strings"
)

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone applies no dither (plain rounding).
	DitherNone DitherType = iota
	// DitherRectangular uses a uniform (rectangular) PDF.
	DitherRectangular
	// DitherTriangular uses a triangular PDF (TPDF), the most common choice.
	DitherTriangular
	// DitherGaussian uses a Gaussian PDF.
	DitherGaussian

	ditherTypeCount
)

var ditherTypeNames = [ditherTypeCount]string{
	"none", "rectangular", "triangular", "gaussian",
}

// String returns the lower-case name of the dither type.
func (dt DitherType) String() string {
	if dt.Valid() {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", dt)
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= 0 && dt < ditherTypeCount
}

// ParseDitherType maps a name (case-insensitive) to its DitherType.
// "tpdf" and "rpdf" are accepted as aliases.
func ParseDitherType(s string) (DitherType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "tpdf":
		return DitherTriangular, nil
	case "rpdf":
		return DitherRectangular, nil
	}
	for i, name := range ditherTypeNames {
		if s == name {
			return DitherType(i), nil
		}
	}
	return DitherNone, fmt.Errorf("dither: unknown dither type %q", s)
}
