package pass

import "github.com/cwbudde/algo-bandcrush/dsp/filter/biquad"

// LinkwitzRileyLP designs a lowpass Linkwitz-Riley cascade of the given order.
//
// An LR filter of order 2N is two cascaded order-N Butterworth filters:
// -6.02 dB at the crossover frequency and a squared-Butterworth magnitude.
// The order must be a positive even integer. Returns nil otherwise.
func LinkwitzRileyLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if !validLR(freq, order, sampleRate) {
		return nil
	}
	return AppendLinkwitzRileyLP(make([]biquad.Coefficients, 0, LinkwitzRileySections(order)), freq, order, sampleRate)
}

// LinkwitzRileyHP designs a highpass Linkwitz-Riley cascade of the given
// order. For orders ≡ 2 mod 4 the output is in antiphase with the lowpass
// at the crossover; see [LinkwitzRileyNeedsHPInvert].
func LinkwitzRileyHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if !validLR(freq, order, sampleRate) {
		return nil
	}
	return AppendLinkwitzRileyHP(make([]biquad.Coefficients, 0, LinkwitzRileySections(order)), freq, order, sampleRate, false)
}

// AppendLinkwitzRileyLP appends the lowpass cascade to dst without
// allocating when dst has room for [LinkwitzRileySections] entries.
func AppendLinkwitzRileyLP(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if !validLR(freq, order, sampleRate) {
		return dst
	}
	dst = AppendButterworthLP(dst, freq, order/2, sampleRate)
	return AppendButterworthLP(dst, freq, order/2, sampleRate)
}

// AppendLinkwitzRileyHP appends the highpass cascade to dst. When invert is
// set the first appended section is negated so that LP + HP sums to an
// allpass for orders ≡ 2 mod 4.
func AppendLinkwitzRileyHP(dst []biquad.Coefficients, freq float64, order int, sampleRate float64, invert bool) []biquad.Coefficients {
	if !validLR(freq, order, sampleRate) {
		return dst
	}
	start := len(dst)
	dst = AppendButterworthHP(dst, freq, order/2, sampleRate)
	dst = AppendButterworthHP(dst, freq, order/2, sampleRate)
	if invert {
		dst[start].B0 = -dst[start].B0
		dst[start].B1 = -dst[start].B1
		dst[start].B2 = -dst[start].B2
	}
	return dst
}

// LinkwitzRileySections returns the number of biquad sections in an LR
// cascade of the given order.
func LinkwitzRileySections(order int) int {
	return 2 * ((order/2 + 1) / 2)
}

// LinkwitzRileyNeedsHPInvert reports whether the given Linkwitz-Riley order
// requires HP polarity inversion for allpass summation. Returns true for
// orders ≡ 2 mod 4 (LR2, LR6, LR10, …).
func LinkwitzRileyNeedsHPInvert(order int) bool {
	return order > 0 && order%4 == 2
}

func validLR(freq float64, order int, sampleRate float64) bool {
	return order > 0 && order%2 == 0 && validFreq(freq, sampleRate)
}
