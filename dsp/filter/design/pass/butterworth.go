package pass

import "github.com/cwbudde/algo-bandcrush/dsp/filter/biquad"

// ButterworthLP designs a lowpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
// Returns nil for order <= 0 or a frequency outside (0, Nyquist).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !validFreq(freq, sampleRate) {
		return nil
	}
	return AppendButterworthLP(make([]biquad.Coefficients, 0, (order+1)/2), freq, order, sampleRate)
}

// ButterworthHP designs a highpass Butterworth cascade.
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !validFreq(freq, sampleRate) {
		return nil
	}
	return AppendButterworthHP(make([]biquad.Coefficients, 0, (order+1)/2), freq, order, sampleRate)
}

// AppendButterworthLP appends the lowpass sections to dst and returns the
// extended slice. With enough capacity in dst it does not allocate, which
// lets callers redesign filters from the audio path. Invalid parameters
// leave dst unchanged.
func AppendButterworthLP(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !validFreq(freq, sampleRate) {
		return dst
	}
	for i := order/2 - 1; i >= 0; i-- {
		dst = append(dst, lowpassRBJ(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		dst = append(dst, firstOrderLP(freq, sampleRate))
	}
	return dst
}

// AppendButterworthHP is the highpass counterpart of [AppendButterworthLP].
func AppendButterworthHP(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !validFreq(freq, sampleRate) {
		return dst
	}
	for i := order/2 - 1; i >= 0; i-- {
		dst = append(dst, highpassRBJ(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		dst = append(dst, firstOrderHP(freq, sampleRate))
	}
	return dst
}
