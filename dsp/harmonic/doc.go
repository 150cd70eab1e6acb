// Package harmonic partitions a signal into the energy that sits on the
// harmonic series of a fundamental and everything else.
//
// A Set lists the harmonics of a fundamental with a triangular width and
// a decaying weight. A Mask turns a Set into one weight per FFT bin. The
// Splitter runs a windowed overlap-add STFT per Channel, multiplies each
// frame's spectrum by the mask (band A) and its complement (band B),
// hands both time slices to a FrameShaper, and resynthesizes. With an
// identity shaper the output equals the input delayed by Latency samples.
package harmonic
