package delay

import "fmt"

// Fixed delays a stream by a constant number of samples. A zero delay is
// a pass-through.
type Fixed struct {
	line  *Line
	delay int
}

// NewFixed creates a delay of n samples.
func NewFixed(n int) (*Fixed, error) {
	if n < 0 {
		return nil, fmt.Errorf("delay: fixed delay must be >= 0: %d", n)
	}
	f := &Fixed{delay: n}
	if n > 0 {
		line, err := New(n)
		if err != nil {
			return nil, err
		}
		f.line = line
	}
	return f, nil
}

// Delay returns the delay in samples.
func (f *Fixed) Delay() int { return f.delay }

// ProcessSample pushes x and returns the sample from Delay calls ago.
func (f *Fixed) ProcessSample(x float64) float64 {
	if f.line == nil {
		return x
	}
	y := f.line.Read(f.delay)
	f.line.Write(x)
	return y
}

// Process writes src delayed into dst. dst and src may alias.
func (f *Fixed) Process(dst, src []float64) {
	n := min(len(dst), len(src))
	if f.line == nil {
		copy(dst[:n], src[:n])
		return
	}
	for i := 0; i < n; i++ {
		dst[i] = f.ProcessSample(src[i])
	}
}

// ProcessInPlace delays buf in place.
func (f *Fixed) ProcessInPlace(buf []float64) { f.Process(buf, buf) }

// Reset clears the delayed history.
func (f *Fixed) Reset() {
	if f.line != nil {
		f.line.Reset()
	}
}
