package biquad

// Chain is an ordered cascade of biquad sections processed in series.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade with one Section per coefficient set.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{}
	c.SetCoefficients(coeffs)
	return c
}

// ProcessSample cascades x through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// ProcessBlockInto writes the filtered src to dst, which must be at least
// as long as src. src is left untouched unless it aliases dst.
func (c *Chain) ProcessBlockInto(dst, src []float64) {
	dst = dst[:len(src)]
	copy(dst, src)
	c.ProcessBlock(dst)
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections returns the number of biquad sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// SetCoefficients retunes the cascade.
//
// With an unchanged section count every section keeps its delay-line state,
// so the split frequency can move while audio runs without the step a
// zeroed cascade would produce, and nothing is allocated. A different
// section count rebuilds the cascade from zero state.
func (c *Chain) SetCoefficients(coeffs []Coefficients) {
	if len(coeffs) != len(c.sections) {
		c.sections = make([]Section, len(coeffs))
	}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}
}
