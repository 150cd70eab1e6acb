package harmonic

// Channel is the streaming state of one audio channel: the input history
// (one transform), the overlap-add accumulator (one transform), the hop
// of finished output being drained, and how much of the current hop has
// been filled.
type Channel struct {
	history []float64
	accum   []float64
	out     []float64
	fill    int
}

// Reset zeroes all state.
func (c *Channel) Reset() {
	clear(c.history)
	clear(c.accum)
	clear(c.out)
	c.fill = 0
}
