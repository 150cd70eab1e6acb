package delay

import "fmt"

// Line is a circular buffer of past samples.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a line holding size past samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns the buffer size.
func (d *Line) Len() int { return len(d.buffer) }

// Write pushes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos == len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written delay calls to Write ago; Read(1) is
// the most recent one. delay is taken modulo Len.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	pos := (d.writePos - delay%size + size) % size
	return d.buffer[pos]
}

// Reset zeroes the buffer.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}
