package core

// ShiftLeft drops the first n samples of buf, moving the rest to the front
// and zeroing the vacated tail. It is the hop step of overlap-add buffers.
func ShiftLeft(buf []float64, n int) {
	if n <= 0 {
		return
	}
	if n >= len(buf) {
		clear(buf)
		return
	}
	copy(buf, buf[n:])
	clear(buf[len(buf)-n:])
}
