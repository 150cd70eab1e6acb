package main

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-bandcrush/internal/wavio"
)

const bytesPerSample = 4

// streamer renders src through the engine on demand as interleaved
// little-endian float32 frames. It runs past the end of src by the
// processing latency so the tail is heard. Read runs on the player's
// goroutine; Err may be called from any.
type streamer struct {
	eng   *engine
	src   *wavio.Clip
	pos   int
	total int
	bufs  [][]float64
	err   atomic.Pointer[error]
}

func newStreamer(eng *engine, src *wavio.Clip) *streamer {
	bufs := make([][]float64, len(src.Channels))
	for c := range bufs {
		bufs[c] = make([]float64, eng.block)
	}
	return &streamer{
		eng:   eng,
		src:   src,
		total: src.Frames() + eng.proc.Latency(),
		bufs:  bufs,
	}
}

// Err returns the error that stopped rendering, if any.
func (s *streamer) Err() error {
	if err := s.err.Load(); err != nil {
		return *err
	}
	return nil
}

// Read implements io.Reader. Each call renders at most one block.
func (s *streamer) Read(p []byte) (int, error) {
	if err := s.Err(); err != nil {
		return 0, err
	}
	if s.pos >= s.total {
		return 0, io.EOF
	}

	frameBytes := bytesPerSample * len(s.bufs)
	n := min(len(p)/frameBytes, s.eng.block, s.total-s.pos)
	if n == 0 {
		return 0, nil
	}

	for c, buf := range s.bufs {
		src := s.src.Channels[c]
		copied := 0
		if s.pos < len(src) {
			copied = copy(buf[:n], src[s.pos:])
		}
		clear(buf[copied:n])
	}
	if err := s.eng.process(s.bufs, s.pos, n); err != nil {
		s.err.Store(&err)
		return 0, err
	}

	off := 0
	for i := range n {
		for _, buf := range s.bufs {
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(float32(buf[i])))
			off += bytesPerSample
		}
	}
	s.pos += n
	return off, nil
}
