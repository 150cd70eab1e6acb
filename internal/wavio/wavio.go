// Package wavio reads and writes PCM WAV files as per-channel float64
// sample slices in [-1, 1].
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmFormat is the WAVE format tag for linear PCM.
const pcmFormat = 1

var errInvalidFile = errors.New("wavio: not a valid WAV file")

// Clip is decoded audio: one slice per channel, all the same length.
type Clip struct {
	SampleRate int
	Channels   [][]float64

	// BitDepth is the depth the clip was decoded from, 0 for generated
	// audio.
	BitDepth int
}

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

func supportedDepth(bits int) bool {
	return bits == 16 || bits == 24 || bits == 32
}

// Read decodes a 16, 24 or 32-bit PCM WAV stream.
func Read(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errInvalidFile
	}
	bits := int(d.BitDepth)
	if !supportedDepth(bits) {
		return nil, fmt.Errorf("wavio: unsupported bit depth %d", bits)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode PCM: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("wavio: missing channel count")
	}

	return &Clip{
		SampleRate: buf.Format.SampleRate,
		Channels:   Deinterleave(buf.Data, buf.Format.NumChannels, fullScale(bits)),
		BitDepth:   bits,
	}, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes clip as PCM with bitDepth bits per sample. Samples are
// clamped to [-1, 1] and rounded.
func Write(w io.WriteSeeker, clip *Clip, bitDepth int) error {
	if !supportedDepth(bitDepth) {
		return fmt.Errorf("wavio: unsupported bit depth %d", bitDepth)
	}
	if clip == nil || len(clip.Channels) == 0 {
		return fmt.Errorf("wavio: clip has no channels")
	}
	if clip.SampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", clip.SampleRate)
	}

	numChans := len(clip.Channels)
	enc := wav.NewEncoder(w, clip.SampleRate, bitDepth, numChans, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: clip.SampleRate},
		Data:           Interleave(clip.Channels, fullScale(bitDepth)),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}
	return nil
}

// WriteFile creates or truncates path and writes clip to it.
func WriteFile(path string, clip *Clip, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}
	if err := Write(f, clip, bitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fullScale is the integer magnitude that maps to 1.0.
func fullScale(bits int) float64 {
	return math.Exp2(float64(bits - 1))
}

// Deinterleave splits interleaved integer frames into numChans float
// channels scaled by 1/scale. A trailing partial frame is dropped.
func Deinterleave(data []int, numChans int, scale float64) [][]float64 {
	frames := len(data) / numChans
	out := make([][]float64, numChans)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			out[c][i] = float64(data[i*numChans+c]) / scale
		}
	}
	return out
}

// Interleave packs float channels into integer frames scaled by scale and
// clamped to the signed range. Shorter channels are padded with silence.
func Interleave(channels [][]float64, scale float64) []int {
	frames := 0
	for _, ch := range channels {
		frames = max(frames, len(ch))
	}
	numChans := len(channels)
	out := make([]int, frames*numChans)
	maxInt := scale - 1
	for c, ch := range channels {
		for i, v := range ch {
			s := math.Round(v * scale)
			if math.IsNaN(s) {
				s = 0
			}
			out[i*numChans+c] = int(math.Max(-scale, math.Min(maxInt, s)))
		}
	}
	return out
}
