package main

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bandcrush/dsp/core"
	"github.com/cwbudde/algo-bandcrush/dsp/dither"
	"github.com/cwbudde/algo-bandcrush/dsp/signal"
	"github.com/cwbudde/algo-bandcrush/internal/wavio"
)

const (
	toneAmplitude = 0.8
	defaultBits   = 16
)

func loadSource(opt options) (*wavio.Clip, error) {
	switch {
	case opt.in != "" && opt.tone > 0:
		return nil, errors.New("give either -in or -tone, not both")
	case opt.in != "":
		clip, err := wavio.ReadFile(opt.in)
		if err != nil {
			return nil, err
		}
		if len(clip.Channels) == 0 || clip.Frames() == 0 {
			return nil, fmt.Errorf("%s: no audio", opt.in)
		}
		return clip, nil
	case opt.tone > 0:
		return toneClip(opt.tone, opt.seconds, opt.rate)
	default:
		return nil, errors.New("no source: give -in or -tone")
	}
}

func toneClip(f0, seconds float64, rate int) (*wavio.Clip, error) {
	if rate <= 0 || seconds <= 0 {
		return nil, fmt.Errorf("invalid tone: %v s at %d Hz", seconds, rate)
	}
	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(float64(rate))})
	x, err := gen.Harmonic(f0, toneAmplitude, int(seconds*float64(rate)))
	if err != nil {
		return nil, err
	}
	return &wavio.Clip{SampleRate: rate, Channels: [][]float64{x}}, nil
}

func writeResult(opt options, src, out *wavio.Clip) error {
	bits := opt.bits
	if bits == 0 {
		bits = src.BitDepth
	}
	if bits == 0 {
		bits = defaultBits
	}
	if bits < 32 {
		if err := quantize(out, bits, opt.dither, opt.shape); err != nil {
			return err
		}
	}
	return wavio.WriteFile(opt.out, out, bits)
}

// quantize reduces every channel of clip to bits with one quantizer per
// channel. Empty names select TPDF without shaping.
func quantize(clip *wavio.Clip, bits int, ditherName, shapeName string) error {
	dt := dither.DitherTriangular
	if ditherName != "" {
		var err error
		if dt, err = dither.ParseDitherType(ditherName); err != nil {
			return err
		}
	}
	preset := dither.PresetNone
	if shapeName != "" {
		var err error
		if preset, err = dither.ParsePreset(shapeName); err != nil {
			return err
		}
	}

	for _, ch := range clip.Channels {
		q, err := dither.NewQuantizer(
			dither.WithBitDepth(bits),
			dither.WithDitherType(dt),
			dither.WithPreset(preset),
		)
		if err != nil {
			return err
		}
		q.ProcessInPlace(ch)
	}
	return nil
}
