package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cwbudde/algo-bandcrush/dsp/pipeline"
	"github.com/cwbudde/algo-bandcrush/internal/automation"
	"github.com/cwbudde/algo-bandcrush/internal/wavio"
)

// engine owns the processor, its parameters and the optional script.
type engine struct {
	params *pipeline.Params
	proc   *pipeline.Processor
	script *automation.Script
	block  int
	chans  [][]float64
}

func newEngine(opt options) (*engine, error) {
	if opt.block <= 0 {
		return nil, fmt.Errorf("block size must be > 0: %d", opt.block)
	}

	params := pipeline.NewParams()
	if opt.preset != "" {
		if err := loadPreset(params, opt.preset); err != nil {
			return nil, err
		}
	}
	for _, kv := range opt.sets {
		name, text, _ := strings.Cut(kv, "=")
		v, err := automation.ParseValue(name, text)
		if err != nil {
			return nil, fmt.Errorf("-set %s: %w", kv, err)
		}
		if err := params.SetByName(name, v); err != nil {
			return nil, fmt.Errorf("-set %s: %w", kv, err)
		}
	}

	proc, err := pipeline.New(pipeline.WithParams(params))
	if err != nil {
		return nil, err
	}

	e := &engine{params: params, proc: proc, block: opt.block}
	if opt.script != "" {
		s, err := automation.LoadFile(opt.script, params)
		if err != nil {
			return nil, err
		}
		e.script = s
	}
	return e, nil
}

func loadPreset(params *pipeline.Params, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	snap := params.Load()
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("preset %s: %w", path, err)
	}
	params.Store(snap)
	return nil
}

func (e *engine) Close() {
	if e.script != nil {
		e.script.Close()
	}
	e.proc.Release()
}

func (e *engine) dump(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e.params.Load())
}

func (e *engine) prepare(sampleRate float64, channels int) error {
	if channels > pipeline.MaxChannels {
		return fmt.Errorf("%d channels, at most %d supported", channels, pipeline.MaxChannels)
	}
	if err := e.proc.Prepare(sampleRate, e.block); err != nil {
		return err
	}
	e.chans = make([][]float64, channels)
	return nil
}

// process runs one block of at most e.block frames in place. pos is the
// frame index of the block start and drives the script clock.
func (e *engine) process(bufs [][]float64, pos, n int) error {
	if e.script != nil {
		if err := e.script.Tick(float64(pos) / e.proc.SampleRate()); err != nil {
			return err
		}
	}
	for c := range e.chans {
		e.chans[c] = bufs[c][:n]
	}
	e.proc.ProcessBlock(e.chans, n)
	return nil
}

// render processes src offline. With compensate set the output is
// shifted back by the processing latency so it lines up with src.
func (e *engine) render(ctx context.Context, src *wavio.Clip, compensate bool, prog *progress) (*wavio.Clip, error) {
	lat := 0
	if compensate {
		lat = e.proc.Latency()
	}
	total := src.Frames() + lat

	out := make([][]float64, len(src.Channels))
	for c, ch := range src.Channels {
		out[c] = make([]float64, total)
		copy(out[c], ch)
	}

	views := make([][]float64, len(out))
	for pos := 0; pos < total; pos += e.block {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := min(e.block, total-pos)
		for c := range out {
			views[c] = out[c][pos:]
		}
		if err := e.process(views, pos, n); err != nil {
			return nil, err
		}
		prog.update(pos+n, total)
	}
	prog.done()

	for c := range out {
		out[c] = out[c][lat:]
	}
	return &wavio.Clip{SampleRate: src.SampleRate, Channels: out}, nil
}
