// Command bandcrush runs audio through the two-band distortion pipeline.
//
// Usage:
//
//	bandcrush [flags]
//
// The source is either a WAV file (-in) or a generated harmonic tone
// (-tone). The result is written to a WAV file (-out), played through the
// default audio device (-play), or both.
//
// Examples:
//
//	bandcrush -in guitar.wav -out crushed.wav
//	bandcrush -tone 110 -seconds 4 -preset fold.json -play
//	bandcrush -in drums.wav -script sweep.lua -out swept.wav
//	bandcrush -set mode=harmonic -set low.kind=bitcrusher -in bass.wav -out out.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

type options struct {
	in, out      string
	tone         float64
	seconds      float64
	rate         int
	bits         int
	dither       string
	shape        string
	block        int
	preset       string
	script       string
	sets         setFlags
	play         bool
	compensate   bool
	dumpSnapshot bool
	report       bool
}

// setFlags collects repeated -set name=value flags.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected name=value, got %q", v)
	}
	*s = append(*s, v)
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bandcrush: ")

	var opt options
	flag.StringVar(&opt.in, "in", "", "input WAV file")
	flag.StringVar(&opt.out, "out", "", "output WAV file")
	flag.Float64Var(&opt.tone, "tone", 0, "generate a harmonic tone at this fundamental in Hz instead of reading -in")
	flag.Float64Var(&opt.seconds, "seconds", 2, "generated tone length in seconds")
	flag.IntVar(&opt.rate, "rate", 48000, "generated tone sample rate in Hz")
	flag.IntVar(&opt.bits, "bits", 0, "output bit depth (16, 24, 32); 0 keeps the input depth")
	flag.StringVar(&opt.dither, "dither", "triangular", "dither for 16/24-bit output: none, rectangular, triangular, gaussian")
	flag.StringVar(&opt.shape, "shape", "none", "noise shaping preset: none, efb, 2sc, 3fc, 9fc")
	flag.IntVar(&opt.block, "block", 512, "processing block size in samples")
	flag.StringVar(&opt.preset, "preset", "", "JSON parameter preset")
	flag.StringVar(&opt.script, "script", "", "Lua automation script")
	flag.Var(&opt.sets, "set", "set a parameter, name=value (repeatable)")
	flag.BoolVar(&opt.play, "play", false, "play the result through the default audio device")
	flag.BoolVar(&opt.compensate, "compensate", true, "trim processing latency from the output file")
	flag.BoolVar(&opt.report, "report", false, "print level and distortion of input and output")
	flag.BoolVar(&opt.dumpSnapshot, "dump", false, "print the effective parameters as JSON and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bandcrush [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs audio through a two-band distortion pipeline.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bandcrush -in guitar.wav -out crushed.wav\n")
		fmt.Fprintf(os.Stderr, "  bandcrush -tone 110 -seconds 4 -preset fold.json -play\n")
		fmt.Fprintf(os.Stderr, "  bandcrush -in drums.wav -script sweep.lua -out swept.wav\n")
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opt); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Print("interrupted")
			os.Exit(130)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, opt options) error {
	eng, err := newEngine(opt)
	if err != nil {
		return err
	}
	defer eng.Close()

	if opt.dumpSnapshot {
		return eng.dump(os.Stdout)
	}
	if opt.out == "" && !opt.play && !opt.report {
		return errors.New("nothing to do: give -out, -play, -report or -dump")
	}

	src, err := loadSource(opt)
	if err != nil {
		return err
	}
	log.Printf("source: %d ch, %d Hz, %.2f s", len(src.Channels), src.SampleRate,
		float64(src.Frames())/float64(src.SampleRate))

	if err := eng.prepare(float64(src.SampleRate), len(src.Channels)); err != nil {
		return err
	}

	if opt.play {
		return play(ctx, eng, src)
	}

	out, err := eng.render(ctx, src, opt.compensate, newProgress(os.Stderr))
	if err != nil {
		return err
	}
	if opt.report {
		if err := writeReport(os.Stdout, src, out, opt.tone); err != nil {
			return err
		}
	}
	if opt.out == "" {
		return nil
	}
	return writeResult(opt, src, out)
}
