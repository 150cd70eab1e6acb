// Command maskinfo prints the harmonic set and spectral mask coverage the
// harmonic split builds for a fundamental.
//
// Usage:
//
//	maskinfo [flags] [fundamental-hz ...]
//
// Without arguments it prints a summary for a few reference pitches.
//
// Examples:
//
//	maskinfo 440
//	maskinfo -size 4096 -width 0.15 110 220
//	maskinfo -list 440
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-bandcrush/dsp/harmonic"
)

var defaultFundamentals = []float64{55, 110, 220, 440, 880, 1760}

func main() {
	size := flag.Int("size", harmonic.DefaultSize, "transform size in samples (power of two)")
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	width := flag.Float64("width", harmonic.DefaultWidthFraction, "peak width as a fraction of the fundamental")
	falloff := flag.Float64("falloff", harmonic.DefaultFalloff, "harmonic weight falloff exponent")
	list := flag.Bool("list", false, "list every harmonic of each fundamental")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: maskinfo [flags] [fundamental-hz ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints harmonic set and mask coverage for each fundamental.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  maskinfo 440\n")
		fmt.Fprintf(os.Stderr, "  maskinfo -size 4096 -width 0.15 110 220\n")
		fmt.Fprintf(os.Stderr, "  maskinfo -list 440\n")
	}
	flag.Parse()

	fundamentals, err := parseFundamentals(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	sp, err := harmonic.NewSplitter(*rate,
		harmonic.WithSize(*size),
		harmonic.WithWidthFraction(*width),
		harmonic.WithFalloff(*falloff),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if *list {
		for _, f0 := range fundamentals {
			printHarmonics(sp, f0)
		}
		return
	}
	printSummary(sp, fundamentals)
}

func parseFundamentals(args []string) ([]float64, error) {
	if len(args) == 0 {
		return defaultFundamentals, nil
	}
	out := make([]float64, 0, len(args))
	for _, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fundamental %q", a)
		}
		out = append(out, f)
	}
	return out, nil
}

func printSummary(sp *harmonic.Splitter, fundamentals []float64) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "F0 [Hz]\tSize\tHop\tLatency [smp]\tHarmonics\tBin [Hz]\tCoverage\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "-------\t----\t---\t-------------\t---------\t--------\t--------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, f0 := range fundamentals {
		sp.SetFundamental(f0)
		m := sp.Mask()
		if _, err := fmt.Fprintf(tw, "%.2f\t%d\t%d\t%d\t%d\t%.3f\t%.4f\n",
			f0,
			sp.Size(),
			sp.Hop(),
			sp.Latency(),
			sp.Set().Len(),
			m.BinFreq(1),
			m.Coverage(),
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printHarmonics(sp *harmonic.Splitter, f0 float64) {
	sp.SetFundamental(f0)
	m := sp.Mask()

	fmt.Printf("F0 %.2f Hz: %d harmonics\n", f0, sp.Set().Len())
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "#\tFreq [Hz]\tWidth [Hz]\tWeight\tBin\tMask\n")
	for i, h := range sp.Set().Harmonics() {
		bin := m.Bin(h.Freq)
		_, _ = fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.4f\t%d\t%.4f\n",
			i+1, h.Freq, h.WidthHz, h.Weight, bin, m.Weight(bin))
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
	fmt.Println()
}
