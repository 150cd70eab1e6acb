package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-bandcrush/internal/wavio"
	"github.com/cwbudde/algo-bandcrush/measure/thd"
	stats "github.com/cwbudde/algo-bandcrush/stats/time"
)

// reportFrames caps the THD analysis window.
const reportFrames = 1 << 15

// writeReport compares level and distortion of every channel before and
// after processing. f0 is a fundamental hint, zero to detect it.
func writeReport(w io.Writer, src, out *wavio.Clip, f0 float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Ch\tSignal\tRMS [dB]\tPeak [dB]\tCrest [dB]\tDC\tF0 [Hz]\tTHD [dB]\tOdd\tEven\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "--\t------\t--------\t---------\t----------\t--\t-------\t--------\t---\t----\n"); err != nil {
		return err
	}

	for c := range src.Channels {
		for _, row := range []struct {
			label string
			data  []float64
		}{
			{"in", src.Channels[c]},
			{"out", out.Channels[c]},
		} {
			s := stats.Calculate(row.data)
			d, err := thd.AnalyzeSignal(analysisWindow(row.data), thd.Config{
				SampleRate:      float64(src.SampleRate),
				FundamentalFreq: f0,
			})
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.4f\t%.1f\t%.2f\t%.4f\t%.4f\n",
				c, row.label, s.RMS_dB, s.Peak_dB, s.CrestFactor_dB, s.DC,
				d.FundamentalFreq, d.THD_dB, d.OddHD, d.EvenHD,
			); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

// analysisWindow takes the middle of x so onsets and tails stay out of
// the measurement.
func analysisWindow(x []float64) []float64 {
	if len(x) <= reportFrames {
		return x
	}
	start := (len(x) - reportFrames) / 2
	return x[start : start+reportFrames]
}
