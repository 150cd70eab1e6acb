//go:build !headless

package main

import (
	"context"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-bandcrush/internal/wavio"
)

func play(ctx context.Context, eng *engine, src *wavio.Clip) error {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   src.SampleRate,
		ChannelCount: len(src.Channels),
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	st := newStreamer(eng, src)
	log.Printf("playing, latency %d samples", eng.proc.Latency())
	player := otoCtx.NewPlayer(st)
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if !player.IsPlaying() {
				if err := st.Err(); err != nil {
					return err
				}
				return player.Err()
			}
		}
	}
}
