//go:build headless

package main

import (
	"context"
	"errors"

	"github.com/cwbudde/algo-bandcrush/internal/wavio"
)

func play(context.Context, *engine, *wavio.Clip) error {
	return errors.New("playback is not available in headless builds")
}
