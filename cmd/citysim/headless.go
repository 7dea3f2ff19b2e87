package main

import (
	"context"
	"time"

	"citysim/internal/city"

	"github.com/rs/zerolog"
)

// runHeadless advances w one fixed step per frame with empty input. A
// positive frames count runs flat out; otherwise frames are paced in real
// time until ctx is cancelled.
func runHeadless(ctx context.Context, w *city.World, frames int, onFrame func(*city.World), log zerolog.Logger) {
	step := w.Params.FixedStep
	var tick <-chan time.Time
	if frames <= 0 {
		t := time.NewTicker(time.Duration(step * float64(time.Second)))
		defer t.Stop()
		tick = t.C
	}

	start := time.Now()
	log.Info().Int("frames", frames).Float64("step", step).Msg("headless run started")
	for n := 0; frames <= 0 || n < frames; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				logSummary(w, start, log)
				return
			case <-tick:
			}
		} else if ctx.Err() != nil {
			break
		}
		w.Frame(step, city.Input{})
		if onFrame != nil {
			onFrame(w)
		}
	}
	logSummary(w, start, log)
}

func logSummary(w *city.World, start time.Time, log zerolog.Logger) {
	log.Info().
		Uint64("frames", w.Frames).
		Uint64("steps", w.Steps).
		Int("crashes", w.Crashes).
		Int("score", w.Score).
		Str("mode", w.Player.Mode().String()).
		Str("weather", w.Weather.Mode().String()).
		Dur("elapsed", time.Since(start)).
		Msg("headless run finished")
}
