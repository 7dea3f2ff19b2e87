// Package desktop is the windowed frontend: it owns the GL context, samples
// the keyboard and mouse, and drives a city.World one rendered frame at a
// time.
package desktop

import (
	"errors"
	"fmt"
	"runtime"

	"citysim/internal/city"
	"citysim/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"
)

// ErrNoPointerLock is returned when mouse look is required but the cursor
// cannot be captured.
var ErrNoPointerLock = errors.New("pointer lock unavailable")

type Options struct {
	Width, Height      int
	Title              string
	Audio              bool
	RequirePointerLock bool

	// OnFrame runs after each rendered frame's simulation steps, on the
	// thread that owns the world.
	OnFrame func(w *city.World)
}

const titleInterval = 0.5 // seconds between window title refreshes

// Run opens the window and loops until it is closed or Escape is pressed.
// Must be called from the main goroutine.
func Run(w *city.World, opts Options, log zerolog.Logger) error {
	runtime.LockOSThread()

	if opts.Title == "" {
		opts.Title = "CitySim"
	}
	window, caps, err := initWindow(opts.Width, opts.Height, opts.Title)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	log.Info().Bool("pointerLock", caps.PointerLock).Msg("window opened")
	if !caps.PointerLock {
		if opts.RequirePointerLock {
			return ErrNoPointerLock
		}
		log.Warn().Msg("pointer lock unavailable, mouse look may be accelerated")
	}

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	if opts.Audio {
		if a, err := NewAudio(); err != nil {
			log.Warn().Err(err).Msg("audio init failed (continuing without sound)")
		} else {
			a.Bind(w.Events)
		}
	}

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	input := NewInput()
	var builder scene.Builder

	last := glfw.GetTime()
	lastTitle := last
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		w.Frame(dt, input.Poll(window))
		if opts.OnFrame != nil {
			opts.OnFrame(w)
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		frame := builder.Build(w, float64(fbW)/float64(fbH))
		rend.Draw(frame, fbW, fbH)

		if now-lastTitle >= titleInterval {
			lastTitle = now
			window.SetTitle(fmt.Sprintf("%s | %s | %s | score %d", opts.Title,
				w.Player.Mode(), w.Weather.Mode(), w.Score))
		}
		window.SwapBuffers()
	}

	log.Info().
		Uint64("frames", w.Frames).
		Int("crashes", w.Crashes).
		Int("score", w.Score).
		Msg("window closed")
	return nil
}
