package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"citysim/internal/city"
	"citysim/internal/config"
	"citysim/internal/desktop"
	"citysim/internal/logging"
	"citysim/internal/stream"

	"github.com/rs/zerolog"
)

// GLFW must run on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "citysim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := bindFlags(fs); err != nil {
		return err
	}
	configDir, _ := fs.GetString("config")
	settings, err := config.Load(configDir)
	if err != nil {
		return err
	}

	var logFile io.Writer
	if settings.LogFile != "" {
		f, err := logging.OpenLogFile(settings.LogFile, time.Now())
		if err != nil {
			return err
		}
		defer f.Close()
		logFile = f
	}
	session := logging.NewSessionID()
	log := logging.WithSession(logging.Setup(os.Stdout, logFile, settings.LogLevel), session)
	log.Info().Str("loglevel", log.GetLevel().String()).Msg("Logging set up")

	seed := config.ParseSeed(settings.Seed)
	w := city.NewWorld(settings.CityParams(), seed, log)
	w.SetWeather(settings.InitialWeather())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var onFrame func(*city.World)
	if settings.Stream.Enabled {
		srv, err := startStream(ctx, w, session, settings.Stream, log)
		if err != nil {
			return err
		}
		onFrame = func(w *city.World) {
			if err := srv.Publish(w); err != nil {
				log.Warn().Err(err).Msg("publish snapshot")
			}
		}
	}

	if settings.Headless.Enabled {
		runHeadless(ctx, w, settings.Headless.Frames, onFrame, log)
		return nil
	}

	err = desktop.Run(w, desktop.Options{
		Width:              settings.Window.Width,
		Height:             settings.Window.Height,
		Title:              "CitySim",
		Audio:              settings.Audio.Enabled,
		RequirePointerLock: settings.Input.RequirePointerLock,
		OnFrame:            onFrame,
	}, log)
	if errors.Is(err, desktop.ErrNoPointerLock) {
		return fmt.Errorf("%w: set input.requirePointerLock to false to run without it", err)
	}
	return err
}

func startStream(ctx context.Context, w *city.World, session string, cfg config.StreamConfig, log zerolog.Logger) (*stream.Server, error) {
	hub := stream.NewHub(log)
	srv, err := stream.NewServer(hub, session, w, cfg.Every, log)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("stream listen: %w", err)
	}
	go hub.Run(ctx)
	go func() {
		if err := srv.Serve(ctx, ln); err != nil {
			log.Error().Err(err).Msg("stream stopped")
		}
	}()
	return srv, nil
}
