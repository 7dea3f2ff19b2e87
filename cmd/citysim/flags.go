package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"seed":      "seed",
	"log-level": "logLevel",
	"headless":  "headless.enabled",
	"frames":    "headless.frames",
	"stream":    "stream.enabled",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("citysim", pflag.ContinueOnError)
	fs.String("config", ".", "directory containing citysim.json")
	fs.Uint64("seed", 0, "city seed (0 picks one from the clock)")
	fs.String("log-level", "info", "trace, debug, info, warn or error")
	fs.Bool("headless", false, "run without a window")
	fs.Int("frames", 0, "frames to run headless (0 runs until interrupted)")
	fs.Bool("stream", false, "serve snapshots over websocket")
	return fs
}

func bindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}
