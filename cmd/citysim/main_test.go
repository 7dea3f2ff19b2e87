package main

import (
	"bytes"
	"context"
	"testing"

	"citysim/internal/city"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallWorld() *city.World {
	return city.NewWorld(city.Params{CitySize: 1, TrafficCount: 4, WeatherParticles: 20}, 3, zerolog.Nop())
}

func TestRunHeadless_RunsExactFrames(t *testing.T) {
	w := smallWorld()
	calls := 0
	var buf bytes.Buffer
	runHeadless(context.Background(), w, 90, func(*city.World) { calls++ }, zerolog.New(&buf))

	assert.Equal(t, uint64(90), w.Frames)
	assert.Equal(t, uint64(90), w.Steps, "one fixed step per frame")
	assert.Equal(t, 90, calls)
	assert.Contains(t, buf.String(), "headless run finished")
}

func TestRunHeadless_StopsOnCancel(t *testing.T) {
	w := smallWorld()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runHeadless(ctx, w, 0, nil, zerolog.Nop())
	assert.Zero(t, w.Frames)

	runHeadless(ctx, w, 10, nil, zerolog.Nop())
	assert.Zero(t, w.Frames)
}

func TestBindFlags_OverrideConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--seed", "17", "--headless", "--frames", "5", "--log-level", "debug"}))
	require.NoError(t, bindFlags(fs))

	assert.Equal(t, uint64(17), viper.GetUint64("seed"))
	assert.True(t, viper.GetBool("headless.enabled"))
	assert.Equal(t, 5, viper.GetInt("headless.frames"))
	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.False(t, viper.GetBool("stream.enabled"))
}
