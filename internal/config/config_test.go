package config

import (
	"os"
	"path/filepath"
	"testing"

	"citysim/internal/city"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"seed": 42,
		"logLevel": "debug",
		"city": { "size": 1, "blockSize": 30 },
		"traffic": { "count": 7 },
		"weather": { "initial": "snow" },
		"stream": { "enabled": true, "addr": "127.0.0.1:9000" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "citysim.json"), []byte(cfg), 0644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), s.Seed)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 1, s.City.Size)
	assert.Equal(t, 30.0, s.City.BlockSize)
	assert.Equal(t, city.DefaultRoadWidth, s.City.RoadWidth, "unset keys keep defaults")
	assert.Equal(t, 7, s.Traffic.Count)
	assert.Equal(t, city.WeatherSnow, s.InitialWeather())
	assert.True(t, s.Stream.Enabled)
	assert.Equal(t, "127.0.0.1:9000", s.Stream.Addr)
	assert.Equal(t, 3, s.Stream.Every)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	s, err := Load(t.TempDir())
	require.NoError(t, err, "a missing file falls back to defaults")

	assert.Equal(t, uint64(0), s.Seed)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "", s.LogFile)
	assert.Equal(t, 3, s.City.Size)
	assert.Equal(t, 40.0, s.City.BlockSize)
	assert.Equal(t, 12.0, s.City.RoadWidth)
	assert.Equal(t, 3.0, s.City.SidewalkWidth)
	assert.Equal(t, 40, s.Traffic.Count)
	assert.Equal(t, 2, s.Pedestrians.PerBlock)
	assert.Equal(t, 12, s.Collectibles.Count)
	assert.Equal(t, "sunny", s.Weather.Initial)
	assert.Equal(t, 1500, s.Weather.Particles)
	assert.InDelta(t, 1.0/60, s.Sim.FixedStep, 1e-12)
	assert.Equal(t, 0.25, s.Sim.MaxFrame)
	assert.Equal(t, 1280, s.Window.Width)
	assert.Equal(t, 720, s.Window.Height)
	assert.True(t, s.Input.RequirePointerLock)
	assert.True(t, s.Audio.Enabled)
	assert.False(t, s.Stream.Enabled)
	assert.Equal(t, ":8090", s.Stream.Addr)
	assert.False(t, s.Headless.Enabled)
	assert.Equal(t, 0, s.Headless.Frames)

	assert.Equal(t, city.DefaultParams(), s.CityParams())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "citysim.json"), []byte(`{"traffic": {"count": 7}}`), 0644))
	t.Setenv("CITYSIM_TRAFFIC_COUNT", "11")
	t.Setenv("CITYSIM_LOGLEVEL", "warn")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 11, s.Traffic.Count)
	assert.Equal(t, "warn", s.LogLevel)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "citysim.json"), []byte(`{"seed": `), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_RejectsUnknownWeather(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "citysim.json"), []byte(`{"weather": {"initial": "hail"}}`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather.initial")
}

func TestParseSeed(t *testing.T) {
	assert.Equal(t, uint64(99), ParseSeed(99))
	assert.NotZero(t, ParseSeed(0))
}
