package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"citysim/internal/city"

	"github.com/spf13/viper"
)

// ConfigName is the file Load looks for, without extension.
const ConfigName = "citysim"

type CityConfig struct {
	Size          int     `json:"size" mapstructure:"size"`
	BlockSize     float64 `json:"blockSize" mapstructure:"blockSize"`
	RoadWidth     float64 `json:"roadWidth" mapstructure:"roadWidth"`
	SidewalkWidth float64 `json:"sidewalkWidth" mapstructure:"sidewalkWidth"`
}

type WeatherConfig struct {
	Initial   string `json:"initial" mapstructure:"initial"`
	Particles int    `json:"particles" mapstructure:"particles"`
}

type SimConfig struct {
	FixedStep float64 `json:"fixedStep" mapstructure:"fixedStep"`
	MaxFrame  float64 `json:"maxFrame" mapstructure:"maxFrame"`
}

type WindowConfig struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

type CountConfig struct {
	Count int `json:"count" mapstructure:"count"`
}

type PedestrianConfig struct {
	PerBlock int `json:"perBlock" mapstructure:"perBlock"`
}

type InputConfig struct {
	RequirePointerLock bool `json:"requirePointerLock" mapstructure:"requirePointerLock"`
}

type AudioConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// StreamConfig holds the websocket pose stream settings.
type StreamConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
	Every   int    `json:"every" mapstructure:"every"`
}

// HeadlessConfig runs the simulation without a window. Frames <= 0 runs
// until interrupted.
type HeadlessConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	Frames  int  `json:"frames" mapstructure:"frames"`
}

// Settings is the fully resolved configuration: defaults, then the config
// file, then CITYSIM_* environment variables, then bound flags.
type Settings struct {
	Seed     uint64 `json:"seed" mapstructure:"seed"`
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`
	LogFile  string `json:"logFile" mapstructure:"logFile"`

	City         CityConfig       `json:"city" mapstructure:"city"`
	Traffic      CountConfig      `json:"traffic" mapstructure:"traffic"`
	Pedestrians  PedestrianConfig `json:"pedestrians" mapstructure:"pedestrians"`
	Collectibles CountConfig      `json:"collectibles" mapstructure:"collectibles"`
	Weather      WeatherConfig    `json:"weather" mapstructure:"weather"`
	Sim          SimConfig        `json:"sim" mapstructure:"sim"`
	Window       WindowConfig     `json:"window" mapstructure:"window"`
	Input        InputConfig      `json:"input" mapstructure:"input"`
	Audio        AudioConfig      `json:"audio" mapstructure:"audio"`
	Stream       StreamConfig     `json:"stream" mapstructure:"stream"`
	Headless     HeadlessConfig   `json:"headless" mapstructure:"headless"`
}

// SetDefaults registers every key with its default value. Keys must be known
// to viper for environment overrides to reach Unmarshal.
func SetDefaults() {
	viper.SetDefault("seed", 0)
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")

	viper.SetDefault("city.size", city.DefaultCitySize)
	viper.SetDefault("city.blockSize", city.DefaultBlockSize)
	viper.SetDefault("city.roadWidth", city.DefaultRoadWidth)
	viper.SetDefault("city.sidewalkWidth", city.DefaultSidewalkWidth)

	viper.SetDefault("traffic.count", city.DefaultTraffic)
	viper.SetDefault("pedestrians.perBlock", city.DefaultPedsPerBlock)
	viper.SetDefault("collectibles.count", city.DefaultCollectibles)

	viper.SetDefault("weather.initial", "sunny")
	viper.SetDefault("weather.particles", city.DefaultWeatherParticles)

	viper.SetDefault("sim.fixedStep", city.DefaultFixedStep)
	viper.SetDefault("sim.maxFrame", city.DefaultMaxFrame)

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)

	viper.SetDefault("input.requirePointerLock", true)
	viper.SetDefault("audio.enabled", true)

	viper.SetDefault("stream.enabled", false)
	viper.SetDefault("stream.addr", ":8090")
	viper.SetDefault("stream.every", 3)

	viper.SetDefault("headless.enabled", false)
	viper.SetDefault("headless.frames", 0)
}

// Load reads configuration from citysim.json in configDir on top of the
// defaults. A missing file is not an error; a malformed one is.
func Load(configDir string) (Settings, error) {
	SetDefaults()

	viper.SetConfigName(ConfigName)
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	viper.SetEnvPrefix("CITYSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if _, err := city.ParseWeatherMode(s.Weather.Initial); err != nil {
		return Settings{}, fmt.Errorf("weather.initial: %w", err)
	}
	return s, nil
}

// CityParams converts the city and population settings for NewWorld.
func (s Settings) CityParams() city.Params {
	return city.Params{
		CitySize:         s.City.Size,
		BlockSize:        s.City.BlockSize,
		RoadWidth:        s.City.RoadWidth,
		SidewalkWidth:    s.City.SidewalkWidth,
		TrafficCount:     s.Traffic.Count,
		PedsPerBlock:     s.Pedestrians.PerBlock,
		Collectibles:     s.Collectibles.Count,
		WeatherParticles: s.Weather.Particles,
		FixedStep:        s.Sim.FixedStep,
		MaxFrame:         s.Sim.MaxFrame,
	}
}

// InitialWeather returns the configured starting weather. Load has already
// validated it.
func (s Settings) InitialWeather() city.WeatherMode {
	m, _ := city.ParseWeatherMode(s.Weather.Initial)
	return m
}

// ParseSeed returns seed, or a wall-clock seed when it is zero.
func ParseSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}
