package city

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type WeatherMode uint8

const (
	WeatherSunny WeatherMode = iota
	WeatherRain
	WeatherSnow
)

func (m WeatherMode) String() string {
	switch m {
	case WeatherRain:
		return "rain"
	case WeatherSnow:
		return "snow"
	default:
		return "sunny"
	}
}

// ParseWeatherMode accepts the names printed by String, case-insensitively.
func ParseWeatherMode(s string) (WeatherMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunny", "sun", "clear", "":
		return WeatherSunny, nil
	case "rain":
		return WeatherRain, nil
	case "snow":
		return WeatherSnow, nil
	}
	return WeatherSunny, fmt.Errorf("unknown weather mode %q", s)
}

// Environment is everything a weather mode changes: lights, fog, the shared
// road and sidewalk materials, and the precipitation look.
type Environment struct {
	SunColor     [3]float32
	SunIntensity float32
	Ambient      float32
	SkyColor     [3]float32
	FogColor     [3]float32
	FogDensity   float32

	RoadColor         [3]float32
	RoadRoughness     float32
	SidewalkColor     [3]float32
	SidewalkRoughness float32

	ParticlesVisible bool
	FallSpeed        float64
	ParticleSize     float32
	ParticleColor    [3]float32
	Wind             mgl64.Vec3 // horizontal drift, Y unused
}

var environments = [...]Environment{
	WeatherSunny: {
		SunColor: [3]float32{1, 0.96, 0.88}, SunIntensity: 1.0, Ambient: 0.45,
		SkyColor: [3]float32{0.53, 0.75, 0.95}, FogColor: [3]float32{0.70, 0.80, 0.92}, FogDensity: 0.0025,
		RoadColor: [3]float32{0.22, 0.22, 0.24}, RoadRoughness: 0.9,
		SidewalkColor: [3]float32{0.62, 0.61, 0.58}, SidewalkRoughness: 0.85,
	},
	WeatherRain: {
		SunColor: [3]float32{0.70, 0.74, 0.80}, SunIntensity: 0.45, Ambient: 0.35,
		SkyColor: [3]float32{0.36, 0.40, 0.46}, FogColor: [3]float32{0.40, 0.44, 0.50}, FogDensity: 0.012,
		RoadColor: [3]float32{0.12, 0.12, 0.14}, RoadRoughness: 0.25,
		SidewalkColor: [3]float32{0.42, 0.42, 0.42}, SidewalkRoughness: 0.4,
		ParticlesVisible: true, FallSpeed: 25, ParticleSize: 0.06,
		ParticleColor: [3]float32{0.68, 0.76, 0.86}, Wind: mgl64.Vec3{1.5, 0, 0.5},
	},
	WeatherSnow: {
		SunColor: [3]float32{0.90, 0.93, 1.00}, SunIntensity: 0.6, Ambient: 0.55,
		SkyColor: [3]float32{0.80, 0.83, 0.88}, FogColor: [3]float32{0.86, 0.88, 0.92}, FogDensity: 0.018,
		RoadColor: [3]float32{0.80, 0.82, 0.85}, RoadRoughness: 0.95,
		SidewalkColor: [3]float32{0.92, 0.93, 0.95}, SidewalkRoughness: 0.95,
		ParticlesVisible: true, FallSpeed: 3, ParticleSize: 0.12,
		ParticleColor: [3]float32{0.96, 0.97, 1.00}, Wind: mgl64.Vec3{0.8, 0, -0.4},
	},
}

// EnvironmentFor is the fixed lookup behind SetMode.
func EnvironmentFor(m WeatherMode) Environment {
	if int(m) >= len(environments) {
		m = WeatherSunny
	}
	return environments[m]
}

// WeatherSystem switches between modes and runs the precipitation volume
// above the city. The particle pool is allocated once and recycled forever.
type WeatherSystem struct {
	mode WeatherMode
	env  Environment

	Particles []mgl64.Vec3
	half      float64 // horizontal half extent of the volume
	top       float64
	rng       *Rand
}

func NewWeatherSystem(count int, half float64, r *Rand) *WeatherSystem {
	if count < 0 {
		count = 0
	}
	ws := &WeatherSystem{
		Particles: make([]mgl64.Vec3, count),
		half:      half,
		top:       WeatherTop,
		rng:       r,
	}
	for i := range ws.Particles {
		ws.Particles[i] = mgl64.Vec3{
			r.RangeF(-half, half),
			r.RangeF(0, ws.top),
			r.RangeF(-half, half),
		}
	}
	ws.SetMode(WeatherSunny)
	return ws
}

// SetMode swaps every environment parameter at once. There is no blending.
func (ws *WeatherSystem) SetMode(m WeatherMode) {
	if ws == nil {
		return
	}
	ws.mode = m
	ws.env = EnvironmentFor(m)
}

func (ws *WeatherSystem) Mode() WeatherMode { return ws.mode }

func (ws *WeatherSystem) Env() Environment { return ws.env }

func (ws *WeatherSystem) Top() float64 { return ws.top }

// Update drops every particle by FallSpeed*dt and drifts it with the wind.
// A particle that falls below the ground restarts at the top at a random
// spot. Nothing moves while the sky is clear.
func (ws *WeatherSystem) Update(dt float64) {
	if ws == nil || dt <= 0 || !ws.env.ParticlesVisible {
		return
	}
	fall := ws.env.FallSpeed * dt
	wx := ws.env.Wind[0] * dt
	wz := ws.env.Wind[2] * dt
	for i := range ws.Particles {
		p := &ws.Particles[i]
		p[1] -= fall
		if p[1] < 0 {
			p[0] = ws.rng.RangeF(-ws.half, ws.half)
			p[1] = ws.top
			p[2] = ws.rng.RangeF(-ws.half, ws.half)
			continue
		}
		p[0] = wrapRange(p[0]+wx, ws.half)
		p[2] = wrapRange(p[2]+wz, ws.half)
	}
}

// wrapRange folds v back into [-half, half].
func wrapRange(v, half float64) float64 {
	if half <= 0 {
		return 0
	}
	if v > half {
		return v - 2*half
	}
	if v < -half {
		return v + 2*half
	}
	return v
}
