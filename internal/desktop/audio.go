package desktop

import (
	"sync/atomic"
	"time"

	"citysim/internal/city"
	"citysim/internal/sfx"

	"github.com/hajimehoshi/oto/v2"
)

const (
	sfxVolume    = 0.7
	maxCrashes   = 2 // simultaneous crash sounds before we start skipping
	sampleFormat = 0 // 32-bit float (oto.FormatFloat32LE)
)

// Audio plays procedurally generated effects through oto.
type Audio struct {
	ctx     *oto.Context
	ready   chan struct{}
	crashes atomic.Int32
	variant atomic.Uint64
}

// NewAudio opens the output device. 32-bit float stereo at sfx.SampleRate.
func NewAudio() (*Audio, error) {
	ctx, ready, err := oto.NewContext(sfx.SampleRate, sfx.ChannelCount, sampleFormat)
	if err != nil {
		return nil, err
	}
	return &Audio{ctx: ctx, ready: ready}, nil
}

// Bind plays a sound for each event the player should hear.
func (a *Audio) Bind(bus *city.EventBus) {
	bus.Subscribe(city.EventCrash, func(city.Event) { a.Play(sfx.Crash) })
	bus.Subscribe(city.EventVehicleEntered, func(city.Event) { a.Play(sfx.DoorOpen) })
	bus.Subscribe(city.EventVehicleExited, func(city.Event) { a.Play(sfx.DoorClose) })
	bus.Subscribe(city.EventPickup, func(city.Event) { a.Play(sfx.Pickup) })
	bus.Subscribe(city.EventWeatherChanged, func(city.Event) { a.Play(sfx.WeatherChange) })
}

// Play starts kind on its own player and returns immediately. Sounds
// requested before the device is ready are dropped.
func (a *Audio) Play(kind sfx.Kind) {
	if a == nil {
		return
	}
	select {
	case <-a.ready:
	default:
		return
	}
	if kind == sfx.Crash {
		if a.crashes.Load() >= maxCrashes {
			return
		}
		a.crashes.Add(1)
	}
	samples := sfx.Generate(kind, a.variant.Add(1))
	if len(samples) == 0 {
		if kind == sfx.Crash {
			a.crashes.Add(-1)
		}
		return
	}
	go func() {
		if kind == sfx.Crash {
			defer a.crashes.Add(-1)
		}
		player := a.ctx.NewPlayer(sfx.NewReader(samples))
		player.SetVolume(sfxVolume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}
