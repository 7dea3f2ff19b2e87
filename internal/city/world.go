package city

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// World owns every system and runs them in a fixed order. It is not safe for
// concurrent use; one goroutine drives it frame by frame.
type World struct {
	Params Params
	Seed   uint64

	Layout       *Layout
	Colliders    *ColliderSet
	Traffic      *TrafficSystem
	Parking      *ParkingSystem
	Peds         *PedestrianSystem
	Effects      *EffectSystem
	Weather      *WeatherSystem
	Collectibles *CollectibleSystem
	Player       *Player
	Camera       ChaseCamera

	Events  *EventBus
	Metrics *Metrics
	Log     zerolog.Logger

	Score   int
	Crashes int
	Frames  uint64
	Steps   uint64

	acc          float64
	edges        EdgeTracker
	pending      KeyState
	lookX, lookY float64
}

// NewWorld generates the city for seed and populates it. Every system draws
// from its own fork of the seeded generator, so the same seed and params
// always give the same city.
func NewWorld(p Params, seed uint64, log zerolog.Logger) *World {
	p = p.normalized()
	root := NewRand(seed)
	w := &World{
		Params: p,
		Seed:   seed,
		Events: NewEventBus(),
		Log:    log,
	}

	pitch := p.BlockSize + p.RoadWidth
	bound := float64(p.CitySize+1) * pitch
	w.Colliders = NewColliderSet(RectF{X0: -bound, Z0: -bound, X1: bound, Z1: bound})
	w.Layout = GenerateLayout(p, root.Fork(0x1a70), w.Colliders)

	w.Traffic = NewTrafficSystem(w.Layout, root.Fork(0x7aff))
	w.Traffic.SpawnN(p.TrafficCount)

	w.Parking = NewParkingSystem(w.Colliders, root.Fork(0x9a4c))
	w.Parking.Spawn(w.Layout)

	w.Peds = NewPedestrianSystem(w.Layout, root.Fork(0x9ed5))
	w.Peds.Spawn(p.PedsPerBlock)

	w.Effects = NewEffectSystem(MaxEffectParticles, root.Fork(0xeffc))
	w.Weather = NewWeatherSystem(p.WeatherParticles, bound, root.Fork(0x3a7e))

	w.Collectibles = NewCollectibleSystem(root.Fork(0xc011))
	w.Collectibles.Spawn(w.Layout, p.Collectibles)

	spawn := mgl64.Vec3{}
	if centre, ok := w.Layout.BlockAt(0, 0); ok {
		spawn = w.Layout.SidewalkPoint(centre, root.Fork(0x51a7))
	}
	w.Player = NewPlayer(spawn, 0)
	w.Camera.Snap(w.Player.Position, w.Player.Yaw, w.Player.Pitch)

	w.Events.Subscribe(EventCrash, func(e Event) {
		w.Crashes++
		w.Effects.Spawn(e.Pos)
		w.Camera.AddShake(CrashShake, CrashShakeTime)
	})
	w.Events.Subscribe(EventPickup, func(e Event) {
		w.Score += e.Data
	})

	if m, err := NewMetrics(); err != nil {
		log.Warn().Err(err).Msg("metrics disabled")
	} else {
		w.Metrics = m
		m.Bind(w.Events, w)
	}

	log.Info().
		Uint64("seed", seed).
		Int("blocks", len(w.Layout.Blocks)).
		Int("buildings", len(w.Layout.Buildings)).
		Int("traffic", len(w.Traffic.Cars)).
		Int("parked", len(w.Parking.Cars)).
		Int("pedestrians", len(w.Peds.Peds)).
		Int("colliders", w.Colliders.Len()).
		Float64("bound", w.Layout.Bound).
		Msg("city generated")
	return w
}

// Frame feeds one rendered frame of wall-clock time into the fixed-step
// accumulator and runs as many steps as it covers. Key presses and mouse look
// are applied on the first step that runs after they happen. Returns the
// number of steps run.
func (w *World) Frame(frameDt float64, in Input) int {
	if frameDt < 0 || math.IsNaN(frameDt) {
		frameDt = 0
	}
	if frameDt > w.Params.MaxFrame {
		frameDt = w.Params.MaxFrame
	}
	w.Frames++

	for k := range w.edges.Latch(in.Keys) {
		if w.pending == nil {
			w.pending = make(KeyState, 2)
		}
		w.pending[k] = true
	}
	w.lookX += in.LookDX
	w.lookY += in.LookDY

	w.acc += frameDt
	steps := 0
	for w.acc >= w.Params.FixedStep {
		step := in
		step.Pressed = w.pending
		step.LookDX, step.LookDY = w.lookX, w.lookY
		w.pending = nil
		w.lookX, w.lookY = 0, 0

		w.Step(w.Params.FixedStep, step)
		w.acc -= w.Params.FixedStep
		steps++
	}
	return steps
}

// Step advances every system by dt. The player goes last so it collides with
// this step's traffic.
func (w *World) Step(dt float64, in Input) MoveResult {
	switch {
	case in.JustPressed(KeySetSunny):
		w.SetWeather(WeatherSunny)
	case in.JustPressed(KeySetRain):
		w.SetWeather(WeatherRain)
	case in.JustPressed(KeySetSnow):
		w.SetWeather(WeatherSnow)
	}

	skip := -1
	if ref, ok := w.Player.Vehicle(); ok && ref.Role == RoleTraffic {
		skip = ref.Index
	}
	w.Traffic.Update(dt, skip)
	w.Peds.Update(dt)
	w.Weather.Update(dt)
	w.Effects.Update(dt)
	w.Collectibles.Update(dt)

	res := w.Player.Update(dt, in, w)
	w.pickup()

	if ref, ok := w.Player.Vehicle(); ok {
		v := w.Vehicle(ref)
		w.Camera.Follow(v.Position, v.Yaw, dt)
	} else {
		w.Camera.Snap(w.Player.Position, w.Player.Yaw, w.Player.Pitch)
	}
	w.Camera.UpdateShake(dt)

	w.Steps++
	w.Metrics.Step()
	return res
}

// SetWeather switches mode and announces it. Setting the current mode again
// does nothing.
func (w *World) SetWeather(m WeatherMode) {
	if w.Weather.Mode() == m {
		return
	}
	w.Weather.SetMode(m)
	w.Log.Debug().Str("weather", m.String()).Msg("weather changed")
	w.Events.Emit(Event{Type: EventWeatherChanged, Data: int(m)})
}

func (w *World) pickup() {
	pos := w.Player.Position
	if ref, ok := w.Player.Vehicle(); ok {
		pos = w.Vehicle(ref).Position
	}
	for _, at := range w.Collectibles.Collect(pos, PickupRadius) {
		w.Events.Emit(Event{Type: EventPickup, Pos: at, Data: 1})
	}
}

// Vehicle resolves a reference, or nil if it names nothing.
func (w *World) Vehicle(ref VehicleRef) *Vehicle {
	var cars []Vehicle
	switch ref.Role {
	case RoleTraffic:
		cars = w.Traffic.Cars
	case RoleParked:
		cars = w.Parking.Cars
	}
	if ref.Index < 0 || ref.Index >= len(cars) {
		return nil
	}
	return &cars[ref.Index]
}

// nearestVehicle finds the closest traffic or parked vehicle within radius
// of pos on the ground plane.
func (w *World) nearestVehicle(pos mgl64.Vec3, radius float64) (VehicleRef, bool) {
	best := VehicleRef{}
	bestD := math.Inf(1)
	scan := func(role Role, cars []Vehicle) {
		for i := range cars {
			d := horizontalDist(cars[i].Position, pos)
			if d <= radius && d < bestD {
				bestD = d
				best = VehicleRef{Role: role, Index: i}
			}
		}
	}
	scan(RoleTraffic, w.Traffic.Cars)
	scan(RoleParked, w.Parking.Cars)
	return best, !math.IsInf(bestD, 1)
}

// blocked reports whether box hits a static collider or any traffic hull
// other than skipTraffic.
func (w *World) blocked(box AABB, skipTraffic int) bool {
	return w.blockedExcept(box, skipTraffic, contacts{})
}

// contacts are the colliders and traffic cars a hull already overlaps when a
// move starts. Only those are waived for the move, so the hull can back out
// of them while every other obstacle still stops it.
type contacts struct {
	boxes []ColliderHandle
	cars  []int
}

func (w *World) touching(box AABB, skipTraffic int) contacts {
	return contacts{
		boxes: w.Colliders.Overlapping(box, nil),
		cars:  w.Traffic.Overlapping(box, skipTraffic, nil),
	}
}

func (w *World) blockedExcept(box AABB, skipTraffic int, c contacts) bool {
	return w.Colliders.IntersectsExcept(box, c.boxes) || w.Traffic.HitsAnyExcept(box, skipTraffic, c.cars)
}

// exitSpot is where the player stands after leaving v: to the vehicle's
// right, or the first free side if that is blocked. Each spot is at least
// ExitSideOffset out and always clear of the vehicle's own hull, which
// grows when the vehicle sits at a diagonal yaw.
func (w *World) exitSpot(v *Vehicle) mgl64.Vec3 {
	right := rightFor(v.Yaw)
	fwd := v.Forward()
	reach := v.Kind.Profile().Length*0.5 + 1.5
	hull := v.Hull()
	half := hull.Size().Mul(0.5)
	eye := v.Position.Add(mgl64.Vec3{0, EyeHeight, 0})

	dirs := [4]mgl64.Vec3{right, right.Mul(-1), fwd.Mul(-1), fwd}
	dists := [4]float64{ExitSideOffset, ExitSideOffset, reach, reach}
	var candidates [4]mgl64.Vec3
	for i, d := range dirs {
		candidates[i] = eye.Add(d.Mul(math.Max(dists[i], clearDistance(d, half))))
	}
	for _, c := range candidates {
		box := playerHullAt(c)
		if !box.Intersects(hull) && !w.blocked(box, -1) {
			return c
		}
	}
	return candidates[0]
}

// clearDistance is how far along the horizontal unit direction d a player
// hull must go from a vehicle centre to clear a hull of half extents half.
func clearDistance(d, half mgl64.Vec3) float64 {
	const gap = 0.1
	best := math.Inf(1)
	for _, ax := range [2]int{0, 2} {
		if c := math.Abs(d[ax]); c > 1e-9 {
			best = math.Min(best, (half[ax]+PlayerHalfWidth+gap)/c)
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}
