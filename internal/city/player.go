package city

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PlayerState is either OnFoot or Driving. The driven vehicle lives inside
// the Driving value, so "driving with no vehicle" cannot be expressed.
type PlayerState interface {
	Mode() Mode
}

type OnFoot struct{}

type Driving struct {
	Vehicle VehicleRef
}

func (OnFoot) Mode() Mode  { return ModeOnFoot }
func (Driving) Mode() Mode { return ModeDriving }

type Mode uint8

const (
	ModeOnFoot Mode = iota
	ModeDriving
)

func (m Mode) String() string {
	if m == ModeDriving {
		return "driving"
	}
	return "on_foot"
}

// Player is the one actor under direct control. On foot Position is the eye;
// while driving it tracks the vehicle and Velocity is unused.
type Player struct {
	State    PlayerState
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Velocity mgl64.Vec3
	OnGround bool

	// CarVelocity is the signed scalar speed of the driven vehicle.
	CarVelocity float64
}

// MoveResult reports what stopped the player during one update.
type MoveResult struct {
	CollideX, CollideY, CollideZ bool
	Crashed                      bool
}

func NewPlayer(pos mgl64.Vec3, yaw float64) *Player {
	pos[1] = EyeHeight
	return &Player{State: OnFoot{}, Position: pos, Yaw: yaw, OnGround: true}
}

func (p *Player) Mode() Mode {
	if p.State == nil {
		return ModeOnFoot
	}
	return p.State.Mode()
}

// Vehicle returns the driven vehicle reference, if any.
func (p *Player) Vehicle() (VehicleRef, bool) {
	d, ok := p.State.(Driving)
	return d.Vehicle, ok
}

func (p *Player) Pose() Pose {
	return Pose{Position: p.Position, Yaw: p.Yaw}
}

// Hull is the on-foot body box around the eye position.
func (p *Player) Hull() AABB {
	return playerHullAt(p.Position)
}

func playerHullAt(eye mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{eye[0] - PlayerHalfWidth, eye[1] - EyeHeight, eye[2] - PlayerHalfWidth},
		Max: mgl64.Vec3{eye[0] + PlayerHalfWidth, eye[1] + 0.1, eye[2] + PlayerHalfWidth},
	}
}

// rightFor is the local +X axis after yaw.
func rightFor(yaw float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(yaw).Mul3x1(mgl64.Vec3{1, 0, 0})
}

// TryEnterVehicle takes the nearest traffic or parked vehicle within
// InteractRadius. A parked vehicle gives up its static collider for as long
// as it is driven. Reports false, changing nothing, when already driving or
// when nothing is in range.
func (p *Player) TryEnterVehicle(w *World) bool {
	if _, driving := p.State.(Driving); driving {
		return false
	}
	ref, ok := w.nearestVehicle(p.Position, InteractRadius)
	if !ok {
		return false
	}
	if ref.Role == RoleParked {
		// A stale or missing collider is simply skipped.
		w.Parking.Detach(ref.Index)
	}
	v := w.Vehicle(ref)
	p.State = Driving{Vehicle: ref}
	p.CarVelocity = 0
	p.Velocity = mgl64.Vec3{}
	p.Yaw = v.Yaw
	p.Pitch = 0
	p.Position = v.Position.Add(mgl64.Vec3{0, EyeHeight, 0})
	w.Camera.Pos = v.Position.Sub(v.Forward().Mul(ChaseDistance)).Add(mgl64.Vec3{0, ChaseHeight, 0})

	w.Log.Debug().Str("role", ref.Role.String()).Int("vehicle", ref.Index).Str("kind", v.Kind.String()).Msg("entered vehicle")
	w.Events.Emit(Event{Type: EventVehicleEntered, Pos: v.Position, Data: ref.Index})
	return true
}

// ExitVehicle steps out beside the vehicle. A parked vehicle becomes a static
// obstacle again wherever it now stands; a traffic vehicle rejoins its lane.
// Reports false when on foot.
func (p *Player) ExitVehicle(w *World) bool {
	ref, driving := p.Vehicle()
	if !driving {
		return false
	}
	v := w.Vehicle(ref)
	p.State = OnFoot{}
	p.CarVelocity = 0
	p.Velocity = mgl64.Vec3{}
	p.OnGround = true
	p.Yaw = v.Yaw
	p.Pitch = 0

	// Put the car back first so the exit spot is tested against it.
	switch ref.Role {
	case RoleParked:
		w.Parking.Attach(ref.Index)
	case RoleTraffic:
		w.Traffic.Readmit(ref.Index)
	}
	p.Position = w.exitSpot(v)

	w.Log.Debug().Str("role", ref.Role.String()).Int("vehicle", ref.Index).
		Float64("x", v.Position[0]).Float64("z", v.Position[2]).Msg("exited vehicle")
	w.Events.Emit(Event{Type: EventVehicleExited, Pos: v.Position, Data: ref.Index})
	return true
}

// Update runs one fixed step of whichever mode is active. The interact key
// toggles modes first.
func (p *Player) Update(dt float64, in Input, w *World) MoveResult {
	if dt <= 0 {
		return MoveResult{}
	}
	if in.JustPressed(KeyInteract) {
		switch p.State.(type) {
		case Driving:
			p.ExitVehicle(w)
		default:
			p.TryEnterVehicle(w)
		}
	}
	switch s := p.State.(type) {
	case Driving:
		return p.updateDriving(dt, in, w, s.Vehicle)
	default:
		return p.updateOnFoot(dt, in, w)
	}
}

func (p *Player) updateOnFoot(dt float64, in Input, w *World) MoveResult {
	var res MoveResult

	p.Yaw = wrapAngle(p.Yaw - in.LookDX*LookSensitivity)
	p.Pitch = clampF(p.Pitch-in.LookDY*LookSensitivity, -MaxPitch, MaxPitch)

	fwd := ForwardFor(p.Yaw)
	right := rightFor(p.Yaw)
	wish := fwd.Mul(in.Axis(KeyForward, KeyBack)).Add(right.Mul(in.Axis(KeyRight, KeyLeft)))
	wish[1] = 0
	if l := wish.Len(); l > 0 {
		wish = wish.Mul(1 / l)
	}

	p.Velocity[0] += wish[0] * WalkAccel * dt
	p.Velocity[2] += wish[2] * WalkAccel * dt
	f := expDecay(WalkFriction, dt)
	p.Velocity[0] *= f
	p.Velocity[2] *= f
	p.Velocity[1] -= Gravity * dt
	if p.OnGround && in.Down(KeyJump) {
		p.Velocity[1] = JumpSpeed
		p.OnGround = false
	}

	// X then Z, each reverted on its own. Traffic can drive through a
	// standing player, so whatever already overlaps is waived for this step.
	start := w.touching(playerHullAt(p.Position), -1)
	for _, ax := range [2]int{0, 2} {
		d := p.Velocity[ax] * dt
		if d == 0 {
			continue
		}
		p.Position[ax] += d
		if w.blockedExcept(playerHullAt(p.Position), -1, start) {
			p.Position[ax] -= d
			p.Velocity[ax] = 0
			if ax == 0 {
				res.CollideX = true
			} else {
				res.CollideZ = true
			}
		}
	}

	// Vertical against the floor only.
	p.Position[1] += p.Velocity[1] * dt
	if p.Position[1] <= EyeHeight {
		p.Position[1] = EyeHeight
		if p.Velocity[1] < 0 {
			p.Velocity[1] = 0
		}
		p.OnGround = true
		res.CollideY = true
	} else {
		p.OnGround = false
	}
	return res
}

func (p *Player) updateDriving(dt float64, in Input, w *World, ref VehicleRef) MoveResult {
	var res MoveResult
	v := w.Vehicle(ref)
	if v == nil {
		p.State = OnFoot{}
		return res
	}

	switch throttle := in.Axis(KeyForward, KeyBack); {
	case throttle > 0:
		p.CarVelocity = approach(p.CarVelocity, CarMaxSpeed, CarAccel*dt)
	case throttle < 0:
		p.CarVelocity = approach(p.CarVelocity, -CarMaxReverse, CarAccel*dt)
	default:
		p.CarVelocity *= expDecay(CarDrag, dt)
		if math.Abs(p.CarVelocity) < CarStopThreshold {
			p.CarVelocity = 0
		}
	}

	prev, prevYaw := v.Position, v.Yaw
	skip := -1
	if ref.Role == RoleTraffic {
		skip = ref.Index
	}
	// Traffic may overlap the car freely; those contacts are waived for
	// this step only.
	start := w.touching(v.Hull(), skip)

	// Reversing flips the steering, like a real wheel.
	steer := in.Axis(KeyLeft, KeyRight)
	v.Yaw = wrapAngle(v.Yaw + steer*CarTurnRate*dt*signNonNeg(p.CarVelocity))

	v.Position = v.Position.Add(v.Forward().Mul(p.CarVelocity * dt))

	moved := v.Position != prev || v.Yaw != prevYaw
	if moved && w.blockedExcept(v.Hull(), skip, start) {
		v.Position, v.Yaw = prev, prevYaw
		if p.CarVelocity != 0 {
			contact := prev.Add(v.Forward().Mul(CrashProbe))
			contact[1] = 0.8
			before := p.CarVelocity
			p.CarVelocity = -before * 0.5
			res.Crashed = true
			w.Log.Debug().Float64("speed", before).Float64("x", contact[0]).Float64("z", contact[2]).Msg("crash")
			w.Events.Emit(Event{Type: EventCrash, Pos: contact, Data: ref.Index})
		}
	}

	p.Yaw = v.Yaw
	p.Position = v.Position.Add(mgl64.Vec3{0, EyeHeight, 0})
	return res
}
