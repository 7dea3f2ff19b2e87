package city

// City grid defaults (world units, roughly metres).
const (
	DefaultCitySize      = 3 // blocks -3..3 on each axis
	DefaultBlockSize     = 40.0
	DefaultRoadWidth     = 12.0
	DefaultSidewalkWidth = 3.0
)

// Buildings.
const (
	BuildingChance    = 0.7
	BuildingMinHeight = 8.0
	BuildingMaxHeight = 42.0
	BuildingMinInset  = 0.5
	BuildingMaxInset  = 2.5
)

// Traffic.
const (
	LaneWidth       = 3.5
	TrafficMinSpeed = 8.0
	TrafficMaxSpeed = 14.0
	DefaultTraffic  = 40
)

// Parking.
const (
	ParkingCurbGap  = 1.6 // kerb to parked vehicle centre line
	MaxParkedOnEdge = 2
)

// Pedestrians.
const (
	DefaultPedsPerBlock = 2
	PedMinSpeed         = 1.1
	PedMaxSpeed         = 1.8
	PedWalkCycleRate    = 2.2 // phase radians per metre walked
	PedHalfWidth        = 0.25
	PedHeight           = 1.75
)

// Player on foot.
const (
	EyeHeight       = 1.7
	PlayerHalfWidth = 0.4
	WalkAccel       = 80.0
	WalkFriction    = 10.0
	Gravity         = 30.0
	JumpSpeed       = 10.0
	LookSensitivity = 0.0022
	MaxPitch        = 1.5
	InteractRadius  = 5.0
	ExitSideOffset  = 3.0
)

// Player driving.
const (
	CarAccel         = 18.0
	CarMaxSpeed      = 30.0
	CarMaxReverse    = 10.0
	CarDrag          = 1.6
	CarStopThreshold = 0.05
	CarTurnRate      = 1.8 // rad/s
	CrashProbe       = 2.5 // contact point distance ahead of the vehicle centre
	CrashShake       = 0.6
	CrashShakeTime   = 0.35
)

// Chase camera.
const (
	ChaseDistance  = 10.0
	ChaseHeight    = 5.0
	ChaseSmoothing = 5.0
)

// Effects.
const (
	BurstSize          = 30
	MaxEffectParticles = 2000
	EffectLifetime     = 0.9
	EffectGravity      = 9.8
)

// Weather.
const (
	DefaultWeatherParticles = 1500
	WeatherTop              = 60.0
)

// Collectibles.
const (
	DefaultCollectibles = 12
	PickupRadius        = 1.5
	CollectibleSize     = 0.6
)

// Fixed step.
const (
	DefaultFixedStep = 1.0 / 60.0
	DefaultMaxFrame  = 0.25
)

// Params sizes a generated city and its populations.
type Params struct {
	CitySize      int
	BlockSize     float64
	RoadWidth     float64
	SidewalkWidth float64

	TrafficCount     int
	PedsPerBlock     int
	Collectibles     int
	WeatherParticles int

	FixedStep float64
	MaxFrame  float64
}

func DefaultParams() Params {
	return Params{
		CitySize:         DefaultCitySize,
		BlockSize:        DefaultBlockSize,
		RoadWidth:        DefaultRoadWidth,
		SidewalkWidth:    DefaultSidewalkWidth,
		TrafficCount:     DefaultTraffic,
		PedsPerBlock:     DefaultPedsPerBlock,
		Collectibles:     DefaultCollectibles,
		WeatherParticles: DefaultWeatherParticles,
		FixedStep:        DefaultFixedStep,
		MaxFrame:         DefaultMaxFrame,
	}
}

// normalized fills zero fields with defaults.
func (p Params) normalized() Params {
	d := DefaultParams()
	if p.CitySize < 0 {
		p.CitySize = 0
	}
	if p.BlockSize <= 0 {
		p.BlockSize = d.BlockSize
	}
	if p.RoadWidth <= 0 {
		p.RoadWidth = d.RoadWidth
	}
	if p.SidewalkWidth <= 0 || p.SidewalkWidth*2 >= p.BlockSize {
		p.SidewalkWidth = d.SidewalkWidth
	}
	if p.FixedStep <= 0 {
		p.FixedStep = d.FixedStep
	}
	if p.MaxFrame <= 0 {
		p.MaxFrame = d.MaxFrame
	}
	if p.TrafficCount < 0 {
		p.TrafficCount = 0
	}
	if p.PedsPerBlock < 0 {
		p.PedsPerBlock = 0
	}
	if p.Collectibles < 0 {
		p.Collectibles = 0
	}
	if p.WeatherParticles < 0 {
		p.WeatherParticles = 0
	}
	return p
}
