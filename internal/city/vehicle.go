package city

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// VehicleKind selects one of the visual profiles.
type VehicleKind uint8

const (
	VehicleSedan VehicleKind = iota
	VehicleTaxi
	VehicleVan
	VehicleTruck
	vehicleKindCount
)

// VehicleProfile is the size and paint of one kind.
type VehicleProfile struct {
	Name    string
	Width   float64
	Length  float64
	Height  float64
	R, G, B float32
}

var vehicleProfiles = [vehicleKindCount]VehicleProfile{
	VehicleSedan: {Name: "sedan", Width: 1.9, Length: 4.2, Height: 1.5, R: 0.20, G: 0.35, B: 0.80},
	VehicleTaxi:  {Name: "taxi", Width: 1.9, Length: 4.4, Height: 1.5, R: 0.95, G: 0.80, B: 0.15},
	VehicleVan:   {Name: "van", Width: 2.1, Length: 5.0, Height: 2.3, R: 0.85, G: 0.85, B: 0.88},
	VehicleTruck: {Name: "truck", Width: 2.4, Length: 6.4, Height: 3.0, R: 0.70, G: 0.22, B: 0.18},
}

func (k VehicleKind) Profile() VehicleProfile {
	if k >= vehicleKindCount {
		k = VehicleSedan
	}
	return vehicleProfiles[k]
}

func (k VehicleKind) String() string { return k.Profile().Name }

// Role is fixed when a vehicle is created.
type Role uint8

const (
	RoleTraffic Role = iota
	RoleParked
)

func (r Role) String() string {
	if r == RoleParked {
		return "parked"
	}
	return "traffic"
}

// Axis of travel for traffic.
type Axis uint8

const (
	AxisX Axis = iota
	AxisZ
)

func (a Axis) index() int {
	if a == AxisZ {
		return 2
	}
	return 0
}

// other is the lateral axis index.
func (a Axis) other() int {
	if a == AxisZ {
		return 0
	}
	return 2
}

// VehicleRef names a vehicle by role and slot in its owning system.
type VehicleRef struct {
	Role  Role
	Index int
}

// Vehicle is shared by traffic and parked cars. Traffic fields are zero for
// parked cars and Collider is unused by traffic.
type Vehicle struct {
	Position mgl64.Vec3
	Yaw      float64
	Kind     VehicleKind
	Role     Role

	// Traffic.
	Axis       Axis
	Direction  float64 // +1 or -1
	Road       int     // index into Layout.RoadCenters
	LaneOffset float64
	Speed      float64

	// Parked.
	Collider ColliderHandle
}

// canonicalForward is the local forward axis before yaw is applied.
var canonicalForward = mgl64.Vec3{0, 0, -1}

// ForwardFor rotates the canonical forward vector by yaw about +Y.
func ForwardFor(yaw float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(yaw).Mul3x1(canonicalForward)
}

// YawFor is the yaw that points the canonical forward vector along dir on
// the given axis.
func YawFor(axis Axis, dir float64) float64 {
	if axis == AxisX {
		return -dir * math.Pi / 2
	}
	if dir > 0 {
		return math.Pi
	}
	return 0
}

func (v *Vehicle) Forward() mgl64.Vec3 {
	return ForwardFor(v.Yaw)
}

// Hull is the world AABB of the vehicle's rotated footprint at its current
// pose.
func (v *Vehicle) Hull() AABB {
	return HullAt(v.Kind, v.Position, v.Yaw)
}

// HullAt computes the hull a vehicle of kind would have at pos and yaw.
func HullAt(kind VehicleKind, pos mgl64.Vec3, yaw float64) AABB {
	p := kind.Profile()
	c := math.Abs(math.Cos(yaw))
	s := math.Abs(math.Sin(yaw))
	hx := c*p.Width*0.5 + s*p.Length*0.5
	hz := s*p.Width*0.5 + c*p.Length*0.5
	return AABB{
		Min: mgl64.Vec3{pos[0] - hx, pos[1], pos[2] - hz},
		Max: mgl64.Vec3{pos[0] + hx, pos[1] + p.Height, pos[2] + hz},
	}
}

func (v *Vehicle) Pose() Pose {
	return Pose{Position: v.Position, Yaw: v.Yaw}
}

// horizontalDist is the distance between a and b on the ground plane.
func horizontalDist(a, b mgl64.Vec3) float64 {
	return math.Hypot(a[0]-b[0], a[2]-b[2])
}
