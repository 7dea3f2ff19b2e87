package city

import "github.com/go-gl/mathgl/mgl64"

// ParkingSystem owns the cars parked along the kerbs. A parked car is a
// static collider whenever nobody is driving it.
type ParkingSystem struct {
	Cars      []Vehicle
	colliders *ColliderSet
	rng       *Rand
}

func NewParkingSystem(colliders *ColliderSet, r *Rand) *ParkingSystem {
	return &ParkingSystem{
		Cars:      make([]Vehicle, 0, 128),
		colliders: colliders,
		rng:       r,
	}
}

// kerb edges as (normal x, normal z); parked cars sit just outside the kerb
// facing along the road.
var kerbEdges = [4][2]float64{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Spawn places 0..MaxParkedOnEdge cars on every block edge. Every block edge
// in the grid borders a road.
func (ps *ParkingSystem) Spawn(l *Layout) {
	_, outer := l.RingBounds()
	dist := outer + ParkingCurbGap
	slots := [MaxParkedOnEdge]float64{-outer * 0.45, outer * 0.45}
	for _, blk := range l.Blocks {
		for _, e := range kerbEdges {
			n := ps.rng.Intn(MaxParkedOnEdge + 1)
			for s := 0; s < n; s++ {
				along := slots[s] + ps.rng.RangeF(-1.5, 1.5)
				var pos mgl64.Vec3
				var yaw float64
				if e[0] == 0 {
					// North/south kerb: road runs along X.
					pos = mgl64.Vec3{blk.Center[0] + along, 0, blk.Center[2] + e[1]*dist}
					yaw = YawFor(AxisX, -e[1])
				} else {
					pos = mgl64.Vec3{blk.Center[0] + e[0]*dist, 0, blk.Center[2] + along}
					yaw = YawFor(AxisZ, e[0])
				}
				ps.Add(pos, yaw, VehicleKind(ps.rng.Intn(int(VehicleVan)+1)))
			}
		}
	}
}

// Add parks a car at pos and registers its collider.
func (ps *ParkingSystem) Add(pos mgl64.Vec3, yaw float64, kind VehicleKind) int {
	idx := len(ps.Cars)
	ps.Cars = append(ps.Cars, Vehicle{
		Position: pos,
		Yaw:      yaw,
		Kind:     kind,
		Role:     RoleParked,
	})
	ps.Attach(idx)
	return idx
}

// Detach removes car i's collider so it can be driven. Detaching a car that
// has no collider is a no-op and reports false.
func (ps *ParkingSystem) Detach(i int) bool {
	if i < 0 || i >= len(ps.Cars) {
		return false
	}
	c := &ps.Cars[i]
	ok := ps.colliders.Remove(c.Collider)
	c.Collider = NoCollider
	return ok
}

// Attach registers car i's collider at its current pose. A car that already
// has a live collider keeps it.
func (ps *ParkingSystem) Attach(i int) bool {
	if i < 0 || i >= len(ps.Cars) {
		return false
	}
	c := &ps.Cars[i]
	if _, _, live := ps.colliders.Get(c.Collider); live {
		return false
	}
	c.Collider = ps.colliders.Add(c.Hull(), Owner{Kind: OwnerParkedVehicle, Index: i})
	return true
}

// Attached counts parked cars that currently own a collider.
func (ps *ParkingSystem) Attached() int {
	n := 0
	for i := range ps.Cars {
		if _, _, live := ps.colliders.Get(ps.Cars[i].Collider); live {
			n++
		}
	}
	return n
}
