package city

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TrafficSystem owns the cruising cars. Every car stays on its lane forever;
// leaving the city on one side puts it back in on the other.
type TrafficSystem struct {
	Cars   []Vehicle
	layout *Layout
	rng    *Rand
}

func NewTrafficSystem(layout *Layout, r *Rand) *TrafficSystem {
	return &TrafficSystem{
		Cars:   make([]Vehicle, 0, 64),
		layout: layout,
		rng:    r,
	}
}

// Bound is the wrap limit on the travel axis.
func (ts *TrafficSystem) Bound() float64 {
	return ts.layout.Bound
}

// LaneOffset is the lateral offset of the lane used by traffic heading dir
// along axis. Traffic keeps right: facing +X the right hand is +Z, facing +Z
// it is -X.
func LaneOffset(axis Axis, dir float64) float64 {
	if axis == AxisX {
		return dir * LaneWidth * 0.5
	}
	return -dir * LaneWidth * 0.5
}

// Spawn places one car on a random lane and returns its index.
func (ts *TrafficSystem) Spawn() int {
	r := ts.rng
	axis := AxisX
	if r.Intn(2) == 1 {
		axis = AxisZ
	}
	dir := r.Sign()
	road := r.Intn(len(ts.layout.RoadCenters))
	along := r.RangeF(-ts.Bound(), ts.Bound())
	return ts.Add(axis, dir, road, along, r.RangeF(TrafficMinSpeed, TrafficMaxSpeed), VehicleKind(r.Intn(int(vehicleKindCount))))
}

// SpawnN spawns n cars.
func (ts *TrafficSystem) SpawnN(n int) {
	for i := 0; i < n; i++ {
		ts.Spawn()
	}
}

// Add places a car explicitly. along is the coordinate on the travel axis.
func (ts *TrafficSystem) Add(axis Axis, dir float64, road int, along, speed float64, kind VehicleKind) int {
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	off := LaneOffset(axis, dir)
	var pos mgl64.Vec3
	pos[axis.index()] = clampF(along, -ts.Bound(), ts.Bound())
	pos[axis.other()] = ts.layout.RoadCenters[road] + off
	ts.Cars = append(ts.Cars, Vehicle{
		Position:   pos,
		Yaw:        YawFor(axis, dir),
		Kind:       kind,
		Role:       RoleTraffic,
		Axis:       axis,
		Direction:  dir,
		Road:       road,
		LaneOffset: off,
		Speed:      speed,
	})
	return len(ts.Cars) - 1
}

// Update moves every car except skip (the one the player occupies, -1 for
// none) along its lane and wraps it at the bound.
func (ts *TrafficSystem) Update(dt float64, skip int) {
	if ts == nil || dt <= 0 {
		return
	}
	bound := ts.Bound()
	for i := range ts.Cars {
		if i == skip {
			continue
		}
		c := &ts.Cars[i]
		ax := c.Axis.index()
		c.Position[ax] = wrapBound(c.Position[ax]+c.Direction*c.Speed*dt, bound)
	}
}

// Readmit puts a car the player abandoned back on a lane of its own
// direction: nearest road, lane heading restored, travel coordinate wrapped.
func (ts *TrafficSystem) Readmit(i int) {
	if i < 0 || i >= len(ts.Cars) {
		return
	}
	c := &ts.Cars[i]
	bound := ts.Bound()
	ax := c.Axis.index()
	lat := c.Axis.other()

	best := 0
	bestD := math.MaxFloat64
	for ri, rc := range ts.layout.RoadCenters {
		d := math.Abs(c.Position[lat] - (rc + c.LaneOffset))
		if d < bestD {
			bestD = d
			best = ri
		}
	}
	c.Road = best
	c.Position[lat] = ts.layout.RoadCenters[best] + c.LaneOffset
	c.Position[1] = 0
	c.Yaw = YawFor(c.Axis, c.Direction)
	c.Position[ax] = wrapBound(c.Position[ax], bound)
}

// wrapBound folds v into [-bound, bound], carrying any overshoot past one
// edge in from the other.
func wrapBound(v, bound float64) float64 {
	if bound <= 0 {
		return 0
	}
	for v > bound {
		v -= 2 * bound
	}
	for v < -bound {
		v += 2 * bound
	}
	return v
}

// HitsAny reports whether box overlaps a car hull other than skip.
func (ts *TrafficSystem) HitsAny(box AABB, skip int) bool {
	return ts.HitsAnyExcept(box, skip, nil)
}

// HitsAnyExcept is HitsAny that also leaves out the cars in ignore.
func (ts *TrafficSystem) HitsAnyExcept(box AABB, skip int, ignore []int) bool {
next:
	for i := range ts.Cars {
		if i == skip || !ts.Cars[i].Hull().Intersects(box) {
			continue
		}
		for _, ig := range ignore {
			if ig == i {
				continue next
			}
		}
		return true
	}
	return false
}

// Overlapping appends the index of every car other than skip whose hull
// overlaps box.
func (ts *TrafficSystem) Overlapping(box AABB, skip int, out []int) []int {
	for i := range ts.Cars {
		if i != skip && ts.Cars[i].Hull().Intersects(box) {
			out = append(out, i)
		}
	}
	return out
}
