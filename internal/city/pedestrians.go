package city

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	clothPalette = [][3]float32{
		{0.90, 0.16, 0.24}, {0.16, 0.47, 0.92}, {1.00, 0.78, 0.24},
		{0.24, 0.78, 0.35}, {0.71, 0.24, 0.78}, {1.00, 0.43, 0.20},
	}
)

// Pedestrian walks laps around the sidewalk ring of one block.
type Pedestrian struct {
	Position mgl64.Vec3
	Dir      mgl64.Vec3 // unit, on the XZ plane, always axis aligned
	Block    int
	Speed    float64
	Phase    float64 // walk cycle, drives leg swing only
	Color    [3]float32
}

// Yaw faces the walking direction.
func (p *Pedestrian) Yaw() float64 {
	return math.Atan2(-p.Dir[0], -p.Dir[2])
}

func (p *Pedestrian) Pose() Pose {
	return Pose{Position: p.Position, Yaw: p.Yaw()}
}

// LegSwing is the current leg angle in radians for the walk animation.
func (p *Pedestrian) LegSwing() float64 {
	return math.Sin(p.Phase) * 0.5
}

type PedestrianSystem struct {
	Peds   []Pedestrian
	layout *Layout
	rng    *Rand
}

func NewPedestrianSystem(layout *Layout, r *Rand) *PedestrianSystem {
	return &PedestrianSystem{
		Peds:   make([]Pedestrian, 0, len(layout.Blocks)*DefaultPedsPerBlock),
		layout: layout,
		rng:    r,
	}
}

// Spawn puts perBlock walkers on every block, each on a random side of the
// ring heading the way the left-turn rule sends it round.
func (ps *PedestrianSystem) Spawn(perBlock int) {
	inner, outer := ps.layout.RingBounds()
	r := ps.rng
	for bi, blk := range ps.layout.Blocks {
		for k := 0; k < perBlock; k++ {
			across := r.RangeF(inner, outer)
			along := r.RangeF(-outer, outer)
			var rel, dir mgl64.Vec3
			switch r.Intn(4) {
			case 0: // south side, heading east
				rel, dir = mgl64.Vec3{along, 0, across}, mgl64.Vec3{1, 0, 0}
			case 1: // east side, heading north
				rel, dir = mgl64.Vec3{across, 0, along}, mgl64.Vec3{0, 0, -1}
			case 2: // north side, heading west
				rel, dir = mgl64.Vec3{along, 0, -across}, mgl64.Vec3{-1, 0, 0}
			default: // west side, heading south
				rel, dir = mgl64.Vec3{-across, 0, along}, mgl64.Vec3{0, 0, 1}
			}
			ps.Peds = append(ps.Peds, Pedestrian{
				Position: blk.Center.Add(rel),
				Dir:      dir,
				Block:    bi,
				Speed:    r.RangeF(PedMinSpeed, PedMaxSpeed),
				Phase:    r.RangeF(0, 2*math.Pi),
				Color:    clothPalette[r.Intn(len(clothPalette))],
			})
		}
	}
}

// turnLeft rotates an XZ direction by 90 degrees: (x, z) -> (z, -x).
func turnLeft(d mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{d[2], 0, -d[0]}
}

// clampToRing pulls a block-relative point back into the ring
// inner <= max(|x|, |z|) <= outer, moving along the shallowest axis when the
// point sits inside the footprint.
func clampToRing(x, z, inner, outer float64) (float64, float64) {
	x = clampF(x, -outer, outer)
	z = clampF(z, -outer, outer)
	if math.Abs(x) < inner && math.Abs(z) < inner {
		if math.Abs(x) >= math.Abs(z) {
			x = math.Copysign(inner, x)
		} else {
			z = math.Copysign(inner, z)
		}
	}
	return x, z
}

// Update walks everyone one step. A walker that overshoots the kerb in its
// direction of travel, or ends up inside the footprint, is clamped back onto
// the ring and turns left in the same step.
func (ps *PedestrianSystem) Update(dt float64) {
	if ps == nil || dt <= 0 {
		return
	}
	inner, outer := ps.layout.RingBounds()
	for i := range ps.Peds {
		p := &ps.Peds[i]
		p.Position = p.Position.Add(p.Dir.Mul(p.Speed * dt))

		c := ps.layout.Blocks[p.Block].Center
		rx := p.Position[0] - c[0]
		rz := p.Position[2] - c[2]

		crossed := (p.Dir[0] > 0 && rx > outer) || (p.Dir[0] < 0 && rx < -outer) ||
			(p.Dir[2] > 0 && rz > outer) || (p.Dir[2] < 0 && rz < -outer)
		inside := math.Abs(rx) < inner && math.Abs(rz) < inner
		strayed := math.Abs(rx) > outer || math.Abs(rz) > outer

		if crossed || inside || strayed {
			rx, rz = clampToRing(rx, rz, inner, outer)
			p.Position[0] = c[0] + rx
			p.Position[2] = c[2] + rz
		}
		if crossed || inside {
			p.Dir = turnLeft(p.Dir)
		}
		p.Phase = math.Mod(p.Phase+p.Speed*dt*PedWalkCycleRate, 2*math.Pi)
	}
}

// InRing reports whether walker i is on its block's sidewalk ring.
func (ps *PedestrianSystem) InRing(i int) bool {
	inner, outer := ps.layout.RingBounds()
	p := &ps.Peds[i]
	c := ps.layout.Blocks[p.Block].Center
	m := math.Max(math.Abs(p.Position[0]-c[0]), math.Abs(p.Position[2]-c[2]))
	const eps = 1e-9
	return m >= inner-eps && m <= outer+eps
}

// Hull is the walker's box, used by the renderer and pickups.
func (p *Pedestrian) Hull() AABB {
	return AABBFromCenter(
		mgl64.Vec3{p.Position[0], PedHeight * 0.5, p.Position[2]},
		mgl64.Vec3{PedHalfWidth, PedHeight * 0.5, PedHalfWidth},
	)
}
