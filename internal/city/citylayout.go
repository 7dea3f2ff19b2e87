package city

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Block is one city block: a square of sidewalk around up to four buildings.
type Block struct {
	I, J      int
	Center    mgl64.Vec3
	Buildings []int // indices into Layout.Buildings
}

// Building is a box standing in one quadrant of its block.
type Building struct {
	Block    int
	Box      AABB
	Height   float64
	Collider ColliderHandle
}

// Pose for the renderer: buildings never rotate.
func (b Building) Pose() Pose {
	return Pose{Position: mgl64.Vec3{b.Box.Center()[0], 0, b.Box.Center()[2]}}
}

// Layout is the static city: blocks on a square grid separated by roads.
type Layout struct {
	Params      Params
	Pitch       float64   // block centre to block centre
	Bound       float64   // half extent of the simulated area
	RoadCenters []float64 // road centre lines, shared by both axes
	Blocks      []Block
	Buildings   []Building
}

var quadrants = [4][2]float64{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}

// GenerateLayout builds the block grid and registers one collider per
// building in colliders. Blocks run from -CitySize to CitySize on both axes,
// centred on the origin.
func GenerateLayout(p Params, r *Rand, colliders *ColliderSet) *Layout {
	p = p.normalized()
	n := p.CitySize
	pitch := p.BlockSize + p.RoadWidth
	l := &Layout{
		Params: p,
		Pitch:  pitch,
		Bound:  float64(n+1) * pitch,
		Blocks: make([]Block, 0, (2*n+1)*(2*n+1)),
	}
	for k := -n - 1; k <= n; k++ {
		l.RoadCenters = append(l.RoadCenters, (float64(k)+0.5)*pitch)
	}

	base := r.NextU64()
	inner, _ := l.RingBounds()
	for j := -n; j <= n; j++ {
		for i := -n; i <= n; i++ {
			blk := Block{
				I:      i,
				J:      j,
				Center: mgl64.Vec3{float64(i) * pitch, 0, float64(j) * pitch},
			}
			bi := len(l.Blocks)
			br := NewRand(hash2D(base, i, j))
			for _, q := range quadrants {
				if !br.Chance(BuildingChance) {
					continue
				}
				near := br.RangeF(BuildingMinInset, BuildingMaxInset)
				far := inner - br.RangeF(BuildingMinInset, BuildingMaxInset)
				if far-near < 1 {
					continue
				}
				h := br.RangeF(BuildingMinHeight, BuildingMaxHeight)
				c := blk.Center
				box := NewAABB(
					mgl64.Vec3{c[0] + q[0]*near, 0, c[2] + q[1]*near},
					mgl64.Vec3{c[0] + q[0]*far, h, c[2] + q[1]*far},
				)
				idx := len(l.Buildings)
				l.Buildings = append(l.Buildings, Building{
					Block:    bi,
					Box:      box,
					Height:   h,
					Collider: colliders.Add(box, Owner{Kind: OwnerBuilding, Index: idx}),
				})
				blk.Buildings = append(blk.Buildings, idx)
			}
			l.Blocks = append(l.Blocks, blk)
		}
	}
	return l
}

// Extent is the XZ rectangle covered by the simulation.
func (l *Layout) Extent() RectF {
	return RectF{X0: -l.Bound, Z0: -l.Bound, X1: l.Bound, Z1: l.Bound}
}

// RingBounds returns the half extents of a block's sidewalk ring: inner is
// the building footprint edge, outer is the kerb.
func (l *Layout) RingBounds() (inner, outer float64) {
	outer = l.Params.BlockSize * 0.5
	inner = outer - l.Params.SidewalkWidth
	return inner, outer
}

// BlockAt returns the index of the block whose kerb square holds (x, z).
func (l *Layout) BlockAt(x, z float64) (int, bool) {
	n := l.Params.CitySize
	i := int(math.Round(x / l.Pitch))
	j := int(math.Round(z / l.Pitch))
	if i < -n || i > n || j < -n || j > n {
		return 0, false
	}
	idx := (j+n)*(2*n+1) + (i + n)
	_, outer := l.RingBounds()
	c := l.Blocks[idx].Center
	if math.Abs(x-c[0]) > outer || math.Abs(z-c[2]) > outer {
		return 0, false
	}
	return idx, true
}

// SidewalkPoint picks a random point on the sidewalk ring of block bi.
func (l *Layout) SidewalkPoint(bi int, r *Rand) mgl64.Vec3 {
	inner, outer := l.RingBounds()
	c := l.Blocks[bi].Center
	across := r.RangeF(inner, outer) * r.Sign()
	along := r.RangeF(-outer, outer)
	if r.Intn(2) == 0 {
		return mgl64.Vec3{c[0] + across, 0, c[2] + along}
	}
	return mgl64.Vec3{c[0] + along, 0, c[2] + across}
}
