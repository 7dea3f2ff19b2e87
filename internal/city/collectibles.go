package city

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Collectible is a floating score cube.
type Collectible struct {
	Pos  mgl64.Vec3
	Spin float64
}

type CollectibleSystem struct {
	Items []Collectible
	rng   *Rand
}

func NewCollectibleSystem(r *Rand) *CollectibleSystem {
	return &CollectibleSystem{rng: r}
}

// Spawn scatters n cubes over random sidewalks.
func (cs *CollectibleSystem) Spawn(l *Layout, n int) {
	if len(l.Blocks) == 0 {
		return
	}
	for range n {
		p := l.SidewalkPoint(cs.rng.Intn(len(l.Blocks)), cs.rng)
		p[1] = 1.0
		cs.Items = append(cs.Items, Collectible{Pos: p, Spin: cs.rng.RangeF(0, 2*math.Pi)})
	}
}

func (cs *CollectibleSystem) Update(dt float64) {
	for i := range cs.Items {
		cs.Items[i].Spin = math.Mod(cs.Items[i].Spin+dt*2, 2*math.Pi)
	}
}

// Collect removes every cube within radius of pos on the ground plane and
// returns their positions.
func (cs *CollectibleSystem) Collect(pos mgl64.Vec3, radius float64) []mgl64.Vec3 {
	var got []mgl64.Vec3
	for i := 0; i < len(cs.Items); {
		if horizontalDist(cs.Items[i].Pos, pos) <= radius {
			got = append(got, cs.Items[i].Pos)
			cs.Items[i] = cs.Items[len(cs.Items)-1]
			cs.Items = cs.Items[:len(cs.Items)-1]
			continue
		}
		i++
	}
	return got
}

func (cs *CollectibleSystem) Len() int { return len(cs.Items) }
