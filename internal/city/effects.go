package city

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spark is one crash particle. Life counts down from 1 to 0.
type Spark struct {
	Pos  mgl64.Vec3
	Vel  mgl64.Vec3
	Life float64
	Size float64
	Col  [3]float32
}

// EffectSystem holds the transient bursts. It knows nothing about the rest of
// the world; bursts are requested through Spawn.
type EffectSystem struct {
	Max    int
	P      []Spark
	rng    *Rand
	ovrIdx int // circular overwrite index when full
}

func NewEffectSystem(maxParticles int, r *Rand) *EffectSystem {
	if maxParticles <= 0 {
		maxParticles = MaxEffectParticles
	}
	return &EffectSystem{
		Max: maxParticles,
		P:   make([]Spark, 0, maxParticles),
		rng: r,
	}
}

func (es *EffectSystem) Clear() {
	es.P = es.P[:0]
	es.ovrIdx = 0
}

func (es *EffectSystem) Add(p Spark) {
	if len(es.P) < es.Max {
		es.P = append(es.P, p)
		return
	}
	if es.ovrIdx >= es.Max {
		es.ovrIdx = 0
	}
	es.P[es.ovrIdx] = p
	es.ovrIdx++
}

// Spawn throws BurstSize sparks out and up from pos.
func (es *EffectSystem) Spawn(pos mgl64.Vec3) {
	if es == nil {
		return
	}
	r := es.rng
	for range BurstSize {
		ang := r.RangeF(0, math.Pi*2)
		spd := r.RangeF(3, 9)
		hot := float32(r.RangeF(0.75, 1))
		es.Add(Spark{
			Pos:  pos,
			Vel:  mgl64.Vec3{math.Cos(ang) * spd, r.RangeF(3, 8), math.Sin(ang) * spd},
			Life: 1,
			Size: r.RangeF(0.08, 0.2),
			Col:  [3]float32{1, hot * 0.8, hot * 0.25},
		})
	}
}

// Update ages every spark by dt/EffectLifetime, applies gravity and removes
// the dead ones.
func (es *EffectSystem) Update(dt float64) {
	if es == nil || dt <= 0 {
		return
	}
	decay := dt / EffectLifetime
	for i := 0; i < len(es.P); {
		p := &es.P[i]
		p.Life -= decay
		if p.Life <= 0 {
			es.P[i] = es.P[len(es.P)-1]
			es.P = es.P[:len(es.P)-1]
			continue
		}
		p.Vel[1] -= EffectGravity * dt
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		if p.Pos[1] < 0 {
			p.Pos[1] = 0
			p.Vel[1] *= -0.3
		}
		i++
	}
	if es.ovrIdx > len(es.P) {
		es.ovrIdx = 0
	}
}

func (es *EffectSystem) Len() int {
	if es == nil {
		return 0
	}
	return len(es.P)
}
