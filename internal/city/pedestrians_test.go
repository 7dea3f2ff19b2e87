package city

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPedestrians_StayOnRing(t *testing.T) {
	l, _ := testLayout(t, 1, 31)
	ps := NewPedestrianSystem(l, NewRand(32))
	ps.Spawn(6)
	require.Len(t, ps.Peds, 9*6)

	r := NewRand(33)
	for step := range 3000 {
		dt := 1.0 / 60
		if step%100 == 0 {
			dt = r.RangeF(0.5, 4) // long hitches must not tunnel out
		}
		ps.Update(dt)
		for i := range ps.Peds {
			require.True(t, ps.InRing(i), "walker %d left its ring at step %d", i, step)
			d := ps.Peds[i].Dir
			assert.InDelta(t, 1, d.Len(), 1e-12)
			assert.True(t, d[0] == 0 || d[2] == 0, "direction stays axis aligned")
		}
	}
}

func TestPedestrians_TurnLeftAtCorner(t *testing.T) {
	l, _ := testLayout(t, 0, 1)
	ps := NewPedestrianSystem(l, NewRand(1))
	inner, outer := l.RingBounds()
	mid := (inner + outer) / 2

	// South side heading east, just short of the corner.
	ps.Peds = append(ps.Peds, Pedestrian{
		Position: mgl64.Vec3{outer - 0.1, 0, mid},
		Dir:      mgl64.Vec3{1, 0, 0},
		Speed:    1,
	})
	ps.Update(0.5)

	p := ps.Peds[0]
	assert.Equal(t, outer, p.Position[0])
	assert.Equal(t, mid, p.Position[2])
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, p.Dir, "now heading north up the east side")

	// Keeps lapping.
	for range 4000 {
		ps.Update(0.1)
	}
	assert.True(t, ps.InRing(0))
}

func TestPedestrians_PushedOutOfFootprint(t *testing.T) {
	l, _ := testLayout(t, 0, 1)
	ps := NewPedestrianSystem(l, NewRand(1))
	inner, _ := l.RingBounds()

	ps.Peds = append(ps.Peds, Pedestrian{
		Position: mgl64.Vec3{inner - 0.5, 0, 2},
		Dir:      mgl64.Vec3{0, 0, 1},
		Speed:    1,
	})
	ps.Update(0.1)

	assert.True(t, ps.InRing(0))
	assert.Equal(t, inner, ps.Peds[0].Position[0])
	assert.Equal(t, turnLeft(mgl64.Vec3{0, 0, 1}), ps.Peds[0].Dir)
}

func TestClampToRing(t *testing.T) {
	x, z := clampToRing(30, -50, 17, 20)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, -20.0, z)

	x, z = clampToRing(5, -10, 17, 20)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, -17.0, z)

	x, z = clampToRing(18, 3, 17, 20)
	assert.Equal(t, 18.0, x)
	assert.Equal(t, 3.0, z)
}

func TestPedestrian_WalkPhaseAndYaw(t *testing.T) {
	l, _ := testLayout(t, 0, 1)
	ps := NewPedestrianSystem(l, NewRand(1))
	inner, outer := l.RingBounds()
	ps.Peds = append(ps.Peds, Pedestrian{
		Position: mgl64.Vec3{0, 0, (inner + outer) / 2},
		Dir:      mgl64.Vec3{1, 0, 0},
		Speed:    1.5,
	})
	ps.Update(0.2)

	p := &ps.Peds[0]
	assert.InDelta(t, 1.5*0.2*PedWalkCycleRate, p.Phase, 1e-12)
	assert.InDelta(t, 0.3, p.Position[0], 1e-12)
	fwd := ForwardFor(p.Yaw())
	assert.InDelta(t, 1, fwd[0], 1e-9)
	assert.InDelta(t, 0, fwd[2], 1e-9)
	assert.LessOrEqual(t, math.Abs(p.LegSwing()), 0.5)
}
