package city

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestEffects_BurstDecaysAndIsRemoved(t *testing.T) {
	es := NewEffectSystem(0, NewRand(51))
	at := mgl64.Vec3{4, 1, -2}
	es.Spawn(at)
	assert.Equal(t, BurstSize, es.Len())

	for _, p := range es.P {
		assert.Equal(t, at, p.Pos)
		assert.Positive(t, p.Vel[1], "sparks fly up")
		assert.Equal(t, 1.0, p.Life)
	}

	es.Update(EffectLifetime / 2)
	assert.Equal(t, BurstSize, es.Len())
	for _, p := range es.P {
		assert.InDelta(t, 0.5, p.Life, 1e-12)
	}

	es.Update(EffectLifetime/2 + 0.01)
	assert.Equal(t, 0, es.Len())
}

func TestEffects_GravityPullsDown(t *testing.T) {
	es := NewEffectSystem(0, NewRand(52))
	es.Spawn(mgl64.Vec3{0, 5, 0})
	v0 := es.P[0].Vel[1]
	es.Update(0.1)
	assert.InDelta(t, v0-EffectGravity*0.1, es.P[0].Vel[1], 1e-9)
}

func TestEffects_BoundedWorkingSet(t *testing.T) {
	es := NewEffectSystem(50, NewRand(53))
	for range 10 {
		es.Spawn(mgl64.Vec3{})
	}
	assert.Equal(t, 50, es.Len())

	for range 100 {
		es.Spawn(mgl64.Vec3{})
		es.Update(0.05)
		assert.LessOrEqual(t, es.Len(), 50)
	}
	es.Clear()
	assert.Equal(t, 0, es.Len())
}
