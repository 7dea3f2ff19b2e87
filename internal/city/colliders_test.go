package city

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox(x, z float64) AABB {
	return AABBFromCenter(mgl64.Vec3{x, 0.5, z}, mgl64.Vec3{0.5, 0.5, 0.5})
}

func TestNewAABB_NormalizesCorners(t *testing.T) {
	b := NewAABB(mgl64.Vec3{2, 5, -1}, mgl64.Vec3{-2, 0, 3})
	assert.Equal(t, mgl64.Vec3{-2, 0, -1}, b.Min)
	assert.Equal(t, mgl64.Vec3{2, 5, 3}, b.Max)
	assert.Equal(t, mgl64.Vec3{0, 2.5, 1}, b.Center())
	assert.Equal(t, mgl64.Vec3{4, 5, 4}, b.Size())
}

func TestAABB_IntersectsIsStrict(t *testing.T) {
	a := unitBox(0, 0)
	assert.True(t, a.Intersects(unitBox(0.9, 0)))
	assert.False(t, a.Intersects(unitBox(1, 0)), "touching faces do not overlap")
	assert.False(t, a.Intersects(unitBox(0, 3)))
	assert.True(t, a.Contains(AABBFromCenter(mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0.2, 0.2, 0.2})))
	assert.True(t, a.ContainsPoint(mgl64.Vec3{0.5, 1, -0.5}))
	assert.Equal(t, unitBox(3, 4), a.Translate(mgl64.Vec3{3, 0, 4}))
}

func TestColliderSet_AddRemove(t *testing.T) {
	cs := NewColliderSet(RectF{X0: -100, Z0: -100, X1: 100, Z1: 100})

	a := cs.Add(unitBox(0, 0), Owner{Kind: OwnerBuilding, Index: 0})
	b := cs.Add(unitBox(10, 0), Owner{Kind: OwnerParkedVehicle, Index: 3})
	assert.Equal(t, 2, cs.Len())
	assert.Equal(t, 1, cs.CountOwned(OwnerParkedVehicle))

	box, owner, ok := cs.Get(b)
	require.True(t, ok)
	assert.Equal(t, unitBox(10, 0), box)
	assert.Equal(t, Owner{Kind: OwnerParkedVehicle, Index: 3}, owner)

	assert.True(t, cs.Intersects(unitBox(10.5, 0)))
	assert.True(t, cs.Remove(b))
	assert.False(t, cs.Intersects(unitBox(10.5, 0)))
	assert.False(t, cs.Remove(b), "second remove is a no-op")
	assert.False(t, cs.Remove(NoCollider))
	assert.Equal(t, 1, cs.Len())

	h, hit := cs.FirstHit(unitBox(0.2, 0.2))
	assert.True(t, hit)
	assert.Equal(t, a, h)
}

func TestColliderSet_StaleHandleAfterReuse(t *testing.T) {
	cs := NewColliderSet(RectF{X0: -10, Z0: -10, X1: 10, Z1: 10})

	old := cs.Add(unitBox(0, 0), Owner{Kind: OwnerParkedVehicle, Index: 1})
	require.True(t, cs.Remove(old))
	fresh := cs.Add(unitBox(5, 5), Owner{Kind: OwnerParkedVehicle, Index: 2})

	_, _, ok := cs.Get(old)
	assert.False(t, ok, "the slot was reused under a new generation")
	assert.False(t, cs.Remove(old))

	_, owner, ok := cs.Get(fresh)
	require.True(t, ok)
	assert.Equal(t, 2, owner.Index)
	assert.Equal(t, 1, cs.Len())
}

func TestColliderSet_OutsideIndexBounds(t *testing.T) {
	cs := NewColliderSet(RectF{X0: -10, Z0: -10, X1: 10, Z1: 10})

	far := cs.Add(unitBox(50, 50), Owner{Kind: OwnerParkedVehicle})
	edge := cs.Add(unitBox(10, 0), Owner{Kind: OwnerParkedVehicle})

	assert.True(t, cs.Intersects(unitBox(50.3, 50)))
	assert.True(t, cs.Intersects(unitBox(10.3, 0)))
	assert.True(t, cs.Remove(far))
	assert.True(t, cs.Remove(edge))
	assert.False(t, cs.Intersects(unitBox(50.3, 50)))
	assert.Equal(t, 0, cs.Len())
}

func TestColliderSet_ManyBoxesMatchBruteForce(t *testing.T) {
	cs := NewColliderSet(RectF{X0: -200, Z0: -200, X1: 200, Z1: 200})
	r := NewRand(4)
	var boxes []AABB
	var handles []ColliderHandle
	for i := range 400 {
		b := AABBFromCenter(
			mgl64.Vec3{r.RangeF(-190, 190), 1, r.RangeF(-190, 190)},
			mgl64.Vec3{r.RangeF(0.5, 4), 1, r.RangeF(0.5, 4)},
		)
		boxes = append(boxes, b)
		handles = append(handles, cs.Add(b, Owner{Kind: OwnerBuilding, Index: i}))
	}
	// Drop every third.
	live := make([]bool, len(boxes))
	for i := range boxes {
		live[i] = i%3 != 0
		if !live[i] {
			require.True(t, cs.Remove(handles[i]))
		}
	}

	for range 300 {
		q := AABBFromCenter(mgl64.Vec3{r.RangeF(-200, 200), 1, r.RangeF(-200, 200)}, mgl64.Vec3{2, 1, 2})
		want := false
		for i, b := range boxes {
			if live[i] && b.Intersects(q) {
				want = true
				break
			}
		}
		assert.Equal(t, want, cs.Intersects(q))
	}

	seen := 0
	cs.Each(func(_ ColliderHandle, _ AABB, o Owner) {
		assert.NotZero(t, o.Index%3)
		seen++
	})
	assert.Equal(t, cs.Len(), seen)
}

func TestColliderSet_OverlappingAndExcept(t *testing.T) {
	cs := NewColliderSet(RectF{X0: -50, Z0: -50, X1: 50, Z1: 50})
	a := cs.Add(unitBox(0, 0), Owner{Kind: OwnerBuilding})
	b := cs.Add(unitBox(0.8, 0), Owner{Kind: OwnerBuilding})
	cs.Add(unitBox(5, 0), Owner{Kind: OwnerBuilding})
	out := cs.Add(unitBox(80, 0), Owner{Kind: OwnerBuilding})

	got := cs.Overlapping(unitBox(0.4, 0), nil)
	assert.ElementsMatch(t, []ColliderHandle{a, b}, got)
	assert.Equal(t, []ColliderHandle{out}, cs.Overlapping(unitBox(80.2, 0), nil))
	assert.Empty(t, cs.Overlapping(unitBox(-20, 0), nil))

	assert.True(t, cs.IntersectsExcept(unitBox(0.4, 0), []ColliderHandle{a}))
	assert.False(t, cs.IntersectsExcept(unitBox(0.4, 0), got))
	assert.True(t, cs.IntersectsExcept(unitBox(4.6, 0), got), "waived boxes do not hide others")
}
