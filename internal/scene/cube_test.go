package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeMesh_FacesPointOutward(t *testing.T) {
	mesh := CubeMesh()
	require.Len(t, mesh, 36*CubeStride)

	vert := func(i int) (mgl32.Vec3, mgl32.Vec3) {
		o := i * CubeStride
		return mgl32.Vec3{mesh[o], mesh[o+1], mesh[o+2]}, mgl32.Vec3{mesh[o+3], mesh[o+4], mesh[o+5]}
	}
	for tri := 0; tri < 12; tri++ {
		a, n := vert(tri * 3)
		b, _ := vert(tri*3 + 1)
		c, _ := vert(tri*3 + 2)
		for _, p := range []mgl32.Vec3{a, b, c} {
			for i := range 3 {
				assert.InDelta(t, 0.5, abs32(p[i]), 1e-6)
			}
			assert.InDelta(t, 0.5, p.Dot(n), 1e-6, "vertex lies on its face")
		}
		wind := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, wind.Dot(n), float32(0), "triangle %d is counter-clockwise from outside", tri)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
