// Package scene turns a city.World into GPU-ready draw data: one model matrix
// per box, a flat sprite buffer for points, and the light for the active
// weather. It has no GL dependency so it can be tested headless.
package scene

import (
	"citysim/internal/city"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// SpriteStride is the number of floats per point sprite:
// x, y, z, size, r, g, b, a.
const SpriteStride = 8

const (
	FieldOfView = 70.0 // degrees, vertical
	NearPlane   = 0.1
	FarPlane    = 1500.0
)

// Box is a unit cube placed by Model.
type Box struct {
	Model     mgl32.Mat4
	Color     mgl32.Vec3
	Roughness float32
}

// Light is the per-frame lighting shared by every program.
type Light struct {
	SunDir     mgl32.Vec3 // towards the sun, normalized
	SunColor   mgl32.Vec3
	Ambient    float32
	Sky        mgl32.Vec3
	Fog        mgl32.Vec3
	FogDensity float32
}

// Frame is everything the renderer draws for one frame.
type Frame struct {
	View    mgl32.Mat4
	Proj    mgl32.Mat4
	Eye     mgl32.Vec3
	Light   Light
	Boxes   []Box
	Sprites []float32
}

// SpriteCount is the number of points in Sprites.
func (f *Frame) SpriteCount() int { return len(f.Sprites) / SpriteStride }

var sunDir = mgl32.Vec3{0.35, 0.85, 0.4}.Normalize()

var buildingPalette = [...]mgl32.Vec3{
	{0.62, 0.58, 0.52},
	{0.48, 0.50, 0.55},
	{0.70, 0.66, 0.60},
	{0.40, 0.38, 0.36},
	{0.56, 0.46, 0.40},
	{0.75, 0.74, 0.70},
}

var (
	collectibleColor = mgl32.Vec3{1.0, 0.82, 0.15}
	skinColor        = mgl32.Vec3{0.86, 0.68, 0.55}
	glassColor       = mgl32.Vec3{0.15, 0.18, 0.22}
)

// Builder reuses its buffers across frames.
type Builder struct {
	frame Frame
}

// Build fills and returns the frame for w. The returned frame is reused by
// the next call.
func (b *Builder) Build(w *city.World, aspect float64) *Frame {
	f := &b.frame
	f.Boxes = f.Boxes[:0]
	f.Sprites = f.Sprites[:0]

	env := w.Weather.Env()
	f.Light = LightFor(env)

	eye := w.Camera.EffectivePos()
	target := w.Camera.Target.Add(w.Camera.Shake)
	f.Eye = vec32(eye)
	f.View = mgl32.LookAtV(f.Eye, vec32(target), mgl32.Vec3{0, 1, 0})
	if aspect <= 0 {
		aspect = 1
	}
	f.Proj = mgl32.Perspective(mgl32.DegToRad(FieldOfView), float32(aspect), NearPlane, FarPlane)

	b.addCity(w.Layout, env)
	for i := range w.Traffic.Cars {
		b.addVehicle(&w.Traffic.Cars[i])
	}
	for i := range w.Parking.Cars {
		b.addVehicle(&w.Parking.Cars[i])
	}
	for i := range w.Peds.Peds {
		b.addPedestrian(&w.Peds.Peds[i])
	}
	for _, c := range w.Collectibles.Items {
		m := translate(c.Pos).Mul4(mgl32.HomogRotate3DY(float32(c.Spin))).
			Mul4(mgl32.Scale3D(city.CollectibleSize, city.CollectibleSize, city.CollectibleSize))
		f.Boxes = append(f.Boxes, Box{Model: m, Color: collectibleColor, Roughness: 0.3})
	}

	for i := range w.Effects.P {
		s := &w.Effects.P[i]
		f.Sprites = appendSprite(f.Sprites, s.Pos, float32(s.Size), s.Col, float32(s.Life))
	}
	if env.ParticlesVisible {
		for _, p := range w.Weather.Particles {
			f.Sprites = appendSprite(f.Sprites, p, env.ParticleSize, env.ParticleColor, 0.8)
		}
	}
	return f
}

// LightFor maps a weather environment to shader light parameters.
func LightFor(env city.Environment) Light {
	return Light{
		SunDir:     sunDir,
		SunColor:   mgl32.Vec3(env.SunColor).Mul(env.SunIntensity),
		Ambient:    env.Ambient,
		Sky:        mgl32.Vec3(env.SkyColor),
		Fog:        mgl32.Vec3(env.FogColor),
		FogDensity: env.FogDensity,
	}
}

func (b *Builder) addCity(l *city.Layout, env city.Environment) {
	f := &b.frame
	ext := l.Extent()
	w := ext.X1 - ext.X0
	d := ext.Z1 - ext.Z0
	ground := mgl32.Translate3D(float32((ext.X0+ext.X1)/2), -0.05, float32((ext.Z0+ext.Z1)/2)).
		Mul4(mgl32.Scale3D(float32(w), 0.1, float32(d)))
	f.Boxes = append(f.Boxes, Box{Model: ground, Color: env.RoadColor, Roughness: env.RoadRoughness})

	const kerb = 0.15
	bs := float32(l.Params.BlockSize)
	for _, blk := range l.Blocks {
		m := translate(blk.Center).Mul4(mgl32.Translate3D(0, kerb/2, 0)).Mul4(mgl32.Scale3D(bs, kerb, bs))
		f.Boxes = append(f.Boxes, Box{Model: m, Color: env.SidewalkColor, Roughness: env.SidewalkRoughness})
	}
	for i, bld := range l.Buildings {
		f.Boxes = append(f.Boxes, Box{
			Model:     aabbModel(bld.Box),
			Color:     buildingPalette[i%len(buildingPalette)],
			Roughness: 0.8,
		})
	}
}

func (b *Builder) addVehicle(v *city.Vehicle) {
	f := &b.frame
	p := v.Kind.Profile()
	base := translate(v.Position).Mul4(mgl32.HomogRotate3DY(float32(v.Yaw)))
	wd, ht, ln := float32(p.Width), float32(p.Height), float32(p.Length)

	body := base.Mul4(mgl32.Translate3D(0, ht*0.3, 0)).Mul4(mgl32.Scale3D(wd, ht*0.6, ln))
	cabin := base.Mul4(mgl32.Translate3D(0, ht*0.8, ln*0.05)).Mul4(mgl32.Scale3D(wd*0.9, ht*0.4, ln*0.5))
	f.Boxes = append(f.Boxes,
		Box{Model: body, Color: mgl32.Vec3{p.R, p.G, p.B}, Roughness: 0.35},
		Box{Model: cabin, Color: glassColor, Roughness: 0.1},
	)
}

func (b *Builder) addPedestrian(p *city.Pedestrian) {
	f := &b.frame
	base := translate(p.Position).Mul4(mgl32.HomogRotate3DY(float32(p.Yaw())))
	col := mgl32.Vec3(p.Color)
	const leg = 0.8
	torso := base.Mul4(mgl32.Translate3D(0, leg+0.35, 0)).Mul4(mgl32.Scale3D(0.45, 0.7, 0.28))
	head := base.Mul4(mgl32.Translate3D(0, leg+0.85, 0)).Mul4(mgl32.Scale3D(0.25, 0.25, 0.25))
	f.Boxes = append(f.Boxes,
		Box{Model: torso, Color: col, Roughness: 0.9},
		Box{Model: head, Color: skinColor, Roughness: 0.9},
	)
	swing := float32(p.LegSwing())
	for _, side := range [2]float32{-1, 1} {
		m := base.Mul4(mgl32.Translate3D(side*0.11, leg, 0)).
			Mul4(mgl32.HomogRotate3DX(side * swing)).
			Mul4(mgl32.Translate3D(0, -leg/2, 0)).
			Mul4(mgl32.Scale3D(0.16, leg, 0.18))
		f.Boxes = append(f.Boxes, Box{Model: m, Color: col.Mul(0.6), Roughness: 0.9})
	}
}

func aabbModel(a city.AABB) mgl32.Mat4 {
	s := a.Size()
	return translate(a.Center()).Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func appendSprite(buf []float32, p mgl64.Vec3, size float32, col [3]float32, alpha float32) []float32 {
	return append(buf,
		float32(p[0]), float32(p[1]), float32(p[2]), size,
		col[0], col[1], col[2], mgl32.Clamp(alpha, 0, 1),
	)
}

func translate(p mgl64.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(float32(p[0]), float32(p[1]), float32(p[2]))
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
