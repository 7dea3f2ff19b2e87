package city

import "github.com/go-gl/mathgl/mgl64"

// ChaseCamera follows the driven vehicle from behind and above. On foot the
// player's eye is the camera and Snap is used instead.
type ChaseCamera struct {
	Pos    mgl64.Vec3
	Target mgl64.Vec3

	// Screen shake.
	Shake          mgl64.Vec3
	ShakeTimer     float64
	ShakeIntensity float64
	shakeSeed      uint64
}

// Follow eases the camera toward the point ChaseDistance behind and
// ChaseHeight above a vehicle at pos facing yaw.
func (c *ChaseCamera) Follow(pos mgl64.Vec3, yaw, dt float64) {
	fwd := ForwardFor(yaw)
	want := pos.Sub(fwd.Mul(ChaseDistance)).Add(mgl64.Vec3{0, ChaseHeight, 0})
	k := 1 - expDecay(ChaseSmoothing, dt)
	c.Pos = c.Pos.Add(want.Sub(c.Pos).Mul(k))
	c.Target = pos.Add(mgl64.Vec3{0, 1, 0})
}

// Snap places the camera at an eye looking along yaw and pitch.
func (c *ChaseCamera) Snap(eye mgl64.Vec3, yaw, pitch float64) {
	c.Pos = eye
	look := mgl64.Rotate3DY(yaw).Mul3(mgl64.Rotate3DX(pitch)).Mul3x1(canonicalForward)
	c.Target = eye.Add(look)
}

// AddShake triggers shake with given intensity and duration.
func (c *ChaseCamera) AddShake(intensity, duration float64) {
	if intensity > c.ShakeIntensity {
		c.ShakeIntensity = intensity
	}
	if duration > c.ShakeTimer {
		c.ShakeTimer = duration
	}
}

// UpdateShake decays shake and picks a new random offset.
func (c *ChaseCamera) UpdateShake(dt float64) {
	if c.ShakeTimer <= 0 {
		c.Shake = mgl64.Vec3{}
		c.ShakeIntensity = 0
		return
	}
	c.ShakeTimer -= dt
	if c.ShakeTimer < 0 {
		c.ShakeTimer = 0
	}
	t := c.ShakeTimer
	c.shakeSeed++
	rr := NewRand(c.shakeSeed ^ uint64(t*10000))
	mag := c.ShakeIntensity * (t / (t + 0.08))
	c.Shake = mgl64.Vec3{rr.RangeF(-mag, mag), rr.RangeF(-mag, mag), rr.RangeF(-mag, mag)}
}

// EffectivePos returns the camera position with shake applied.
func (c *ChaseCamera) EffectivePos() mgl64.Vec3 {
	return c.Pos.Add(c.Shake)
}
