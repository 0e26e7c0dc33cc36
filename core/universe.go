package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Universe is one simulation snapshot. Changed marks snapshots that
// were edited directly (as opposed to derived by stepping); only those
// are written to save files.
type Universe struct {
	Bodies  BodyList
	Gravity float64
	Changed bool
}

func NewUniverse(gravity float64) *Universe {
	return &Universe{
		Gravity: gravity,
		Changed: true,
	}
}

// Clone deep-copies the snapshot. The copy is not marked changed.
func (u *Universe) Clone() *Universe {
	return &Universe{
		Bodies:  u.Bodies.Clone(),
		Gravity: u.Gravity,
	}
}

// Step advances the snapshot: symmetric pairwise Newtonian attraction,
// then Euler position integration.
func (u *Universe) Step(dt float64) {
	u.Bodies.EachPair(func(_ BodyID, a *Body, _ BodyID, b *Body) {
		aToB := b.Pos.Sub(a.Pos)
		dist2 := aToB.LenSqr()
		dir := aToB.Normalize()
		a.Vel = a.Vel.Add(dir.Mul(u.Gravity * b.Mass() / dist2 * dt))
		b.Vel = b.Vel.Sub(dir.Mul(u.Gravity * a.Mass() / dist2 * dt))
	})
	u.Bodies.Each(func(_ BodyID, b *Body) {
		b.Pos = b.Pos.Add(b.Vel.Mul(dt))
	})
}

// Draw queues one circle per body with depth key 0.
func (u *Universe) Draw(d *DrawList) {
	u.Bodies.Each(func(_ BodyID, b *Body) {
		d.Circle(vec2f(b.Pos), float32(b.Radius), vec3f(b.Color), 0)
	})
}

func vec2f(v [2]float64) mgl32.Vec2 {
	return mgl32.Vec2{float32(v[0]), float32(v[1])}
}

func vec3f(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
