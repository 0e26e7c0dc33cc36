package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func twoBodyUniverse() *Universe {
	u := NewUniverse(1)
	u.Bodies.Insert(1, Body{Pos: mgl64.Vec2{-1, 0}, Radius: 1, Density: 1})
	u.Bodies.Insert(2, Body{Pos: mgl64.Vec2{1, 0}, Radius: 1, Density: 1})
	return u
}

func TestStepMutualAttraction(t *testing.T) {
	u := twoBodyUniverse()
	u.Step(0.01)

	a := u.Bodies.Get(1)
	b := u.Bodies.Get(2)
	if a.Vel.X() <= 0 {
		t.Errorf("left body should accelerate right, vx = %f", a.Vel.X())
	}
	if b.Vel.X() >= 0 {
		t.Errorf("right body should accelerate left, vx = %f", b.Vel.X())
	}
	if a.Pos.X() <= -1 || b.Pos.X() >= 1 {
		t.Errorf("bodies should have moved toward each other: %f, %f", a.Pos.X(), b.Pos.X())
	}
}

func TestStepSymmetry(t *testing.T) {
	u := twoBodyUniverse()
	u.Step(0.01)

	a := u.Bodies.Get(1)
	b := u.Bodies.Get(2)
	if math.Abs(a.Vel.X()+b.Vel.X()) > 1e-12 {
		t.Errorf("equal masses should gain opposite velocities: %f vs %f", a.Vel.X(), b.Vel.X())
	}
	if a.Vel.Y() != 0 || b.Vel.Y() != 0 {
		t.Errorf("a horizontal pair should gain no vertical velocity")
	}
}

func TestStepMomentumConservation(t *testing.T) {
	u := NewUniverse(2)
	u.Bodies.Insert(1, Body{Pos: mgl64.Vec2{0, 0}, Radius: 2, Density: 1})
	u.Bodies.Insert(2, Body{Pos: mgl64.Vec2{3, 1}, Radius: 0.5, Density: 4})
	u.Bodies.Insert(3, Body{Pos: mgl64.Vec2{-1, 4}, Radius: 1, Density: 2})

	for i := 0; i < 100; i++ {
		u.Step(0.01)
	}

	var momentum mgl64.Vec2
	u.Bodies.Each(func(_ BodyID, b *Body) {
		momentum = momentum.Add(b.Vel.Mul(b.Mass()))
	})
	if momentum.Len() > 1e-9 {
		t.Errorf("total momentum drifted to %v", momentum)
	}
}

func TestStepScalesWithGravity(t *testing.T) {
	weak := twoBodyUniverse()
	strong := twoBodyUniverse()
	strong.Gravity = 10

	weak.Step(0.01)
	strong.Step(0.01)

	wv := weak.Bodies.Get(1).Vel.X()
	sv := strong.Bodies.Get(1).Vel.X()
	if math.Abs(sv-10*wv) > 1e-12 {
		t.Errorf("tenfold gravity should give tenfold impulse: %f vs %f", sv, wv)
	}
}

func TestCloneClearsChanged(t *testing.T) {
	u := twoBodyUniverse()
	u.Changed = true

	c := u.Clone()
	if c.Changed {
		t.Errorf("clones are derived snapshots, not keyframes")
	}
	if c.Gravity != u.Gravity || c.Bodies.Len() != u.Bodies.Len() {
		t.Errorf("clone lost state")
	}

	c.Bodies.Get(1).Pos = mgl64.Vec2{99, 99}
	if u.Bodies.Get(1).Pos == (mgl64.Vec2{99, 99}) {
		t.Errorf("clone shares body storage with the original")
	}
}

func TestUniverseDraw(t *testing.T) {
	u := twoBodyUniverse()
	u.Bodies.Get(1).Color = mgl64.Vec3{1, 0, 0}

	var d DrawList
	u.Draw(&d)

	if len(d.Circles) != 2 {
		t.Fatalf("expected one circle per body, got %d", len(d.Circles))
	}
	if d.Circles[0].Position[2] != 0 {
		t.Errorf("bodies draw at depth 0, got %f", d.Circles[0].Position[2])
	}
	if d.Circles[0].Color != [3]float32{1, 0, 0} {
		t.Errorf("body color lost: %v", d.Circles[0].Color)
	}
}
