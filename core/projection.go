package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// View is the f32 camera state both render pipelines share. It is
// uploaded once per frame as the camera uniform and mirrored here so the
// projection math can run host-side (picking, tests).
type View struct {
	Position       mgl32.Vec2
	VerticalHeight float32
	Aspect         float32
}

// Uniform returns the GPU representation of the view.
func (v View) Uniform() CameraUniform {
	return CameraUniform{
		Position:       [2]float32{v.Position.X(), v.Position.Y()},
		VerticalHeight: v.VerticalHeight,
		Aspect:         v.Aspect,
	}
}

// Project maps a world-space point and a depth key into clip space:
// an orthographic projection centered on the view position, spanning
// VerticalHeight world units vertically and VerticalHeight*Aspect
// horizontally, with clip z = 1 - z and w = 1. VerticalHeight and
// Aspect must be positive; the function does not validate them.
func (v View) Project(p mgl32.Vec2, z float32) mgl32.Vec4 {
	return mgl32.Vec4{
		2 * (p.X() - v.Position.X()) / (v.VerticalHeight * v.Aspect),
		2 * (p.Y() - v.Position.Y()) / v.VerticalHeight,
		1 - z,
		1,
	}
}

// CircleCornerUV returns the billboard corner for a 2-bit corner index,
// components in {-1, +1}. Corner order must match the triangle-strip
// assembly the passes draw with (4 vertices per instance).
func CircleCornerUV(corner uint32) mgl32.Vec2 {
	return mgl32.Vec2{
		float32((corner>>0)&1)*2 - 1,
		float32((corner>>1)&1)*2 - 1,
	}
}

// QuadCornerUV returns the unit-square corner for a 2-bit corner index,
// components in {-0.5, +0.5}.
func QuadCornerUV(corner uint32) mgl32.Vec2 {
	return mgl32.Vec2{
		float32((corner>>0)&1) - 0.5,
		float32((corner>>1)&1) - 0.5,
	}
}

// RotateQuadOffset applies the quad pipeline's rotation to a local
// offset. The basis swaps the sin/cos roles of the conventional
// [cos,-sin;sin,cos] matrix, i.e. a standard rotation offset by 90
// degrees, with angles measured against +Y. Preserved as-is: the
// shaders and DrawList.Line depend on this exact convention.
func RotateQuadOffset(local mgl32.Vec2, rotation float32) mgl32.Vec2 {
	s := float32(math.Sin(float64(rotation)))
	c := float32(math.Cos(float64(rotation)))
	return mgl32.Vec2{
		local.X()*s - local.Y()*c,
		local.X()*c + local.Y()*s,
	}
}

// InsideDisk reports whether a billboard UV survives the circle
// fragment stage. The shader discards where dot(uv,uv) > 1; behavior at
// exactly 1 is rounding-sensitive and not guaranteed either way.
func InsideDisk(uv mgl32.Vec2) bool {
	return uv.Dot(uv) <= 1
}

// CornerWorld returns the world position of one billboard corner:
// uv * radius + position.xy.
func (c CircleInstance) CornerWorld(corner uint32) mgl32.Vec2 {
	uv := CircleCornerUV(corner)
	return mgl32.Vec2{
		uv.X()*c.Radius + c.Position[0],
		uv.Y()*c.Radius + c.Position[1],
	}
}

// UVAt maps a world-space point into the circle's billboard UV space,
// where the unit disk is the rendered silhouette.
func (c CircleInstance) UVAt(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		(p.X() - c.Position[0]) / c.Radius,
		(p.Y() - c.Position[1]) / c.Radius,
	}
}

// CornerWorld returns the world position of one quad corner after
// scaling, rotation and translation.
func (q QuadInstance) CornerWorld(corner uint32) mgl32.Vec2 {
	uv := QuadCornerUV(corner)
	local := mgl32.Vec2{uv.X() * q.Size[0], uv.Y() * q.Size[1]}
	r := RotateQuadOffset(local, q.Rotation)
	return mgl32.Vec2{r.X() + q.Position[0], r.Y() + q.Position[1]}
}
