package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawList accumulates instance records for one frame. The passes
// upload Quads and Circles verbatim; order within a slice does not
// matter for compositing, the depth keys do.
type DrawList struct {
	Quads   []QuadInstance
	Circles []CircleInstance
}

// Reset empties the list but keeps the backing arrays.
func (d *DrawList) Reset() {
	d.Quads = d.Quads[:0]
	d.Circles = d.Circles[:0]
}

func (d *DrawList) Circle(pos mgl32.Vec2, radius float32, color mgl32.Vec3, depth float32) {
	d.Circles = append(d.Circles, CircleInstance{
		Position: [3]float32{pos.X(), pos.Y(), depth},
		Color:    [3]float32{color.X(), color.Y(), color.Z()},
		Radius:   radius,
	})
}

// Rect queues a rotated rectangle. angle is in degrees.
func (d *DrawList) Rect(pos, size mgl32.Vec2, angle float32, color mgl32.Vec3, depth float32) {
	d.Quads = append(d.Quads, QuadInstance{
		Position: [3]float32{pos.X(), pos.Y(), depth},
		Rotation: mgl32.DegToRad(angle),
		Color:    [3]float32{color.X(), color.Y(), color.Z()},
		Size:     [2]float32{size.X(), size.Y()},
	})
}

// Line queues a quad stretched between two points. The rotation is the
// signed angle from the segment direction to +Y, which the quad
// pipeline's rotation basis maps back onto the segment.
func (d *DrawList) Line(start, end mgl32.Vec2, thickness float32, color mgl32.Vec3, depth float32) {
	delta := end.Sub(start)
	middle := start.Add(delta.Mul(0.5))
	rotation := float32(math.Atan2(float64(delta.X()), float64(delta.Y())))
	d.Quads = append(d.Quads, QuadInstance{
		Position: [3]float32{middle.X(), middle.Y(), depth},
		Rotation: rotation,
		Color:    [3]float32{color.X(), color.Y(), color.Z()},
		Size:     [2]float32{delta.Len(), thickness},
	})
}
