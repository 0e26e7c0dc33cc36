package core

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera is the CPU-side view state. Pos is the view center, Offset a
// focus-relative correction (set to the negated position of a focused
// body), ViewHeight the world-space vertical extent of the viewport.
// Width and Height are the viewport size in pixels and only matter for
// screen/world conversions.
type Camera struct {
	Pos        mgl64.Vec2
	Offset     mgl64.Vec2
	ViewHeight float64
	Width      float64
	Height     float64
}

func NewCamera(pos mgl64.Vec2, viewHeight float64) Camera {
	return Camera{
		Pos:        pos,
		ViewHeight: viewHeight,
	}
}

// ScreenToWorld maps a pixel position (origin top-left, y down) to
// world space.
func (c *Camera) ScreenToWorld(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		(p.X()-c.Width*0.5)/c.Width*(c.ViewHeight*(c.Width/c.Height)) + c.Pos.X() - c.Offset.X(),
		-(p.Y()-c.Height*0.5)/c.Height*c.ViewHeight + c.Pos.Y() - c.Offset.Y(),
	}
}

// WorldToScreen is the inverse of ScreenToWorld for the x axis and the
// unflipped y axis.
func (c *Camera) WorldToScreen(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		(p.X()-c.Pos.X()+c.Offset.X())*(c.Width/(c.ViewHeight*(c.Width/c.Height))) + c.Width*0.5,
		(p.Y()-c.Pos.Y()+c.Offset.Y())*(c.Height/c.ViewHeight) + c.Height*0.5,
	}
}

// View narrows the camera to the f32 state the shaders consume. The
// effective view center is Pos - Offset.
func (c *Camera) View() View {
	return View{
		Position: mgl32.Vec2{
			float32(c.Pos.X() - c.Offset.X()),
			float32(c.Pos.Y() - c.Offset.Y()),
		},
		VerticalHeight: float32(c.ViewHeight),
		Aspect:         float32(c.Width / c.Height),
	}
}
