package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Default projection parameters.
const (
	DefaultFovY = 60.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Camera is a perspective camera defined by an eye position, a view
// direction and an up vector.
type Camera struct {
	Name      string
	Eye       mgl64.Vec3
	Direction mgl64.Vec3
	Up        mgl64.Vec3

	FovY, Near, Far float64
}

// TopCamera looks down on the board from (0, 0, 3).
func TopCamera() *Camera {
	return &Camera{
		Name:      "top",
		Eye:       mgl64.Vec3{0, 0, 3},
		Direction: mgl64.Vec3{0, 0, -1},
		Up:        mgl64.Vec3{0, 1, 0},
		FovY:      DefaultFovY,
		Near:      DefaultNear,
		Far:       DefaultFar,
	}
}

// CenterCamera stands just above the board centre looking along (1, 1, 0)
// with z up.
func CenterCamera() *Camera {
	return &Camera{
		Name:      "center",
		Eye:       mgl64.Vec3{0, 0, 0.1},
		Direction: mgl64.Vec3{1, 1, 0},
		Up:        mgl64.Vec3{0, 0, 1},
		FovY:      DefaultFovY,
		Near:      DefaultNear,
		Far:       DefaultFar,
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Eye.Add(c.Direction), c.Up)
}

// Projection returns the perspective matrix for a w×h framebuffer.
func (c *Camera) Projection(w, h int) mgl64.Mat4 {
	aspect := 1.0
	if w > 0 && h > 0 {
		aspect = float64(w) / float64(h)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Yaw turns the view direction about the up axis by degrees.
func (c *Camera) Yaw(degrees float64) {
	if c.Up.Len() == 0 {
		return
	}
	q := mgl64.QuatRotate(mgl64.DegToRad(degrees), c.Up.Normalize())
	c.Direction = q.Rotate(c.Direction)
}

// Project maps a world position to window coordinates in a w×h
// framebuffer, origin bottom-left. The z component is the depth in
// [0, 1].
func (c *Camera) Project(world mgl64.Vec3, w, h int) mgl64.Vec3 {
	return mgl64.Project(world, c.View(), c.Projection(w, h), 0, 0, w, h)
}
