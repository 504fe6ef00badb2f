package graphics

import "github.com/go-gl/mathgl/mgl32"

// Camera is an orthographic camera. The frustum stays fixed to the bounds it
// was created with; Aspect tracks the viewport for shaders that need it.
type Camera struct {
	Left, Right, Top, Bottom float32
	Near, Far                float32
	Aspect                   float32

	projection mgl32.Mat4
}

// NewOrthographicCamera creates a camera and computes its projection.
func NewOrthographicCamera(left, right, top, bottom, near, far float32) *Camera {
	c := &Camera{
		Left:   left,
		Right:  right,
		Top:    top,
		Bottom: bottom,
		Near:   near,
		Far:    far,
		Aspect: 1,
	}
	c.UpdateProjectionMatrix()
	return c
}

// SetViewport records the aspect ratio of a width x height viewport and
// recomputes the projection.
func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
	c.UpdateProjectionMatrix()
}

func (c *Camera) UpdateProjectionMatrix() {
	c.projection = mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}
