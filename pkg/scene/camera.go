package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking at Target
type Camera struct {
	FOV    float64 // vertical, degrees
	Aspect float64
	Near   float64
	Far    float64

	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	projection mgl32.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z
func NewPerspectiveCamera(fov, aspect, near, far float64) *Camera {
	c := &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: mgl64.Vec3{0, 0, -1},
		Up:     mgl64.Vec3{0, 1, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// SetAspect stores the new aspect ratio and rebuilds the projection
func (c *Camera) SetAspect(aspect float64) {
	c.Aspect = aspect
	c.UpdateProjectionMatrix()
}

// UpdateProjectionMatrix must be called after changing FOV, Aspect, Near or Far
func (c *Camera) UpdateProjectionMatrix() {
	c.projection = mgl32.Perspective(
		mgl32.DegToRad(float32(c.FOV)),
		float32(c.Aspect),
		float32(c.Near),
		float32(c.Far),
	)
}

// Projection returns the cached projection matrix
func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// View returns the world to camera matrix
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(Vec3f(c.Position), Vec3f(c.Target), Vec3f(c.Up))
}
