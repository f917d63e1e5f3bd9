package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"spherefx/internal/util"
)

const polarEpsilon = 1e-6

// OrbitControls moves a camera on a sphere around a target point
type OrbitControls struct {
	Target      mgl64.Vec3
	RotateSpeed float64
	ZoomScale   float64
	MinDistance float64
	MaxDistance float64
	Enabled     bool

	camera *Camera
}

// NewOrbitControls attaches controls to cam, orbiting its current target.
// Dolly distance is bounded by the camera clip planes.
func NewOrbitControls(cam *Camera) *OrbitControls {
	return &OrbitControls{
		Target:      cam.Target,
		RotateSpeed: 1,
		ZoomScale:   0.95,
		MinDistance: cam.Near,
		MaxDistance: cam.Far,
		Enabled:     true,
		camera:      cam,
	}
}

func (o *OrbitControls) spherical() (radius, theta, phi float64) {
	offset := o.camera.Position.Sub(o.Target)
	radius = offset.Len()
	if radius == 0 {
		return 0, 0, math.Pi / 2
	}
	theta = math.Atan2(offset[0], offset[2])
	phi = math.Acos(util.Clamp(offset[1]/radius, -1, 1))
	return radius, theta, phi
}

func (o *OrbitControls) place(radius, theta, phi float64) {
	phi = util.Clamp(phi, polarEpsilon, math.Pi-polarEpsilon)
	radius = util.Clamp(radius, o.MinDistance, o.MaxDistance)
	sinPhi := math.Sin(phi)
	o.camera.Position = o.Target.Add(mgl64.Vec3{
		radius * sinPhi * math.Sin(theta),
		radius * math.Cos(phi),
		radius * sinPhi * math.Cos(theta),
	})
	o.camera.Target = o.Target
}

// Rotate orbits by a pointer drag of dx, dy pixels. A drag across the full
// viewport height turns the camera once around.
func (o *OrbitControls) Rotate(dx, dy float64, viewportHeight int) {
	if !o.Enabled || viewportHeight <= 0 {
		return
	}
	radius, theta, phi := o.spherical()
	h := float64(viewportHeight)
	theta -= 2 * math.Pi * dx / h * o.RotateSpeed
	phi -= 2 * math.Pi * dy / h * o.RotateSpeed
	o.place(radius, theta, phi)
}

// Dolly moves towards the target for positive steps and away for negative ones
func (o *OrbitControls) Dolly(steps float64) {
	if !o.Enabled || steps == 0 {
		return
	}
	radius, theta, phi := o.spherical()
	o.place(radius*math.Pow(o.ZoomScale, steps), theta, phi)
}

// Distance returns the current camera to target distance
func (o *OrbitControls) Distance() float64 {
	return o.camera.Position.Sub(o.Target).Len()
}
