package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PerspectiveCamera generates primary rays through a screen door one unit in
// front of the camera. The default camera sits at the origin looking down +Z
// with +Y up and +X to the right.
type PerspectiveCamera struct {
	right    core.Vec3
	up       core.Vec3
	forward  core.Vec3
	position core.Vec3

	vfov        float64 // Vertical field of view in radians
	aspectRatio float64 // Width / height
	halfWidth   float64 // Half extent of the screen door
	halfHeight  float64

	Exposure float64 // Linear scale applied before gamma correction
	Gamma    float64 // Display gamma; output is color^(1/Gamma)
}

// NewPerspectiveCamera creates a camera with a 90 degree vertical field of
// view and a 16:9 aspect ratio
func NewPerspectiveCamera() *PerspectiveCamera {
	c := &PerspectiveCamera{
		right:       core.NewVec3(1, 0, 0),
		up:          core.NewVec3(0, 1, 0),
		forward:     core.NewVec3(0, 0, 1),
		vfov:        math.Pi / 2,
		aspectRatio: 16.0 / 9.0,
		Exposure:    1.0,
		Gamma:       2.2,
	}
	c.updateScreenDimensions()
	return c
}

// Clone returns an independent copy of the camera
func (c *PerspectiveCamera) Clone() *PerspectiveCamera {
	clone := *c
	return &clone
}

// updateScreenDimensions must be called after changing the field of view or
// the aspect ratio
func (c *PerspectiveCamera) updateScreenDimensions() {
	c.halfHeight = math.Tan(c.vfov / 2)
	c.halfWidth = c.halfHeight * c.aspectRatio
}

// SetVerticalFOV sets the vertical field of view in radians
func (c *PerspectiveCamera) SetVerticalFOV(vfov float64) {
	c.vfov = vfov
	c.updateScreenDimensions()
}

// SetAspectRatio sets the width / height ratio of the screen door
func (c *PerspectiveCamera) SetAspectRatio(aspectRatio float64) {
	c.aspectRatio = aspectRatio
	c.updateScreenDimensions()
}

// AspectRatio returns the width / height ratio of the screen door
func (c *PerspectiveCamera) AspectRatio() float64 { return c.aspectRatio }

// Right returns the camera's right direction
func (c *PerspectiveCamera) Right() core.Vec3 { return c.right }

// Up returns the camera's up direction
func (c *PerspectiveCamera) Up() core.Vec3 { return c.up }

// Forwards returns the direction the camera is facing
func (c *PerspectiveCamera) Forwards() core.Vec3 { return c.forward }

// Position returns the camera position
func (c *PerspectiveCamera) Position() core.Vec3 { return c.position }

// SetPosition moves the camera without changing its orientation
func (c *PerspectiveCamera) SetPosition(position core.Vec3) {
	c.position = position
}

// Translate moves the camera by delta
func (c *PerspectiveCamera) Translate(delta core.Vec3) {
	c.position = c.position.Add(delta)
}

// LookAt orients the camera towards target, keeping worldUp as close to the
// camera's up direction as possible. Target must differ from the position and
// must not lie along worldUp.
func (c *PerspectiveCamera) LookAt(target, worldUp core.Vec3) {
	c.forward = target.Subtract(c.position).Normalize()
	c.right = worldUp.Cross(c.forward).Normalize()
	c.up = c.forward.Cross(c.right)
}

// RayForScreenCoordinate creates a ray through the screen door at (x, y),
// where both are in [-1, 1] and (0, 0) is the center of the screen
func (c *PerspectiveCamera) RayForScreenCoordinate(x, y float64) core.Ray {
	direction := c.forward.
		Add(c.right.Multiply(x * c.halfWidth)).
		Add(c.up.Multiply(y * c.halfHeight)).
		Normalize()
	return core.NewRay(c.position, direction)
}

// RayForPixel creates a ray through the top-left corner of pixel (col, row).
// Pixel (0, 0) is the top-left of the image.
func (c *PerspectiveCamera) RayForPixel(col, row, cols, rows int) core.Ray {
	return c.RayForSample(float64(col), float64(row), cols, rows)
}

// RayForSample creates a ray through a fractional pixel position, so
// (col+0.5, row+0.5) passes through the center of a pixel
func (c *PerspectiveCamera) RayForSample(fx, fy float64, cols, rows int) core.Ray {
	x := 2*fx/float64(cols) - 1
	y := -(2*fy/float64(rows) - 1)
	return c.RayForScreenCoordinate(x, y)
}
