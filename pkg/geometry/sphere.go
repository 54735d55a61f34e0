package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere with the default material
func NewSphere(center core.Vec3, radius float64) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: material.Default,
	}
}

// NewSphereWithMaterial creates a new sphere
func NewSphereWithMaterial(center core.Vec3, radius float64, mat material.Material) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// OutwardNormal returns the unit normal pointing away from the center
func (s *Sphere) OutwardNormal(surfacePoint core.Vec3) core.Vec3 {
	return surfacePoint.Subtract(s.Center).Multiply(1.0 / s.Radius)
}

// ReflectiveNormal returns the surface normal at surfacePoint oriented
// against the incident direction, so it always faces the side the ray came from
func (s *Sphere) ReflectiveNormal(surfacePoint, incidentDirection core.Vec3) core.Vec3 {
	normal := s.OutwardNormal(surfacePoint)
	if incidentDirection.Dot(normal) <= 0 {
		return normal
	}
	return normal.Negate()
}

// Tangent returns the unit direction of increasing u (longitude) at the
// given outward normal. At the poles, where longitude is undefined, the
// x axis is used.
func (s *Sphere) Tangent(outwardNormal core.Vec3) core.Vec3 {
	// d/dphi of (cos phi, y, sin phi) is (-sin phi, 0, cos phi)
	tangent := core.NewVec3(-outwardNormal.Z, 0, outwardNormal.X)
	if tangent.LengthSquared() < 1e-12 {
		return core.NewVec3(1, 0, 0)
	}
	return tangent.Normalize()
}

// SphericalUV maps a unit direction from the sphere center to texture
// coordinates: u = 0.5 + atan2(z, x)/(2pi), v = 0.5 - asin(y)/pi
func SphericalUV(direction core.Vec3) core.Vec2 {
	u := 0.5 + math.Atan2(direction.Z, direction.X)/(2*math.Pi)
	v := 0.5 - math.Asin(max(-1, min(1, direction.Y)))/math.Pi
	return core.NewVec2(u, v)
}
