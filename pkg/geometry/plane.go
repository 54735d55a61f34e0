package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal. The first
// axis is a tangent direction; together with the derived second axis it spans
// the planar UV parameterization.
type Plane struct {
	Origin    core.Vec3 // A point on the plane, UV (0, 0)
	Normal    core.Vec3 // Unit normal
	FirstAxis core.Vec3 // Unit tangent, direction of increasing u
	Material  material.Material
}

// NewPlane creates a new plane with the default material. The first axis is
// chosen perpendicular to the normal.
func NewPlane(origin, normal core.Vec3) Plane {
	return NewPlaneWithMaterial(origin, normal, defaultFirstAxis(normal.Normalize()), material.Default)
}

// NewPlaneWithMaterial creates a new plane. firstAxis is projected onto the
// plane and normalized.
func NewPlaneWithMaterial(origin, normal, firstAxis core.Vec3, mat material.Material) Plane {
	n := normal.Normalize()
	axis := firstAxis.Subtract(n.Multiply(firstAxis.Dot(n))).Normalize()
	if axis.IsZero() {
		axis = defaultFirstAxis(n)
	}

	return Plane{
		Origin:    origin,
		Normal:    n,
		FirstAxis: axis,
		Material:  mat,
	}
}

// defaultFirstAxis picks a unit vector perpendicular to n
func defaultFirstAxis(n core.Vec3) core.Vec3 {
	var helper core.Vec3
	if math.Abs(n.X) > 0.9 {
		helper = core.NewVec3(0, 0, 1)
	} else {
		helper = core.NewVec3(1, 0, 0)
	}
	return helper.Subtract(n.Multiply(helper.Dot(n))).Normalize()
}

// SecondAxis returns the direction of increasing v: normal x first axis
func (p *Plane) SecondAxis() core.Vec3 {
	return p.Normal.Cross(p.FirstAxis)
}

// ReflectiveNormal returns the plane normal oriented against the incident direction
func (p *Plane) ReflectiveNormal(incidentDirection core.Vec3) core.Vec3 {
	if p.Normal.Dot(incidentDirection) <= 0 {
		return p.Normal
	}
	return p.Normal.Negate()
}

// PlanarCoordinates projects a point on the plane onto its two axes,
// relative to the plane origin
func (p *Plane) PlanarCoordinates(point core.Vec3) core.Vec2 {
	offset := point.Subtract(p.Origin)
	return core.NewVec2(offset.Dot(p.FirstAxis), offset.Dot(p.SecondAxis()))
}
