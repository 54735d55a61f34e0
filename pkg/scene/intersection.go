package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ShapeKind tags which primitive list an intersection came from
type ShapeKind int

const (
	ShapeNone ShapeKind = iota
	ShapeSphere
	ShapePlane
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	default:
		return "none"
	}
}

// Intersection describes the nearest surface hit by a ray
type Intersection struct {
	Ray       core.Ray
	Distance  float64
	Point     core.Vec3
	Normal    core.Vec3 // Unit normal facing the side the ray came from
	FrontFace bool      // True if the ray hit the outside of the surface
	Tangent   core.Vec3 // Direction of increasing u
	Bitangent core.Vec3 // Direction of increasing v
	UV        core.Vec2
	Material  *material.Material

	Kind  ShapeKind
	Index int // Index into the scene list selected by Kind
}

// OutwardNormal returns the geometric normal on the outside of the surface
func (hit *Intersection) OutwardNormal() core.Vec3 {
	if hit.FrontFace {
		return hit.Normal
	}
	return hit.Normal.Negate()
}

// Intersect finds the nearest primitive hit by the ray. Every sphere and then
// every plane is tested; on equal distances the first one tested wins.
func (s *Scene) Intersect(ray core.Ray) (Intersection, bool) {
	minDistance := math.Inf(1)
	kind := ShapeNone
	index := 0

	for i := range s.Spheres {
		if d, ok := geometry.RaySphere(ray, &s.Spheres[i]); ok && d < minDistance {
			minDistance, kind, index = d, ShapeSphere, i
		}
	}

	for i := range s.Planes {
		if d, ok := geometry.RayPlane(ray, &s.Planes[i]); ok && d < minDistance {
			minDistance, kind, index = d, ShapePlane, i
		}
	}

	switch kind {
	case ShapeSphere:
		return s.sphereIntersection(ray, minDistance, index), true
	case ShapePlane:
		return s.planeIntersection(ray, minDistance, index), true
	default:
		return Intersection{}, false
	}
}

func (s *Scene) sphereIntersection(ray core.Ray, distance float64, index int) Intersection {
	sphere := &s.Spheres[index]
	point := ray.At(distance)
	outward := sphere.OutwardNormal(point)
	tangent := sphere.Tangent(outward)

	hit := Intersection{
		Ray:       ray,
		Distance:  distance,
		Point:     point,
		Tangent:   tangent,
		Bitangent: outward.Cross(tangent),
		UV:        geometry.SphericalUV(outward),
		Material:  &sphere.Material,
		Kind:      ShapeSphere,
		Index:     index,
	}
	hit.setFaceNormal(outward, sphere.ReflectiveNormal(point, ray.Direction))
	return hit
}

func (s *Scene) planeIntersection(ray core.Ray, distance float64, index int) Intersection {
	plane := &s.Planes[index]
	point := ray.At(distance)

	hit := Intersection{
		Ray:       ray,
		Distance:  distance,
		Point:     point,
		Tangent:   plane.FirstAxis,
		Bitangent: plane.SecondAxis(),
		UV:        plane.PlanarCoordinates(point),
		Material:  &plane.Material,
		Kind:      ShapePlane,
		Index:     index,
	}
	hit.setFaceNormal(plane.Normal, plane.ReflectiveNormal(ray.Direction))
	return hit
}

// setFaceNormal stores the primitive's reflective normal and records which
// side of the surface was hit
func (hit *Intersection) setFaceNormal(outwardNormal, reflectiveNormal core.Vec3) {
	hit.Normal = reflectiveNormal
	hit.FrontFace = reflectiveNormal.Dot(outwardNormal) > 0
}

// ShadingNormal returns the normal used for lighting: the normal map
// perturbation of the outward normal when the material has one, oriented to
// the same side as Normal, otherwise Normal itself
func (hit *Intersection) ShadingNormal() core.Vec3 {
	if !hit.Material.HasNormalMap() {
		return hit.Normal
	}

	ts := hit.Material.TangentSpaceNormal(hit.UV)
	shading := material.ShadingNormal(ts, hit.Tangent, hit.Bitangent, hit.OutwardNormal())
	if !hit.FrontFace {
		return shading.Negate()
	}
	return shading
}
