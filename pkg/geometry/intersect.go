package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// RaySphere returns the distance along the ray to the nearest intersection
// with the sphere that lies strictly in front of the ray origin.
func RaySphere(ray core.Ray, sphere *Sphere) (float64, bool) {
	n, t0, t1 := SphereRoots(ray, sphere)
	switch n {
	case 0:
		return 0, false
	case 1:
		return t0, true
	default:
		return min(t0, t1), true
	}
}

// SphereRoots solves |o + t*d - c|^2 = r^2 and returns the number of strictly
// positive roots and their values (t0 <= t1 when both are present).
//
// The discriminant is computed from the squared distance between the center
// and the ray's point of closest approach, and the second root is recovered
// as c/q. Both avoid the catastrophic cancellation of the textbook
// b^2 - 4ac formulation when the ray starts far away from the sphere
// (Haines & Akenine-Moller, Ray Tracing Gems, chapter 7).
func SphereRoots(ray core.Ray, sphere *Sphere) (int, float64, float64) {
	f := ray.Origin.Subtract(sphere.Center)
	d := ray.Direction
	rr := sphere.Radius * sphere.Radius

	a := d.Dot(d)
	bPrime := -f.Dot(d)
	discriminant := rr - f.Add(d.Multiply(bPrime/a)).LengthSquared()
	if discriminant < 0 {
		return 0, 0, 0
	}

	c := f.Dot(f) - rr
	q := bPrime + math.Copysign(math.Sqrt(a*discriminant), bPrime)

	// Tangent ray through the center direction: q is zero only when the
	// origin lies on the sphere surface and the ray is tangent to it
	if q == 0 {
		return 0, 0, 0
	}

	if discriminant == 0 {
		t := q / a
		if t > 0 {
			return 1, t, t
		}
		return 0, 0, 0
	}

	r1 := c / q
	r2 := q / a
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	switch {
	case r1 > 0:
		return 2, r1, r2
	case r2 > 0:
		return 1, r2, r2
	default:
		return 0, 0, 0
	}
}

// RayPlane returns the distance along the ray to the plane. A ray parallel to
// the plane (d.n == 0) never intersects it, and hits at t <= 0 are rejected.
func RayPlane(ray core.Ray, plane *Plane) (float64, bool) {
	// t = (o_p.n - r_o.n) / (d.n)
	denominator := ray.Direction.Dot(plane.Normal)
	if denominator == 0 {
		return 0, false
	}

	t := (plane.Origin.Dot(plane.Normal) - ray.Origin.Dot(plane.Normal)) / denominator
	if t <= 0 {
		return 0, false
	}
	return t, true
}
