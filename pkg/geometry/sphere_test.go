package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestRaySphere_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	if d, hit := RaySphere(ray, &sphere); hit {
		t.Errorf("Expected miss, but got hit at t=%f", d)
	}
}

func TestSphereRoots_TowardsCenter(t *testing.T) {
	tests := []struct {
		name   string
		origin core.Vec3
		center core.Vec3
		radius float64
	}{
		{"unit sphere ahead", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 4), 1},
		{"offset origin", core.NewVec3(1, 2, 3), core.NewVec3(-3, 5, 10), 2.5},
		{"far away origin", core.NewVec3(0, 0, -1e6), core.NewVec3(0, 0, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(tt.center, tt.radius)
			toCenter := tt.center.Subtract(tt.origin)
			ray := core.NewRay(tt.origin, toCenter.Normalize())

			n, t0, t1 := SphereRoots(ray, &sphere)
			if n != 2 {
				t.Fatalf("Expected 2 roots, got %d", n)
			}

			// Roots are symmetric about the point of closest approach (the center)
			dist := toCenter.Length()
			tolerance := 1e-9 * dist
			if math.Abs(t0-(dist-tt.radius)) > tolerance || math.Abs(t1-(dist+tt.radius)) > tolerance {
				t.Errorf("Expected roots %f and %f, got %f and %f", dist-tt.radius, dist+tt.radius, t0, t1)
			}

			d, hit := RaySphere(ray, &sphere)
			if !hit || d != t0 {
				t.Errorf("Expected nearest hit at %f, got %f (hit=%t)", t0, d, hit)
			}
		})
	}
}

func TestSphereRoots_FromInside(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 2.0)
	directions := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 1, 1).Normalize(),
	}

	for _, dir := range directions {
		ray := core.NewRay(core.NewVec3(0.5, 0, 0), dir)
		n, t0, _ := SphereRoots(ray, &sphere)
		if n != 1 {
			t.Errorf("Direction %v: expected 1 root, got %d", dir, n)
			continue
		}

		// The single root lies on the sphere surface
		if r := ray.At(t0).Length(); math.Abs(r-2.0) > 1e-9 {
			t.Errorf("Direction %v: expected hit on surface, got radius %f", dir, r)
		}
	}
}

func TestSphereRoots_Behind(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	if n, _, _ := SphereRoots(ray, &sphere); n != 0 {
		t.Errorf("Expected no roots for a sphere behind the ray, got %d", n)
	}
}

func TestSphereRoots_Tangent(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 5), 1.0)
	ray := core.NewRay(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))

	n, t0, t1 := SphereRoots(ray, &sphere)
	if n != 1 {
		t.Fatalf("Expected exactly one root for a tangent ray, got %d", n)
	}
	if math.IsNaN(t0) || math.IsNaN(t1) {
		t.Fatalf("Expected finite roots, got %f and %f", t0, t1)
	}
	if math.Abs(t0-5) > 1e-12 {
		t.Errorf("Expected tangent point at t=5, got %f", t0)
	}
}

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		n       int
		r1, r2  float64
	}{
		{"two roots", 1, -5, 6, 2, 2, 3},
		{"one root", 1, -4, 4, 1, 2, 2},
		{"no roots", 1, 0, 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, r1, r2 := solveQuadratic(tt.a, tt.b, tt.c)
			if n != tt.n || math.Abs(r1-tt.r1) > 1e-12 || math.Abs(r2-tt.r2) > 1e-12 {
				t.Errorf("Expected (%d, %f, %f), got (%d, %f, %f)", tt.n, tt.r1, tt.r2, n, r1, r2)
			}
		})
	}
}

// TestSphereRoots_MatchesQuadratic compares the robust solver with the
// textbook formula where the latter is well conditioned
func TestSphereRoots_MatchesQuadratic(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0.3, -0.2, 6), 1.5)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.1, 0.05, 1).Normalize())

	oc := ray.Origin.Subtract(sphere.Center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - sphere.Radius*sphere.Radius
	qn, q1, q2 := solveQuadratic(a, b, c)

	n, t0, t1 := SphereRoots(ray, &sphere)
	if n != qn || math.Abs(t0-q1) > 1e-9 || math.Abs(t1-q2) > 1e-9 {
		t.Errorf("Expected (%d, %f, %f), got (%d, %f, %f)", qn, q1, q2, n, t0, t1)
	}
}

func TestSphere_ReflectiveNormal(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 2.0)
	point := core.NewVec3(0, 0, 2)

	// Outside looking in: the outward normal faces the ray
	if n := sphere.ReflectiveNormal(point, core.NewVec3(0, 0, -1)); !n.Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected outward normal, got %v", n)
	}

	// Inside looking out: the normal is flipped
	if n := sphere.ReflectiveNormal(point, core.NewVec3(0, 0, 1)); !n.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("Expected inward normal, got %v", n)
	}
}

func TestSphere_Tangent(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	normal := core.NewVec3(1, 0, 0)
	tangent := sphere.Tangent(normal)
	if !tangent.ApproxEquals(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected +Z tangent at +X, got %v", tangent)
	}

	// Poles fall back to a fixed axis
	if pole := sphere.Tangent(core.NewVec3(0, 1, 0)); !pole.Equals(core.NewVec3(1, 0, 0)) {
		t.Errorf("Expected fallback tangent at pole, got %v", pole)
	}
}

func TestSphericalUV(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec2
	}{
		{"+X", core.NewVec3(1, 0, 0), core.NewVec2(0.5, 0.5)},
		{"+Z", core.NewVec3(0, 0, 1), core.NewVec2(0.75, 0.5)},
		{"-Z", core.NewVec3(0, 0, -1), core.NewVec2(0.25, 0.5)},
		{"north pole", core.NewVec3(0, 1, 0), core.NewVec2(0.5, 0)},
		{"south pole", core.NewVec3(0, -1, 0), core.NewVec2(0.5, 1)},
		{"y slightly above one", core.NewVec3(0, 1+1e-12, 0), core.NewVec2(0.5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uv := SphericalUV(tt.direction)
			if math.Abs(uv.X-tt.expected.X) > 1e-12 || math.Abs(uv.Y-tt.expected.Y) > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, uv)
			}
		})
	}
}

// solveQuadratic solves a*x^2 + b*x + c = 0 with the textbook discriminant
// formula, as a reference for the numerically stable sphere solver
func solveQuadratic(a, b, c float64) (int, float64, float64) {
	discriminant := b*b - 4*a*c
	switch {
	case discriminant > 0:
		sqrtD := math.Sqrt(discriminant)
		denom := 1 / (2 * a)
		return 2, (-b - sqrtD) * denom, (-b + sqrtD) * denom
	case discriminant == 0:
		r := -b / (2 * a)
		return 1, r, r
	default:
		return 0, 0, 0
	}
}
