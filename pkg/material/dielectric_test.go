package material

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestReflect(t *testing.T) {
	v := core.NewVec3(1, -1, 0)
	n := core.NewVec3(0, 1, 0)
	if r := Reflect(v, n); !r.Equals(core.NewVec3(1, 1, 0)) {
		t.Errorf("Expected (1,1,0), got %v", r)
	}
}

func TestRefract_NormalIncidence(t *testing.T) {
	incident := core.NewVec3(0, 0, -1)
	normal := core.NewVec3(0, 0, 1)

	dir, ok := Refract(incident, normal, 1.5)
	if !ok {
		t.Fatal("Expected transmission at normal incidence")
	}
	if !dir.ApproxEquals(incident, 1e-12) {
		t.Errorf("Expected undeviated ray, got %v", dir)
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	ior := 1.5

	tests := []struct {
		name     string
		incident core.Vec3
		eta      float64 // n1/n2 along the path
	}{
		{"entering glass", core.NewVec3(math.Sin(0.5), -math.Cos(0.5), 0), 1 / ior},
		{"exiting glass", core.NewVec3(math.Sin(0.3), math.Cos(0.3), 0), ior},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, ok := Refract(tt.incident, normal, ior)
			if !ok {
				t.Fatal("Expected transmission")
			}
			if math.Abs(dir.Length()-1) > 1e-12 {
				t.Errorf("Expected unit direction, got length %f", dir.Length())
			}

			// sin(theta_t) = eta * sin(theta_i), measured against the normal
			sinI := math.Abs(tt.incident.X)
			sinT := math.Abs(dir.X)
			if math.Abs(sinT-tt.eta*sinI) > 1e-12 {
				t.Errorf("Expected sin(theta_t)=%f, got %f", tt.eta*sinI, sinT)
			}

			// The ray keeps travelling through the surface
			if math.Signbit(dir.Y) != math.Signbit(tt.incident.Y) {
				t.Errorf("Expected ray to cross the surface, got %v", dir)
			}
		})
	}
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	// Critical angle for 1.5 is asin(1/1.5) ~ 41.8 degrees; exit at 60 degrees
	angle := math.Pi / 3
	incident := core.NewVec3(math.Sin(angle), math.Cos(angle), 0)
	normal := core.NewVec3(0, 1, 0)

	if _, ok := Refract(incident, normal, 1.5); ok {
		t.Error("Expected total internal reflection")
	}
}

func TestSchlick(t *testing.T) {
	normal := core.NewVec3(0, 0, 1)
	head := core.NewVec3(0, 0, -1)

	// Glass at normal incidence: ((1-1.5)/(1+1.5))^2 = 0.04
	if r := Schlick(head, normal, 1.5, 0); math.Abs(r-0.04) > 1e-12 {
		t.Errorf("Expected 0.04, got %f", r)
	}

	// Reflectivity dominates a weak dielectric term
	if r := Schlick(head, normal, 1.5, 0.95); math.Abs(r-0.95) > 1e-12 {
		t.Errorf("Expected 0.95, got %f", r)
	}

	// Opaque non-reflective material at normal incidence reflects nothing
	if r := Schlick(head, normal, 1.0, 0); r != 0 {
		t.Errorf("Expected 0, got %f", r)
	}

	// Grazing incidence approaches full reflection
	grazing := core.NewVec3(1, 0, -1e-9).Normalize()
	if r := Schlick(grazing, normal, 1.5, 0); r < 0.99 {
		t.Errorf("Expected near 1 at grazing incidence, got %f", r)
	}

	// Exiting is symmetric in r0
	if r := Schlick(core.NewVec3(0, 0, 1), normal, 1.5, 0); math.Abs(r-0.04) > 1e-12 {
		t.Errorf("Expected 0.04 when exiting, got %f", r)
	}
}
