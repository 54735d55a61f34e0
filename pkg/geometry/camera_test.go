package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPerspectiveCamera_Defaults(t *testing.T) {
	camera := NewPerspectiveCamera()

	if !camera.Forwards().Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected forward +Z, got %v", camera.Forwards())
	}
	if !camera.Right().Equals(core.NewVec3(1, 0, 0)) {
		t.Errorf("Expected right +X, got %v", camera.Right())
	}
	if !camera.Up().Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Expected up +Y, got %v", camera.Up())
	}
	if camera.Exposure != 1.0 || camera.Gamma != 2.2 {
		t.Errorf("Expected exposure 1 and gamma 2.2, got %f and %f", camera.Exposure, camera.Gamma)
	}
}

func TestPerspectiveCamera_CenterRay(t *testing.T) {
	camera := NewPerspectiveCamera()
	camera.SetPosition(core.NewVec3(1, 2, 3))

	ray := camera.RayForSample(320, 240, 640, 480)
	if !ray.Origin.Equals(core.NewVec3(1, 2, 3)) {
		t.Errorf("Expected ray origin at camera position, got %v", ray.Origin)
	}
	if !ray.Direction.ApproxEquals(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected center ray along +Z, got %v", ray.Direction)
	}
}

func TestPerspectiveCamera_RayForPixel(t *testing.T) {
	camera := NewPerspectiveCamera()
	camera.SetAspectRatio(2.0)

	// Pixel (0, 0) passes through the top-left corner of the screen door.
	// A 90 degree field of view puts the door edges one unit from center.
	ray := camera.RayForPixel(0, 0, 200, 100)
	expected := core.NewVec3(-2, 1, 1).Normalize()
	if !ray.Direction.ApproxEquals(expected, 1e-12) {
		t.Errorf("Expected top-left corner direction %v, got %v", expected, ray.Direction)
	}

	// Pixels further right and down move in +X and -Y
	next := camera.RayForPixel(100, 50, 200, 100)
	if !next.Direction.ApproxEquals(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected pixel (100, 50) to pass through center, got %v", next.Direction)
	}
}

func TestPerspectiveCamera_UnitDirections(t *testing.T) {
	camera := NewPerspectiveCamera()
	camera.SetVerticalFOV(math.Pi / 3)

	for _, p := range [][2]int{{0, 0}, {15, 7}, {63, 35}, {31, 0}} {
		ray := camera.RayForPixel(p[0], p[1], 64, 36)
		if math.Abs(ray.Direction.Length()-1) > 1e-12 {
			t.Errorf("Pixel %v: expected unit direction, got length %f", p, ray.Direction.Length())
		}
		if ray.Direction.Dot(camera.Forwards()) <= 0 {
			t.Errorf("Pixel %v: expected direction in front of camera, got %v", p, ray.Direction)
		}
	}
}

func TestPerspectiveCamera_FieldOfView(t *testing.T) {
	camera := NewPerspectiveCamera()
	camera.SetVerticalFOV(math.Pi / 3)

	// Top edge of the image is half the vertical field of view above forward
	ray := camera.RayForScreenCoordinate(0, 1)
	angle := math.Acos(ray.Direction.Dot(camera.Forwards()))
	if math.Abs(angle-math.Pi/6) > 1e-12 {
		t.Errorf("Expected top edge at %f radians, got %f", math.Pi/6, angle)
	}
}

func TestPerspectiveCamera_LookAt(t *testing.T) {
	camera := NewPerspectiveCamera()
	camera.LookAt(core.NewVec3(5, 0, 0), core.NewVec3(0, 1, 0))

	if !camera.Forwards().ApproxEquals(core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected forward +X, got %v", camera.Forwards())
	}
	if !camera.Right().ApproxEquals(core.NewVec3(0, 0, -1), 1e-12) {
		t.Errorf("Expected right -Z, got %v", camera.Right())
	}
	if !camera.Up().ApproxEquals(core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected up +Y, got %v", camera.Up())
	}
}

func TestPerspectiveCamera_TranslateAndClone(t *testing.T) {
	camera := NewPerspectiveCamera()
	clone := camera.Clone()

	camera.Translate(core.NewVec3(0, 0, 1))
	camera.Translate(core.NewVec3(-0.5, 0, 0))

	if !camera.Position().Equals(core.NewVec3(-0.5, 0, 1)) {
		t.Errorf("Expected position (-0.5, 0, 1), got %v", camera.Position())
	}
	if !clone.Position().Equals(core.NewVec3(0, 0, 0)) {
		t.Errorf("Expected clone to be unaffected, got %v", clone.Position())
	}
}
