package lights

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPointLight_ColorIntensity(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 4, 0), core.NewVec3(1, 0.5, 0.25), 100)

	tests := []struct {
		name            string
		distanceSquared float64
	}{
		{"unit distance", 1},
		{"distance two", 4},
		{"far away", 1e4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := light.ColorIntensity(tt.distanceSquared)
			scale := 100 / (4 * math.Pi * tt.distanceSquared)
			expected := core.NewVec3(scale, 0.5*scale, 0.25*scale)
			if !got.ApproxEquals(expected, 1e-12) {
				t.Errorf("Expected %v, got %v", expected, got)
			}
		})
	}

	// Inverse square law: doubling the distance quarters the intensity
	near := light.ColorIntensity(1).X
	far := light.ColorIntensity(4).X
	if math.Abs(near/far-4) > 1e-12 {
		t.Errorf("Expected ratio 4 between distances 1 and 2, got %f", near/far)
	}
}

func TestPointLight_Sample(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 4, 0), core.NewVec3(1, 1, 1), 100)
	point := core.NewVec3(0, 0, 3)

	sample := light.Sample(point)

	if math.Abs(sample.Distance-5) > 1e-12 {
		t.Errorf("Expected distance 5, got %f", sample.Distance)
	}
	if !sample.Direction.ApproxEquals(core.NewVec3(0, 0.8, -0.6), 1e-12) {
		t.Errorf("Expected direction (0, 0.8, -0.6), got %v", sample.Direction)
	}
	if !sample.Emission.ApproxEquals(light.ColorIntensity(25), 1e-12) {
		t.Errorf("Expected emission %v, got %v", light.ColorIntensity(25), sample.Emission)
	}
	if light.Type() != LightTypePoint {
		t.Errorf("Expected point light type, got %s", light.Type())
	}
}

func TestDirectionalLight_Sample(t *testing.T) {
	light := NewDirectionalLight(core.NewVec3(0, -2, 0), core.NewVec3(1, 0.9, 0.8), 2)

	if !light.Direction.Equals(core.NewVec3(0, -1, 0)) {
		t.Errorf("Expected normalized direction, got %v", light.Direction)
	}

	// No falloff: every point sees the same light
	for _, point := range []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(100, -50, 3)} {
		sample := light.Sample(point)
		if !sample.Direction.Equals(core.NewVec3(0, 1, 0)) {
			t.Errorf("Expected direction towards the light (0,1,0), got %v", sample.Direction)
		}
		if !math.IsInf(sample.Distance, 1) {
			t.Errorf("Expected infinite distance, got %f", sample.Distance)
		}
		if !sample.Emission.ApproxEquals(core.NewVec3(2, 1.8, 1.6), 1e-12) {
			t.Errorf("Expected emission (2, 1.8, 1.6), got %v", sample.Emission)
		}
	}
}
