package lights

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DirectionalLight illuminates the whole scene from one direction with no
// distance falloff, like the sun
type DirectionalLight struct {
	Direction core.Vec3 // Unit direction the light travels in
	Color     core.Vec3
	Intensity float64 // Irradiance
}

// NewDirectionalLight creates a new directional light travelling along direction
func NewDirectionalLight(direction, color core.Vec3, intensity float64) DirectionalLight {
	return DirectionalLight{
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

func (dl DirectionalLight) Type() LightType {
	return LightTypeDirectional
}

// ColorIntensity returns the light color scaled by its intensity
func (dl DirectionalLight) ColorIntensity() core.Vec3 {
	return dl.Color.Multiply(dl.Intensity)
}

// Sample implements the Light interface. The light is infinitely far away,
// so every shadow ray towards it is unbounded.
func (dl DirectionalLight) Sample(point core.Vec3) LightSample {
	return LightSample{
		Direction: dl.Direction.Negate(),
		Distance:  math.Inf(1),
		Emission:  dl.ColorIntensity(),
	}
}
