package lights

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight emits its radiant power uniformly in all directions from a single point
type PointLight struct {
	Position  core.Vec3
	Color     core.Vec3
	Intensity float64 // Radiant power
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3, intensity float64) PointLight {
	return PointLight{
		Position:  position,
		Color:     color,
		Intensity: intensity,
	}
}

func (pl PointLight) Type() LightType {
	return LightTypePoint
}

// ColorIntensity returns the light color scaled by the inverse square law at
// the given squared distance: color * intensity / (4*pi*distSq)
func (pl PointLight) ColorIntensity(distanceSquared float64) core.Vec3 {
	return pl.Color.Multiply(pl.Intensity / (4 * math.Pi * distanceSquared))
}

// Sample implements the Light interface
func (pl PointLight) Sample(point core.Vec3) LightSample {
	toLight := pl.Position.Subtract(point)
	distanceSquared := toLight.LengthSquared()
	distance := math.Sqrt(distanceSquared)

	return LightSample{
		Direction: toLight.Multiply(1 / distance),
		Distance:  distance,
		Emission:  pl.ColorIntensity(distanceSquared),
	}
}
