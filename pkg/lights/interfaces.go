package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light interface for delta lights that illuminate a point from exactly one direction
type Light interface {
	Type() LightType

	// Sample returns the direction FROM point TO the light, the distance to
	// travel along it before reaching the light, and the incident radiance
	// arriving at point in the absence of occluders
	Sample(point core.Vec3) LightSample
}

// LightSample contains the geometry and radiance of one light as seen from a shading point
type LightSample struct {
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light, +Inf for directional lights
	Emission  core.Vec3 // Incident radiance at the shading point
}
