package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const (
	// Bias offsets secondary ray origins from the surface to avoid shadow acne
	Bias = 1e-4

	// minTransmission is the smallest Fresnel transmission weight worth a refraction ray
	minTransmission = 1e-6

	// maxOccluders bounds the number of surfaces a shadow ray passes through
	maxOccluders = 64
)

// Transmittance returns the fraction of light that reaches point from a
// light distance units away along direction. Each surface in between scales
// the result by its material's transparency; an opaque surface returns 0.
func (s *Scene) Transmittance(point, direction core.Vec3, distance float64) float64 {
	transmittance := 1.0
	origin := point
	remaining := distance

	for i := 0; i < maxOccluders && transmittance > 0; i++ {
		hit, ok := s.Intersect(core.NewRay(origin, direction))
		if !ok || hit.Distance >= remaining {
			return transmittance
		}

		transmittance *= hit.Material.Transparency

		// Continue from just behind the occluder
		next := hit.Point.Subtract(hit.Normal.Multiply(Bias))
		remaining -= next.Subtract(origin).Dot(direction)
		origin = next
	}

	if transmittance > 0 {
		core.Logger().Debug("shadow ray occluder limit reached", "occluders", maxOccluders)
	}
	return transmittance
}

// Trace returns the radiance arriving along ray. Reflection and refraction
// rays are followed while depth < maxDepth.
func (s *Scene) Trace(ray core.Ray, depth, maxDepth int) core.Vec3 {
	hit, ok := s.Intersect(ray)
	if !ok {
		return s.Background
	}

	mat := hit.Material
	normal := hit.ShadingNormal()
	viewDir := ray.Direction.Negate()

	// Shadow rays start just off the surface on the side the ray came from
	origin := hit.Point.Add(hit.Normal.Multiply(Bias))

	color := mat.Ambient
	for _, light := range s.PointLights {
		color = color.Add(s.directLighting(light, &hit, origin, viewDir, normal))
	}
	for _, light := range s.DirectionalLights {
		color = color.Add(s.directLighting(light, &hit, origin, viewDir, normal))
	}

	if depth < maxDepth {
		color = color.Add(s.traceSecondary(&hit, normal, origin, depth, maxDepth))
	}

	return color
}

// directLighting evaluates one light at a hit: emission * transmittance * (diffuse + specular)
func (s *Scene) directLighting(light lights.Light, hit *Intersection, origin, viewDir, normal core.Vec3) core.Vec3 {
	sample := light.Sample(origin)

	transmittance := s.Transmittance(origin, sample.Direction, sample.Distance)
	if transmittance <= 0 {
		return core.Black
	}

	brdf := hit.Material.DiffuseBRDF(sample.Direction, normal, hit.UV).
		Add(hit.Material.SpecularBRDF(viewDir, sample.Direction, normal))
	return sample.Emission.MultiplyVec(brdf).Multiply(transmittance)
}

// traceSecondary splits the energy leaving a hit between a mirror reflection
// and a refraction using Schlick's approximation
func (s *Scene) traceSecondary(hit *Intersection, normal, reflectOrigin core.Vec3, depth, maxDepth int) core.Vec3 {
	mat := hit.Material
	incident := hit.Ray.Direction

	// Fresnel and Snell work with the normal on the outside of the medium
	outward := normal
	if !hit.FrontFace {
		outward = normal.Negate()
	}

	color := core.Black
	reflectance := material.Schlick(incident, outward, mat.RefractiveIndex, mat.Reflectivity)
	transmission := 1 - reflectance

	if mat.Transparency > 0 && transmission > minTransmission {
		if direction, ok := material.Refract(incident, outward, mat.RefractiveIndex); ok {
			refracted := core.NewRay(hit.Point.Add(direction.Multiply(Bias)), direction)
			weight := mat.Transparency * transmission
			color = color.Add(s.Trace(refracted, depth+1, maxDepth).Multiply(weight))
		} else {
			// Total internal reflection: nothing is transmitted, so the
			// Schlick value is overridden and all energy reflects
			reflectance = 1
		}
	}

	if reflectance > 0 {
		direction := material.Reflect(incident, normal).Normalize()
		reflected := core.NewRay(reflectOrigin, direction)
		color = color.Add(s.Trace(reflected, depth+1, maxDepth).Multiply(reflectance))
	}

	return color
}

// PixelColor returns the display color of pixel (px, py) of a width x height
// image. Each pixel is sampled on a regular samplesPerAxis x samplesPerAxis
// grid of sub-pixel centers; the averaged radiance is exposure and gamma
// corrected and clamped to [0, 1].
func (s *Scene) PixelColor(camera *geometry.PerspectiveCamera, px, py, width, height, samplesPerAxis int) core.Vec3 {
	n := max(1, samplesPerAxis)
	step := 1.0 / float64(2*n)

	color := core.Black
	for j := 0; j < n; j++ {
		fy := float64(py) + float64(1+2*j)*step
		for i := 0; i < n; i++ {
			fx := float64(px) + float64(1+2*i)*step
			ray := camera.RayForSample(fx, fy, width, height)
			color = color.Add(s.Trace(ray, 0, s.MaxDepth))
		}
	}

	color = color.Multiply(1.0 / float64(n*n))
	return color.CorrectExposure(camera.Exposure, camera.Gamma).Clamp(0, 1)
}
