package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit incident direction through a surface with the given
// outward normal using Snell's law. The surrounding medium has index 1.
// The sign of dot(incident, normal) decides whether the ray enters (negative)
// or exits (positive) the medium. The second result is false on total
// internal reflection.
func Refract(incident, normal core.Vec3, refractiveIndex float64) (core.Vec3, bool) {
	cosi := max(-1, min(1, incident.Dot(normal)))
	etai, etat := 1.0, refractiveIndex
	n := normal
	if cosi < 0 {
		cosi = -cosi
	} else {
		etai, etat = etat, etai
		n = normal.Negate()
	}

	eta := etai / etat
	k := 1 - eta*eta*(1-cosi*cosi)
	if k <= 0 {
		return core.Vec3{}, false
	}

	return incident.Multiply(eta).Add(n.Multiply(eta*cosi - math.Sqrt(k))), true
}

// Schlick returns the Fresnel reflectance for a unit incident direction
// hitting a surface with the given outward normal, using Schlick's
// approximation. The base reflectance at normal incidence is the larger of
// the material reflectivity and ((n1-n2)/(n1+n2))^2; indices are swapped
// when the ray exits the medium.
func Schlick(incident, normal core.Vec3, refractiveIndex, reflectivity float64) float64 {
	cosi := max(-1, min(1, incident.Dot(normal)))
	n1, n2 := 1.0, refractiveIndex
	if cosi > 0 {
		n1, n2 = n2, n1
	}

	r0 := (n1 - n2) / (n1 + n2)
	r0 = max(reflectivity, r0*r0)

	return Reflectance(math.Abs(cosi), r0)
}

// Reflectance evaluates Schlick's polynomial r0 + (1-r0)(1-cos)^5
func Reflectance(cosine, r0 float64) float64 {
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
