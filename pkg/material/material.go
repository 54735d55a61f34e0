package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material describes how a surface responds to light: a Lambertian diffuse
// term, a Blinn-Phong specular lobe, and scalars driving mirror reflection
// and refraction. Reflectivity and Transparency are independent and are not
// required to sum to at most 1.
//
// Materials are plain values. Texture maps are shared by pointer and are
// read-only, so one material can be used by any number of primitives and
// render goroutines.
type Material struct {
	Ambient         core.Vec3 // Constant term added at every hit
	Diffuse         core.Vec3 // Diffuse color, used when DiffuseMap is nil
	Specular        core.Vec3 // Specular color
	Albedo          float64   // Diffuse reflectance scale
	Shininess       float64   // Blinn-Phong exponent
	Reflectivity    float64   // Minimum mirror reflectance in [0,1]
	Transparency    float64   // Fraction of light transmitted in [0,1]
	RefractiveIndex float64   // Index of refraction relative to the surrounding medium
	Tiling          core.Vec2 // UV multiplier applied before texture lookups
	DiffuseMap      *Texture  // Optional diffuse color map
	NormalMap       *Texture  // Optional tangent-space normal map
}

// Default is the material given to primitives created without one
var Default = Material{
	Ambient:         core.NewVec3(0.005, 0.005, 0.005),
	Diffuse:         core.NewVec3(0.6, 0.6, 0.6),
	Specular:        core.NewVec3(1.0, 1.0, 1.0),
	Albedo:          1.0,
	Shininess:       25.0,
	Reflectivity:    0.0,
	Transparency:    0.0,
	RefractiveIndex: 1.0,
	Tiling:          core.NewVec2(1, 1),
}

// Mirror is a highly reflective, dark material
var Mirror = Material{
	Ambient:         core.NewVec3(0, 0, 0),
	Diffuse:         core.NewVec3(0.05, 0.05, 0.05),
	Specular:        core.NewVec3(1.0, 1.0, 1.0),
	Albedo:          1.0,
	Shininess:       200.0,
	Reflectivity:    0.95,
	Transparency:    0.0,
	RefractiveIndex: 1.0,
	Tiling:          core.NewVec2(1, 1),
}

// Glass is a clear refractive material
var Glass = Material{
	Ambient:         core.NewVec3(0, 0, 0),
	Diffuse:         core.NewVec3(0, 0, 0),
	Specular:        core.NewVec3(1.0, 1.0, 1.0),
	Albedo:          1.0,
	Shininess:       300.0,
	Reflectivity:    0.0,
	Transparency:    1.0,
	RefractiveIndex: 1.5,
	Tiling:          core.NewVec2(1, 1),
}

// NewMaterial creates a material from the Default preset with the given
// diffuse color
func NewMaterial(diffuse core.Vec3) Material {
	m := Default
	m.Diffuse = diffuse
	return m
}

// WithDiffuseMap returns a copy of the material using the given diffuse map
// repeated tiling times across the UV range
func (m Material) WithDiffuseMap(texture *Texture, tiling core.Vec2) Material {
	m.DiffuseMap = texture
	m.Tiling = tiling
	return m
}

// WithNormalMap returns a copy of the material using the given normal map
func (m Material) WithNormalMap(texture *Texture) Material {
	m.NormalMap = texture
	return m
}

// HasNormalMap reports whether shading normals should be perturbed
func (m *Material) HasNormalMap() bool {
	return m.NormalMap != nil
}

// DiffuseColor resolves the diffuse color at uv: the filtered diffuse map
// sample if present, otherwise the constant diffuse color
func (m *Material) DiffuseColor(uv core.Vec2) core.Vec3 {
	if m.DiffuseMap != nil {
		return m.DiffuseMap.BilinearFilteredColor(uv, m.Tiling)
	}
	return m.Diffuse
}

// DiffuseBRDF evaluates the Lambertian term including the cosine factor:
// diffuse(uv) * albedo/pi * max(0, L.N)
func (m *Material) DiffuseBRDF(lightDir, normal core.Vec3, uv core.Vec2) core.Vec3 {
	cosine := max(0, lightDir.Dot(normal))
	return m.DiffuseColor(uv).Multiply(m.Albedo / math.Pi * cosine)
}

// SpecularBRDF evaluates the Blinn-Phong lobe: specular * max(0, H.N)^shininess
// where H is the half vector between the view and light directions
func (m *Material) SpecularBRDF(viewDir, lightDir, normal core.Vec3) core.Vec3 {
	halfVector := viewDir.Add(lightDir).Normalize()
	return m.Specular.Multiply(math.Pow(max(0, halfVector.Dot(normal)), m.Shininess))
}

// TangentSpaceNormal decodes the normal map at uv into a unit tangent-space
// normal. X follows the tangent, Y the bitangent (image rows grow downwards,
// so green is flipped) and Z the surface normal. Without a normal map the
// unperturbed (0, 0, 1) is returned.
func (m *Material) TangentSpaceNormal(uv core.Vec2) core.Vec3 {
	if m.NormalMap == nil {
		return core.NewVec3(0, 0, 1)
	}

	c := m.NormalMap.BilinearFilteredColor(uv, m.Tiling)
	return core.NewVec3(
		2*c.X-1,
		1-2*c.Y,
		2*c.Z-1,
	).Normalize()
}

// ShadingNormal transforms a tangent-space normal into world space using the
// surface basis (tangent, bitangent, normal)
func ShadingNormal(tangentSpace, tangent, bitangent, normal core.Vec3) core.Vec3 {
	return tangent.Multiply(tangentSpace.X).
		Add(bitangent.Multiply(tangentSpace.Y)).
		Add(normal.Multiply(tangentSpace.Z)).
		Normalize()
}
