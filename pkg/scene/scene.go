package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// DefaultMaxDepth is the recursion limit used by PixelColor for new scenes
const DefaultMaxDepth = 5

// ErrUnsupportedObject is returned by Add for values that are not scene objects
var ErrUnsupportedObject = errors.New("unsupported scene object")

// Scene holds the primitives and lights to render. Objects are kept in one
// list per kind and are only ever appended; a scene must not be modified
// while a render pass is reading it.
type Scene struct {
	Spheres           []geometry.Sphere
	Planes            []geometry.Plane
	PointLights       []lights.PointLight
	DirectionalLights []lights.DirectionalLight

	Background core.Vec3 // Color returned for rays that hit nothing
	MaxDepth   int       // Maximum number of reflection/refraction bounces
}

// NewScene creates an empty scene with a black background
func NewScene() *Scene {
	return &Scene{
		Background: core.Black,
		MaxDepth:   DefaultMaxDepth,
	}
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(sphere geometry.Sphere) {
	s.Spheres = append(s.Spheres, sphere)
}

// AddPlane adds a plane to the scene
func (s *Scene) AddPlane(plane geometry.Plane) {
	s.Planes = append(s.Planes, plane)
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(light lights.PointLight) {
	s.PointLights = append(s.PointLights, light)
}

// AddDirectionalLight adds a directional light to the scene
func (s *Scene) AddDirectionalLight(light lights.DirectionalLight) {
	s.DirectionalLights = append(s.DirectionalLights, light)
}

// Add adds any mix of spheres, planes, point lights and directional lights.
// Objects before the first unsupported value are still added.
func (s *Scene) Add(objects ...any) error {
	for i, obj := range objects {
		switch o := obj.(type) {
		case geometry.Sphere:
			s.AddSphere(o)
		case geometry.Plane:
			s.AddPlane(o)
		case lights.PointLight:
			s.AddPointLight(o)
		case lights.DirectionalLight:
			s.AddDirectionalLight(o)
		default:
			return fmt.Errorf("object %d of type %T: %w", i, obj, ErrUnsupportedObject)
		}
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres) + len(s.Planes)
}

// GetLightCount returns the total number of lights in the scene
func (s *Scene) GetLightCount() int {
	return len(s.PointLights) + len(s.DirectionalLights)
}
