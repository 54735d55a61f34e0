package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// Options customise how preset scenes are built
type Options struct {
	TexturePath string // Image used as the showcase diffuse map; a UV grid is used if empty or unreadable
}

type presetBuilder func(opts Options) (*Scene, *geometry.PerspectiveCamera, error)

type preset struct {
	info  SceneInfo
	build presetBuilder
}

var presets = map[string]preset{
	"default": {
		info:  SceneInfo{ID: "default", DisplayName: "Default", Description: "A single sphere lit by a point light"},
		build: NewDefaultScene,
	},
	"showcase": {
		info:  SceneInfo{ID: "showcase", DisplayName: "Showcase", Description: "Checkerboard floor with mirror, glass and textured spheres"},
		build: NewShowcaseScene,
	},
	"glass": {
		info:  SceneInfo{ID: "glass", DisplayName: "Glass", Description: "Glass sphere around a red core in front of a checkerboard wall"},
		build: NewGlassScene,
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(presets))
	for _, p := range presets {
		scenes = append(scenes, p.info)
	}
	sort.Slice(scenes, func(i, j int) bool { return scenes[i].ID < scenes[j].ID })
	return scenes
}

// NewPresetScene builds the built-in scene with the given ID and its camera
func NewPresetScene(id string, opts Options) (*Scene, *geometry.PerspectiveCamera, error) {
	p, ok := presets[id]
	if !ok {
		return nil, nil, fmt.Errorf("unknown scene %q", id)
	}
	return p.build(opts)
}

// NewDefaultScene creates a default-material sphere four units in front of
// a camera at the origin, lit by a point light above it
func NewDefaultScene(opts Options) (*Scene, *geometry.PerspectiveCamera, error) {
	s := NewScene()
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, 4), 1))
	s.AddPointLight(lights.NewPointLight(core.NewVec3(0, 4, 0), core.White, 100))

	return s, geometry.NewPerspectiveCamera(), nil
}

// NewShowcaseScene creates a scene exercising every material feature: a
// checkerboard floor, a mirror, a glass sphere and a diffuse- and
// normal-mapped sphere under a point light and a directional light
func NewShowcaseScene(opts Options) (*Scene, *geometry.PerspectiveCamera, error) {
	s := NewScene()
	s.Background = core.NewVec3(0.35, 0.5, 0.75)
	s.MaxDepth = 6

	checker, err := material.NewCheckerboardTexture(8, 8, 32, core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.1, 0.1, 0.1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create floor texture: %w", err)
	}
	floor := material.NewMaterial(core.White).WithDiffuseMap(checker, core.NewVec2(0.125, 0.125))
	floor.Reflectivity = 0.1
	s.AddPlane(geometry.NewPlaneWithMaterial(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), floor))

	diffuseMap, err := showcaseTexture(opts.TexturePath)
	if err != nil {
		return nil, nil, err
	}
	ripples, err := material.NewRippleNormalMap(128, 40, 0.4)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create normal map: %w", err)
	}
	textured := material.NewMaterial(core.White).
		WithDiffuseMap(diffuseMap, core.NewVec2(2, 1)).
		WithNormalMap(ripples)

	s.AddSphere(geometry.NewSphereWithMaterial(core.NewVec3(-2.2, 0, 6), 1, material.Mirror))
	s.AddSphere(geometry.NewSphereWithMaterial(core.NewVec3(0, 0, 5), 1, material.Glass))
	s.AddSphere(geometry.NewSphereWithMaterial(core.NewVec3(2.2, 0, 6), 1, textured))

	s.AddPointLight(lights.NewPointLight(core.NewVec3(-3, 5, 2), core.NewVec3(1, 0.95, 0.9), 400))
	s.AddDirectionalLight(lights.NewDirectionalLight(core.NewVec3(0.3, -1, 0.5), core.NewVec3(1, 1, 1), 1.5))

	camera := geometry.NewPerspectiveCamera()
	camera.SetVerticalFOV(60 * math.Pi / 180)
	camera.SetPosition(core.NewVec3(0, 1, 0))
	camera.LookAt(core.NewVec3(0, 0, 5), core.NewVec3(0, 1, 0))
	return s, camera, nil
}

// NewGlassScene creates a hollow glass sphere with a red sphere inside it,
// in front of a checkerboard wall
func NewGlassScene(opts Options) (*Scene, *geometry.PerspectiveCamera, error) {
	s := NewScene()
	s.Background = core.NewVec3(0.05, 0.05, 0.08)
	s.MaxDepth = 8

	checker, err := material.NewCheckerboardTexture(2, 2, 64, core.NewVec3(0.95, 0.85, 0.2), core.NewVec3(0.1, 0.2, 0.6))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create wall texture: %w", err)
	}
	wall := material.NewMaterial(core.White).WithDiffuseMap(checker, core.NewVec2(0.5, 0.5))
	s.AddPlane(geometry.NewPlaneWithMaterial(core.NewVec3(0, 0, 12), core.NewVec3(0, 0, -1), core.NewVec3(1, 0, 0), wall))
	s.AddPlane(geometry.NewPlane(core.NewVec3(0, -1.5, 0), core.NewVec3(0, 1, 0)))

	tinted := material.Glass
	tinted.Specular = core.NewVec3(0.8, 0.8, 0.8)
	red := material.NewMaterial(core.NewVec3(0.8, 0.1, 0.1))

	s.AddSphere(geometry.NewSphereWithMaterial(core.NewVec3(0, 0, 5), 1.5, material.Glass))
	s.AddSphere(geometry.NewSphereWithMaterial(core.NewVec3(0, 0, 5), 0.6, red))
	s.AddSphere(geometry.NewSphereWithMaterial(core.NewVec3(2.5, -0.5, 7), 1, tinted))

	s.AddPointLight(lights.NewPointLight(core.NewVec3(0, 6, 2), core.White, 600))

	return s, geometry.NewPerspectiveCamera(), nil
}

// showcaseTexture loads the showcase diffuse map, falling back to a UV grid
func showcaseTexture(path string) (*material.Texture, error) {
	if path != "" {
		texture, err := material.NewTextureFromImage(path)
		if err == nil {
			return texture, nil
		}
		core.Logger().Warn("falling back to uv texture", "file", path, "error", err)
	}

	texture, err := material.NewUVDebugTexture(64, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to create uv texture: %w", err)
	}
	return texture, nil
}
