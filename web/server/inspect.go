package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	GeometryType string         `json:"geometryType"`
	Index        int            `json:"index"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	UV           [2]float64     `json:"uv"`
	Distance     float64        `json:"distance"`
	FrontFace    bool           `json:"frontFace"`
	Properties   map[string]any `json:"properties"`
}

func vec3(v core.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat *material.Material, uv core.Vec2) map[string]any {
	properties := map[string]any{
		"color":           hexColor(mat.DiffuseColor(uv)),
		"ambient":         vec3(mat.Ambient),
		"specular":        vec3(mat.Specular),
		"albedo":          mat.Albedo,
		"shininess":       mat.Shininess,
		"reflectivity":    mat.Reflectivity,
		"transparency":    mat.Transparency,
		"refractiveIndex": mat.RefractiveIndex,
		"diffuseMap":      mat.DiffuseMap != nil,
		"normalMap":       mat.HasNormalMap(),
	}
	if texture := mat.DiffuseMap; texture != nil {
		properties["tiling"] = [2]float64{mat.Tiling.X, mat.Tiling.Y}
		properties["mipLevels"] = texture.Levels()
		// The coarsest mip level is the box-filtered average of the whole map
		properties["textureAverage"] = hexColor(texture.SampleLevel(uv, mat.Tiling, texture.Levels()-1))
	}
	return properties
}

// extractGeometryInfo describes the primitive that was hit
func extractGeometryInfo(sceneObj *scene.Scene, hit *scene.Intersection) map[string]any {
	properties := make(map[string]any)

	switch hit.Kind {
	case scene.ShapeSphere:
		sphere := sceneObj.Spheres[hit.Index]
		properties["center"] = vec3(sphere.Center)
		properties["radius"] = sphere.Radius
	case scene.ShapePlane:
		plane := sceneObj.Planes[hit.Index]
		properties["origin"] = vec3(plane.Origin)
		properties["normal"] = vec3(plane.Normal)
		properties["firstAxis"] = vec3(plane.FirstAxis)
	}

	return properties
}

// inspectPixel casts the ray through the center of a pixel and describes
// the first surface it hits
func inspectPixel(req viewRequest, sceneObj *scene.Scene, camera *geometry.PerspectiveCamera, pixelX, pixelY int) InspectResponse {
	ray := camera.RayForPixel(pixelX, pixelY, req.Width, req.Height)

	hit, ok := sceneObj.Intersect(ray)
	if !ok {
		return InspectResponse{Hit: false}
	}

	return InspectResponse{
		Hit:          true,
		GeometryType: hit.Kind.String(),
		Index:        hit.Index,
		Point:        vec3(hit.Point),
		Normal:       vec3(hit.Normal),
		UV:           [2]float64{hit.UV.X, hit.UV.Y},
		Distance:     hit.Distance,
		FrontFace:    hit.FrontFace,
		Properties: map[string]any{
			"material": extractMaterialInfo(hit.Material, hit.UV),
			"geometry": extractGeometryInfo(sceneObj, &hit),
		},
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseViewRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := parseIntParam(r.URL.Query(), "x", req.Width/2, 0, req.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pixelY, err := parseIntParam(r.URL.Query(), "y", req.Height/2, 0, req.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, camera, err := s.buildView(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(req, sceneObj, camera, pixelX, pixelY))
}
