package material

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestDiffuseBRDF(t *testing.T) {
	m := NewMaterial(core.NewVec3(0.5, 0.25, 1.0))
	m.Albedo = math.Pi // albedo/pi = 1 keeps expectations readable
	normal := core.NewVec3(0, 1, 0)

	tests := []struct {
		name     string
		lightDir core.Vec3
		expected core.Vec3
	}{
		{"light overhead", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.25, 1.0)},
		{"light at 60 degrees", core.NewVec3(math.Sqrt(3)/2, 0.5, 0), core.NewVec3(0.25, 0.125, 0.5)},
		{"light below horizon", core.NewVec3(0, -1, 0), core.NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.DiffuseBRDF(tt.lightDir, normal, core.Vec2{})
			if !got.ApproxEquals(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDiffuseBRDF_UsesDiffuseMap(t *testing.T) {
	texture, err := NewTexture(1, 1, []core.Vec3{core.NewVec3(0, 1, 0)})
	if err != nil {
		t.Fatalf("NewTexture failed: %v", err)
	}
	m := Default.WithDiffuseMap(texture, core.NewVec2(4, 4))
	m.Albedo = math.Pi

	got := m.DiffuseBRDF(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec2(0.3, 0.6))
	if !got.ApproxEquals(core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected texture color, got %v", got)
	}
}

func TestSpecularBRDF(t *testing.T) {
	m := Default
	m.Specular = core.NewVec3(1, 1, 1)
	m.Shininess = 10
	normal := core.NewVec3(0, 1, 0)

	// Mirror configuration: half vector equals the normal
	view := core.NewVec3(-1, 1, 0).Normalize()
	light := core.NewVec3(1, 1, 0).Normalize()
	got := m.SpecularBRDF(view, light, normal)
	if !got.ApproxEquals(core.NewVec3(1, 1, 1), 1e-12) {
		t.Errorf("Expected full highlight, got %v", got)
	}

	// Off-mirror configuration falls off as cos^shininess
	light = core.NewVec3(0, 1, 0)
	half := view.Add(light).Normalize()
	expected := math.Pow(half.Dot(normal), 10)
	got = m.SpecularBRDF(view, light, normal)
	if math.Abs(got.X-expected) > 1e-12 {
		t.Errorf("Expected %f, got %f", expected, got.X)
	}

	// Half vector below the surface gives nothing
	got = m.SpecularBRDF(core.NewVec3(0, -1, 0), core.NewVec3(0.1, -1, 0).Normalize(), normal)
	if !got.IsZero() {
		t.Errorf("Expected no highlight, got %v", got)
	}
}

func TestTangentSpaceNormal(t *testing.T) {
	m := Default
	if n := m.TangentSpaceNormal(core.NewVec2(0.5, 0.5)); !n.Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected unperturbed normal without a map, got %v", n)
	}

	tests := []struct {
		name     string
		encoded  core.Vec3
		expected core.Vec3
	}{
		{"flat", core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, 1)},
		{"tilted along tangent", core.NewVec3(1, 0.5, 0.5), core.NewVec3(1, 0, 0)},
		{"green flips to negative bitangent", core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0)},
		{"low green is positive bitangent", core.NewVec3(0.5, 0, 0.5), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texture, err := NewTexture(1, 1, []core.Vec3{tt.encoded})
			if err != nil {
				t.Fatalf("NewTexture failed: %v", err)
			}
			m := Default.WithNormalMap(texture)
			if !m.HasNormalMap() {
				t.Fatal("Expected normal map to be set")
			}
			got := m.TangentSpaceNormal(core.NewVec2(0.2, 0.8))
			if !got.ApproxEquals(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestShadingNormal(t *testing.T) {
	tangent := core.NewVec3(1, 0, 0)
	bitangent := core.NewVec3(0, 0, -1)
	normal := core.NewVec3(0, 1, 0)

	if n := ShadingNormal(core.NewVec3(0, 0, 1), tangent, bitangent, normal); !n.ApproxEquals(normal, 1e-12) {
		t.Errorf("Expected geometric normal, got %v", n)
	}

	n := ShadingNormal(core.NewVec3(1, 0, 1), tangent, bitangent, normal)
	expected := core.NewVec3(1, 1, 0).Normalize()
	if !n.ApproxEquals(expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, n)
	}
}

func TestRippleNormalMap(t *testing.T) {
	texture, err := NewRippleNormalMap(16, 12, 0.5)
	if err != nil {
		t.Fatalf("NewRippleNormalMap failed: %v", err)
	}
	m := Default.WithNormalMap(texture)

	for _, uv := range []core.Vec2{core.NewVec2(0.1, 0.1), core.NewVec2(0.5, 0.3), core.NewVec2(0.9, 0.7)} {
		n := m.TangentSpaceNormal(uv)
		if math.Abs(n.Length()-1) > 1e-9 {
			t.Errorf("UV%v: expected unit normal, got length %f", uv, n.Length())
		}
		if n.Z <= 0 {
			t.Errorf("UV%v: expected normal facing out of the surface, got %v", uv, n)
		}
	}
}
