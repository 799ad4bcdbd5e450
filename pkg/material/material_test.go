package material

import (
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/brdf"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

func upHit() geometry.HitRecord {
	return geometry.HitRecord{DidHit: true, T: 1, Normal: core.UnitY}
}

func closeColor(a, b core.ColorRGB, tolerance float64) bool {
	return math.Abs(a.R-b.R) <= tolerance && math.Abs(a.G-b.G) <= tolerance && math.Abs(a.B-b.B) <= tolerance
}

func TestSolidColor_IgnoresInputs(t *testing.T) {
	m := NewSolidColor(core.Red)
	for _, l := range []core.Vec3{core.UnitY, core.UnitY.Negate(), core.UnitX} {
		if got := m.Shade(upHit(), l, core.UnitZ); got != core.Red {
			t.Errorf("Expected red, got %v", got)
		}
	}
}

func TestLambert_Shade(t *testing.T) {
	m := NewLambert(core.NewColor(1, 0.5, 0.25), 0.8)
	expected := core.NewColor(0.8/math.Pi, 0.4/math.Pi, 0.2/math.Pi)

	got := m.Shade(upHit(), core.NewVec3(1, 1, 0).Normalize(), core.UnitY)
	if !closeColor(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestLambertPhong_Shade(t *testing.T) {
	m := NewLambertPhong(core.White, 0.5, 0.6, 20)
	l := core.NewVec3(1, 1, 0).Normalize()
	diffuse := brdf.Lambert(0.5, core.White)

	// Viewer in the mirror direction of the light sees the full highlight
	v := core.NewVec3(-1, 1, 0).Normalize()
	got := m.Shade(upHit(), l, v)
	if !closeColor(got, diffuse.Add(core.GrayLevel(0.6)), 1e-9) {
		t.Errorf("Expected diffuse plus full highlight, got %v", got)
	}

	// Viewer on the light's side sees no highlight with a high exponent
	got = m.Shade(upHit(), l, l)
	if !closeColor(got, diffuse, 1e-6) {
		t.Errorf("Expected diffuse only, got %v", got)
	}
}

func TestCookTorrance_F0(t *testing.T) {
	copper := core.NewColor(0.955, 0.637, 0.538)

	tests := []struct {
		name      string
		metalness float64
		expected  core.ColorRGB
	}{
		{"Metal uses albedo", 1, copper},
		{"Dielectric uses constant", 0, core.GrayLevel(0.04)},
		{"Partially metallic is dielectric", 0.5, core.GrayLevel(0.04)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCookTorrance(copper, tt.metalness, 0.5)
			if got := m.F0(); !closeColor(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCookTorrance_NormalIncidenceMetal(t *testing.T) {
	m := NewCookTorrance(core.White, 1, 0.5)
	n := core.UnitY

	// Fresnel at h·v = 1 equals the albedo for a white metal
	if f := brdf.FresnelSchlick(n, n, m.F0()); !closeColor(f, core.White, 1e-12) {
		t.Errorf("Expected Fresnel equal to albedo, got %v", f)
	}

	// kd = 1 - F = 0, so everything is specular: D * G / 4 with F = 1
	got := m.Shade(upHit(), n, n)
	alpha := 0.25
	d := 1 / (math.Pi * alpha * alpha)
	expected := core.GrayLevel(d * brdf.GeometrySmith(n, n, n, 0.5) / 4)
	if !closeColor(got, expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestCookTorrance_Guards(t *testing.T) {
	tests := []struct {
		name string
		m    *CookTorrance
		l, v core.Vec3
	}{
		{"Zero roughness is clamped", NewCookTorrance(core.White, 1, 0), core.UnitY, core.UnitY},
		{"Light below surface", NewCookTorrance(core.White, 0, 0.5), core.UnitY.Negate(), core.UnitY},
		{"View below surface", NewCookTorrance(core.White, 0, 0.5), core.UnitY, core.UnitY.Negate()},
		{"Grazing light", NewCookTorrance(core.White, 1, 0.3), core.UnitX, core.UnitY},
		{"Opposed light and view", NewCookTorrance(core.White, 0, 0.3), core.UnitX, core.UnitX.Negate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Shade(upHit(), tt.l, tt.v)
			if !got.IsFinite() {
				t.Fatalf("Non-finite shade %v", got)
			}
			if got.R < 0 || got.G < 0 || got.B < 0 {
				t.Errorf("Negative shade %v", got)
			}
		})
	}

	// The clamped result matches shading at the minimum roughness
	smooth := NewCookTorrance(core.White, 1, 0.01).Shade(upHit(), core.UnitY, core.UnitY)
	atMin := NewCookTorrance(core.White, 1, MinRoughness).Shade(upHit(), core.UnitY, core.UnitY)
	if !closeColor(smooth, atMin, 1e-9) {
		t.Errorf("Expected clamp to MinRoughness: %v vs %v", smooth, atMin)
	}
}

func TestCookTorrance_DielectricHasDiffuse(t *testing.T) {
	m := NewCookTorrance(core.NewColor(0.8, 0.2, 0.2), 0, 0.9)
	l := core.NewVec3(0, 1, 1).Normalize()

	// Light below horizon for the view: only diffuse remains, tinted by albedo
	got := m.Shade(upHit(), l, core.UnitY.Negate())
	if got.R <= got.G || got.R <= got.B {
		t.Errorf("Expected red-dominant diffuse, got %v", got)
	}
}
