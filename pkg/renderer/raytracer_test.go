package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/material"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// pixelRadiusSq returns x²+y² of the camera-space direction through a pixel
// for a 90° camera, the same mapping the camera uses
func pixelRadiusSq(px, py, width, height int) float64 {
	aspect := float64(width) / float64(height)
	x := (2*(float64(px)+0.5)/float64(width) - 1) * aspect
	y := 1 - 2*(float64(py)+0.5)/float64(height)
	return x*x + y*y
}

func TestRenderSingleSphereSilhouette(t *testing.T) {
	const width, height = 64, 48
	rt := NewRaytracer(scene.NewSingleSphereScene())
	fb := NewFrameBuffer(width, height)
	stats := rt.Render(fb)

	// The sphere subtends 30° from the origin, so its silhouette is at tan²(30°) = 1/3
	const silhouette = 1.0 / 3
	inside, outside := 0, 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := fb.RGB(x, y)
			rSq := pixelRadiusSq(x, y, width, height)
			switch {
			case rSq < silhouette*0.9:
				inside++
				if r == 0 && g == 0 && b == 0 {
					t.Errorf("pixel (%d,%d) inside silhouette is black", x, y)
				}
				if g != 0 || b != 0 {
					t.Errorf("pixel (%d,%d) expected pure red, got (%d,%d,%d)", x, y, r, g, b)
				}
			case rSq > silhouette*1.1:
				outside++
				if r != 0 || g != 0 || b != 0 {
					t.Errorf("pixel (%d,%d) outside silhouette is (%d,%d,%d), want black", x, y, r, g, b)
				}
			}
		}
	}

	if inside == 0 || outside == 0 {
		t.Fatalf("Expected pixels on both sides of the silhouette, got %d inside, %d outside", inside, outside)
	}
	if stats.HitPixels < inside || stats.HitPixels > width*height-outside {
		t.Errorf("Hit pixel count %d inconsistent with %d inside / %d outside", stats.HitPixels, inside, outside)
	}
}

func TestLightingModes(t *testing.T) {
	ray := core.NewRay(core.Vec3{}, core.UnitZ)

	tests := []struct {
		mode LightingMode
		want core.ColorRGB
	}{
		// Normal at the front of the sphere faces the light exactly
		{ObservedArea, core.NewColor(1, 1, 1)},
		{Radiance, core.NewColor(5, 5, 5)},
		{BRDF, core.Red},
		{Combined, core.NewColor(5, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			rt := NewRaytracer(scene.NewSingleSphereScene())
			rt.SetMode(tt.mode)

			got, hit := rt.TraceRay(ray)
			if !hit {
				t.Fatal("Expected the ray to hit the sphere")
			}
			if math.Abs(got.R-tt.want.R) > 1e-9 || math.Abs(got.G-tt.want.G) > 1e-9 || math.Abs(got.B-tt.want.B) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTraceRayMiss(t *testing.T) {
	rt := NewRaytracer(scene.NewSingleSphereScene())
	got, hit := rt.TraceRay(core.NewRay(core.Vec3{}, core.UnitZ.Negate()))
	if hit || !got.IsBlack() {
		t.Errorf("Expected a black miss, got %v hit=%v", got, hit)
	}
}

// newShadowScene builds a white floor with a sphere hovering over the origin
// and a point light straight above it
func newShadowScene() *scene.Scene {
	s := scene.New("shadow")
	white := s.AddMaterial(material.NewLambert(core.White, 1))
	s.AddPlane(core.Vec3{}, core.UnitY, white)
	s.AddSphere(core.NewVec3(0, 1, 0), 0.5, white)
	s.AddPointLight(core.NewVec3(0, 5, 0), 25, core.White)
	return s
}

func TestShadows(t *testing.T) {
	// Passes under the sphere and lands on the floor at the origin
	ray := core.NewRay(core.NewVec3(3, 0.3, 0), core.NewVec3(-3, -0.3, 0).Normalize())

	rt := NewRaytracer(newShadowScene())
	shadowed, hit := rt.TraceRay(ray)
	if !hit {
		t.Fatal("Expected the ray to hit the floor")
	}
	if !shadowed.IsBlack() {
		t.Errorf("Expected the point under the sphere to be in shadow, got %v", shadowed)
	}

	if rt.ToggleShadows() {
		t.Fatal("Expected ToggleShadows to disable shadows")
	}
	lit, _ := rt.TraceRay(ray)
	if lit.IsBlack() {
		t.Error("Expected the point to be lit with shadows disabled")
	}
}

func TestLightNearSurfaceDoesNotSelfShadow(t *testing.T) {
	s := scene.New("near light")
	white := s.AddMaterial(material.NewLambert(core.White, 1))
	s.AddPlane(core.Vec3{}, core.UnitY, white)
	s.AddPointLight(core.NewVec3(0, 0.01, 0), 1, core.White)

	rt := NewRaytracer(s)
	got, hit := rt.TraceRay(core.NewRay(core.NewVec3(0, 1, 0), core.UnitY.Negate()))
	if !hit {
		t.Fatal("Expected to hit the floor")
	}
	if got.IsBlack() {
		t.Error("Expected a light just above the surface to illuminate it")
	}
}

func TestCoincidentLightIsSkipped(t *testing.T) {
	s := scene.New("coincident light")
	white := s.AddMaterial(material.NewLambert(core.White, 1))
	s.AddPlane(core.Vec3{}, core.UnitY, white)
	s.AddPointLight(core.Vec3{}, 1, core.White)

	rt := NewRaytracer(s)
	for _, mode := range []LightingMode{ObservedArea, Radiance, BRDF, Combined} {
		rt.SetMode(mode)
		got, hit := rt.TraceRay(core.NewRay(core.NewVec3(0, 1, 0), core.UnitY.Negate()))
		if !hit {
			t.Fatal("Expected to hit the floor")
		}
		if !got.IsFinite() {
			t.Errorf("%v: expected a finite color, got %v", mode, got)
		}
	}
}

func TestLightBehindSurfaceIgnored(t *testing.T) {
	s := scene.New("behind")
	white := s.AddMaterial(material.NewLambert(core.White, 1))
	s.AddPlane(core.Vec3{}, core.UnitY, white)
	s.AddPointLight(core.NewVec3(0, -2, 0), 100, core.White)
	rt := NewRaytracer(s)
	rt.SetMode(ObservedArea)

	got, _ := rt.TraceRay(core.NewRay(core.NewVec3(0, 1, 0), core.UnitY.Negate()))
	if !got.IsBlack() {
		t.Errorf("Expected a light below the floor to contribute nothing, got %v", got)
	}
}

func TestRenderBoundsOnlyTouchesBounds(t *testing.T) {
	rt := NewRaytracer(scene.NewSingleSphereScene())
	fb := NewFrameBuffer(16, 16)
	fb.Pix()[0] = 7 // Sentinel outside the rendered region

	rt.RenderBounds(fb.Bounds().Inset(4), fb)

	if fb.Pix()[0] != 7 {
		t.Error("RenderBounds wrote outside its bounds")
	}
	if r, _, _ := fb.RGB(8, 8); r == 0 {
		t.Error("Expected the center pixel to be rendered red")
	}
}

func TestInspect(t *testing.T) {
	rt := NewRaytracer(scene.NewSingleSphereScene())

	info, err := rt.Inspect(64, 64, 32, 32)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !info.Hit {
		t.Fatal("Expected the center pixel to hit the sphere")
	}
	if info.Distance < 50 || info.Distance > 51 {
		t.Errorf("Expected distance just over 50, got %g", info.Distance)
	}
	if len(info.Lights) != 1 || info.Lights[0].Status != "lit" || info.Lights[0].Type != "directional" {
		t.Errorf("Unexpected light info %+v", info.Lights)
	}
	if info.Color != [3]uint8{255, 0, 0} {
		t.Errorf("Expected red, got %v", info.Color)
	}

	miss, err := rt.Inspect(64, 64, 0, 0)
	if err != nil || miss.Hit {
		t.Errorf("Expected corner pixel to miss, got %+v err=%v", miss, err)
	}

	if _, err := rt.Inspect(64, 64, 64, 0); err == nil {
		t.Error("Expected an error for an out-of-range pixel")
	}
}

func TestInspectReportsShadow(t *testing.T) {
	s := newShadowScene()
	s.Camera.Origin = core.NewVec3(3, 0.3, 0)
	s.Camera.Forward = core.NewVec3(-3, -0.3, 0).Normalize()
	rt := NewRaytracer(s)

	info, err := rt.Inspect(33, 33, 16, 16)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !info.Hit || len(info.Lights) != 1 {
		t.Fatalf("Expected a hit with one light, got %+v", info)
	}
	if info.Lights[0].Status != "shadowed" {
		t.Errorf("Expected the light to be shadowed, got %q", info.Lights[0].Status)
	}
}
