package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

const (
	// ShadowBias offsets shadow ray origins along the surface normal
	ShadowBias = 0.001
	// ShadowRayMin is the start of the shadow ray interval
	ShadowRayMin = 0.0001
)

// Raytracer computes direct lighting for primary rays: one ray per pixel,
// one shadow ray per light, no bounces.
//
// Rendering only reads the scene, so one Raytracer may be shared by many
// workers. SetMode and SetShadows must not be called while a frame is rendering.
type Raytracer struct {
	scene   *scene.Scene
	mode    LightingMode
	shadows bool
}

// NewRaytracer creates a raytracer in Combined mode with shadows enabled
func NewRaytracer(s *scene.Scene) *Raytracer {
	return &Raytracer{
		scene:   s,
		mode:    Combined,
		shadows: true,
	}
}

// Scene returns the scene being rendered
func (rt *Raytracer) Scene() *scene.Scene { return rt.scene }

// Mode returns the current lighting mode
func (rt *Raytracer) Mode() LightingMode { return rt.mode }

// SetMode selects the lighting term written to the frame
func (rt *Raytracer) SetMode(mode LightingMode) { rt.mode = mode }

// CycleMode advances to the next lighting mode and returns it
func (rt *Raytracer) CycleMode() LightingMode {
	rt.mode = rt.mode.Next()
	return rt.mode
}

// Shadows reports whether shadow rays are cast
func (rt *Raytracer) Shadows() bool { return rt.shadows }

// SetShadows enables or disables shadow rays
func (rt *Raytracer) SetShadows(enabled bool) { rt.shadows = enabled }

// ToggleShadows flips shadow casting and returns the new state
func (rt *Raytracer) ToggleShadows() bool {
	rt.shadows = !rt.shadows
	return rt.shadows
}

// Render draws the whole frame on the calling goroutine
func (rt *Raytracer) Render(fb *FrameBuffer) FrameStats {
	start := time.Now()
	hits := rt.RenderBounds(fb.Bounds(), fb)
	return ComputeFrameStats(fb, hits, time.Since(start))
}

// RenderBounds draws the pixels inside bounds and returns how many primary rays hit geometry
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, fb *FrameBuffer) int {
	cam := rt.scene.Camera.NewCameraRays(fb.Width(), fb.Height())
	return rt.renderTile(cam, bounds.Intersect(fb.Bounds()), fb)
}

// renderTile draws bounds using a camera snapshot shared by all tiles of a frame
func (rt *Raytracer) renderTile(cam geometry.CameraRays, bounds image.Rectangle, fb *FrameBuffer) int {
	hits := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color, hit := rt.TraceRay(cam.Ray(x, y))
			if hit {
				hits++
			}
			fb.SetColor(x, y, color.MaxToOne())
		}
	}
	return hits
}

// TraceRay returns the unscaled color seen along ray and whether it hit geometry
func (rt *Raytracer) TraceRay(ray core.Ray) (core.ColorRGB, bool) {
	hit, ok := rt.scene.ClosestHit(ray)
	if !ok {
		return core.Black, false
	}

	view := ray.Direction.Negate()
	var result core.ColorRGB
	for _, light := range rt.scene.Lights() {
		contribution, _ := rt.lightContribution(hit, view, light)
		result = result.Add(contribution)
	}
	return result, true
}

// lightStatus explains why a light did or did not contribute to a hit
type lightStatus string

const (
	lightLit      lightStatus = "lit"
	lightBehind   lightStatus = "behind"
	lightShadowed lightStatus = "shadowed"
	lightSkipped  lightStatus = "degenerate"
)

// lightContribution evaluates one light at a hit point for the current mode
func (rt *Raytracer) lightContribution(hit geometry.HitRecord, view core.Vec3, light lights.Light) (core.ColorRGB, lightStatus) {
	sample, ok := light.Sample(hit.Origin)
	if !ok {
		return core.Black, lightSkipped
	}

	cosine := hit.Normal.Dot(sample.Direction)
	if cosine < 0 {
		return core.Black, lightBehind
	}

	if rt.shadows && rt.occluded(hit, sample) {
		return core.Black, lightShadowed
	}

	switch rt.mode {
	case ObservedArea:
		return core.GrayLevel(cosine), lightLit
	case Radiance:
		return sample.Radiance, lightLit
	case BRDF:
		return rt.scene.Material(hit.MaterialIndex).Shade(hit, sample.Direction, view), lightLit
	default:
		brdf := rt.scene.Material(hit.MaterialIndex).Shade(hit, sample.Direction, view)
		return sample.Radiance.MultiplyColor(brdf).Multiply(cosine), lightLit
	}
}

// occluded casts a shadow ray from just above the surface toward the light
func (rt *Raytracer) occluded(hit geometry.HitRecord, sample lights.LightSample) bool {
	origin := hit.Origin.Add(hit.Normal.Multiply(ShadowBias))
	shadowRay := core.NewBoundedRay(origin, sample.Direction, ShadowRayMin, sample.Distance)
	return rt.scene.DoesHit(shadowRay)
}

// LightInfo describes one light's effect on an inspected pixel
type LightInfo struct {
	Index        int        `json:"index"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	Cosine       float64    `json:"cosine"`
	Contribution [3]float64 `json:"contribution"`
}

// PixelInfo is the result of inspecting a single pixel
type PixelInfo struct {
	X             int                `json:"x"`
	Y             int                `json:"y"`
	Hit           bool               `json:"hit"`
	Distance      float64            `json:"distance"`
	Point         [3]float64         `json:"point"`
	Normal        [3]float64         `json:"normal"`
	MaterialIndex core.MaterialIndex `json:"materialIndex"`
	Color         [3]uint8           `json:"color"`
	Lights        []LightInfo        `json:"lights"`
}

// Inspect traces the primary ray through pixel (px, py) of a width x height frame
// and reports the hit and each light's contribution
func (rt *Raytracer) Inspect(width, height, px, py int) (PixelInfo, error) {
	if px < 0 || px >= width || py < 0 || py >= height {
		return PixelInfo{}, fmt.Errorf("renderer: pixel (%d, %d) outside %dx%d frame", px, py, width, height)
	}

	info := PixelInfo{X: px, Y: py}
	ray := rt.scene.Camera.NewCameraRays(width, height).Ray(px, py)
	hit, ok := rt.scene.ClosestHit(ray)
	if !ok {
		return info, nil
	}

	info.Hit = true
	info.Distance = hit.T
	info.Point = [3]float64{hit.Origin.X, hit.Origin.Y, hit.Origin.Z}
	info.Normal = [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z}
	info.MaterialIndex = hit.MaterialIndex

	view := ray.Direction.Negate()
	var total core.ColorRGB
	for i, light := range rt.scene.Lights() {
		contribution, status := rt.lightContribution(hit, view, light)
		total = total.Add(contribution)

		cosine := 0.0
		if sample, ok := light.Sample(hit.Origin); ok {
			cosine = hit.Normal.Dot(sample.Direction)
		}
		info.Lights = append(info.Lights, LightInfo{
			Index:        i,
			Type:         string(light.Type),
			Status:       string(status),
			Cosine:       cosine,
			Contribution: [3]float64{contribution.R, contribution.G, contribution.B},
		})
	}

	r, g, b := total.MaxToOne().ToRGBA8()
	info.Color = [3]uint8{r, g, b}
	return info, nil
}
