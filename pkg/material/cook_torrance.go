package material

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/brdf"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

const (
	// MinRoughness is the lowest roughness used when shading; smoother values
	// are clamped so the GGX peak stays finite.
	MinRoughness = 0.1

	// dielectricF0 is the normal-incidence reflectivity used for non-metals
	dielectricF0 = 0.04
)

// CookTorrance is a microfacet material with GGX distribution, Smith geometry
// and Schlick Fresnel terms over an energy-conserving Lambert base.
type CookTorrance struct {
	Albedo    core.ColorRGB
	Metalness float64 // 1 for conductors, 0 for dielectrics
	Roughness float64 // 1 is rough, 0 is smooth
}

// NewCookTorrance creates a new cook-torrance material
func NewCookTorrance(albedo core.ColorRGB, metalness, roughness float64) *CookTorrance {
	return &CookTorrance{Albedo: albedo, Metalness: metalness, Roughness: roughness}
}

// IsMetal reports whether the material uses its albedo as base reflectivity
func (m *CookTorrance) IsMetal() bool {
	return m.Metalness >= 0.999
}

// F0 returns the base reflectivity at normal incidence
func (m *CookTorrance) F0() core.ColorRGB {
	if m.IsMetal() {
		return m.Albedo
	}
	return core.GrayLevel(dielectricF0)
}

// Shade implements the Material interface
func (m *CookTorrance) Shade(hit geometry.HitRecord, l, v core.Vec3) core.ColorRGB {
	roughness := math.Max(m.Roughness, MinRoughness)
	n := hit.Normal

	h := v.Add(l).Normalize()
	f := brdf.FresnelSchlick(h, v, m.F0())
	diffuse := brdf.LambertColor(core.White.Subtract(f), m.Albedo)

	vn := v.Dot(n)
	ln := l.Dot(n)
	if vn <= 0 || ln <= 0 || h.LengthSquared() == 0 {
		// Viewer or light below the surface: no specular lobe
		return diffuse
	}

	d := brdf.NormalDistributionGGX(n, h, roughness)
	g := brdf.GeometrySmith(n, v, l, roughness)
	specular := f.Multiply(d * g / (4 * vn * ln))

	return diffuse.Add(specular)
}
