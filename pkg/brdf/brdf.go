// Package brdf holds the stateless reflectance functions used by materials.
//
// All direction arguments must already be normalized; nothing here normalizes
// its inputs. Every function is pure and safe for concurrent use.
package brdf

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Lambert returns the diffuse reflectance cd * kd / π for a scalar coefficient kd
func Lambert(kd float64, cd core.ColorRGB) core.ColorRGB {
	return cd.Multiply(kd / math.Pi)
}

// LambertColor returns the diffuse reflectance cd * kd / π with a per-channel coefficient kd
func LambertColor(kd, cd core.ColorRGB) core.ColorRGB {
	return cd.MultiplyColor(kd).Divide(math.Pi)
}

// Phong returns the specular lobe ks * max(0, r·v)^exponent in all three channels,
// where r is l reflected about n (l - 2(n·l)n).
//
//	ks       specular reflection coefficient
//	exponent Phong exponent
//	l        incident light direction
//	v        view direction
//	n        surface normal
func Phong(ks, exponent float64, l, v, n core.Vec3) core.ColorRGB {
	reflect := l.Subtract(n.Multiply(2 * n.Dot(l)))
	cosAlpha := math.Max(0, reflect.Dot(v))
	return core.GrayLevel(ks * math.Pow(cosAlpha, exponent))
}

// FresnelSchlick approximates Fresnel reflectance: f0 + (1 - f0)(1 - h·v)^5 per channel.
// f0 is the base reflectivity at normal incidence.
func FresnelSchlick(h, v core.Vec3, f0 core.ColorRGB) core.ColorRGB {
	factor := math.Pow(1-h.Dot(v), 5)
	return f0.Add(core.White.Subtract(f0).Multiply(factor))
}

// NormalDistributionGGX is the Trowbridge-Reitz GGX distribution with α = roughness²:
// α² / (π ((n·h)²(α² - 1) + 1)²)
func NormalDistributionGGX(n, h core.Vec3, roughness float64) float64 {
	nh := n.Dot(h)
	alpha := roughness * roughness
	alphaSq := alpha * alpha
	denom := nh*nh*(alphaSq-1) + 1
	return alphaSq / (math.Pi * denom * denom)
}

// GeometrySchlickGGX is the single-direction Schlick-GGX masking term
// (n·v) / ((n·v)(1 - k) + k). k is the already remapped roughness.
func GeometrySchlickGGX(n, v core.Vec3, k float64) float64 {
	nv := n.Dot(v)
	return nv / (nv*(1-k) + k)
}

// GeometrySmith combines masking for the view and light directions using the
// direct-lighting remap k = (α + 1)² / 8 with α = roughness².
func GeometrySmith(n, v, l core.Vec3, roughness float64) float64 {
	alpha := roughness * roughness
	k := (alpha + 1) * (alpha + 1) / 8
	return GeometrySchlickGGX(n, v, k) * GeometrySchlickGGX(n, l, k)
}
