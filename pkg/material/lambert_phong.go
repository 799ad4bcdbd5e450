package material

import (
	"github.com/df07/go-direct-raytracer/pkg/brdf"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// LambertPhong is a diffuse base with a Phong specular highlight
type LambertPhong struct {
	DiffuseColor        core.ColorRGB
	DiffuseReflectance  float64 // kd
	SpecularReflectance float64 // ks
	PhongExponent       float64
}

// NewLambertPhong creates a new lambert-phong material
func NewLambertPhong(diffuseColor core.ColorRGB, kd, ks, exponent float64) *LambertPhong {
	return &LambertPhong{
		DiffuseColor:        diffuseColor,
		DiffuseReflectance:  kd,
		SpecularReflectance: ks,
		PhongExponent:       exponent,
	}
}

// Shade implements the Material interface.
// Phong is evaluated against -v, the incoming ray direction.
func (m *LambertPhong) Shade(hit geometry.HitRecord, l, v core.Vec3) core.ColorRGB {
	diffuse := brdf.Lambert(m.DiffuseReflectance, m.DiffuseColor)
	specular := brdf.Phong(m.SpecularReflectance, m.PhongExponent, l, v.Negate(), hit.Normal)
	return diffuse.Add(specular)
}
