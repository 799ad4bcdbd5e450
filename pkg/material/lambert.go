package material

import (
	"github.com/df07/go-direct-raytracer/pkg/brdf"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// Lambert represents a perfectly diffuse material
type Lambert struct {
	DiffuseColor       core.ColorRGB
	DiffuseReflectance float64 // kd
}

// NewLambert creates a new lambert material
func NewLambert(diffuseColor core.ColorRGB, kd float64) *Lambert {
	return &Lambert{DiffuseColor: diffuseColor, DiffuseReflectance: kd}
}

// Shade implements the Material interface. Lambertian reflectance is constant: kd * color / π.
func (m *Lambert) Shade(geometry.HitRecord, core.Vec3, core.Vec3) core.ColorRGB {
	return brdf.Lambert(m.DiffuseReflectance, m.DiffuseColor)
}
