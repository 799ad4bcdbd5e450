package material

import (
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// SolidColor returns a fixed color regardless of lighting. Mostly useful for debugging.
type SolidColor struct {
	Color core.ColorRGB
}

// NewSolidColor creates a new solid color material
func NewSolidColor(color core.ColorRGB) *SolidColor {
	return &SolidColor{Color: color}
}

// Shade implements the Material interface
func (s *SolidColor) Shade(geometry.HitRecord, core.Vec3, core.Vec3) core.ColorRGB {
	return s.Color
}
