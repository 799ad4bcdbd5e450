package material

import (
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// Material turns a surface hit plus light and view directions into reflectance.
// l points from the surface toward the light and v from the surface toward the
// viewer; both are normalized. Materials are immutable once built, so one
// instance can be shared by many primitives and render workers.
type Material interface {
	Shade(hit geometry.HitRecord, l, v core.Vec3) core.ColorRGB
}
