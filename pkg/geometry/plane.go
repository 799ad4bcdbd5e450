package geometry

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// parallelEpsilon is the |dot(direction, normal)| below which a ray is treated as parallel
const parallelEpsilon = 1e-8

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point         core.Vec3          // A point on the plane
	Normal        core.Vec3          // Unit normal vector
	MaterialIndex core.MaterialIndex // Material of the plane
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, materialIndex core.MaterialIndex) *Plane {
	return &Plane{
		Point:         point,
		Normal:        normal.Normalize(), // Ensure normal is normalized
		MaterialIndex: materialIndex,
	}
}

func (p *Plane) intersect(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray parallel to plane
	if math.Abs(denominator) < parallelEpsilon {
		return 0, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !ray.InRange(t) {
		return 0, false
	}
	return t, true
}

// Hit tests if a ray intersects with the plane. The normal is the plane's own,
// regardless of which side the ray comes from.
func (p *Plane) Hit(ray core.Ray) (HitRecord, bool) {
	t, ok := p.intersect(ray)
	if !ok {
		return HitRecord{}, false
	}

	return HitRecord{
		DidHit:        true,
		T:             t,
		Origin:        ray.At(t),
		Normal:        p.Normal,
		MaterialIndex: p.MaterialIndex,
	}, true
}

// HitAny reports whether the ray hits the plane
func (p *Plane) HitAny(ray core.Ray) bool {
	_, ok := p.intersect(ray)
	return ok
}
