package geometry

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center        core.Vec3
	Radius        float64
	MaterialIndex core.MaterialIndex
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, materialIndex core.MaterialIndex) *Sphere {
	return &Sphere{
		Center:        center,
		Radius:        radius,
		MaterialIndex: materialIndex,
	}
}

// nearT projects the center onto the ray and returns the nearer root.
// Only the nearer root is considered: a ray starting inside the sphere does not hit it.
func (s *Sphere) nearT(ray core.Ray) (float64, bool) {
	// Vector from ray origin to sphere center
	toCenter := s.Center.Subtract(ray.Origin)
	projected := toCenter.Dot(ray.Direction)

	// Squared distance from the center to the ray line
	distSq := toCenter.LengthSquared() - projected*projected
	radiusSq := s.Radius * s.Radius
	if distSq > radiusSq {
		return 0, false
	}

	t := projected - math.Sqrt(radiusSq-distSq)
	if !ray.InRange(t) {
		return 0, false
	}
	return t, true
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray) (HitRecord, bool) {
	t, ok := s.nearT(ray)
	if !ok {
		return HitRecord{}, false
	}

	point := ray.At(t)
	return HitRecord{
		DidHit:        true,
		T:             t,
		Origin:        point,
		Normal:        point.Subtract(s.Center).Normalize(),
		MaterialIndex: s.MaterialIndex,
	}, true
}

// HitAny reports whether the ray hits the sphere
func (s *Sphere) HitAny(ray core.Ray) bool {
	_, ok := s.nearT(ray)
	return ok
}
