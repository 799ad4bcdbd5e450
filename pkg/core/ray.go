package core

import "math"

// Default parametric bounds for rays
const (
	DefaultRayMin = 0.0001
	DefaultRayMax = math.MaxFloat64
)

// Ray represents a ray with an origin, a normalized direction and the
// valid parametric interval [Min, Max]
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Min       float64
	Max       float64
}

// NewRay creates a ray with the default interval
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, Min: DefaultRayMin, Max: DefaultRayMax}
}

// NewBoundedRay creates a ray limited to [min, max]
func NewBoundedRay(origin, direction Vec3, min, max float64) Ray {
	return Ray{Origin: origin, Direction: direction, Min: min, Max: max}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InRange reports whether t lies inside the ray's interval
func (r Ray) InRange(t float64) bool {
	return t >= r.Min && t <= r.Max
}
