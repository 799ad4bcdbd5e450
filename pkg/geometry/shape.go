package geometry

import (
	"fmt"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// HitRecord contains information about a ray-object intersection.
// When DidHit is false the other fields carry no meaning.
type HitRecord struct {
	DidHit        bool               // Whether an intersection was found
	T             float64            // Parameter t along the ray
	Origin        core.Vec3          // World-space point of intersection
	Normal        core.Vec3          // Unit surface normal, never flipped toward the viewer
	MaterialIndex core.MaterialIndex // Index into the scene's material list
}

// Shape interface for objects that can be hit by rays.
// Hit returns the nearest intersection inside [ray.Min, ray.Max];
// HitAny only answers whether one exists and may stop at the first.
// Ray directions must already be normalized.
type Shape interface {
	Hit(ray core.Ray) (HitRecord, bool)
	HitAny(ray core.Ray) bool
}

// CullMode selects which faces of a triangle are eligible for intersection
type CullMode int

const (
	NoCulling CullMode = iota
	FrontFaceCulling
	BackFaceCulling
)

var cullModeNames = map[CullMode]string{
	NoCulling:        "none",
	FrontFaceCulling: "front",
	BackFaceCulling:  "back",
}

// String returns the short name of the cull mode
func (c CullMode) String() string {
	if name, ok := cullModeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CullMode(%d)", int(c))
}

// ParseCullMode converts "none", "front" or "back" (case-insensitive) to a CullMode.
// An empty string means NoCulling.
func ParseCullMode(s string) (CullMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "nocull", "no":
		return NoCulling, nil
	case "front", "frontface":
		return FrontFaceCulling, nil
	case "back", "backface":
		return BackFaceCulling, nil
	}
	return NoCulling, fmt.Errorf("geometry: unknown cull mode %q", s)
}

// culled applies the cull policy given the face normal and ray direction.
// A back face is one the ray travels along (dot > 0), a front face one it travels against.
func (c CullMode) culled(normal, direction core.Vec3) bool {
	switch c {
	case BackFaceCulling:
		return normal.Dot(direction) > 0
	case FrontFaceCulling:
		return normal.Dot(direction) < 0
	}
	return false
}
