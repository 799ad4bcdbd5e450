package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// ParseLightType converts a name from a scene description to a LightType
func ParseLightType(s string) (LightType, error) {
	switch LightType(s) {
	case LightTypePoint, LightTypeDirectional:
		return LightType(s), nil
	}
	return "", fmt.Errorf("lights: unknown light type %q", s)
}

// Light is a point or directional light.
// Point lights fall off with the inverse square of distance; directional lights do not.
type Light struct {
	Type      LightType
	Origin    core.Vec3 // Position of a point light
	Direction core.Vec3 // Unit direction a directional light travels in
	Intensity float64
	Color     core.ColorRGB
}

// LightSample describes a light as seen from a shading point
type LightSample struct {
	Direction core.Vec3     // Unit direction from the shading point to the light
	Distance  float64       // Distance to light, math.MaxFloat64 for directional lights
	Radiance  core.ColorRGB // Incoming radiance (irradiance before the cosine term)
}

// NewPointLight creates a point light at origin
func NewPointLight(origin core.Vec3, intensity float64, color core.ColorRGB) Light {
	return Light{
		Type:      LightTypePoint,
		Origin:    origin,
		Intensity: intensity,
		Color:     color,
	}
}

// NewDirectionalLight creates a light travelling along direction
func NewDirectionalLight(direction core.Vec3, intensity float64, color core.ColorRGB) Light {
	return Light{
		Type:      LightTypeDirectional,
		Direction: direction.Normalize(),
		Intensity: intensity,
		Color:     color,
	}
}

// DirectionToLight returns the unnormalized vector from target toward the light.
// For directional lights it is the reversed travel direction.
func (l Light) DirectionToLight(target core.Vec3) core.Vec3 {
	if l.Type == LightTypeDirectional {
		return l.Direction.Negate()
	}
	return l.Origin.Subtract(target)
}

// Radiance returns the light arriving at target: color * intensity, divided by
// the squared distance for point lights.
func (l Light) Radiance(target core.Vec3) core.ColorRGB {
	switch l.Type {
	case LightTypePoint:
		return l.Color.Multiply(l.Intensity / l.Origin.Subtract(target).LengthSquared())
	case LightTypeDirectional:
		return l.Color.Multiply(l.Intensity)
	}
	return core.Black
}

// Sample evaluates the light from point. ok is false when the light sits on the
// point itself, where both the direction and the falloff are undefined.
func (l Light) Sample(point core.Vec3) (LightSample, bool) {
	if l.Type == LightTypeDirectional {
		dir := l.Direction.Negate()
		if dir.LengthSquared() == 0 {
			return LightSample{}, false
		}
		return LightSample{Direction: dir, Distance: math.MaxFloat64, Radiance: l.Radiance(point)}, true
	}

	dir, dist := l.DirectionToLight(point).NormalizeWithLength()
	if dist < minLightDistance {
		return LightSample{}, false
	}
	return LightSample{Direction: dir, Distance: dist, Radiance: l.Radiance(point)}, true
}

// minLightDistance is the distance below which a point light is treated as coincident with the surface
const minLightDistance = 1e-6
