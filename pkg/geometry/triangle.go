package geometry

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2    core.Vec3          // The three vertices
	Normal        core.Vec3          // Unit face normal
	CullMode      CullMode           // Which faces can be hit
	MaterialIndex core.MaterialIndex // Material of the triangle
}

// NewTriangle creates a new triangle from three vertices. The normal follows
// the winding order: normalize((v1 - v0) x (v2 - v0)).
func NewTriangle(v0, v1, v2 core.Vec3, cullMode CullMode, materialIndex core.MaterialIndex) *Triangle {
	return &Triangle{
		V0:            v0,
		V1:            v1,
		V2:            v2,
		Normal:        faceNormal(v0, v1, v2),
		CullMode:      cullMode,
		MaterialIndex: materialIndex,
	}
}

// NewTriangleWithNormal creates a new triangle from three vertices with a custom normal
func NewTriangleWithNormal(v0, v1, v2, normal core.Vec3, cullMode CullMode, materialIndex core.MaterialIndex) *Triangle {
	return &Triangle{
		V0:            v0,
		V1:            v1,
		V2:            v2,
		Normal:        normal.Normalize(),
		CullMode:      cullMode,
		MaterialIndex: materialIndex,
	}
}

// faceNormal calculates the triangle's normal vector from its two first edges
func faceNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	return edge1.Cross(edge2).Normalize()
}

// Hit tests if a ray intersects with the triangle
func (t *Triangle) Hit(ray core.Ray) (HitRecord, bool) {
	tHit, ok := intersectTriangle(ray, t.V0, t.V1, t.V2, t.Normal, t.CullMode)
	if !ok {
		return HitRecord{}, false
	}

	return HitRecord{
		DidHit:        true,
		T:             tHit,
		Origin:        ray.At(tHit),
		Normal:        t.Normal,
		MaterialIndex: t.MaterialIndex,
	}, true
}

// HitAny reports whether the ray hits the triangle, honouring the same cull mode as Hit
func (t *Triangle) HitAny(ray core.Ray) bool {
	_, ok := intersectTriangle(ray, t.V0, t.V1, t.V2, t.Normal, t.CullMode)
	return ok
}

// intersectTriangle is the shared plane-then-inside test used by triangles and meshes.
// The normal is the triangle's face normal, which must be unit length.
func intersectTriangle(ray core.Ray, v0, v1, v2, normal core.Vec3, cull CullMode) (float64, bool) {
	denominator := normal.Dot(ray.Direction)

	// Parallel rays and degenerate (zero-normal) triangles never hit
	if math.Abs(denominator) < parallelEpsilon {
		return 0, false
	}

	if cull.culled(normal, ray.Direction) {
		return 0, false
	}

	t := v0.Subtract(ray.Origin).Dot(normal) / denominator
	if !ray.InRange(t) {
		return 0, false
	}

	// Point is inside when it lies on the same side of all three edges
	p := ray.At(t)
	c0 := v1.Subtract(v0).Cross(p.Subtract(v0)).Dot(normal)
	c1 := v2.Subtract(v1).Cross(p.Subtract(v1)).Dot(normal)
	c2 := v0.Subtract(v2).Cross(p.Subtract(v2)).Dot(normal)

	if (c0 >= 0 && c1 >= 0 && c2 >= 0) || (c0 <= 0 && c1 <= 0 && c2 <= 0) {
		return t, true
	}
	return 0, false
}
