package geometry

import (
	"fmt"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// TriangleMesh is an indexed triangle list with a single material and cull mode.
// Local-space buffers are never intersected directly: every transform setter
// recomputes the world matrix and the world-space buffers before returning,
// so the buffers used by Hit always match the current transform.
type TriangleMesh struct {
	positions     []core.Vec3 // Local-space vertex positions
	normals       []core.Vec3 // Local-space face normals, one per triangle
	indices       []int       // Triangle vertex indices, three per triangle
	CullMode      CullMode
	MaterialIndex core.MaterialIndex

	translation core.Vec3
	rotation    core.Vec3 // Pitch, yaw, roll in radians
	scale       core.Vec3
	world       core.Matrix

	transformedPositions []core.Vec3
	transformedNormals   []core.Vec3
}

// NewTriangleMesh creates a mesh from vertices and face indices.
// normals holds one face normal per triangle; when nil they are computed from the winding order.
// Panics if indices is not a multiple of 3, an index is out of range, or the normal count is wrong.
func NewTriangleMesh(positions []core.Vec3, indices []int, normals []core.Vec3, cullMode CullMode, materialIndex core.MaterialIndex) *TriangleMesh {
	if len(indices)%3 != 0 {
		panic("Face indices must be a multiple of 3")
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(positions) {
			panic(fmt.Sprintf("Face index %d out of bounds (%d vertices)", idx, len(positions)))
		}
	}

	numTriangles := len(indices) / 3
	if normals == nil {
		normals = make([]core.Vec3, numTriangles)
		for i := 0; i < numTriangles; i++ {
			normals[i] = faceNormal(positions[indices[i*3]], positions[indices[i*3+1]], positions[indices[i*3+2]])
		}
	} else if len(normals) != numTriangles {
		panic("Number of normals must match number of triangles")
	}

	mesh := &TriangleMesh{
		positions:     append([]core.Vec3(nil), positions...),
		normals:       append([]core.Vec3(nil), normals...),
		indices:       append([]int(nil), indices...),
		CullMode:      cullMode,
		MaterialIndex: materialIndex,
		scale:         core.NewVec3(1, 1, 1),
	}
	mesh.UpdateTransforms()
	return mesh
}

// Translate moves the mesh by delta, relative to its current translation
func (tm *TriangleMesh) Translate(delta core.Vec3) {
	tm.translation = tm.translation.Add(delta)
	tm.UpdateTransforms()
}

// SetTranslation places the mesh at an absolute translation
func (tm *TriangleMesh) SetTranslation(translation core.Vec3) {
	tm.translation = translation
	tm.UpdateTransforms()
}

// SetRotation sets the absolute rotation (radians) applied as pitch, then yaw, then roll
func (tm *TriangleMesh) SetRotation(pitch, yaw, roll float64) {
	tm.rotation = core.NewVec3(pitch, yaw, roll)
	tm.UpdateTransforms()
}

// RotateY sets the absolute yaw (radians), leaving pitch and roll untouched
func (tm *TriangleMesh) RotateY(yaw float64) {
	tm.rotation.Y = yaw
	tm.UpdateTransforms()
}

// SetScale sets the absolute per-axis scale
func (tm *TriangleMesh) SetScale(scale core.Vec3) {
	tm.scale = scale
	tm.UpdateTransforms()
}

// Translation returns the current translation
func (tm *TriangleMesh) Translation() core.Vec3 { return tm.translation }

// Rotation returns pitch, yaw and roll in radians
func (tm *TriangleMesh) Rotation() core.Vec3 { return tm.rotation }

// Scale returns the current scale
func (tm *TriangleMesh) Scale() core.Vec3 { return tm.scale }

// World returns the world transform T * R * S
func (tm *TriangleMesh) World() core.Matrix { return tm.world }

// UpdateTransforms rebuilds the world matrix and the world-space buffers.
// Setters call it already; calling it again is harmless.
func (tm *TriangleMesh) UpdateTransforms() {
	tm.world = core.CreateTranslation(tm.translation).
		Mul(core.CreateRotation(tm.rotation.X, tm.rotation.Y, tm.rotation.Z)).
		Mul(core.CreateScale(tm.scale))

	if cap(tm.transformedPositions) < len(tm.positions) {
		tm.transformedPositions = make([]core.Vec3, len(tm.positions))
	}
	tm.transformedPositions = tm.transformedPositions[:len(tm.positions)]
	for i, p := range tm.positions {
		tm.transformedPositions[i] = tm.world.TransformPoint(p)
	}

	normalMatrix := tm.world.InverseTranspose()
	if cap(tm.transformedNormals) < len(tm.normals) {
		tm.transformedNormals = make([]core.Vec3, len(tm.normals))
	}
	tm.transformedNormals = tm.transformedNormals[:len(tm.normals)]
	for i, n := range tm.normals {
		tm.transformedNormals[i] = normalMatrix.TransformVector(n).Normalize()
	}
}

// AppendTriangle adds a triangle given in local space. Only the new triangle is
// transformed; the existing world-space buffers stay valid.
func (tm *TriangleMesh) AppendTriangle(tri *Triangle) {
	start := len(tm.positions)
	tm.positions = append(tm.positions, tri.V0, tri.V1, tri.V2)
	tm.indices = append(tm.indices, start, start+1, start+2)
	tm.normals = append(tm.normals, tri.Normal)

	tm.transformedPositions = append(tm.transformedPositions,
		tm.world.TransformPoint(tri.V0),
		tm.world.TransformPoint(tri.V1),
		tm.world.TransformPoint(tri.V2))
	tm.transformedNormals = append(tm.transformedNormals,
		tm.world.InverseTranspose().TransformVector(tri.Normal).Normalize())
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.indices) / 3
}

// VertexCount returns the number of vertices in this mesh
func (tm *TriangleMesh) VertexCount() int {
	return len(tm.positions)
}

// TransformedTriangle returns the world-space vertices and normal of triangle i
func (tm *TriangleMesh) TransformedTriangle(i int) (v0, v1, v2, normal core.Vec3) {
	p := tm.transformedPositions
	return p[tm.indices[i*3]], p[tm.indices[i*3+1]], p[tm.indices[i*3+2]], tm.transformedNormals[i]
}

// TransformedPositions returns the world-space vertex buffer (read-only)
func (tm *TriangleMesh) TransformedPositions() []core.Vec3 {
	return tm.transformedPositions
}

// TransformedNormals returns the world-space face normals (read-only)
func (tm *TriangleMesh) TransformedNormals() []core.Vec3 {
	return tm.transformedNormals
}

// Hit returns the nearest intersection across all triangles in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray) (HitRecord, bool) {
	closest := -1
	for i := 0; i < tm.TriangleCount(); i++ {
		v0, v1, v2, n := tm.TransformedTriangle(i)
		if t, ok := intersectTriangle(ray, v0, v1, v2, n, tm.CullMode); ok {
			// Narrow the interval so later triangles must be nearer
			ray.Max = t
			closest = i
		}
	}
	if closest < 0 {
		return HitRecord{}, false
	}

	return HitRecord{
		DidHit:        true,
		T:             ray.Max,
		Origin:        ray.At(ray.Max),
		Normal:        tm.transformedNormals[closest],
		MaterialIndex: tm.MaterialIndex,
	}, true
}

// HitAny returns true on the first triangle the ray hits
func (tm *TriangleMesh) HitAny(ray core.Ray) bool {
	for i := 0; i < tm.TriangleCount(); i++ {
		v0, v1, v2, n := tm.TransformedTriangle(i)
		if _, ok := intersectTriangle(ray, v0, v1, v2, n, tm.CullMode); ok {
			return true
		}
	}
	return false
}
