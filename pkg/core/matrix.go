package core

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Matrix is a 4x4 affine transform acting on column vectors.
// Storage and the heavy lifting (composition, inversion) are delegated to mgl64.
type Matrix struct {
	m mgl64.Mat4
}

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{m: mgl64.Ident4()}
}

// NewMatrixFromBasis builds a transform whose columns are the given basis
// vectors and translation, mapping local X/Y/Z onto right/up/forward.
func NewMatrixFromBasis(right, up, forward, translation Vec3) Matrix {
	return Matrix{m: mgl64.Mat4FromCols(
		mgl64.Vec4{right.X, right.Y, right.Z, 0},
		mgl64.Vec4{up.X, up.Y, up.Z, 0},
		mgl64.Vec4{forward.X, forward.Y, forward.Z, 0},
		mgl64.Vec4{translation.X, translation.Y, translation.Z, 1},
	)}
}

// CreateTranslation returns a translation transform
func CreateTranslation(t Vec3) Matrix {
	return Matrix{m: mgl64.Translate3D(t.X, t.Y, t.Z)}
}

// CreateScale returns a non-uniform scale transform
func CreateScale(s Vec3) Matrix {
	return Matrix{m: mgl64.Scale3D(s.X, s.Y, s.Z)}
}

// CreateRotationX returns a rotation around the X axis (radians)
func CreateRotationX(pitch float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DX(pitch)}
}

// CreateRotationY returns a rotation around the Y axis (radians)
func CreateRotationY(yaw float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DY(yaw)}
}

// CreateRotationZ returns a rotation around the Z axis (radians)
func CreateRotationZ(roll float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DZ(roll)}
}

// CreateRotation returns the rotation that applies pitch (X) first, then yaw (Y), then roll (Z)
func CreateRotation(pitch, yaw, roll float64) Matrix {
	return CreateRotationZ(roll).Mul(CreateRotationY(yaw)).Mul(CreateRotationX(pitch))
}

// Mul composes two transforms; the result applies other first, then m
func (m Matrix) Mul(other Matrix) Matrix {
	return Matrix{m: m.m.Mul4(other.m)}
}

// TransformPoint applies the full transform, translation included
func (m Matrix) TransformPoint(p Vec3) Vec3 {
	r := m.m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return Vec3{r[0], r[1], r[2]}
}

// TransformVector applies the linear part only, ignoring translation
func (m Matrix) TransformVector(v Vec3) Vec3 {
	r := m.m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 0})
	return Vec3{r[0], r[1], r[2]}
}

// Transform applies the matrix to a homogeneous vector
func (m Matrix) Transform(v Vec4) Vec4 {
	r := m.m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, v.W})
	return Vec4{r[0], r[1], r[2], r[3]}
}

// Inverse returns the inverse transform. A singular matrix yields the zero matrix.
func (m Matrix) Inverse() Matrix {
	return Matrix{m: m.m.Inv()}
}

// Transpose returns the transposed matrix
func (m Matrix) Transpose() Matrix {
	return Matrix{m: m.m.Transpose()}
}

// InverseTranspose returns the matrix used to transform surface normals
func (m Matrix) InverseTranspose() Matrix {
	return m.Inverse().Transpose()
}

// Axis returns column i (0 = X/right, 1 = Y/up, 2 = Z/forward, 3 = translation)
func (m Matrix) Axis(i int) Vec3 {
	c := m.m.Col(i)
	return Vec3{c[0], c[1], c[2]}
}

// At returns the element at row, col
func (m Matrix) At(row, col int) float64 {
	return m.m.At(row, col)
}

// ApproxEqual compares two matrices element-wise within eps
func (m Matrix) ApproxEqual(other Matrix, eps float64) bool {
	return m.m.ApproxEqualThreshold(other.m, eps)
}
