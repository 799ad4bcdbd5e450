package core

import (
	"math"
	"testing"
)

func TestMatrix_FromBasis(t *testing.T) {
	right := NewVec3(0, 0, -1)
	up := UnitY
	forward := UnitX
	origin := NewVec3(10, 0, 0)
	m := NewMatrixFromBasis(right, up, forward, origin)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Vector X maps to right", m.TransformVector(UnitX), right},
		{"Vector Z maps to forward", m.TransformVector(UnitZ), forward},
		{"Vector ignores translation", m.TransformVector(NewVec3(0, 1, 0)), up},
		{"Point includes translation", m.TransformPoint(UnitZ), NewVec3(11, 0, 0)},
		{"Origin maps to translation", m.TransformPoint(Vec3{}), origin},
		{"Axis 3 is translation", m.Axis(3), origin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestMatrix_Rotation(t *testing.T) {
	tests := []struct {
		name             string
		pitch, yaw, roll float64
		vector, expected Vec3
	}{
		{"No rotation", 0, 0, 0, UnitX, UnitX},
		{"Yaw turns forward to the right", 0, math.Pi / 2, 0, UnitZ, UnitX},
		{"Yaw 180", 0, math.Pi, 0, UnitX, UnitX.Negate()},
		{"Pitch turns up to forward", math.Pi / 2, 0, 0, UnitY, UnitZ},
		{"Roll turns right to up", 0, 0, math.Pi / 2, UnitX, UnitY},
		{"Pitch applied before yaw", math.Pi / 2, math.Pi / 2, 0, UnitY, UnitX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CreateRotation(tt.pitch, tt.yaw, tt.roll).TransformVector(tt.vector)
			if result.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestMatrix_Composition(t *testing.T) {
	// T * R * S applied to a point: scale, then rotate, then translate
	world := CreateTranslation(NewVec3(0, 1, 0)).
		Mul(CreateRotationY(math.Pi / 2)).
		Mul(CreateScale(NewVec3(2, 2, 2)))

	got := world.TransformPoint(UnitZ)
	expected := NewVec3(2, 1, 0)
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	back := world.Inverse().TransformPoint(got)
	if back.Subtract(UnitZ).Length() > 1e-9 {
		t.Errorf("Inverse round trip: expected %v, got %v", UnitZ, back)
	}

	if !world.Mul(world.Inverse()).ApproxEqual(Identity(), 1e-9) {
		t.Error("M * M^-1 should be identity")
	}
}

func TestMatrix_InverseTransposeKeepsNormalsPerpendicular(t *testing.T) {
	world := CreateScale(NewVec3(4, 1, 1))
	// Plane through the origin tilted 45 degrees; tangent lies in the plane
	normal := NewVec3(1, 1, 0).Normalize()
	tangent := NewVec3(1, -1, 0)

	tTangent := world.TransformVector(tangent)
	tNormal := world.InverseTranspose().TransformVector(normal).Normalize()

	if d := tNormal.Dot(tTangent); math.Abs(d) > 1e-9 {
		t.Errorf("Transformed normal not perpendicular to surface: dot = %g", d)
	}

	naive := world.TransformVector(normal).Normalize()
	if math.Abs(naive.Dot(tTangent)) < 1e-3 {
		t.Error("Expected the plain transform to skew the normal under non-uniform scale")
	}
}
