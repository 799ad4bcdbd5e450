package geometry

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Camera generates primary rays from a pinhole at Origin looking along Forward
type Camera struct {
	Origin   core.Vec3
	FovAngle float64   // Vertical field of view in degrees
	Forward  core.Vec3 // Unit view direction

	TotalPitch float64
	TotalYaw   float64
}

// NewCamera creates a camera looking down +Z
func NewCamera(origin core.Vec3, fovAngle float64) *Camera {
	return &Camera{
		Origin:   origin,
		FovAngle: fovAngle,
		Forward:  core.UnitZ,
	}
}

// Basis returns the right, up and forward unit vectors of the camera
func (c *Camera) Basis() (right, up, forward core.Vec3) {
	forward = c.Forward.Normalize()
	right = core.UnitY.Cross(forward).Normalize()
	if right.LengthSquared() == 0 {
		// Looking straight up or down: any horizontal right vector works
		right = core.UnitX
	}
	up = forward.Cross(right).Normalize()
	return right, up, forward
}

// CameraToWorld returns the transform from camera space to world space
func (c *Camera) CameraToWorld() core.Matrix {
	right, up, forward := c.Basis()
	return core.NewMatrixFromBasis(right, up, forward, c.Origin)
}

// FovScale returns tan(fov/2)
func (c *Camera) FovScale() float64 {
	return math.Tan(c.FovAngle * math.Pi / 180 / 2)
}

// Move translates the camera along its own right/up/forward axes
func (c *Camera) Move(rightAmount, upAmount, forwardAmount float64) {
	right, up, forward := c.Basis()
	c.Origin = c.Origin.
		Add(right.Multiply(rightAmount)).
		Add(up.Multiply(upAmount)).
		Add(forward.Multiply(forwardAmount))
}

// Rotate accumulates pitch and yaw (radians) and recomputes Forward from them
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.TotalPitch += deltaPitch
	c.TotalYaw += deltaYaw
	c.Forward = core.CreateRotation(c.TotalPitch, c.TotalYaw, 0).TransformVector(core.UnitZ).Normalize()
}

// CameraRays maps pixels to world-space primary rays for a fixed image size.
// It snapshots the camera transform so it can be shared by render workers.
type CameraRays struct {
	origin        core.Vec3
	cameraToWorld core.Matrix
	width, height int
	aspect        float64
	fovScale      float64
}

// NewCameraRays snapshots the camera for an image of the given size
func (c *Camera) NewCameraRays(width, height int) CameraRays {
	return CameraRays{
		origin:        c.Origin,
		cameraToWorld: c.CameraToWorld(),
		width:         width,
		height:        height,
		aspect:        float64(width) / float64(height),
		fovScale:      c.FovScale(),
	}
}

// Direction returns the normalized world-space direction through the center of pixel (px, py).
// Pixel (0, 0) is the top-left corner.
func (cr CameraRays) Direction(px, py int) core.Vec3 {
	x := (2*(float64(px)+0.5)/float64(cr.width) - 1) * cr.aspect * cr.fovScale
	y := (1 - 2*(float64(py)+0.5)/float64(cr.height)) * cr.fovScale
	return cr.cameraToWorld.TransformVector(core.NewVec3(x, y, 1)).Normalize()
}

// Ray returns the primary ray through pixel (px, py)
func (cr CameraRays) Ray(px, py int) core.Ray {
	return core.NewRay(cr.origin, cr.Direction(px, py))
}
