package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/material"
)

// ErrInvalidMaterialIndex is reported when geometry refers to a material the scene does not own
var ErrInvalidMaterialIndex = errors.New("invalid material index")

// Updater is an animation hook run between frames
type Updater func(timer core.Timer)

// Scene owns all geometry, lights and materials. Geometry refers to materials
// by index into the scene's material list.
//
// ClosestHit and DoesHit only read scene state and may be called from many
// render workers at once. Adding geometry and running Update must happen
// between render passes.
type Scene struct {
	Name   string
	Camera *geometry.Camera

	materials []material.Material
	spheres   []*geometry.Sphere
	planes    []*geometry.Plane
	triangles []*geometry.Triangle
	meshes    []*geometry.TriangleMesh
	lights    []lights.Light
	updaters  []Updater
}

// New creates an empty scene. Material 0 is always a red solid color.
func New(name string) *Scene {
	return &Scene{
		Name:      name,
		Camera:    geometry.NewCamera(core.Vec3{}, 90),
		materials: []material.Material{material.NewSolidColor(core.Red)},
	}
}

// AddMaterial appends a material and returns its index
func (s *Scene) AddMaterial(m material.Material) core.MaterialIndex {
	s.materials = append(s.materials, m)
	return core.MaterialIndex(len(s.materials) - 1)
}

// checkMaterial panics when idx does not name a material of this scene.
// Such a reference is a scene construction bug, so it fails fast.
func (s *Scene) checkMaterial(idx core.MaterialIndex) {
	if err := s.validMaterial(idx); err != nil {
		panic(err)
	}
}

func (s *Scene) validMaterial(idx core.MaterialIndex) error {
	if int(idx) >= len(s.materials) {
		return fmt.Errorf("%w: %d (scene has %d materials)", ErrInvalidMaterialIndex, idx, len(s.materials))
	}
	return nil
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, materialIndex core.MaterialIndex) *geometry.Sphere {
	s.checkMaterial(materialIndex)
	sphere := geometry.NewSphere(center, radius, materialIndex)
	s.spheres = append(s.spheres, sphere)
	return sphere
}

// AddPlane adds an infinite plane; the normal is normalized
func (s *Scene) AddPlane(point, normal core.Vec3, materialIndex core.MaterialIndex) *geometry.Plane {
	s.checkMaterial(materialIndex)
	plane := geometry.NewPlane(point, normal, materialIndex)
	s.planes = append(s.planes, plane)
	return plane
}

// AddTriangle adds a standalone triangle
func (s *Scene) AddTriangle(v0, v1, v2 core.Vec3, cullMode geometry.CullMode, materialIndex core.MaterialIndex) *geometry.Triangle {
	s.checkMaterial(materialIndex)
	triangle := geometry.NewTriangle(v0, v1, v2, cullMode, materialIndex)
	s.triangles = append(s.triangles, triangle)
	return triangle
}

// AddTriangleMesh adds an existing mesh to the scene
func (s *Scene) AddTriangleMesh(mesh *geometry.TriangleMesh) *geometry.TriangleMesh {
	s.checkMaterial(mesh.MaterialIndex)
	s.meshes = append(s.meshes, mesh)
	return mesh
}

// AddPointLight adds a point light
func (s *Scene) AddPointLight(origin core.Vec3, intensity float64, color core.ColorRGB) {
	s.lights = append(s.lights, lights.NewPointLight(origin, intensity, color))
}

// AddDirectionalLight adds a light travelling along direction
func (s *Scene) AddDirectionalLight(direction core.Vec3, intensity float64, color core.ColorRGB) {
	s.lights = append(s.lights, lights.NewDirectionalLight(direction, intensity, color))
}

// AddUpdater registers an animation hook run by Update
func (s *Scene) AddUpdater(u Updater) {
	s.updaters = append(s.updaters, u)
}

// Update runs the animation hooks. Must not overlap with rendering.
func (s *Scene) Update(timer core.Timer) {
	for _, u := range s.updaters {
		u(timer)
	}
}

// Animated reports whether the scene has animation hooks
func (s *Scene) Animated() bool {
	return len(s.updaters) > 0
}

// Material returns the material at idx
func (s *Scene) Material(idx core.MaterialIndex) material.Material {
	return s.materials[idx]
}

// Materials returns the material list
func (s *Scene) Materials() []material.Material { return s.materials }

// Lights returns the scene lights
func (s *Scene) Lights() []lights.Light { return s.lights }

// Spheres returns the scene spheres
func (s *Scene) Spheres() []*geometry.Sphere { return s.spheres }

// Planes returns the scene planes
func (s *Scene) Planes() []*geometry.Plane { return s.planes }

// Triangles returns the standalone triangles
func (s *Scene) Triangles() []*geometry.Triangle { return s.triangles }

// Meshes returns the triangle meshes
func (s *Scene) Meshes() []*geometry.TriangleMesh { return s.meshes }

// PrimitiveCount returns the total number of primitives, counting each mesh triangle
func (s *Scene) PrimitiveCount() int {
	count := len(s.spheres) + len(s.planes) + len(s.triangles)
	for _, mesh := range s.meshes {
		count += mesh.TriangleCount()
	}
	return count
}

// Validate checks that every primitive refers to an existing material
func (s *Scene) Validate() error {
	for i, sphere := range s.spheres {
		if err := s.validMaterial(sphere.MaterialIndex); err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
	}
	for i, plane := range s.planes {
		if err := s.validMaterial(plane.MaterialIndex); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	for i, triangle := range s.triangles {
		if err := s.validMaterial(triangle.MaterialIndex); err != nil {
			return fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	for i, mesh := range s.meshes {
		if err := s.validMaterial(mesh.MaterialIndex); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
	}
	return nil
}

// ClosestHit finds the nearest intersection along the ray across every primitive.
// Spheres, triangles, meshes and planes are scanned in that order against a
// single running best, kept by narrowing the ray's Max to the nearest t so far.
func (s *Scene) ClosestHit(ray core.Ray) (geometry.HitRecord, bool) {
	var closest geometry.HitRecord

	consider := func(shape geometry.Shape) {
		if hit, ok := shape.Hit(ray); ok {
			closest = hit
			ray.Max = hit.T
		}
	}

	for _, sphere := range s.spheres {
		consider(sphere)
	}
	for _, triangle := range s.triangles {
		consider(triangle)
	}
	for _, mesh := range s.meshes {
		consider(mesh)
	}
	for _, plane := range s.planes {
		consider(plane)
	}

	return closest, closest.DidHit
}

// DoesHit reports whether anything intersects the ray inside its interval.
// Used for shadow rays; returns on the first hit found.
func (s *Scene) DoesHit(ray core.Ray) bool {
	for _, sphere := range s.spheres {
		if sphere.HitAny(ray) {
			return true
		}
	}
	for _, triangle := range s.triangles {
		if triangle.HitAny(ray) {
			return true
		}
	}
	for _, mesh := range s.meshes {
		if mesh.HitAny(ray) {
			return true
		}
	}
	for _, plane := range s.planes {
		if plane.HitAny(ray) {
			return true
		}
	}
	return false
}
