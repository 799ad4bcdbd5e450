package scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ghodss/yaml"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/loaders"
	"github.com/df07/go-direct-raytracer/pkg/material"
)

// Description is a scene document loaded from YAML or JSON.
// Vectors and colors are written as three-element arrays.
type Description struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`

	Camera    *CameraDesc    `json:"camera,omitempty"`
	Materials []MaterialDesc `json:"materials,omitempty"`
	Spheres   []SphereDesc   `json:"spheres,omitempty"`
	Planes    []PlaneDesc    `json:"planes,omitempty"`
	Triangles []TriangleDesc `json:"triangles,omitempty"`
	Meshes    []MeshDesc     `json:"meshes,omitempty"`
	Lights    []LightDesc    `json:"lights,omitempty"`
}

// Vec is a three-element array: a position, direction or color
type Vec [3]float64

func (v Vec) vec3() core.Vec3       { return core.NewVec3(v[0], v[1], v[2]) }
func (v Vec) color() core.ColorRGB { return core.NewColor(v[0], v[1], v[2]) }

// CameraDesc places the scene camera. Forward defaults to +Z, fov to 90 degrees.
type CameraDesc struct {
	Origin  Vec     `json:"origin"`
	Fov     float64 `json:"fov,omitempty"`
	Forward *Vec    `json:"forward,omitempty"`
}

// MaterialDesc is a named material. Type is one of solid, lambert,
// lambert-phong or cook-torrance.
type MaterialDesc struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Color     Vec     `json:"color"`
	Kd        float64 `json:"kd,omitempty"`
	Ks        float64 `json:"ks,omitempty"`
	Exponent  float64 `json:"exponent,omitempty"`
	Metalness float64 `json:"metalness,omitempty"`
	Roughness float64 `json:"roughness,omitempty"`
}

type SphereDesc struct {
	Center   Vec     `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material,omitempty"`
}

type PlaneDesc struct {
	Point    Vec    `json:"point"`
	Normal   Vec    `json:"normal"`
	Material string `json:"material,omitempty"`
}

type TriangleDesc struct {
	V0       Vec    `json:"v0"`
	V1       Vec    `json:"v1"`
	V2       Vec    `json:"v2"`
	Cull     string `json:"cull,omitempty"`
	Material string `json:"material,omitempty"`
}

// RotationDesc holds Euler angles in degrees
type RotationDesc struct {
	Pitch float64 `json:"pitch,omitempty"`
	Yaw   float64 `json:"yaw,omitempty"`
	Roll  float64 `json:"roll,omitempty"`
}

// MeshDesc describes a triangle mesh, either loaded from File (OBJ or PLY,
// relative to the description file) or given inline as Positions and Indices.
type MeshDesc struct {
	File      string        `json:"file,omitempty"`
	Positions []Vec         `json:"positions,omitempty"`
	Indices   []int         `json:"indices,omitempty"`
	Cull      string        `json:"cull,omitempty"`
	Material  string        `json:"material,omitempty"`
	Translate *Vec          `json:"translate,omitempty"`
	Rotate    *RotationDesc `json:"rotate,omitempty"`
	Scale     *Vec          `json:"scale,omitempty"`
}

// LightDesc describes a point or directional light. Color defaults to white.
type LightDesc struct {
	Type      string  `json:"type"`
	Origin    Vec     `json:"origin,omitempty"`
	Direction Vec     `json:"direction,omitempty"`
	Intensity float64 `json:"intensity"`
	Color     *Vec    `json:"color,omitempty"`
}

// ParseDescription decodes a YAML or JSON scene document
func ParseDescription(data []byte) (*Description, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("scene: parse description: %w", err)
	}
	return &desc, nil
}

// LoadDescription reads a scene document from disk
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	desc, err := ParseDescription(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}

// LoadFile loads a description file and builds its scene. Mesh files are
// resolved relative to the description's directory.
func LoadFile(path string) (*Scene, error) {
	desc, err := LoadDescription(path)
	if err != nil {
		return nil, err
	}
	if desc.Name == "" {
		desc.Name = titleCase(trimExt(filepath.Base(path)))
	}
	s, err := desc.Build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("scene: build %s: %w", path, err)
	}
	return s, nil
}

// Build constructs the scene. Every material reference is resolved before any
// geometry is created, so a bad reference returns ErrInvalidMaterialIndex
// without a partially built scene.
func (d *Description) Build(baseDir string) (*Scene, error) {
	s := New(d.Name)

	names := map[string]core.MaterialIndex{"": 0, "default": 0}
	mats := make([]material.Material, 0, len(d.Materials))
	for i, md := range d.Materials {
		m, err := md.build()
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		if md.Name != "" {
			names[md.Name] = core.MaterialIndex(i + 1)
		}
		mats = append(mats, m)
	}
	materialCount := len(mats) + 1

	// References are names, or plain indices where 0 is the default red material
	resolve := func(ref string) (core.MaterialIndex, error) {
		if idx, ok := names[ref]; ok {
			return idx, nil
		}
		if n, err := strconv.Atoi(ref); err == nil && n >= 0 && n < materialCount {
			return core.MaterialIndex(n), nil
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaterialIndex, ref)
	}

	sphereMats := make([]core.MaterialIndex, len(d.Spheres))
	for i, sd := range d.Spheres {
		idx, err := resolve(sd.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		sphereMats[i] = idx
	}
	planeMats := make([]core.MaterialIndex, len(d.Planes))
	for i, pd := range d.Planes {
		idx, err := resolve(pd.Material)
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		planeMats[i] = idx
	}
	triangleMats := make([]core.MaterialIndex, len(d.Triangles))
	for i, td := range d.Triangles {
		idx, err := resolve(td.Material)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		triangleMats[i] = idx
	}
	meshMats := make([]core.MaterialIndex, len(d.Meshes))
	for i, md := range d.Meshes {
		idx, err := resolve(md.Material)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		meshMats[i] = idx
	}

	for _, m := range mats {
		s.AddMaterial(m)
	}

	if d.Camera != nil {
		fov := d.Camera.Fov
		if fov <= 0 {
			fov = 90
		}
		s.Camera = geometry.NewCamera(d.Camera.Origin.vec3(), fov)
		if d.Camera.Forward != nil {
			forward := d.Camera.Forward.vec3().Normalize()
			if forward.LengthSquared() == 0 {
				return nil, fmt.Errorf("camera: zero forward vector")
			}
			s.Camera.Forward = forward
		}
	}

	for i, sd := range d.Spheres {
		if sd.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %g", i, sd.Radius)
		}
		s.AddSphere(sd.Center.vec3(), sd.Radius, sphereMats[i])
	}
	for i, pd := range d.Planes {
		if pd.Normal.vec3().LengthSquared() == 0 {
			return nil, fmt.Errorf("plane %d: zero normal", i)
		}
		s.AddPlane(pd.Point.vec3(), pd.Normal.vec3(), planeMats[i])
	}
	for i, td := range d.Triangles {
		cull, err := geometry.ParseCullMode(td.Cull)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		s.AddTriangle(td.V0.vec3(), td.V1.vec3(), td.V2.vec3(), cull, triangleMats[i])
	}
	for i, md := range d.Meshes {
		mesh, err := md.build(baseDir, meshMats[i])
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		s.AddTriangleMesh(mesh)
	}
	for i, ld := range d.Lights {
		if err := ld.add(s); err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
	}

	return s, nil
}

func (md MaterialDesc) build() (material.Material, error) {
	color := md.Color.color()
	switch md.Type {
	case "solid", "":
		return material.NewSolidColor(color), nil
	case "lambert":
		return material.NewLambert(color, orDefault(md.Kd, 1)), nil
	case "lambert-phong":
		return material.NewLambertPhong(color, orDefault(md.Kd, 1), md.Ks, orDefault(md.Exponent, 1)), nil
	case "cook-torrance":
		return material.NewCookTorrance(color, md.Metalness, md.Roughness), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", md.Type)
	}
}

func (md MeshDesc) build(baseDir string, mat core.MaterialIndex) (*geometry.TriangleMesh, error) {
	cull, err := geometry.ParseCullMode(md.Cull)
	if err != nil {
		return nil, err
	}

	var positions []core.Vec3
	var indices []int
	var normals []core.Vec3
	switch {
	case md.File != "":
		path := md.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := loaders.LoadMesh(path)
		if err != nil {
			return nil, err
		}
		positions, indices, normals = data.Positions, data.Indices, data.Normals
	case len(md.Positions) > 0:
		if len(md.Indices)%3 != 0 {
			return nil, fmt.Errorf("index count %d is not a multiple of 3", len(md.Indices))
		}
		positions = make([]core.Vec3, len(md.Positions))
		for i, p := range md.Positions {
			positions[i] = p.vec3()
		}
		for _, idx := range md.Indices {
			if idx < 0 || idx >= len(positions) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
			}
		}
		indices = md.Indices
	default:
		return nil, fmt.Errorf("mesh needs a file or inline positions")
	}

	mesh := geometry.NewTriangleMesh(positions, indices, normals, cull, mat)
	if md.Scale != nil {
		mesh.SetScale(md.Scale.vec3())
	}
	if md.Rotate != nil {
		mesh.SetRotation(degToRad(md.Rotate.Pitch), degToRad(md.Rotate.Yaw), degToRad(md.Rotate.Roll))
	}
	if md.Translate != nil {
		mesh.SetTranslation(md.Translate.vec3())
	}
	return mesh, nil
}

func (ld LightDesc) add(s *Scene) error {
	lightType, err := lights.ParseLightType(ld.Type)
	if err != nil {
		return err
	}
	color := core.White
	if ld.Color != nil {
		color = ld.Color.color()
	}
	switch lightType {
	case lights.LightTypeDirectional:
		if ld.Direction.vec3().LengthSquared() == 0 {
			return fmt.Errorf("directional light needs a direction")
		}
		s.AddDirectionalLight(ld.Direction.vec3(), ld.Intensity, color)
	default:
		s.AddPointLight(ld.Origin.vec3(), ld.Intensity, color)
	}
	return nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
