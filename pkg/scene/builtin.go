package scene

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/loaders"
	"github.com/df07/go-direct-raytracer/pkg/material"
)

//go:embed assets/simple_cube.obj
var simpleCubeOBJ []byte

// builtinScene describes a scene constructed in code
type builtinScene struct {
	ID          string
	Name        string
	Description string
	Build       func() *Scene
}

var builtinScenes = []builtinScene{
	{"single-sphere", "Single Sphere", "Red sphere lit by a directional light along +Z", NewSingleSphereScene},
	{"solid-colors", "Solid Colors", "Two spheres inside a box of solid-colored planes", NewSolidColorsScene},
	{"sphere-room", "Sphere Room", "Six solid-colored spheres in a room with one point light", NewSphereRoomScene},
	{"cook-torrance", "Cook-Torrance", "Metal and plastic spheres at three roughness levels", NewCookTorranceScene},
	{"phong", "Lambert vs Phong", "Lambert and Lambert-Phong spheres on a yellow floor", NewPhongScene},
	{"cube", "Spinning Cube", "Back-face culled cube mesh rotating over time", NewCubeScene},
	{"reference", "Reference Scene", "Cook-Torrance grid with three culling test triangles", NewReferenceScene},
}

// Reusable colors from the demo scenes
var (
	grayBlue     = core.NewColor(0.49, 0.57, 0.57)
	silverMetal  = core.NewColor(0.972, 0.960, 0.915)
	grayPlastic  = core.NewColor(0.75, 0.75, 0.75)
	backLight    = core.NewColor(1, 0.61, 0.45)
	frontLight   = core.NewColor(1, 0.8, 0.45)
	blueishLight = core.NewColor(0.34, 0.47, 0.68)
)

// NewSingleSphereScene creates a red sphere at (0,0,100) with radius 50, seen from the origin
func NewSingleSphereScene() *Scene {
	s := New("Single Sphere")
	s.Camera = geometry.NewCamera(core.Vec3{}, 90)

	s.AddSphere(core.NewVec3(0, 0, 100), 50, 0)
	s.AddDirectionalLight(core.UnitZ, 5, core.White)
	return s
}

// NewSolidColorsScene creates two overlapping spheres inside a box of planes
func NewSolidColorsScene() *Scene {
	s := New("Solid Colors")
	s.Camera = geometry.NewCamera(core.Vec3{}, 90)

	const matRed = 0
	matBlue := s.AddMaterial(material.NewSolidColor(core.Blue))
	matYellow := s.AddMaterial(material.NewSolidColor(core.Yellow))
	matGreen := s.AddMaterial(material.NewSolidColor(core.Green))
	matMagenta := s.AddMaterial(material.NewSolidColor(core.Magenta))

	s.AddSphere(core.NewVec3(-25, 0, 100), 50, matRed)
	s.AddSphere(core.NewVec3(25, 0, 100), 50, matBlue)

	s.AddPlane(core.NewVec3(-75, 0, 0), core.NewVec3(1, 0, 0), matGreen)
	s.AddPlane(core.NewVec3(75, 0, 0), core.NewVec3(-1, 0, 0), matGreen)
	s.AddPlane(core.NewVec3(0, -75, 0), core.NewVec3(0, 1, 0), matYellow)
	s.AddPlane(core.NewVec3(0, 75, 0), core.NewVec3(0, -1, 0), matYellow)
	s.AddPlane(core.NewVec3(0, 0, 125), core.NewVec3(0, 0, -1), matMagenta)

	// Light at the eye so every visible surface faces it
	s.AddPointLight(core.Vec3{}, 10000, core.White)
	return s
}

// NewSphereRoomScene creates six alternating red and blue spheres in a room
func NewSphereRoomScene() *Scene {
	s := New("Sphere Room")
	s.Camera = geometry.NewCamera(core.NewVec3(0, 3, -9), 45)

	const matRed = 0
	matBlue := s.AddMaterial(material.NewSolidColor(core.Blue))
	matYellow := s.AddMaterial(material.NewSolidColor(core.Yellow))
	matGreen := s.AddMaterial(material.NewSolidColor(core.Green))
	matMagenta := s.AddMaterial(material.NewSolidColor(core.Magenta))

	s.AddPlane(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), matGreen)
	s.AddPlane(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), matGreen)
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), matYellow)
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), matYellow)
	s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), matMagenta)

	addSphereGrid(s, [6]core.MaterialIndex{matRed, matBlue, matRed, matBlue, matRed, matBlue})

	s.AddPointLight(core.NewVec3(0, 5, -5), 70, core.White)
	return s
}

// NewCookTorranceScene creates metal (bottom row) and plastic (top row) spheres
// at decreasing roughness from left to right
func NewCookTorranceScene() *Scene {
	s := New("Cook-Torrance")
	s.Camera = geometry.NewCamera(core.NewVec3(0, 3, -9), 45)

	matWalls := s.AddMaterial(material.NewLambert(grayBlue, 1))
	addRoom(s, matWalls)
	addSphereGrid(s, addCookTorranceMaterials(s))
	addThreePointLights(s)
	return s
}

// NewPhongScene compares a plain Lambert sphere with a Lambert-Phong sphere
func NewPhongScene() *Scene {
	s := New("Lambert vs Phong")
	s.Camera = geometry.NewCamera(core.NewVec3(0, 1, -5), 45)

	matRed := s.AddMaterial(material.NewLambert(core.Red, 1))
	matBlue := s.AddMaterial(material.NewLambertPhong(core.Blue, 1, 1, 60))
	matYellow := s.AddMaterial(material.NewLambert(core.Yellow, 1))

	s.AddSphere(core.NewVec3(-0.75, 1, 0), 1, matRed)
	s.AddSphere(core.NewVec3(0.75, 1, 0), 1, matBlue)
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), matYellow)

	s.AddPointLight(core.NewVec3(0, 5, 5), 25, core.White)
	s.AddPointLight(core.NewVec3(0, 5, -5), 25, core.White)
	return s
}

// NewCubeScene creates a back-face culled cube mesh that spins around Y at π rad/s
func NewCubeScene() *Scene {
	s := New("Spinning Cube")
	s.Camera = geometry.NewCamera(core.NewVec3(0, 1, -5), 45)

	matWalls := s.AddMaterial(material.NewLambert(grayBlue, 1))
	matWhite := s.AddMaterial(material.NewLambert(core.White, 1))
	addRoom(s, matWalls)

	data, err := loaders.ParseOBJ(bytes.NewReader(simpleCubeOBJ))
	if err != nil {
		panic(fmt.Sprintf("embedded cube mesh: %v", err))
	}
	cube := s.AddTriangleMesh(geometry.NewTriangleMesh(data.Positions, data.Indices, data.Normals, geometry.BackFaceCulling, matWhite))
	cube.SetScale(core.NewVec3(0.7, 0.7, 0.7))
	cube.Translate(core.NewVec3(0, 1, 0))

	s.AddUpdater(func(timer core.Timer) {
		cube.RotateY(math.Pi * timer.Total())
	})

	addThreePointLights(s)
	return s
}

// NewReferenceScene creates the Cook-Torrance grid plus three triangles using
// back-face, front-face and no culling, all swinging around Y over time
func NewReferenceScene() *Scene {
	s := New("Reference Scene")
	s.Camera = geometry.NewCamera(core.NewVec3(0, 3, -9), 45)

	grid := addCookTorranceMaterials(s)
	matWalls := s.AddMaterial(material.NewLambert(grayBlue, 1))
	matWhite := s.AddMaterial(material.NewLambert(core.White, 1))

	addRoom(s, matWalls)
	addSphereGrid(s, grid)

	base := geometry.NewTriangle(core.NewVec3(-0.75, 1.5, 0), core.NewVec3(0.75, 0, 0), core.NewVec3(-0.75, 0, 0), geometry.NoCulling, matWhite)
	placements := []struct {
		cull geometry.CullMode
		x    float64
	}{
		{geometry.BackFaceCulling, -1.75},
		{geometry.FrontFaceCulling, 0},
		{geometry.NoCulling, 1.75},
	}

	meshes := make([]*geometry.TriangleMesh, 0, len(placements))
	for _, p := range placements {
		mesh := geometry.NewTriangleMesh(nil, nil, nil, p.cull, matWhite)
		mesh.AppendTriangle(base)
		mesh.Translate(core.NewVec3(p.x, 4.5, 0))
		meshes = append(meshes, s.AddTriangleMesh(mesh))
	}

	s.AddUpdater(func(timer core.Timer) {
		yaw := (math.Cos(timer.Total()) + 1) / 2 * 2 * math.Pi
		for _, mesh := range meshes {
			mesh.RotateY(yaw)
		}
	})

	addThreePointLights(s)
	return s
}

// addRoom adds the five walls of the demo room (open toward the camera)
func addRoom(s *Scene, mat core.MaterialIndex) {
	s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), mat) // back
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), mat)   // bottom
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), mat) // top
	s.AddPlane(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), mat)  // right
	s.AddPlane(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), mat)  // left
}

// addCookTorranceMaterials adds rough/medium/smooth metals then plastics
func addCookTorranceMaterials(s *Scene) [6]core.MaterialIndex {
	return [6]core.MaterialIndex{
		s.AddMaterial(material.NewCookTorrance(silverMetal, 1, 1)),
		s.AddMaterial(material.NewCookTorrance(silverMetal, 1, 0.6)),
		s.AddMaterial(material.NewCookTorrance(silverMetal, 1, 0.1)),
		s.AddMaterial(material.NewCookTorrance(grayPlastic, 0, 1)),
		s.AddMaterial(material.NewCookTorrance(grayPlastic, 0, 0.6)),
		s.AddMaterial(material.NewCookTorrance(grayPlastic, 0, 0.1)),
	}
}

// addSphereGrid places a 3x2 grid of spheres; mats lists the bottom row then the top row
func addSphereGrid(s *Scene, mats [6]core.MaterialIndex) {
	xs := [3]float64{-1.75, 0, 1.75}
	for i, mat := range mats {
		y := 1.0
		if i >= 3 {
			y = 3
		}
		s.AddSphere(core.NewVec3(xs[i%3], y, 0), 0.75, mat)
	}
}

// addThreePointLights adds a warm back light, a warm front-left and a cool front-right light
func addThreePointLights(s *Scene) {
	s.AddPointLight(core.NewVec3(0, 5, 5), 50, backLight)
	s.AddPointLight(core.NewVec3(-2.5, 5, -5), 70, frontLight)
	s.AddPointLight(core.NewVec3(2.5, 2.5, -5), 50, blueishLight)
}
