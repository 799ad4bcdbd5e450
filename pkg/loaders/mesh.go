package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// ErrUnsupportedFormat is returned for mesh files with an unknown extension or encoding
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// MeshData holds the raw arrays produced by a mesh loader
type MeshData struct {
	Positions []core.Vec3 // Vertex positions
	Normals   []core.Vec3 // Face normals, one per triangle
	Indices   []int       // 0-based vertex indices, three per triangle
}

// TriangleCount returns the number of triangles
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// LoadMesh loads an .obj or .ply file based on its extension
func LoadMesh(filename string) (*MeshData, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".obj":
		return LoadOBJ(filename)
	case ".ply":
		return LoadPLY(filename)
	}
	return nil, fmt.Errorf("loaders: %s: %w", filename, ErrUnsupportedFormat)
}

// computeFaceNormals fills Normals with normalize((v1 - v0) x (v2 - v0)) for every triangle
func (m *MeshData) computeFaceNormals() {
	m.Normals = make([]core.Vec3, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Positions[m.Indices[i]]
		v1 := m.Positions[m.Indices[i+1]]
		v2 := m.Positions[m.Indices[i+2]]
		m.Normals = append(m.Normals, v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize())
	}
}

// validateIndices checks every index against the vertex count
func (m *MeshData) validateIndices() error {
	for i, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Positions) {
			return fmt.Errorf("face %d references vertex %d, only %d vertices", i/3, idx, len(m.Positions))
		}
	}
	return nil
}

// appendFan triangulates a polygon as a fan around its first vertex
func (m *MeshData) appendFan(polygon []int) {
	for i := 1; i+1 < len(polygon); i++ {
		m.Indices = append(m.Indices, polygon[0], polygon[i], polygon[i+1])
	}
}
