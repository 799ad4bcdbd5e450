package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// LoadOBJ loads the positions and faces of a Wavefront OBJ file
func LoadOBJ(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	mesh, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// ParseOBJ reads "v" and "f" records. Face entries may be "i", "i/t", "i//n" or "i/t/n";
// only the position index is used. Indices are 1-based, negative indices count back
// from the last vertex, and polygons are fan-triangulated. Other records are ignored.
func ParseOBJ(r io.Reader) (*MeshData, error) {
	mesh := &MeshData{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var coords [3]float64
			for i := range coords {
				value, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate %q", lineNo, fields[i+1])
				}
				coords[i] = value
			}
			mesh.Positions = append(mesh.Positions, core.NewVec3(coords[0], coords[1], coords[2]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			polygon := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				idx, err := parseOBJIndex(field, len(mesh.Positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				polygon = append(polygon, idx)
			}
			mesh.appendFan(polygon)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	if err := mesh.validateIndices(); err != nil {
		return nil, err
	}
	mesh.computeFaceNormals()
	return mesh, nil
}

// parseOBJIndex converts a face entry to a 0-based position index
func parseOBJIndex(field string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(field, '/'); slash >= 0 {
		field = field[:slash]
	}
	idx, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", field)
	}

	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += vertexCount
	default:
		return 0, fmt.Errorf("face index 0 is not valid")
	}
	if idx < 0 || idx >= vertexCount {
		return 0, fmt.Errorf("face index %s out of range (%d vertices so far)", field, vertexCount)
	}
	return idx, nil
}
