package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// MaterialIndex is a handle into a scene's material list.
// Geometry stores indices, never references to materials.
type MaterialIndex uint32
