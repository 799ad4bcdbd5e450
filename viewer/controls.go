package main

import (
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
)

const (
	moveSpeed     = 10.0  // World units per second
	rotationSpeed = 0.005 // Radians per pixel of mouse movement
)

// inputState is a snapshot of the keys and mouse used by the viewer,
// taken once per update
type inputState struct {
	Forward, Back, Left, Right bool

	// Right mouse button held, with cursor movement since the last update
	Rotating         bool
	MouseDX, MouseDY float64

	// Edge-triggered actions
	CycleMode     bool
	ToggleShadows bool
	Save          bool
}

// applyCameraInput moves and rotates the camera. Forward and back take
// precedence over strafing, one axis per update.
func applyCameraInput(cam *geometry.Camera, in inputState, elapsed float64) {
	step := moveSpeed * elapsed
	switch {
	case in.Forward:
		cam.Move(0, 0, step)
	case in.Back:
		cam.Move(0, 0, -step)
	case in.Left:
		cam.Move(-step, 0, 0)
	case in.Right:
		cam.Move(step, 0, 0)
	}

	if in.Rotating && (in.MouseDX != 0 || in.MouseDY != 0) {
		cam.Rotate(in.MouseDY*rotationSpeed, in.MouseDX*rotationSpeed)
	}
}

// applyToggles handles the mode and shadow keys and returns a status line
// describing what changed, or "" when nothing did
func applyToggles(rt *renderer.Raytracer, in inputState) string {
	status := ""
	if in.CycleMode {
		status = "Lighting mode: " + rt.CycleMode().String()
	}
	if in.ToggleShadows {
		if rt.ToggleShadows() {
			status = "Shadows: on"
		} else {
			status = "Shadows: off"
		}
	}
	return status
}
