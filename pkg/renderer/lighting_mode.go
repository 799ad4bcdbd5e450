package renderer

import (
	"fmt"
	"strings"
)

// LightingMode selects which term of the lighting equation is written to the frame.
// Every mode except Combined is a diagnostic view.
type LightingMode int

const (
	ObservedArea LightingMode = iota // Cosine law term only
	Radiance                         // Light arriving at the surface
	BRDF                             // Material response only
	Combined                         // Radiance * BRDF * cosine
)

var lightingModeNames = [...]string{
	ObservedArea: "observed-area",
	Radiance:     "radiance",
	BRDF:         "brdf",
	Combined:     "combined",
}

// String returns the flag name of the mode
func (m LightingMode) String() string {
	if m < 0 || int(m) >= len(lightingModeNames) {
		return fmt.Sprintf("LightingMode(%d)", int(m))
	}
	return lightingModeNames[m]
}

// Next returns the following mode in the display cycle, wrapping after Combined
func (m LightingMode) Next() LightingMode {
	return (m + 1) % LightingMode(len(lightingModeNames))
}

// ParseLightingMode converts a mode name (case-insensitive) to a LightingMode
func ParseLightingMode(s string) (LightingMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, candidate := range lightingModeNames {
		if name == candidate {
			return LightingMode(i), nil
		}
	}
	return Combined, fmt.Errorf("renderer: unknown lighting mode %q", s)
}
