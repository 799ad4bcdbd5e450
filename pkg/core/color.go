package core

import "math"

// ColorRGB is a linear RGB triple. Values are unclamped while lighting is
// accumulated and only brought into [0, 1] on output.
type ColorRGB struct {
	R, G, B float64
}

// Named colors
var (
	White   = ColorRGB{1, 1, 1}
	Black   = ColorRGB{0, 0, 0}
	Red     = ColorRGB{1, 0, 0}
	Green   = ColorRGB{0, 1, 0}
	Blue    = ColorRGB{0, 0, 1}
	Yellow  = ColorRGB{1, 1, 0}
	Cyan    = ColorRGB{0, 1, 1}
	Magenta = ColorRGB{1, 0, 1}
	Gray    = ColorRGB{0.5, 0.5, 0.5}
)

// NewColor creates a new color
func NewColor(r, g, b float64) ColorRGB {
	return ColorRGB{R: r, G: g, B: b}
}

// GrayLevel creates a color with the same value in every channel
func GrayLevel(v float64) ColorRGB {
	return ColorRGB{v, v, v}
}

// Add returns the channel-wise sum
func (c ColorRGB) Add(other ColorRGB) ColorRGB {
	return ColorRGB{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Subtract returns the channel-wise difference
func (c ColorRGB) Subtract(other ColorRGB) ColorRGB {
	return ColorRGB{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Multiply scales every channel
func (c ColorRGB) Multiply(s float64) ColorRGB {
	return ColorRGB{c.R * s, c.G * s, c.B * s}
}

// MultiplyColor returns the channel-wise product
func (c ColorRGB) MultiplyColor(other ColorRGB) ColorRGB {
	return ColorRGB{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Divide divides every channel by s
func (c ColorRGB) Divide(s float64) ColorRGB {
	return ColorRGB{c.R / s, c.G / s, c.B / s}
}

// MaxComponent returns the largest channel value
func (c ColorRGB) MaxComponent() float64 {
	return math.Max(c.R, math.Max(c.G, c.B))
}

// MaxToOne rescales the color so that its largest channel is at most 1.
// Hue is preserved; colors already in range are returned unchanged.
func (c ColorRGB) MaxToOne() ColorRGB {
	m := c.MaxComponent()
	if m > 1 {
		return c.Divide(m)
	}
	return c
}

// Luminance returns the Rec. 709 relative luminance
func (c ColorRGB) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// IsBlack reports whether every channel is zero
func (c ColorRGB) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// IsFinite reports whether every channel is a finite number
func (c ColorRGB) IsFinite() bool {
	return isFinite(c.R) && isFinite(c.G) && isFinite(c.B)
}

// Vec3 returns the color as a vector
func (c ColorRGB) Vec3() Vec3 {
	return Vec3{c.R, c.G, c.B}
}

// ColorFromVec3 converts a vector to a color
func ColorFromVec3(v Vec3) ColorRGB {
	return ColorRGB{v.X, v.Y, v.Z}
}

// ToRGBA8 quantizes the color to 8-bit channels. Channels are clamped to
// [0, 1] first, so out-of-range or NaN values never wrap.
func (c ColorRGB) ToRGBA8() (r, g, b uint8) {
	return quantize(c.R), quantize(c.G), quantize(c.B)
}

func quantize(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
