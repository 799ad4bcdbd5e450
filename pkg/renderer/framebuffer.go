package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// FrameBuffer is an 8-bit RGB image, row-major with the origin at the top left.
// Workers may write disjoint pixel ranges concurrently without locking.
type FrameBuffer struct {
	width, height int
	pix           []uint8 // 3 bytes per pixel
}

// NewFrameBuffer creates a black frame. Panics on a non-positive size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid frame size %dx%d", width, height))
	}
	return &FrameBuffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}
}

// Width returns the frame width in pixels
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the frame height in pixels
func (fb *FrameBuffer) Height() int { return fb.height }

// Pix returns the raw RGB bytes
func (fb *FrameBuffer) Pix() []uint8 { return fb.pix }

// SetColor quantizes c and stores it at (x, y)
func (fb *FrameBuffer) SetColor(x, y int, c core.ColorRGB) {
	r, g, b := c.ToRGBA8()
	fb.SetRGB(x, y, r, g, b)
}

// SetRGB stores an 8-bit color at (x, y)
func (fb *FrameBuffer) SetRGB(x, y int, r, g, b uint8) {
	i := (y*fb.width + x) * 3
	fb.pix[i], fb.pix[i+1], fb.pix[i+2] = r, g, b
}

// RGB returns the 8-bit color at (x, y)
func (fb *FrameBuffer) RGB(x, y int) (r, g, b uint8) {
	i := (y*fb.width + x) * 3
	return fb.pix[i], fb.pix[i+1], fb.pix[i+2]
}

// Clear resets every pixel to black
func (fb *FrameBuffer) Clear() {
	clear(fb.pix)
}

// ColorModel implements image.Image
func (fb *FrameBuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image
func (fb *FrameBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.width, fb.height) }

// At implements image.Image
func (fb *FrameBuffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(fb.Bounds())) {
		return color.RGBA{}
	}
	r, g, b := fb.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ToRGBA copies the frame into an opaque RGBA image
func (fb *FrameBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for i, j := 0, 0; i < len(fb.pix); i, j = i+3, j+4 {
		img.Pix[j] = fb.pix[i]
		img.Pix[j+1] = fb.pix[i+1]
		img.Pix[j+2] = fb.pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}
