package output

import (
	"image"

	"golang.org/x/image/draw"
)

// Upscale enlarges img by an integer factor. Nearest-neighbour keeps
// pixels crisp for diagnostic views; smooth uses Catmull-Rom.
// A factor of 1 or less returns img unchanged.
func Upscale(img image.Image, factor int, smooth bool) image.Image {
	if factor <= 1 {
		return img
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))

	var scaler draw.Scaler = draw.NearestNeighbor
	if smooth {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
