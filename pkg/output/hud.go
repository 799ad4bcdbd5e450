package output

import (
	"image"

	"github.com/fogleman/gg"
)

const (
	hudMargin     = 4.0
	hudLineHeight = 14.0
)

// DrawHUD returns a copy of img with lines of text drawn in the top-left
// corner over a translucent backing box. img is not modified.
func DrawHUD(img image.Image, lines []string) image.Image {
	if len(lines) == 0 {
		return img
	}

	dc := gg.NewContextForImage(img)

	width := 0.0
	for _, line := range lines {
		w, _ := dc.MeasureString(line)
		if w > width {
			width = w
		}
	}
	height := float64(len(lines)) * hudLineHeight

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, width+2*hudMargin, height+2*hudMargin)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for i, line := range lines {
		dc.DrawStringAnchored(line, hudMargin, hudMargin+float64(i)*hudLineHeight, 0, 1)
	}
	return dc.Image()
}
