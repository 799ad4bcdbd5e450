package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// FrameStats contains statistics about a rendered frame
type FrameStats struct {
	Width, Height int
	TotalPixels   int           // Total number of pixels rendered
	HitPixels     int           // Pixels whose primary ray hit geometry
	Coverage      float64       // HitPixels / TotalPixels
	MeanLuminance float64       // Mean Rec. 709 luminance of the quantized frame, 0..1
	StdLuminance  float64       // Standard deviation of the luminance
	Duration      time.Duration // Wall time spent tracing
}

// ComputeFrameStats summarizes a finished frame
func ComputeFrameStats(fb *FrameBuffer, hitPixels int, duration time.Duration) FrameStats {
	total := fb.Width() * fb.Height()
	luminance := make([]float64, 0, total)
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			r, g, b := fb.RGB(x, y)
			c := core.NewColor(float64(r)/255, float64(g)/255, float64(b)/255)
			luminance = append(luminance, c.Luminance())
		}
	}

	mean, std := stat.MeanStdDev(luminance, nil)
	if total < 2 {
		std = 0
	}

	return FrameStats{
		Width:         fb.Width(),
		Height:        fb.Height(),
		TotalPixels:   total,
		HitPixels:     hitPixels,
		Coverage:      float64(hitPixels) / float64(total),
		MeanLuminance: mean,
		StdLuminance:  std,
		Duration:      duration,
	}
}
