package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// DefaultTileSize is the tile edge length used when none is configured
const DefaultTileSize = 32

// ErrFrameSize is returned when a frame buffer does not match the size a FrameLoop was built for
var ErrFrameSize = errors.New("renderer: frame size mismatch")

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ParallelConfig contains configuration for parallel rendering
type ParallelConfig struct {
	TileSize   int // Size of each tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultParallelConfig returns sensible default values
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		TileSize:   DefaultTileSize,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// ParallelRenderer splits frames into tiles and renders them on a worker pool.
// Each tile owns a disjoint rectangle of the frame, so workers never contend.
type ParallelRenderer struct {
	raytracer *Raytracer
	config    ParallelConfig
	logger    core.Logger
}

// NewParallelRenderer creates a renderer around raytracer
func NewParallelRenderer(raytracer *Raytracer, config ParallelConfig, logger core.Logger) *ParallelRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &ParallelRenderer{
		raytracer: raytracer,
		config:    config,
		logger:    logger,
	}
}

// Raytracer returns the underlying raytracer
func (pr *ParallelRenderer) Raytracer() *Raytracer { return pr.raytracer }

// RenderFrame renders one frame into fb. Cancellation is checked before each
// tile; a cancelled frame returns ctx.Err() and leaves fb partially drawn.
func (pr *ParallelRenderer) RenderFrame(ctx context.Context, fb *FrameBuffer) (FrameStats, error) {
	loop := pr.NewFrameLoop(fb.Width(), fb.Height())
	defer loop.Close()

	return loop.Render(ctx, fb)
}

// FrameLoop renders successive frames of one size on a worker pool that
// stays alive between frames. Close stops the pool.
type FrameLoop struct {
	pr            *ParallelRenderer
	width, height int
	tiles         []*Tile
	pool          *WorkerPool
}

// NewFrameLoop starts a worker pool for frames of width x height
func (pr *ParallelRenderer) NewFrameLoop(width, height int) *FrameLoop {
	tiles := NewTileGrid(width, height, pr.config.TileSize)
	pool := NewWorkerPool(pr.raytracer, pr.config.NumWorkers, len(tiles))
	pool.Start()

	return &FrameLoop{
		pr:     pr,
		width:  width,
		height: height,
		tiles:  tiles,
		pool:   pool,
	}
}

// Render renders one frame into fb, which must match the loop's size
func (fl *FrameLoop) Render(ctx context.Context, fb *FrameBuffer) (FrameStats, error) {
	if fb.Width() != fl.width || fb.Height() != fl.height {
		return FrameStats{}, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrFrameSize, fb.Width(), fb.Height(), fl.width, fl.height)
	}
	return fl.pr.renderFrame(ctx, fl.pool, fl.tiles, fb)
}

// NumWorkers returns the number of workers in the loop's pool
func (fl *FrameLoop) NumWorkers() int { return fl.pool.GetNumWorkers() }

// Close stops the worker pool. The loop must not be used afterwards.
func (fl *FrameLoop) Close() { fl.pool.Stop() }

func (pr *ParallelRenderer) renderFrame(ctx context.Context, pool *WorkerPool, tiles []*Tile, fb *FrameBuffer) (FrameStats, error) {
	startTime := time.Now()
	camera := pr.raytracer.Scene().Camera.NewCameraRays(fb.Width(), fb.Height())

	for i, tile := range tiles {
		pool.SubmitTask(TileTask{
			Ctx:    ctx,
			Tile:   tile,
			TaskID: i,
			Camera: camera,
			Frame:  fb,
		})
	}

	// Collect every result, even after an error, so the pool is idle before returning
	hits := 0
	var firstErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			return FrameStats{}, fmt.Errorf("renderer: worker pool closed unexpectedly")
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		hits += result.Hits
	}
	if firstErr != nil {
		return FrameStats{}, firstErr
	}

	stats := ComputeFrameStats(fb, hits, time.Since(startTime))
	pr.logger.Printf("Rendered %dx%d %s frame in %v (%d tiles, %d workers, %.1f%% coverage)\n",
		fb.Width(), fb.Height(), pr.raytracer.Mode(), stats.Duration, len(tiles),
		pool.GetNumWorkers(), stats.Coverage*100)
	return stats, nil
}

// AnimationTimer is a Timer the renderer can advance between frames
type AnimationTimer interface {
	core.Timer
	Tick()
}

// FrameResult contains one rendered animation frame
type FrameResult struct {
	FrameNumber int // 1-based
	Frame       *FrameBuffer
	Stats       FrameStats
	Time        float64 // Timer total when the frame was rendered
	IsLast      bool
}

// RenderAnimation renders frames of width x height, advancing timer and
// running the scene's updaters strictly between frames. frames <= 0 renders
// until ctx is cancelled. The frame channel is closed when rendering stops;
// the error channel receives at most one error.
func (pr *ParallelRenderer) RenderAnimation(ctx context.Context, width, height, frames int, timer AnimationTimer) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		loop := pr.NewFrameLoop(width, height)
		defer loop.Close()

		scene := pr.raytracer.Scene()
		pr.logger.Printf("Starting animation: %d frames of %dx%d using %d workers...\n",
			frames, width, height, loop.NumWorkers())

		for frame := 1; frames <= 0 || frame <= frames; frame++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Animation cancelled before frame %d\n", frame)
				errChan <- ctx.Err()
				return
			default:
			}

			if frame > 1 {
				timer.Tick()
			}
			scene.Update(timer)

			fb := NewFrameBuffer(width, height)
			stats, err := loop.Render(ctx, fb)
			if err != nil {
				errChan <- err
				return
			}

			result := FrameResult{
				FrameNumber: frame,
				Frame:       fb,
				Stats:       stats,
				Time:        timer.Total(),
				IsLast:      frames > 0 && frame == frames,
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return frameChan, errChan
}
