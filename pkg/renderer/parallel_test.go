package renderer

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// testLogger implements core.Logger for testing by discarding all output
type testLogger struct{}

var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {}

func TestParallelMatchesSingleThreaded(t *testing.T) {
	sceneIDs := []string{"single-sphere", "sphere-room", "cook-torrance", "reference"}

	for _, id := range sceneIDs {
		t.Run(id, func(t *testing.T) {
			s, err := scene.Create(id)
			if err != nil {
				t.Fatalf("Create(%q) failed: %v", id, err)
			}
			rt := NewRaytracer(s)

			want := NewFrameBuffer(40, 30)
			rt.Render(want)

			pr := NewParallelRenderer(rt, ParallelConfig{TileSize: 7, NumWorkers: 3}, &testLogger{})
			got := NewFrameBuffer(40, 30)
			stats, err := pr.RenderFrame(context.Background(), got)
			if err != nil {
				t.Fatalf("RenderFrame failed: %v", err)
			}

			if !bytes.Equal(want.Pix(), got.Pix()) {
				t.Error("Parallel frame differs from single-threaded frame")
			}
			if stats.TotalPixels != 40*30 {
				t.Errorf("Expected %d pixels, got %d", 40*30, stats.TotalPixels)
			}
		})
	}
}

func TestRenderFrameCancelled(t *testing.T) {
	rt := NewRaytracer(scene.NewSphereRoomScene())
	pr := NewParallelRenderer(rt, DefaultParallelConfig(), &testLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pr.RenderFrame(ctx, NewFrameBuffer(64, 64))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRenderAnimation(t *testing.T) {
	s := scene.NewCubeScene()
	rt := NewRaytracer(s)
	pr := NewParallelRenderer(rt, ParallelConfig{TileSize: 16, NumWorkers: 2}, &testLogger{})

	timer := core.NewFixedTimer(10)
	frames, errs := pr.RenderAnimation(context.Background(), 32, 24, 3, timer)

	var results []FrameResult
	for frame := range frames {
		results = append(results, frame)
	}
	if err := <-errs; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(results))
	}
	for i, result := range results {
		if result.FrameNumber != i+1 {
			t.Errorf("Expected frame number %d, got %d", i+1, result.FrameNumber)
		}
		if want := float64(i) * 0.1; math.Abs(result.Time-want) > 1e-9 {
			t.Errorf("frame %d: expected time %g, got %g", i+1, want, result.Time)
		}
		if result.IsLast != (i == 2) {
			t.Errorf("frame %d: unexpected IsLast=%v", i+1, result.IsLast)
		}
		if result.Frame.Width() != 32 || result.Frame.Height() != 24 {
			t.Errorf("frame %d: unexpected size %dx%d", i+1, result.Frame.Width(), result.Frame.Height())
		}
	}

	// The updater ran before the last frame
	if got := s.Meshes()[0].Rotation().Y; math.Abs(got-math.Pi*0.2) > 1e-9 {
		t.Errorf("Expected final cube yaw 0.2π, got %g", got)
	}
	if bytes.Equal(results[0].Frame.Pix(), results[2].Frame.Pix()) {
		t.Error("Expected the spinning cube to change the image between frames")
	}
}

func TestRenderAnimationCancel(t *testing.T) {
	rt := NewRaytracer(scene.NewReferenceScene())
	pr := NewParallelRenderer(rt, ParallelConfig{TileSize: 8, NumWorkers: 2}, &testLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	frames, errs := pr.RenderAnimation(ctx, 16, 16, 0, core.NewFixedTimer(30))

	// Unbounded animation: take two frames then stop
	<-frames
	<-frames
	cancel()
	for range frames {
	}

	if err := <-errs; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestFrameLoopReusesPool(t *testing.T) {
	rt := NewRaytracer(scene.NewSphereRoomScene())
	want := NewFrameBuffer(30, 20)
	rt.Render(want)

	pr := NewParallelRenderer(rt, ParallelConfig{TileSize: 8, NumWorkers: 2}, &testLogger{})
	loop := pr.NewFrameLoop(30, 20)
	defer loop.Close()

	if loop.NumWorkers() != 2 {
		t.Errorf("Expected 2 workers, got %d", loop.NumWorkers())
	}
	for i := 0; i < 4; i++ {
		got := NewFrameBuffer(30, 20)
		if _, err := loop.Render(context.Background(), got); err != nil {
			t.Fatalf("Frame %d: render failed: %v", i, err)
		}
		if !bytes.Equal(want.Pix(), got.Pix()) {
			t.Errorf("Frame %d differs from single-threaded frame", i)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loop.Render(ctx, NewFrameBuffer(30, 20)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	// The pool is still usable after a cancelled frame
	if _, err := loop.Render(context.Background(), NewFrameBuffer(30, 20)); err != nil {
		t.Errorf("Expected render after cancellation to succeed, got %v", err)
	}
}

func TestFrameLoopRejectsOtherSizes(t *testing.T) {
	pr := NewParallelRenderer(NewRaytracer(scene.NewSphereRoomScene()), DefaultParallelConfig(), &testLogger{})
	loop := pr.NewFrameLoop(16, 16)
	defer loop.Close()

	if _, err := loop.Render(context.Background(), NewFrameBuffer(17, 16)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("Expected ErrFrameSize, got %v", err)
	}
}
