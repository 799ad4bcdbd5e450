package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/scene"
)

func TestWorkerPoolRendersEveryTile(t *testing.T) {
	rt := NewRaytracer(scene.NewSingleSphereScene())
	fb := NewFrameBuffer(20, 20)
	tiles := NewTileGrid(20, 20, 8)

	pool := NewWorkerPool(rt, 2, len(tiles))
	if pool.GetNumWorkers() != 2 {
		t.Errorf("Expected 2 workers, got %d", pool.GetNumWorkers())
	}
	pool.Start()
	defer pool.Stop()

	camera := rt.Scene().Camera.NewCameraRays(20, 20)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Ctx: context.Background(), Tile: tile, TaskID: i, Camera: camera, Frame: fb})
	}

	seen := make(map[int]bool)
	hits := 0
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		if result.Error != nil {
			t.Errorf("Tile %d failed: %v", result.TaskID, result.Error)
		}
		seen[result.TaskID] = true
		hits += result.Hits
	}

	if len(seen) != len(tiles) {
		t.Errorf("Expected a result for each of %d tiles, got %d", len(tiles), len(seen))
	}
	if want := rt.RenderBounds(fb.Bounds(), NewFrameBuffer(20, 20)); hits != want {
		t.Errorf("Expected %d hits across tiles, got %d", want, hits)
	}
}

func TestWorkerPoolReportsCancelledTasks(t *testing.T) {
	rt := NewRaytracer(scene.NewSingleSphereScene())
	fb := NewFrameBuffer(8, 8)

	pool := NewWorkerPool(rt, 0, 1)
	pool.Start()
	defer pool.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool.SubmitTask(TileTask{Ctx: ctx, Tile: NewTileGrid(8, 8, 8)[0], Camera: rt.Scene().Camera.NewCameraRays(8, 8), Frame: fb})

	result, _ := pool.GetResult()
	if !errors.Is(result.Error, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", result.Error)
	}
	for _, v := range fb.Pix() {
		if v != 0 {
			t.Fatal("Expected a cancelled tile to leave the frame untouched")
		}
	}
}
