package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

func main() {
	var flags config.Flags
	flag.StringVar(&flags.Scene, "scene", "", "Built-in scene ID or path to a scene description")
	flag.IntVar(&flags.Width, "width", 0, "Render width in pixels")
	flag.IntVar(&flags.Height, "height", 0, "Render height in pixels")
	flag.StringVar(&flags.Mode, "mode", "", "Initial lighting mode")
	flag.IntVar(&flags.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&flags.Scale, "scale", 0, "Window scale factor")
	flag.Parse()

	var cfg config.Config
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	s, err := scene.Create(cfg.Scene)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	logger := renderer.NewDefaultLogger()
	raytracer := renderer.NewRaytracer(s)
	raytracer.SetMode(cfg.LightingMode())
	pr := renderer.NewParallelRenderer(raytracer, cfg.ParallelConfig(), quietLogger{})

	log.Printf("W/A/S/D move, right-drag rotates, F3 cycles lighting mode, F6 toggles shadows, X saves %s", screenshotPath)

	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetWindowTitle("Direct Lighting Raytracer - " + s.Name)
	game := NewGame(pr, cfg.Width, cfg.Height, logger)
	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// quietLogger drops the per-frame render lines, which would flood the terminal at interactive rates
type quietLogger struct{}

func (quietLogger) Printf(format string, args ...interface{}) {}
