package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// scenesDir is scanned for scene description files by -list
const scenesDir = "scenes"

func main() {
	var flags config.Flags
	configPath := flag.String("config", "", "Render settings file (YAML or JSON)")
	flag.StringVar(&flags.Scene, "scene", "", "Built-in scene ID or path to a .yaml/.yml/.json scene description")
	flag.IntVar(&flags.Width, "width", 0, "Image width in pixels")
	flag.IntVar(&flags.Height, "height", 0, "Image height in pixels")
	flag.StringVar(&flags.Mode, "mode", "", "Lighting mode: observed-area, radiance, brdf or combined")
	flag.StringVar(&flags.Format, "format", "", "Output format: png, bmp, tga or webp")
	flag.StringVar(&flags.Output, "output", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	flag.IntVar(&flags.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&flags.TileSize, "tile", 0, "Tile size in pixels")
	flag.IntVar(&flags.Frames, "frames", 0, "Number of animation frames to render")
	flag.IntVar(&flags.FPS, "fps", 0, "Animation frames per second")
	flag.IntVar(&flags.Scale, "scale", 0, "Integer upscale factor applied to saved images")
	smooth := flag.Bool("smooth", false, "Use smooth (Catmull-Rom) instead of nearest-neighbour upscaling")
	hud := flag.Bool("hud", false, "Draw scene, mode and timing over the image")
	shadows := flag.Bool("shadows", true, "Cast shadow rays")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Direct Lighting Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if *list {
		if err := listScenes(os.Stdout, scenesDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Booleans only override the config file when given explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "smooth":
			flags.Smooth = smooth
		case "hud":
			flags.HUD = hud
		case "shadows":
			flags.Shadows = shadows
		}
	})

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run renders the configured scene and saves every frame
func run(ctx context.Context, cfg config.Config, logger core.Logger) error {
	logger.Printf("Starting Direct Lighting Raytracer...\n")

	s, err := createScene(cfg.Scene)
	if err != nil {
		return err
	}
	logger.Printf("Using scene %q (%d primitives, %d lights)\n", s.Name, s.PrimitiveCount(), len(s.Lights()))

	raytracer := renderer.NewRaytracer(s)
	raytracer.SetMode(cfg.LightingMode())
	raytracer.SetShadows(cfg.ShadowsEnabled())
	pr := renderer.NewParallelRenderer(raytracer, cfg.ParallelConfig(), logger)

	timestamp := time.Now().Format("20060102_150405")

	if cfg.Frames == 1 {
		fb := renderer.NewFrameBuffer(cfg.Width, cfg.Height)
		stats, err := pr.RenderFrame(ctx, fb)
		if err != nil {
			return fmt.Errorf("render %s: %w", s.Name, err)
		}
		return saveFrame(cfg, s, raytracer.Mode(), fb, stats, 1, timestamp, logger)
	}

	timer := core.NewFixedTimer(float64(cfg.FPS))
	frames, errs := pr.RenderAnimation(ctx, cfg.Width, cfg.Height, cfg.Frames, timer)
	for frame := range frames {
		if err := saveFrame(cfg, s, raytracer.Mode(), frame.Frame, frame.Stats, frame.FrameNumber, timestamp, logger); err != nil {
			return err
		}
	}
	if err := <-errs; err != nil {
		return fmt.Errorf("render %s: %w", s.Name, err)
	}
	return nil
}

// createScene resolves a built-in scene ID or a scene description file
func createScene(nameOrPath string) (*scene.Scene, error) {
	if nameOrPath == "" {
		return nil, fmt.Errorf("no scene given")
	}
	s, err := scene.Create(nameOrPath)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", nameOrPath, err)
	}
	return s, nil
}

// saveFrame post-processes a finished frame and writes it to disk
func saveFrame(cfg config.Config, s *scene.Scene, mode renderer.LightingMode, fb *renderer.FrameBuffer,
	stats renderer.FrameStats, frameNumber int, timestamp string, logger core.Logger) error {
	var img image.Image = fb
	img = output.Upscale(img, cfg.Scale, cfg.Smooth)
	if cfg.HUD {
		img = output.DrawHUD(img, hudLines(s.Name, mode, stats, frameNumber, cfg.Frames))
	}

	path := outputPath(cfg, s.Name, timestamp, frameNumber)
	if err := output.Save(path, img); err != nil {
		return err
	}
	logger.Printf("Frame %d saved as %s (mean luminance %.3f)\n", frameNumber, path, stats.MeanLuminance)
	return nil
}

func hudLines(sceneName string, mode renderer.LightingMode, stats renderer.FrameStats, frameNumber, frames int) []string {
	lines := []string{
		sceneName,
		fmt.Sprintf("mode: %s", mode),
		fmt.Sprintf("%dx%d in %v", stats.Width, stats.Height, stats.Duration.Round(time.Millisecond)),
	}
	if frames > 1 {
		lines = append(lines, fmt.Sprintf("frame %d/%d", frameNumber, frames))
	}
	return lines
}

// outputPath returns where a frame is saved. Animations get a frame number
// suffix so that frames do not overwrite each other.
func outputPath(cfg config.Config, sceneName, timestamp string, frameNumber int) string {
	path := cfg.Output
	if path == "" {
		dir := filepath.Join("output", sanitizeName(sceneName))
		path = filepath.Join(dir, fmt.Sprintf("render_%s.%s", timestamp, cfg.OutputFormat()))
	} else if filepath.Ext(path) == "" {
		path += "." + string(cfg.OutputFormat())
	}

	if cfg.Frames > 1 {
		ext := filepath.Ext(path)
		path = fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(path, ext), frameNumber, ext)
	}
	return path
}

// sanitizeName turns a scene name into a directory name
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		return "scene"
	}
	return name
}

// listScenes prints built-in scenes and description files grouped by category
func listScenes(w io.Writer, dir string) error {
	response, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Fprintf(w, "  %-24s %s\n", info.ID, info.Description)
			} else {
				fmt.Fprintf(w, "  %s\n", info.ID)
			}
		}
	}
	return nil
}
