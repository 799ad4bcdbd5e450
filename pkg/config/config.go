package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/ghodss/yaml"

	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
)

// ErrInvalid is returned by Validate for settings that cannot be rendered
var ErrInvalid = errors.New("invalid config")

// Defaults for settings left empty by both the file and the command line
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultScene  = "reference"
	DefaultFormat = output.PNG
	DefaultMode   = "combined"
	DefaultFrames = 1
	DefaultFPS    = 30
	DefaultScale  = 1
)

// Config holds render settings. Files may be YAML or JSON; both use the json tags.
type Config struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Scene    string `json:"scene"`  // Built-in scene ID or description file path
	Output   string `json:"output"` // Output path; empty derives one from the scene name
	Format   string `json:"format"` // png, bmp, tga or webp
	Mode     string `json:"mode"`   // Lighting mode name
	Workers  int    `json:"workers"`
	TileSize int    `json:"tileSize"`
	Frames   int    `json:"frames"`
	FPS      int    `json:"fps"`
	Scale    int    `json:"scale"`  // Integer upscale factor applied on output
	Smooth   bool   `json:"smooth"` // Catmull-Rom instead of nearest-neighbour upscaling
	HUD      bool   `json:"hud"`
	Shadows  *bool  `json:"shadows,omitempty"` // nil means enabled
}

// Flags holds CLI flag values that override config file settings.
// Zero values and nil pointers mean "not given".
type Flags struct {
	Width    int
	Height   int
	Scene    string
	Output   string
	Format   string
	Mode     string
	Workers  int
	TileSize int
	Frames   int
	FPS      int
	Scale    int
	Smooth   *bool
	HUD      *bool
	Shadows  *bool
}

// Load reads a YAML or JSON config file. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies CLI overrides, then fills any empty fields with defaults
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.TileSize > 0 {
		c.TileSize = flags.TileSize
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Smooth != nil {
		c.Smooth = *flags.Smooth
	}
	if flags.HUD != nil {
		c.HUD = *flags.HUD
	}
	if flags.Shadows != nil {
		shadows := *flags.Shadows
		c.Shadows = &shadows
	}

	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Scene == "" {
		c.Scene = DefaultScene
	}
	if c.Format == "" {
		c.Format = string(DefaultFormat)
	}
	if c.Mode == "" {
		c.Mode = DefaultMode
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TileSize <= 0 {
		c.TileSize = renderer.DefaultTileSize
	}
	if c.Frames <= 0 {
		c.Frames = DefaultFrames
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.Scale <= 0 {
		c.Scale = DefaultScale
	}
}

// Validate reports the first setting that cannot be rendered
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if _, err := renderer.ParseLightingMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Frames < 1 {
		return fmt.Errorf("%w: frames must be at least 1, got %d", ErrInvalid, c.Frames)
	}
	if c.FPS < 1 {
		return fmt.Errorf("%w: fps must be at least 1, got %d", ErrInvalid, c.FPS)
	}
	if c.Scale < 1 {
		return fmt.Errorf("%w: scale must be at least 1, got %d", ErrInvalid, c.Scale)
	}
	return nil
}

// LightingMode returns the parsed lighting mode, falling back to Combined
func (c Config) LightingMode() renderer.LightingMode {
	mode, err := renderer.ParseLightingMode(c.Mode)
	if err != nil {
		return renderer.Combined
	}
	return mode
}

// OutputFormat returns the parsed output format, falling back to PNG
func (c Config) OutputFormat() output.Format {
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return DefaultFormat
	}
	return format
}

// ShadowsEnabled reports whether shadow rays should be cast
func (c Config) ShadowsEnabled() bool {
	return c.Shadows == nil || *c.Shadows
}

// ParallelConfig returns the tile and worker settings for the renderer
func (c Config) ParallelConfig() renderer.ParallelConfig {
	return renderer.ParallelConfig{
		TileSize:   c.TileSize,
		NumWorkers: c.Workers,
	}
}
