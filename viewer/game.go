package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
)

// screenshotPath is where X saves the current frame
const screenshotPath = "RayTracing_Buffer.bmp"

// Game renders one frame per update and shows it in the window
type Game struct {
	renderer *renderer.ParallelRenderer
	loop     *renderer.FrameLoop // Worker pool kept for the life of the game
	timer    *core.ClockTimer
	logger   core.Logger

	frame  *renderer.FrameBuffer
	stats  renderer.FrameStats
	status string

	lastX, lastY int
}

// NewGame creates a viewer rendering frames of width x height
func NewGame(pr *renderer.ParallelRenderer, width, height int, logger core.Logger) *Game {
	return &Game{
		renderer: pr,
		loop:     pr.NewFrameLoop(width, height),
		timer:    core.NewClockTimer(),
		logger:   logger,
		frame:    renderer.NewFrameBuffer(width, height),
	}
}

// readInput snapshots the ebiten keyboard and mouse state
func (g *Game) readInput() inputState {
	x, y := ebiten.CursorPosition()
	in := inputState{
		Forward:       ebiten.IsKeyPressed(ebiten.KeyW),
		Back:          ebiten.IsKeyPressed(ebiten.KeyS),
		Left:          ebiten.IsKeyPressed(ebiten.KeyA),
		Right:         ebiten.IsKeyPressed(ebiten.KeyD),
		Rotating:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		MouseDX:       float64(x - g.lastX),
		MouseDY:       float64(y - g.lastY),
		CycleMode:     inpututil.IsKeyJustPressed(ebiten.KeyF3),
		ToggleShadows: inpututil.IsKeyJustPressed(ebiten.KeyF6),
		Save:          inpututil.IsKeyJustPressed(ebiten.KeyX),
	}
	g.lastX, g.lastY = x, y
	return in
}

// Update applies input, advances the animation and renders the next frame
func (g *Game) Update() error {
	g.timer.Tick()
	in := g.readInput()

	rt := g.renderer.Raytracer()
	applyCameraInput(rt.Scene().Camera, in, g.timer.Elapsed())
	if status := applyToggles(rt, in); status != "" {
		g.status = status
		g.logger.Printf("%s\n", status)
	}

	rt.Scene().Update(g.timer)

	if err := g.render(context.Background()); err != nil {
		return err
	}

	// Saved after rendering so the file matches what is on screen
	if in.Save {
		if err := output.Save(screenshotPath, g.frame); err != nil {
			g.status = fmt.Sprintf("Save failed: %v", err)
		} else {
			g.status = "Saved " + screenshotPath
		}
		g.logger.Printf("%s\n", g.status)
	}
	return nil
}

// render draws the next frame into g.frame on the game's worker pool
func (g *Game) render(ctx context.Context) error {
	stats, err := g.loop.Render(ctx, g.frame)
	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	g.stats = stats
	return nil
}

// Close stops the game's worker pool
func (g *Game) Close() { g.loop.Close() }

// Draw blits the last rendered frame and a short status overlay
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.frame.ToRGBA().Pix)

	rt := g.renderer.Raytracer()
	shadows := "off"
	if rt.Shadows() {
		shadows = "on"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s | %s | shadows %s | %.0f FPS | %v",
		rt.Scene().Name, rt.Mode(), shadows, ebiten.ActualFPS(), g.stats.Duration))
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 0, 16)
	}
}

// Layout keeps the logical screen at the frame size; the window scales it
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.frame.Width(), g.frame.Height()
}
