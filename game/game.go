// Package game hosts a flow field session in a raylib window.
package game

import (
	"context"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowfields/camera"
	"github.com/pthm-cable/flowfields/config"
	"github.com/pthm-cable/flowfields/session"
	"github.com/pthm-cable/flowfields/telemetry"
	"github.com/pthm-cable/flowfields/ui"
)

// Game is the windowed host. The window must be open before NewGame.
type Game struct {
	cfg     *config.Config
	trail   *RaylibTrail
	session *session.Session
	camera  *camera.Camera
	hud     *ui.HUD

	cancel context.CancelFunc

	screenWidth  float32
	screenHeight float32
}

// NewGame creates the trail texture, builds a session on it and starts the loop.
func NewGame(cfg *config.Config, opts session.Options) (*Game, error) {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	trail := NewRaylibTrail(w, h, cfg.Derived.Background)

	s, err := session.New(cfg, trail, opts)
	if err != nil {
		trail.Unload()
		return nil, fmt.Errorf("creating session: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:          cfg,
		trail:        trail,
		session:      s,
		camera:       camera.New(float32(w), float32(h), float32(w), float32(h)),
		hud:          ui.NewHUD(),
		cancel:       cancel,
		screenWidth:  float32(w),
		screenHeight: float32(h),
	}
	g.hud.SetVisible(cfg.Screen.ShowHUD)
	if err := s.Start(ctx); err != nil {
		g.Unload()
		return nil, fmt.Errorf("starting loop: %w", err)
	}
	return g, nil
}

// Update runs the frames scheduled for this display refresh.
func (g *Game) Update() {
	g.handleResize()
	g.session.Pump()
}

// handleResize refits the trail when the window size changes. The trail and
// grid keep their size.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.camera.Resize(w, h)
}

// Draw blits the trail texture and the HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.trail.Draw(g.camera)

	flow := g.session.Renderer()
	window := g.session.LastWindow()
	g.hud.Draw(ui.HUDData{
		Title:        g.cfg.Screen.Title,
		Generator:    g.cfg.Grid.Generator,
		Entities:     flow.Len(),
		Frame:        flow.Frames(),
		FPS:          rl.GetFPS(),
		State:        flow.State().String(),
		Zoom:         g.camera.Zoom,
		OffGridFrac:  window.OffGridFrac,
		SpeedMean:    window.SpeedMean,
		StepTime:     g.session.Perf().Stats().PhaseAvg[telemetry.PhaseStep],
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})

	rl.EndDrawing()
}

// Frames returns the number of simulated frames.
func (g *Game) Frames() uint64 {
	return g.session.Renderer().Frames()
}

// Export writes the trail to an image file.
func (g *Game) Export(path string) error {
	return g.trail.Export(path)
}

// Unload stops the loop and frees GPU resources.
func (g *Game) Unload() {
	g.cancel()
	if err := g.session.Close(); err != nil {
		slog.Warn("closing session", "error", err)
	}
	g.trail.Unload()
}
