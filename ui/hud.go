// Package ui draws the on-screen status overlay.
package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Title        string
	Generator    string
	Entities     int
	Frame        uint64
	FPS          int32
	State        string
	Zoom         float32
	OffGridFrac  float64
	SpeedMean    float64
	StepTime     time.Duration
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the heads-up display.
type HUD struct {
	visible bool
}

// NewHUD creates a visible HUD.
func NewHUD() *HUD {
	return &HUD{visible: true}
}

// SetVisible shows or hides the HUD.
func (h *HUD) SetVisible(v bool) {
	h.visible = v
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	if !h.visible {
		return
	}

	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Entities: %d | Frame: %d | FPS: %d", data.Entities, data.Frame, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Field: %s | Off-grid: %.0f%% | Mean speed: %.2f", data.Generator, data.OffGridFrac*100, data.SpeedMean),
		10, 55, 16, rl.LightGray,
	)

	// Status bar
	bar := rl.Rectangle{
		X:      0,
		Y:      float32(data.ScreenHeight - 24),
		Width:  float32(data.ScreenWidth),
		Height: 24,
	}
	gui.StatusBar(bar, fmt.Sprintf("%s  step %s  scale %.2fx",
		data.State, data.StepTime.Round(time.Microsecond), data.Zoom))
}
