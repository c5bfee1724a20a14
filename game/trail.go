package game

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowfields/camera"
	"github.com/pthm-cable/flowfields/renderer"
)

// RaylibTrail is a trail surface backed by a GPU render texture.
type RaylibTrail struct {
	target        rl.RenderTexture2D
	width, height int32
}

// NewRaylibTrail creates a width x height render texture cleared to background.
// Must be called after the window is initialized.
func NewRaylibTrail(width, height int32, background color.NRGBA) *RaylibTrail {
	t := &RaylibTrail{
		target: rl.LoadRenderTexture(width, height),
		width:  width,
		height: height,
	}
	rl.BeginTextureMode(t.target)
	rl.ClearBackground(toColor(background))
	rl.EndTextureMode()
	return t
}

// Size returns the texture dimensions.
func (t *RaylibTrail) Size() (int, int) {
	return int(t.width), int(t.height)
}

// Composite draws the brush into the texture without clearing it.
func (t *RaylibTrail) Composite(b *renderer.Brush) {
	if b.Len() == 0 {
		return
	}
	style := b.Style()
	col := toColor(style.Color)
	thick := float32(style.Width)

	rl.BeginTextureMode(t.target)
	for _, s := range b.Segments() {
		rl.DrawLineEx(
			rl.Vector2{X: float32(s.From.X), Y: float32(s.From.Y)},
			rl.Vector2{X: float32(s.To.X), Y: float32(s.To.Y)},
			thick,
			col,
		)
	}
	rl.EndTextureMode()
}

// Draw blits the trail into the screen rectangle chosen by the camera.
func (t *RaylibTrail) Draw(cam *camera.Camera) {
	// Render textures are stored bottom-up
	srcRect := rl.Rectangle{
		X:      0,
		Y:      float32(t.height),
		Width:  float32(t.width),
		Height: -float32(t.height),
	}
	x, y, w, h := cam.ScreenRect()
	dstRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawTexturePro(t.target.Texture, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Export writes the trail to an image file. The format follows the file
// extension.
func (t *RaylibTrail) Export(path string) error {
	img := rl.LoadImageFromTexture(t.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting trail to %s", path)
	}
	return nil
}

// Unload releases the render texture.
func (t *RaylibTrail) Unload() {
	rl.UnloadRenderTexture(t.target)
}

func toColor(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
