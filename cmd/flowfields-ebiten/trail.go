package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/pthm-cable/flowfields/renderer"
)

// EbitenTrail is a trail surface backed by an offscreen ebiten image.
type EbitenTrail struct {
	img *ebiten.Image
}

// NewEbitenTrail creates a width x height image filled with background.
func NewEbitenTrail(width, height int, background color.Color) *EbitenTrail {
	img := ebiten.NewImage(width, height)
	img.Fill(background)
	return &EbitenTrail{img: img}
}

// Size returns the image dimensions.
func (t *EbitenTrail) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the offscreen image.
func (t *EbitenTrail) Image() *ebiten.Image {
	return t.img
}

// Composite strokes the brush segments over the image without clearing it.
func (t *EbitenTrail) Composite(b *renderer.Brush) {
	style := b.Style()
	width := float32(style.Width)
	for _, s := range b.Segments() {
		vector.StrokeLine(t.img,
			float32(s.From.X), float32(s.From.Y),
			float32(s.To.X), float32(s.To.Y),
			width, style.Color, true)
	}
}
