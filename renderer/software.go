package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

// SoftwareTrail is a CPU trail surface backed by an RGBA image.
// Segments are rasterized as anti-aliased quads.
type SoftwareTrail struct {
	img  *image.RGBA
	rast *vector.Rasterizer
}

// NewSoftwareTrail creates a width x height trail filled with background.
func NewSoftwareTrail(width, height int, background color.Color) *SoftwareTrail {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	}
	return &SoftwareTrail{
		img:  img,
		rast: vector.NewRasterizer(width, height),
	}
}

// Size returns the surface dimensions in pixels.
func (t *SoftwareTrail) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the underlying image. Callers must not retain it across frames
// if they need a stable copy.
func (t *SoftwareTrail) Image() *image.RGBA {
	return t.img
}

// Composite rasterizes the brush segments over the current contents.
func (t *SoftwareTrail) Composite(b *Brush) {
	if b.Len() == 0 {
		return
	}
	w, h := t.Size()
	if w == 0 || h == 0 {
		return
	}

	style := b.Style()
	half := float32(style.Width / 2)

	t.rast.Reset(w, h)
	t.rast.DrawOp = draw.Over
	drawn := 0
	for _, s := range b.Segments() {
		dx := float32(s.To.X - s.From.X)
		dy := float32(s.To.Y - s.From.Y)
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
			continue
		}
		// Unit normal scaled to half the stroke width
		nx := -dy / l * half
		ny := dx / l * half

		x0, y0 := float32(s.From.X), float32(s.From.Y)
		x1, y1 := float32(s.To.X), float32(s.To.Y)
		t.rast.MoveTo(x0+nx, y0+ny)
		t.rast.LineTo(x1+nx, y1+ny)
		t.rast.LineTo(x1-nx, y1-ny)
		t.rast.LineTo(x0-nx, y0-ny)
		t.rast.ClosePath()
		drawn++
	}
	if drawn == 0 {
		return
	}
	t.rast.Draw(t.img, t.img.Bounds(), image.NewUniform(style.Color), image.Point{})
}

// WritePNG encodes the current trail image as PNG.
func (t *SoftwareTrail) WritePNG(w io.Writer) error {
	if err := png.Encode(w, t.img); err != nil {
		return fmt.Errorf("encoding trail png: %w", err)
	}
	return nil
}

// At returns the colour of a single pixel.
func (t *SoftwareTrail) At(x, y int) color.RGBA {
	return t.img.RGBAAt(x, y)
}
