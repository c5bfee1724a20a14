// Package camera maps the trail surface onto the window.
package camera

// Camera fits the whole trail surface into the viewport, preserving its
// aspect ratio and centering it. Any spare space is letterboxed.
type Camera struct {
	// Position is the camera center in surface coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Surface dimensions
	WorldW, WorldH float32
}

// New creates a camera showing the whole surface.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		X:      worldW / 2,
		Y:      worldH / 2,
		WorldW: worldW,
		WorldH: worldH,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Resize updates viewport dimensions and refits the surface.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.Zoom = fitZoom(viewportW, viewportH, c.WorldW, c.WorldH)
}

// fitZoom is the largest zoom at which the surface fits the viewport in
// both axes.
func fitZoom(viewportW, viewportH, worldW, worldH float32) float32 {
	if worldW <= 0 || worldH <= 0 || viewportW <= 0 || viewportH <= 0 {
		return 1
	}
	return min(viewportW/worldW, viewportH/worldH)
}

// WorldToScreen converts surface coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to surface coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// ScreenRect returns the screen rectangle covered by the surface.
func (c *Camera) ScreenRect() (x, y, w, h float32) {
	x, y = c.WorldToScreen(0, 0)
	return x, y, c.WorldW * c.Zoom, c.WorldH * c.Zoom
}
