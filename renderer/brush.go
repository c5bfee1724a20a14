package renderer

import (
	"image/color"

	"github.com/pthm-cable/flowfields/components"
)

// StrokeStyle is the fixed pen used for trail segments.
type StrokeStyle struct {
	Width float64
	Color color.NRGBA
}

// DefaultStroke is a one pixel white line.
var DefaultStroke = StrokeStyle{
	Width: 1,
	Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
}

// Segment is a single line from From to To.
type Segment struct {
	From, To components.Vector
}

// Brush is the ephemeral drawing surface. It records the segments stroked
// during a frame until they are composited onto a trail surface, after which
// it is cleared.
type Brush struct {
	style    StrokeStyle
	segments []Segment
}

// NewBrush creates an empty brush that strokes with style.
func NewBrush(style StrokeStyle) *Brush {
	if style.Width <= 0 {
		style.Width = DefaultStroke.Width
	}
	return &Brush{
		style:    style,
		segments: make([]Segment, 0, 256),
	}
}

// Line records a segment from -> to.
func (b *Brush) Line(from, to components.Vector) {
	b.segments = append(b.segments, Segment{From: from, To: to})
}

// Segments returns the recorded segments. The slice is only valid until the
// next Clear.
func (b *Brush) Segments() []Segment {
	return b.segments
}

// Len returns the number of recorded segments.
func (b *Brush) Len() int {
	return len(b.segments)
}

// Style returns the brush stroke style.
func (b *Brush) Style() StrokeStyle {
	return b.style
}

// Clear drops all recorded segments, keeping the backing storage.
func (b *Brush) Clear() {
	b.segments = b.segments[:0]
}
