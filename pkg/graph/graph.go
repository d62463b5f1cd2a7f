// Package graph keeps a short temperature history and draws it as an auto-scaled
// line chart through a pixel-set capability.
//
// Temperatures are Celsius x100 (2250 = 22.50 C). Scaling and rasterization are
// integer only.
package graph

import (
	"image"

	"github.com/itohio/envnode/pkg/mathx"
)

const (
	// Capacity is the number of readings kept; older readings are overwritten.
	Capacity = 50

	// MinSpan is the smallest vertical range drawn (5.00 C). Flatter series are
	// centred in a MinSpan window so the chart never divides by zero.
	MinSpan = 500
)

// PixelSink sets one foreground pixel in display coordinates.
// A failed pixel never aborts drawing.
type PixelSink interface {
	SetPixel(x, y int) error
}

// Buffer is a fixed-capacity circular history of temperature readings.
// The zero value is an empty buffer. Not safe for concurrent use.
type Buffer struct {
	history    [Capacity]int16
	count      int // valid entries, saturates at Capacity
	writeIndex int // next slot to overwrite
}

// NewBuffer returns an empty history.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Push appends a reading, overwriting the oldest one once the buffer is full.
func (b *Buffer) Push(tempC100 int16) {
	b.history[b.writeIndex] = tempC100
	b.writeIndex = (b.writeIndex + 1) % Capacity
	if b.count < Capacity {
		b.count++
	}
}

// Len returns the number of valid readings.
func (b *Buffer) Len() int {
	return b.count
}

// Reset drops every reading.
func (b *Buffer) Reset() {
	*b = Buffer{}
}

// Samples appends the valid readings to dst, oldest first, and returns the
// extended slice.
func (b *Buffer) Samples(dst []int16) []int16 {
	for i := 0; i < b.count; i++ {
		dst = append(dst, b.at(i))
	}
	return dst
}

// at returns the i-th reading in chronological order.
func (b *Buffer) at(i int) int16 {
	start := 0
	if b.count == Capacity {
		start = b.writeIndex
	}
	return b.history[(start+i)%Capacity]
}

func (b *Buffer) stored(i int) int16 {
	return b.history[i]
}

// Range returns the vertical range Render scales into. ok is false while fewer
// than two readings are stored.
func (b *Buffer) Range() (lo, hi int, ok bool) {
	if b.count < 2 {
		return 0, 0, false
	}

	lo, hi = int(b.history[0]), int(b.history[0])
	for i := 0; i < b.count; i++ {
		v := int(b.history[i])
		lo = mathx.Min(lo, v)
		hi = mathx.Max(hi, v)
	}

	if hi-lo < MinSpan {
		mid := (hi + lo) / 2
		lo = mid - MinSpan/2
		hi = mid + MinSpan/2
	}
	return lo, hi, true
}

// Render draws a border around the area at origin and the history as connected
// line segments inside it. Nothing is drawn with fewer than two readings.
//
// Readings are joined in storage order: once the buffer has wrapped, the chart
// starts with the newest readings at the slots they overwrote.
func (b *Buffer) Render(plot PixelSink, origin image.Point, width, height int) {
	b.render(plot, origin, width, height, b.stored)
}

// RenderChronological is Render with the readings joined oldest first.
func (b *Buffer) RenderChronological(plot PixelSink, origin image.Point, width, height int) {
	b.render(plot, origin, width, height, b.at)
}

func (b *Buffer) render(plot PixelSink, origin image.Point, width, height int, reading func(i int) int16) {
	lo, hi, ok := b.Range()
	if !ok {
		return
	}

	Rect(plot, origin, width, height)

	s := scale{
		origin: origin,
		height: height,
		lo:     lo,
		span:   hi - lo,
		xStep:  mathx.Max(1, (width-2)/(b.count-1)),
	}

	prev := s.point(0, reading(0))
	for i := 1; i < b.count; i++ {
		cur := s.point(i, reading(i))
		Line(plot, prev.X, prev.Y, cur.X, cur.Y)
		prev = cur
	}
}

// scale maps (index, reading) pairs into the drawing area inside the border.
type scale struct {
	origin image.Point
	height int
	lo     int
	span   int
	xStep  int
}

func (s scale) point(i int, v int16) image.Point {
	return image.Point{
		X: s.origin.X + 1 + i*s.xStep,
		Y: s.origin.Y + s.height - 2 - (int(v)-s.lo)*(s.height-4)/s.span,
	}
}
