package graph

import (
	"image"

	"github.com/itohio/envnode/pkg/mathx"
)

// Line plots a straight segment from (x0, y0) to (x1, y1) with Bresenham's
// algorithm. Both endpoints are plotted and every pixel is plotted once.
func Line(plot PixelSink, x0, y0, x1, y1 int) {
	dx := mathx.Abs(x1 - x0)
	dy := mathx.Abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		_ = plot.SetPixel(x, y)

		if x == x1 && y == y1 {
			return
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// Rect plots the outline of a width x height area at origin as four sweeps:
// top, bottom, left, right. Corners are plotted by two sweeps each.
func Rect(plot PixelSink, origin image.Point, width, height int) {
	left, top := origin.X, origin.Y
	right, bottom := left+width-1, top+height-1

	for x := left; x <= right; x++ {
		_ = plot.SetPixel(x, top)
	}
	for x := left; x <= right; x++ {
		_ = plot.SetPixel(x, bottom)
	}
	for y := top; y <= bottom; y++ {
		_ = plot.SetPixel(left, y)
	}
	for y := top; y <= bottom; y++ {
		_ = plot.SetPixel(right, y)
	}
}
