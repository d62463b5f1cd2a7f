// Package icon holds 1-bit panel bitmaps and draws them onto a pixel sink.
package icon

import (
	"fmt"
	"image"

	"github.com/itohio/envnode/pkg/graph"
)

// Icon is a row-major bitmap packed MSB first, bit index row*Width+col.
// A clear bit is ink (black), a set bit is paper.
type Icon struct {
	Width  int
	Height int
	Bits   []byte
}

// Parse builds an Icon from ASCII art: '#' is ink, anything else is paper.
// All rows must have the same length.
func Parse(rows ...string) (Icon, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Icon{}, fmt.Errorf("empty icon")
	}
	w, h := len(rows[0]), len(rows)
	ic := Icon{
		Width:  w,
		Height: h,
		Bits:   make([]byte, (w*h+7)/8),
	}
	for i := range ic.Bits {
		ic.Bits[i] = 0xFF
	}
	for y, row := range rows {
		if len(row) != w {
			return Icon{}, fmt.Errorf("row %d is %d wide, want %d", y, len(row), w)
		}
		for x := 0; x < w; x++ {
			if row[x] == '#' {
				n := y*w + x
				ic.Bits[n/8] &^= 0x80 >> (n % 8)
			}
		}
	}
	return ic, nil
}

// MustParse is Parse that panics, for package-level icons.
func MustParse(rows ...string) Icon {
	ic, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return ic
}

// Ink reports whether the pixel at (x, y) is drawn.
func (ic Icon) Ink(x, y int) bool {
	if x < 0 || y < 0 || x >= ic.Width || y >= ic.Height {
		return false
	}
	n := y*ic.Width + x
	if n/8 >= len(ic.Bits) {
		return false
	}
	return ic.Bits[n/8]&(0x80>>(n%8)) == 0
}

// Bounds is the icon rectangle placed at origin.
func (ic Icon) Bounds(origin image.Point) image.Rectangle {
	return image.Rect(origin.X, origin.Y, origin.X+ic.Width, origin.Y+ic.Height)
}

// Draw plots every ink pixel with its top-left corner at origin. It stops at
// the first pixel the sink refuses.
func (ic Icon) Draw(plot graph.PixelSink, origin image.Point) error {
	for y := 0; y < ic.Height; y++ {
		for x := 0; x < ic.Width; x++ {
			if !ic.Ink(x, y) {
				continue
			}
			px, py := origin.X+x, origin.Y+y
			if err := plot.SetPixel(px, py); err != nil {
				return fmt.Errorf("failed to draw point (%d,%d): %w", px, py, err)
			}
		}
	}
	return nil
}
