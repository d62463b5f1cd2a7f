// Package framebuffer is an in-memory 1-bit panel for hosts. It accepts the
// same drawing calls as the e-paper and keeps the last presented frame for
// display.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
)

var ErrOutOfBounds = errors.New("pixel out of bounds")

// Label is text printed at a position. Glyphs are left to whoever shows the
// frame.
type Label struct {
	Pos  image.Point
	Text string
}

// Mono is a bounded monochrome framebuffer. Drawing calls are meant for a
// single goroutine; Frame may be called from any goroutine.
type Mono struct {
	width, height int
	pix           []byte
	labels        []Label

	mu        sync.RWMutex
	presented *Frame
	frames    uint64
}

// New allocates a blank width x height framebuffer.
func New(width, height int) *Mono {
	m := &Mono{
		width:  width,
		height: height,
		pix:    make([]byte, (width*height+7)/8),
	}
	m.presented = m.snapshot()
	return m
}

func (m *Mono) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// SetPixel inks one pixel.
func (m *Mono) SetPixel(x, y int) error {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, m.width, m.height)
	}
	n := y*m.width + x
	m.pix[n/8] |= 0x80 >> (n % 8)
	return nil
}

// Clear blanks pixels and labels of the frame being drawn.
func (m *Mono) Clear() {
	for i := range m.pix {
		m.pix[i] = 0
	}
	m.labels = m.labels[:0]
}

// Print records a label with its top-left corner at (x, y).
func (m *Mono) Print(x, y int, text string) error {
	if !image.Pt(x, y).In(m.Bounds()) {
		return fmt.Errorf("%w: label %q at (%d,%d)", ErrOutOfBounds, text, x, y)
	}
	m.labels = append(m.labels, Label{Pos: image.Pt(x, y), Text: text})
	return nil
}

// Present publishes the frame being drawn.
func (m *Mono) Present() error {
	f := m.snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.presented = f
	m.frames++
	return nil
}

// Frame returns the last presented frame. It is never modified afterwards.
func (m *Mono) Frame() *Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.presented
}

// Frames counts Present calls.
func (m *Mono) Frames() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames
}

func (m *Mono) snapshot() *Frame {
	return &Frame{
		width:  m.width,
		height: m.height,
		pix:    append([]byte(nil), m.pix...),
		Labels: append([]Label(nil), m.labels...),
	}
}

// Frame is an immutable presented frame. It renders black ink on white paper.
type Frame struct {
	width, height int
	pix           []byte
	Labels        []Label
}

var _ image.Image = (*Frame)(nil)

// Ink reports whether (x, y) is set.
func (f *Frame) Ink(x, y int) bool {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return false
	}
	n := y*f.width + x
	return f.pix[n/8]&(0x80>>(n%8)) != 0
}

// Count returns the number of inked pixels.
func (f *Frame) Count() int {
	n := 0
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.Ink(x, y) {
				n++
			}
		}
	}
	return n
}

func (f *Frame) ColorModel() color.Model {
	return color.GrayModel
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

func (f *Frame) At(x, y int) color.Color {
	if f.Ink(x, y) {
		return color.Black
	}
	return color.White
}
