package graph

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is an in-memory PixelSink that remembers every call.
type recorder struct {
	points []image.Point
	fail   func(p image.Point) bool
}

var errPixel = errors.New("pixel rejected")

func (r *recorder) SetPixel(x, y int) error {
	p := image.Pt(x, y)
	r.points = append(r.points, p)
	if r.fail != nil && r.fail(p) {
		return errPixel
	}
	return nil
}

func (r *recorder) has(x, y int) bool {
	for _, p := range r.points {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

// Panel geometry used by the node: 250x48 chart at y=72.
var (
	origin = image.Pt(0, 72)
	width  = 250
	height = 48
)

func onBorder(p image.Point) bool {
	return p.X == origin.X || p.X == origin.X+width-1 || p.Y == origin.Y || p.Y == origin.Y+height-1
}

func TestBuffer_Push(t *testing.T) {
	b := NewBuffer()
	assert.Equal(t, 0, b.Len())

	b.Push(2200)
	b.Push(2300)

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []int16{2200, 2300}, b.Samples(nil))
}

func TestBuffer_PushSaturates(t *testing.T) {
	b := NewBuffer()
	const extra = 7

	for i := 0; i < Capacity+extra; i++ {
		b.Push(int16(i))
		require.LessOrEqual(t, b.Len(), Capacity)
	}

	want := make([]int16, 0, Capacity)
	for i := extra; i < Capacity+extra; i++ {
		want = append(want, int16(i))
	}
	assert.Equal(t, Capacity, b.Len())
	assert.Equal(t, want, b.Samples(nil))
}

func TestBuffer_SamplesAppends(t *testing.T) {
	b := NewBuffer()
	b.Push(1)
	b.Push(2)

	dst := make([]int16, 0, 4)
	dst = append(dst, 99)
	assert.Equal(t, []int16{99, 1, 2}, b.Samples(dst))
}

func TestBuffer_Reset(t *testing.T) {
	b := NewBuffer()
	b.Push(1)
	b.Push(2)

	b.Reset()

	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Samples(nil))
}

func TestBuffer_Range(t *testing.T) {
	tests := []struct {
		name   string
		values []int16
		lo, hi int
		ok     bool
	}{
		{name: "empty", values: nil, ok: false},
		{name: "single", values: []int16{2200}, ok: false},
		{name: "narrow is recentred", values: []int16{2200, 2300}, lo: 2000, hi: 2500, ok: true},
		{name: "flat is recentred", values: []int16{2000, 2000, 2000}, lo: 1750, hi: 2250, ok: true},
		// (2201+2200)/2 = 2200
		{name: "odd midpoint truncates", values: []int16{2200, 2201}, lo: 1950, hi: 2450, ok: true},
		{name: "exactly min span", values: []int16{2000, 2500}, lo: 2000, hi: 2500, ok: true},
		{name: "wide keeps extremes", values: []int16{1000, 2000, 1500}, lo: 1000, hi: 2000, ok: true},
		{name: "below zero", values: []int16{-1500, -900}, lo: -1500, hi: -900, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer()
			for _, v := range tt.values {
				b.Push(v)
			}

			lo, hi, ok := b.Range()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.lo, lo)
				assert.Equal(t, tt.hi, hi)
			}
		})
	}
}

func TestRender_NotEnoughData(t *testing.T) {
	for _, n := range []int{0, 1} {
		b := NewBuffer()
		for i := 0; i < n; i++ {
			b.Push(2200)
		}

		var r recorder
		b.Render(&r, origin, width, height)
		assert.Empty(t, r.points, "%d readings", n)
	}
}

func TestRender_TwoPoints(t *testing.T) {
	b := NewBuffer()
	b.Push(2200)
	b.Push(2300)

	var r recorder
	b.Render(&r, origin, width, height)

	// Range is recentred to [2000, 2500], xStep = 248.
	// y1 = 72+48-2 - 200*44/500 = 118-17, y2 = 118 - 300*44/500 = 118-26
	assert.True(t, r.has(1, 101), "first endpoint")
	assert.True(t, r.has(249, 92), "second endpoint")

	border := 2*width + 2*height
	line := r.points[border:]
	require.NotEmpty(t, line)
	assert.Equal(t, image.Pt(1, 101), line[0])
	assert.Equal(t, image.Pt(249, 92), line[len(line)-1])

	// No gaps: every column between the endpoints carries a line pixel.
	for x := 1; x <= 249; x++ {
		found := false
		for _, p := range line {
			if p.X == x {
				found = true
				assert.GreaterOrEqual(t, p.Y, 92)
				assert.LessOrEqual(t, p.Y, 101)
			}
		}
		assert.True(t, found, "column %d", x)
	}
	assert.Len(t, line, 249, "x-major segment plots one pixel per column")
}

func TestRender_Border(t *testing.T) {
	b := NewBuffer()
	b.Push(2200)
	b.Push(2200)

	var r recorder
	b.Render(&r, origin, width, height)

	border := r.points[:2*width+2*height]
	for x := 0; x < width; x++ {
		assert.Equal(t, image.Pt(x, 72), border[x])
		assert.Equal(t, image.Pt(x, 119), border[width+x])
	}
	for y := 0; y < height; y++ {
		assert.Equal(t, image.Pt(0, 72+y), border[2*width+y])
		assert.Equal(t, image.Pt(249, 72+y), border[2*width+height+y])
	}
}

func TestRender_FlatSeries(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < 3; i++ {
		b.Push(2000)
	}

	var r recorder
	b.Render(&r, origin, width, height)

	// Range [1750, 2250]: y = 118 - 250*44/500 = 96.
	require.NotEmpty(t, r.points)
	for x := 1; x <= 249; x++ {
		assert.True(t, r.has(x, 96), "column %d", x)
	}
	for _, p := range r.points {
		if !onBorder(p) {
			assert.Equal(t, 96, p.Y, "%v", p)
		}
	}
}

// wrapped holds 50 readings of 20.00 C overwritten by 5 of 30.00 C, so slots
// 0..4 carry the newest readings.
func wrapped() *Buffer {
	b := NewBuffer()
	for i := 0; i < Capacity; i++ {
		b.Push(2000)
	}
	for i := 0; i < 5; i++ {
		b.Push(3000)
	}
	return b
}

func TestRender_StorageOrderAfterWrap(t *testing.T) {
	var r recorder
	wrapped().Render(&r, origin, width, height)

	// Span 1000, xStep = 248/49 = 5. Slots 0..4 (30.00 C) sit at
	// y = 118 - 1000*44/1000 = 74, slots 5..49 (20.00 C) at y = 118.
	line := r.points[2*width+2*height:]
	require.NotEmpty(t, line)
	assert.Equal(t, image.Pt(1, 74), line[0])
	assert.Equal(t, image.Pt(1+49*5, 118), line[len(line)-1])
	assert.True(t, r.has(1+4*5, 74))
	assert.True(t, r.has(1+5*5, 118))
	assert.False(t, r.has(1, 118))
}

func TestRenderChronological_AfterWrap(t *testing.T) {
	var r recorder
	wrapped().RenderChronological(&r, origin, width, height)

	// The oldest 45 readings sit at y=118, the newest 5 at y=74.
	line := r.points[2*width+2*height:]
	require.NotEmpty(t, line)
	assert.Equal(t, image.Pt(1, 118), line[0])
	assert.Equal(t, image.Pt(1+49*5, 74), line[len(line)-1])
	assert.False(t, r.has(1, 74))
}

func TestRender_OrdersAgreeBeforeWrap(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < 10; i++ {
		b.Push(int16(2000 + i*37))
	}

	var stored, chrono recorder
	b.Render(&stored, origin, width, height)
	b.RenderChronological(&chrono, origin, width, height)
	assert.Equal(t, stored.points, chrono.points)
}

func TestRender_FailuresDoNotAbort(t *testing.T) {
	b := NewBuffer()
	b.Push(2200)
	b.Push(2300)

	var ok recorder
	b.Render(&ok, origin, width, height)

	failing := recorder{fail: func(image.Point) bool { return true }}
	b.Render(&failing, origin, width, height)

	assert.Equal(t, ok.points, failing.points)
}

func TestRender_NarrowArea(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < Capacity; i++ {
		b.Push(int16(2000 + i*20))
	}

	var r recorder
	// (10-2)/49 == 0, so the step falls back to 1 pixel per reading.
	b.Render(&r, image.Pt(5, 5), 10, 20)

	assert.True(t, r.has(6, 5+20-2), "oldest reading at the bottom")
	assert.True(t, r.has(6+49, 5+2), "newest reading at the top")
}
