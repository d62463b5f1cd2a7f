package graph

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/envnode/pkg/mathx"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           []image.Point
	}{
		{
			name: "single point",
			x0:   2, y0: 2, x1: 2, y1: 2,
			want: []image.Point{{2, 2}},
		},
		{
			name: "horizontal",
			x0:   0, y0: 0, x1: 3, y1: 0,
			want: []image.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		},
		{
			name: "vertical upwards",
			x0:   1, y0: 3, x1: 1, y1: 0,
			want: []image.Point{{1, 3}, {1, 2}, {1, 1}, {1, 0}},
		},
		{
			name: "diagonal",
			x0:   0, y0: 0, x1: 2, y1: 2,
			want: []image.Point{{0, 0}, {1, 1}, {2, 2}},
		},
		{
			name: "shallow",
			x0:   0, y0: 0, x1: 3, y1: 1,
			want: []image.Point{{0, 0}, {1, 0}, {2, 1}, {3, 1}},
		},
		{
			name: "shallow reversed",
			x0:   3, y0: 1, x1: 0, y1: 0,
			want: []image.Point{{3, 1}, {2, 1}, {1, 0}, {0, 0}},
		},
		{
			name: "steep",
			x0:   0, y0: 0, x1: 1, y1: 3,
			want: []image.Point{{0, 0}, {0, 1}, {1, 2}, {1, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r recorder
			Line(&r, tt.x0, tt.y0, tt.x1, tt.y1)
			assert.Equal(t, tt.want, r.points)
		})
	}
}

func TestLine_EndsOnDestination(t *testing.T) {
	ends := []image.Point{{17, -4}, {-9, 30}, {0, 0}, {40, 3}, {-25, -25}, {6, 41}}

	for _, end := range ends {
		var r recorder
		Line(&r, 0, 0, end.X, end.Y)

		n := max(mathx.Abs(end.X), mathx.Abs(end.Y)) + 1
		assert.Len(t, r.points, n, "to %v", end)
		assert.Equal(t, end, r.points[len(r.points)-1])

		// consecutive pixels are 8-connected
		for i := 1; i < len(r.points); i++ {
			d := r.points[i].Sub(r.points[i-1])
			assert.LessOrEqual(t, mathx.Abs(d.X), 1)
			assert.LessOrEqual(t, mathx.Abs(d.Y), 1)
		}
	}
}

func TestRect(t *testing.T) {
	var r recorder
	Rect(&r, image.Pt(1, 2), 3, 2)

	want := []image.Point{
		{1, 2}, {2, 2}, {3, 2}, // top
		{1, 3}, {2, 3}, {3, 3}, // bottom
		{1, 2}, {1, 3}, // left
		{3, 2}, {3, 3}, // right
	}
	assert.Equal(t, want, r.points)
}

func TestRect_Empty(t *testing.T) {
	var r recorder
	Rect(&r, image.Pt(0, 0), 0, 0)
	assert.Empty(t, r.points)
}
