package framebuffer

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/envnode/pkg/graph"
	"github.com/itohio/envnode/pkg/node"
	"github.com/itohio/envnode/pkg/telemetry"
)

var (
	_ graph.PixelSink = (*Mono)(nil)
	_ node.Screen     = (*Mono)(nil)
)

func TestMono_SetPixel(t *testing.T) {
	m := New(10, 5)

	require.NoError(t, m.SetPixel(0, 0))
	require.NoError(t, m.SetPixel(9, 4))
	require.NoError(t, m.Present())

	f := m.Frame()
	assert.True(t, f.Ink(0, 0))
	assert.True(t, f.Ink(9, 4))
	assert.False(t, f.Ink(1, 0))
	assert.Equal(t, 2, f.Count())
	assert.Equal(t, image.Rect(0, 0, 10, 5), f.Bounds())
}

func TestMono_OutOfBounds(t *testing.T) {
	m := New(10, 5)

	for _, p := range []image.Point{{-1, 0}, {0, -1}, {10, 0}, {0, 5}, {250, 122}} {
		err := m.SetPixel(p.X, p.Y)
		assert.ErrorIs(t, err, ErrOutOfBounds, "%v", p)
	}

	assert.ErrorIs(t, m.Print(10, 0, "x"), ErrOutOfBounds)
	require.NoError(t, m.Present())
	assert.Zero(t, m.Frame().Count())
	assert.Empty(t, m.Frame().Labels)
}

func TestMono_PresentSnapshots(t *testing.T) {
	m := New(8, 8)
	require.NoError(t, m.SetPixel(1, 1))
	require.NoError(t, m.Print(2, 2, "hi"))
	require.NoError(t, m.Present())
	first := m.Frame()

	m.Clear()
	require.NoError(t, m.SetPixel(3, 3))

	assert.True(t, first.Ink(1, 1), "presented frame does not change while drawing")
	assert.False(t, first.Ink(3, 3))
	assert.Equal(t, []Label{{Pos: image.Pt(2, 2), Text: "hi"}}, first.Labels)

	require.NoError(t, m.Present())
	second := m.Frame()
	assert.False(t, second.Ink(1, 1))
	assert.True(t, second.Ink(3, 3))
	assert.Empty(t, second.Labels)
	assert.Equal(t, uint64(2), m.Frames())
}

func TestFrame_Image(t *testing.T) {
	m := New(4, 4)
	require.NoError(t, m.SetPixel(2, 1))
	require.NoError(t, m.Present())

	var img image.Image = m.Frame()
	assert.Equal(t, color.GrayModel, img.ColorModel())
	assert.Equal(t, color.Black, img.At(2, 1))
	assert.Equal(t, color.White, img.At(0, 0))
	assert.Equal(t, color.White, img.At(-1, 7))
}

func TestMono_Blank(t *testing.T) {
	m := New(node.PanelWidth, node.PanelHeight)

	f := m.Frame()
	require.NotNil(t, f)
	assert.Zero(t, f.Count())
	assert.Zero(t, m.Frames())
}

func TestMono_Panel(t *testing.T) {
	m := New(node.PanelWidth, node.PanelHeight)
	p := node.NewPanel(node.DefaultLayout())

	for _, temp := range []int16{2200, 2300, 2250} {
		require.NoError(t, p.Update(m, telemetry.Record{TempC100: temp, HumidityC100: 5500, BatteryPercent: 87}))
	}

	f := m.Frame()
	assert.True(t, f.Ink(0, 72))
	assert.True(t, f.Ink(249, 119))
	assert.Len(t, f.Labels, 3)
	assert.Equal(t, "22.50 C", f.Labels[0].Text)
}

func TestMono_ConcurrentFrame(t *testing.T) {
	m := New(16, 16)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m.Clear()
			_ = m.SetPixel(i%16, i%16)
			_ = m.Present()
		}
	}()
	for i := 0; i < 200; i++ {
		f := m.Frame()
		assert.LessOrEqual(t, f.Count(), 1)
	}
	wg.Wait()
}
