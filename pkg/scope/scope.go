// Package scope is a Fyne widget that mirrors a node's e-paper panel and
// plots its battery voltage over time.
package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/envnode/pkg/battery"
	"github.com/itohio/envnode/pkg/framebuffer"
	"github.com/itohio/envnode/pkg/telemetry"
)

// DefaultTraceLength is how many battery readings the trace keeps.
const DefaultTraceLength = 1000

// minTraceWindow is the narrowest time axis shown.
const minTraceWindow = 10 * time.Minute

// tracePoint is one battery reading on the voltage trace.
type tracePoint struct {
	Uptime time.Duration
	MilliV battery.Millivolts
}

// ScopeWidget shows the last presented panel frame at an integer scale with
// the battery voltage trace below it.
type ScopeWidget struct {
	widget.BaseWidget

	scale int

	// Data (protected by mu)
	mu       sync.RWMutex
	frame    *framebuffer.Frame
	last     telemetry.Record
	trace    []tracePoint
	maxTrace int

	// Auto-scaling of the trace
	yMin, yMax float64
	xMin, xMax time.Duration
}

// New creates a new ScopeWidget. scale below 1 is treated as 1.
func New(scale int) *ScopeWidget {
	if scale < 1 {
		scale = 1
	}
	s := &ScopeWidget{
		scale:    scale,
		trace:    make([]tracePoint, 0, DefaultTraceLength),
		maxTrace: DefaultTraceLength,
	}
	s.updateAutoScale()
	s.ExtendBaseWidget(s)
	return s
}

// Update shows frame and appends rec to the voltage trace. A node restart
// (uptime going backwards) clears the trace.
// Call it on the Fyne main thread, e.g. from fyne.Do.
func (s *ScopeWidget) Update(frame *framebuffer.Frame, rec telemetry.Record) {
	s.mu.Lock()

	s.frame = frame
	s.last = rec

	if n := len(s.trace); n > 0 && rec.Uptime < s.trace[n-1].Uptime {
		s.trace = s.trace[:0]
	}
	if len(s.trace) == s.maxTrace {
		copy(s.trace, s.trace[1:])
		s.trace = s.trace[:len(s.trace)-1]
	}
	s.trace = append(s.trace, tracePoint{Uptime: rec.Uptime, MilliV: rec.BatteryMilliV})

	s.updateAutoScale()

	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

// Frame returns the frame currently shown.
func (s *ScopeWidget) Frame() *framebuffer.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// TraceLen returns the number of readings on the voltage trace.
func (s *ScopeWidget) TraceLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trace)
}

// updateAutoScale calculates the trace axes from current data.
func (s *ScopeWidget) updateAutoScale() {
	if len(s.trace) == 0 {
		s.yMin = float64(battery.EmptyMilliV)
		s.yMax = float64(battery.FullMilliV)
		s.xMin = 0
		s.xMax = minTraceWindow
		return
	}

	s.yMin = float64(s.trace[0].MilliV)
	s.yMax = s.yMin
	for _, p := range s.trace {
		v := float64(p.MilliV)
		if v < s.yMin {
			s.yMin = v
		}
		if v > s.yMax {
			s.yMax = v
		}
	}

	// Add 10% margin, at least 10 mV
	margin := (s.yMax - s.yMin) * 0.1
	if margin < 10 {
		margin = 10
	}
	s.yMin -= margin
	s.yMax += margin

	s.xMin = s.trace[0].Uptime
	s.xMax = s.trace[len(s.trace)-1].Uptime
	if s.xMax-s.xMin < minTraceWindow {
		s.xMax = s.xMin + minTraceWindow
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	paper := canvas.NewRectangle(color.White)
	panel := canvas.NewImageFromImage(nil)
	panel.ScaleMode = canvas.ImageScalePixels
	panel.FillMode = canvas.ImageFillStretch
	panel.Hide()

	return &scopeRenderer{
		scope:      s,
		background: background,
		paper:      paper,
		panel:      panel,
		objects:    []fyne.CanvasObject{background, paper, panel},
	}
}
