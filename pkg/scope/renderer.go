package scope

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/itohio/envnode/pkg/battery"
	"github.com/itohio/envnode/pkg/framebuffer"
	"github.com/itohio/envnode/pkg/node"
	"github.com/itohio/envnode/pkg/telemetry"
)

const (
	margin         = float32(20)
	traceMarginL   = float32(60)
	traceHeight    = float32(200)
	labelTextSize  = 12 // panel pixels
	traceTextSize  = 10
	statusTextSize = 12
)

var (
	gridColor   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	axisColor   = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	traceColor  = color.RGBA{R: 255, G: 165, B: 0, A: 255} // Orange
	statusColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	background *canvas.Rectangle
	paper      *canvas.Rectangle
	panel      *canvas.Image

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// panelSize is the on-screen size of the mirrored panel.
func (r *scopeRenderer) panelSize() fyne.Size {
	w, h := node.PanelWidth, node.PanelHeight
	if f := r.scope.Frame(); f != nil {
		w, h = f.Bounds().Dx(), f.Bounds().Dy()
	}
	scale := float32(r.scope.scale)
	return fyne.NewSize(float32(w)*scale, float32(h)*scale)
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	p := r.panelSize()
	return fyne.NewSize(p.Width+2*margin, p.Height+traceHeight+3*margin)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	p := r.panelSize()
	r.paper.Move(fyne.NewPos(margin, margin))
	r.paper.Resize(p)
	r.panel.Move(fyne.NewPos(margin, margin))
	r.panel.Resize(p)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	frame := r.scope.frame
	last := r.scope.last
	trace := append([]tracePoint(nil), r.scope.trace...)
	yMin, yMax := r.scope.yMin, r.scope.yMax
	xMin, xMax := r.scope.xMin, r.scope.xMax
	r.scope.mu.RUnlock()

	r.objects = []fyne.CanvasObject{r.background, r.paper, r.panel}

	if frame != nil {
		r.panel.Image = frame
		r.panel.Show()
		r.drawLabels(frame.Labels)
	}
	r.panel.Refresh()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	p := r.panelSize()
	plotX := traceMarginL
	plotY := p.Height + 2*margin
	plotWidth := size.Width - traceMarginL - margin
	plotHeight := size.Height - plotY - 2*margin
	if plotWidth <= 0 || plotHeight <= 0 {
		return
	}

	r.drawGrid(plotX, plotY, plotWidth, plotHeight, yMin, yMax, xMin, xMax)
	if len(trace) > 1 {
		r.drawTrace(plotX, plotY, plotWidth, plotHeight, trace, yMin, yMax, xMin, xMax)
	}
	if len(trace) > 0 {
		r.drawStatus(plotX, plotY, last)
	}
}

// drawLabels overlays the panel text at the panel scale.
func (r *scopeRenderer) drawLabels(labels []framebuffer.Label) {
	scale := float32(r.scope.scale)
	for _, l := range labels {
		text := canvas.NewText(l.Text, color.Black)
		text.TextSize = labelTextSize * scale
		text.TextStyle = fyne.TextStyle{Monospace: true}
		text.Move(fyne.NewPos(margin+float32(l.Pos.X)*scale, margin+float32(l.Pos.Y)*scale))
		r.objects = append(r.objects, text)
	}
}

// drawGrid draws the oscilloscope-style grid.
func (r *scopeRenderer) drawGrid(plotX, plotY, plotWidth, plotHeight float32, yMin, yMax float64, xMin, xMax time.Duration) {
	// Horizontal grid lines (voltage)
	numHLines := 4
	for i := 0; i < numHLines+1; i++ {
		y := plotY + float32(i)*plotHeight/float32(numHLines)
		r.objects = append(r.objects, gridLine(plotX, y, plotX+plotWidth, y))

		value := yMax - float64(i)*(yMax-yMin)/float64(numHLines)
		text := canvas.NewText(telemetry.Volts(battery.Millivolts(value)), axisColor)
		text.TextSize = traceTextSize
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(plotX-5, y-6))
		r.objects = append(r.objects, text)
	}

	// Vertical grid lines (uptime)
	numVLines := 10
	for i := 0; i < numVLines+1; i++ {
		x := plotX + float32(i)*plotWidth/float32(numVLines)
		r.objects = append(r.objects, gridLine(x, plotY, x, plotY+plotHeight))

		at := xMin + time.Duration(i)*(xMax-xMin)/time.Duration(numVLines)
		text := canvas.NewText(formatUptime(at), axisColor)
		text.TextSize = traceTextSize
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, plotY+plotHeight+5))
		r.objects = append(r.objects, text)
	}
}

func gridLine(x1, y1, x2, y2 float32) *canvas.Line {
	line := canvas.NewLine(gridColor)
	line.Position1 = fyne.NewPos(x1, y1)
	line.Position2 = fyne.NewPos(x2, y2)
	line.StrokeWidth = 1
	return line
}

// drawTrace draws the battery voltage as connected segments (orange).
func (r *scopeRenderer) drawTrace(plotX, plotY, plotWidth, plotHeight float32, trace []tracePoint, yMin, yMax float64, xMin, xMax time.Duration) {
	points := make([]fyne.Position, 0, len(trace))
	for _, p := range trace {
		x := plotX + float32(float64(p.Uptime-xMin)/float64(xMax-xMin))*plotWidth
		y := plotY + plotHeight - float32((float64(p.MilliV)-yMin)/(yMax-yMin))*plotHeight
		points = append(points, fyne.NewPos(x, y))
	}

	for i := 0; i < len(points)-1; i++ {
		line := canvas.NewLine(traceColor)
		line.Position1 = points[i]
		line.Position2 = points[i+1]
		line.StrokeWidth = 1.5
		r.objects = append(r.objects, line)
	}
}

// drawStatus prints the latest battery and uptime in the plot corner.
func (r *scopeRenderer) drawStatus(plotX, plotY float32, rec telemetry.Record) {
	status := telemetry.Volts(rec.BatteryMilliV) + "  " + telemetry.Percent(rec.BatteryPercent) + "  up " + formatUptime(rec.Uptime)
	text := canvas.NewText(status, statusColor)
	text.TextSize = statusTextSize
	text.Alignment = fyne.TextAlignLeading
	text.Move(fyne.NewPos(plotX+10, plotY+10))
	r.objects = append(r.objects, text)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}

// formatUptime renders d as "45s", "12m" or "3h05m".
func formatUptime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return strconv.Itoa(int(d/time.Second)) + "s"
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m"
	}
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	mm := strconv.Itoa(m)
	if m < 10 {
		mm = "0" + mm
	}
	return strconv.Itoa(h) + "h" + mm + "m"
}
