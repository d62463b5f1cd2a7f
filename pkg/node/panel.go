package node

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/itohio/envnode/pkg/graph"
	"github.com/itohio/envnode/pkg/icon"
	"github.com/itohio/envnode/pkg/telemetry"
)

// Panel dimensions of the 2.13" e-paper in landscape.
const (
	PanelWidth  = 250
	PanelHeight = 122
)

// Screen is a monochrome display that can also print text.
type Screen interface {
	graph.PixelSink
	// Clear blanks the frame.
	Clear()
	// Print draws text with its top-left corner at (x, y).
	Print(x, y int, text string) error
	// Present pushes the frame to the glass.
	Present() error
}

// Layout places every panel element.
type Layout struct {
	Graph        image.Rectangle
	Thermometer  image.Point
	Battery      image.Point
	Temperature  image.Point
	Humidity     image.Point
	BatteryLevel image.Point

	// Chronological joins the chart oldest first instead of in storage order.
	Chronological bool
}

// DefaultLayout is the stock 250x122 arrangement: icons and labels on top,
// the temperature chart across the bottom.
func DefaultLayout() Layout {
	return Layout{
		Graph:        image.Rect(0, 72, 250, 120),
		Thermometer:  image.Pt(0, 7),
		Battery:      image.Pt(215, 10),
		Temperature:  image.Pt(70, 20),
		Humidity:     image.Pt(70, 40),
		BatteryLevel: image.Pt(170, 15),
	}
}

// Panel composes a full frame from each record and keeps the chart history.
type Panel struct {
	layout  Layout
	history *graph.Buffer

	lastUptime time.Duration
	started    bool
}

func NewPanel(layout Layout) *Panel {
	return &Panel{
		layout:  layout,
		history: graph.NewBuffer(),
	}
}

// History is the temperature history the chart is drawn from.
func (p *Panel) History() *graph.Buffer {
	return p.history
}

func (p *Panel) Layout() Layout {
	return p.layout
}

// Update records the temperature and redraws the whole frame. The frame is
// always presented; icon and label failures are reported after that.
//
// An uptime lower than the previous record's means the node restarted, and the
// chart starts over.
func (p *Panel) Update(screen Screen, rec telemetry.Record) error {
	if p.started && rec.Uptime < p.lastUptime {
		p.history.Reset()
	}
	p.started = true
	p.lastUptime = rec.Uptime

	p.history.Push(rec.TempC100)

	screen.Clear()

	var errs []error
	if err := icon.Thermometer.Draw(screen, p.layout.Thermometer); err != nil {
		errs = append(errs, fmt.Errorf("thermometer icon: %w", err))
	}
	if err := icon.FullBattery.Draw(screen, p.layout.Battery); err != nil {
		errs = append(errs, fmt.Errorf("battery icon: %w", err))
	}

	labels := []struct {
		at   image.Point
		text string
	}{
		{p.layout.Temperature, telemetry.Celsius(rec.TempC100)},
		{p.layout.Humidity, telemetry.RelHumidity(rec.HumidityC100)},
		{p.layout.BatteryLevel, telemetry.Percent(rec.BatteryPercent)},
	}
	for _, l := range labels {
		if err := screen.Print(l.at.X, l.at.Y, l.text); err != nil {
			errs = append(errs, fmt.Errorf("failed to print %q: %w", l.text, err))
		}
	}

	g := p.layout.Graph
	if p.layout.Chronological {
		p.history.RenderChronological(screen, g.Min, g.Dx(), g.Dy())
	} else {
		p.history.Render(screen, g.Min, g.Dx(), g.Dy())
	}

	if err := screen.Present(); err != nil {
		errs = append(errs, fmt.Errorf("failed to present frame: %w", err))
	}
	return errors.Join(errs...)
}
