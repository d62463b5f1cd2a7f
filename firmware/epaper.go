//go:build tinygo

package main

import (
	"image/color"

	"github.com/itohio/envnode/pkg/framebuffer"
	"github.com/itohio/envnode/pkg/node"
	"tinygo.org/x/drivers/waveshare-epd/epd2in13"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

const (
	epdNativeWidth  = node.PanelHeight
	epdNativeHeight = node.PanelWidth

	// Print positions are the top left corner of the text; tinyfont wants
	// the baseline.
	fontAscent = 12
)

var ink = color.RGBA{0, 0, 0, 255}

// epaper presents the panel in landscape on a portrait 2.13" display mounted
// upside down. It implements node.Screen; displayer wraps it as a
// drivers.Displayer for tinyfont.
type epaper struct {
	dev epd2in13.Device
}

func newEpaper(dev epd2in13.Device) *epaper {
	e := &epaper{dev: dev}
	e.dev.Configure(epd2in13.Config{
		Width:  epdNativeWidth,
		Height: epdNativeHeight,
	})
	e.dev.ClearBuffer()
	e.dev.ClearDisplay()
	e.dev.WaitUntilIdle()
	return e
}

func (e *epaper) Size() (int16, int16) {
	return node.PanelWidth, node.PanelHeight
}

func (e *epaper) SetPixel(x, y int) error {
	if x < 0 || y < 0 || x >= node.PanelWidth || y >= node.PanelHeight {
		return framebuffer.ErrOutOfBounds
	}
	e.setPixel(int16(x), int16(y), ink)
	return nil
}

// setPixel maps landscape to the native portrait scan. Landscape is native
// turned 90 degrees; the upside-down mount adds 180.
func (e *epaper) setPixel(x, y int16, c color.RGBA) {
	e.dev.SetPixel(y, node.PanelWidth-1-x, c)
}

func (e *epaper) Clear() {
	e.dev.ClearBuffer()
}

func (e *epaper) Print(x, y int, text string) error {
	if x < 0 || y < 0 || x >= node.PanelWidth || y >= node.PanelHeight {
		return framebuffer.ErrOutOfBounds
	}
	tinyfont.WriteLine(displayer{e}, &freemono.Regular9pt7b, int16(x), int16(y+fontAscent), text, ink)
	return nil
}

func (e *epaper) Present() error {
	if err := e.dev.Display(); err != nil {
		return err
	}
	e.dev.WaitUntilIdle()
	return nil
}

// displayer gives tinyfont the landscape view with its own SetPixel signature.
type displayer struct {
	e *epaper
}

func (d displayer) Size() (int16, int16) {
	return d.e.Size()
}

func (d displayer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= node.PanelWidth || y >= node.PanelHeight {
		return
	}
	d.e.setPixel(x, y, c)
}

func (d displayer) Display() error {
	return d.e.Present()
}
