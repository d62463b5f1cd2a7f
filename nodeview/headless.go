package main

import (
	"fmt"
	"image/png"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/itohio/envnode/pkg/config"
	"github.com/itohio/envnode/pkg/device"
	"github.com/itohio/envnode/pkg/framebuffer"
	"github.com/itohio/envnode/pkg/node"
	"github.com/itohio/envnode/pkg/telemetry"
)

// runHeadless logs every record until the device stops or one of signals
// arrives.
func runHeadless(cfg *config.Config, dev device.Device, snapshot string, signals ...os.Signal) error {
	if err := dev.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer dev.Close()

	stop := make(chan os.Signal, 1)
	if len(signals) > 0 {
		signal.Notify(stop, signals...)
		defer signal.Stop(stop)
	}

	fb := framebuffer.New(node.PanelWidth, node.PanelHeight)
	panel := node.NewPanel(cfg.Panel.Layout())
	records := dev.Records()

	for {
		select {
		case sig := <-stop:
			log.WithField("signal", sig).Info("Stopping")
			return nil
		case rec, ok := <-records:
			if !ok {
				log.Warn("Device stopped")
				return nil
			}
			recordFields(rec).Info("Record")

			if err := panel.Update(fb, rec); err != nil {
				log.WithError(err).Warn("Panel update")
			}
			if snapshot != "" {
				if err := writePNG(snapshot, fb.Frame()); err != nil {
					log.WithError(err).Error("Snapshot")
				}
			}
		}
	}
}

func recordFields(rec telemetry.Record) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"uptime":      rec.Uptime,
		"temperature": rec.Temperature().String(),
		"humidity":    rec.Humidity().String(),
		"battery":     rec.Voltage().String(),
		"percent":     rec.BatteryPercent,
		"raw":         rec.RawADC,
	})
}

// writePNG replaces path atomically with the encoded frame.
func writePNG(path string, frame *framebuffer.Frame) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
