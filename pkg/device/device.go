// Package device connects the host to a sensor node, either over its USB
// serial console or as an in-process simulation.
package device

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial/enumerator"

	"github.com/itohio/envnode/pkg/telemetry"
)

const (
	// DefaultBaudRate of the node's USB CDC console.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the records channel buffer.
	DefaultBufferSize = 100
)

var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
)

// Device is a source of node records (real or simulated).
//
// Records is valid after Connect. The channel is closed once the device stops
// producing, after Close or when the link drops.
type Device interface {
	Connect() error
	Close() error
	Records() <-chan telemetry.Record
	IsConnected() bool
}

var (
	_ Device = (*Serial)(nil)
	_ Device = (*Mock)(nil)
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used by every device.
func SetLogger(l logrus.FieldLogger) {
	log = l
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns the serial ports present on the host.
func Ports() ([]Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(details))
	for _, d := range details {
		result = append(result, Port{
			Name:        d.Name,
			Description: describe(d),
		})
	}
	return result, nil
}

// describe names the USB adapter behind a port, empty for other ports.
func describe(d *enumerator.PortDetails) string {
	if !d.IsUSB {
		return ""
	}
	desc := fmt.Sprintf("USB %s:%s", d.VID, d.PID)
	if d.Product != "" {
		desc += " " + d.Product
	}
	return desc
}
