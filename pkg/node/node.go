// Package node is the periodic work of a sensor node: acquisition and battery
// filtering in Node, screen composition in Panel.
package node

import (
	"fmt"
	"time"

	"github.com/itohio/envnode/pkg/battery"
	"github.com/itohio/envnode/pkg/ess"
	"github.com/itohio/envnode/pkg/sensor"
	"github.com/itohio/envnode/pkg/telemetry"
)

// TickInterval is how often a node samples and redraws.
const TickInterval = 10 * time.Second

// ADC returns one signed 12-bit conversion of the battery divider.
type ADC interface {
	ReadRaw() int16
}

// ADCFunc adapts a plain function to ADC.
type ADCFunc func() int16

func (f ADCFunc) ReadRaw() int16 {
	return f()
}

// Node owns the battery estimator and the characteristic store.
// Not safe for concurrent use.
type Node struct {
	sensor    sensor.Sensor
	adc       ADC
	estimator *battery.Estimator
	values    *ess.Values
	now       func() time.Time
	start     time.Time
}

// Option configures a Node.
type Option func(*Node)

// WithValues publishes readings into v instead of a private store.
func WithValues(v *ess.Values) Option {
	return func(n *Node) {
		n.values = v
	}
}

// WithClock replaces time.Now for uptime stamping.
func WithClock(now func() time.Time) Option {
	return func(n *Node) {
		n.now = now
	}
}

// New creates a node. Uptime counts from this call.
func New(s sensor.Sensor, adc ADC, opts ...Option) *Node {
	n := &Node{
		sensor:    s,
		adc:       adc,
		estimator: battery.NewEstimator(),
		values:    &ess.Values{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.start = n.now()
	return n
}

// Values is the characteristic store the node publishes into.
func (n *Node) Values() *ess.Values {
	return n.values
}

// Estimator exposes the battery filter.
func (n *Node) Estimator() *battery.Estimator {
	return n.estimator
}

// Sample runs one tick of acquisition. On a sensor error nothing is updated
// and the battery filter is not advanced.
func (n *Node) Sample() (telemetry.Record, error) {
	r, err := n.sensor.Read()
	if err != nil {
		return telemetry.Record{}, fmt.Errorf("failed to read sensor: %w", err)
	}
	n.values.SetReading(r.TempC100, r.HumidityC100)

	raw := n.adc.ReadRaw()
	mv := n.estimator.Ingest(raw)
	pct := battery.Percentage(mv)
	n.values.SetBatteryLevel(pct)

	return telemetry.Record{
		Uptime:         n.now().Sub(n.start),
		RawADC:         raw,
		TempC100:       r.TempC100,
		HumidityC100:   r.HumidityC100,
		BatteryMilliV:  mv,
		BatteryPercent: pct,
	}, nil
}
