package device

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/envnode/pkg/battery"
	"github.com/itohio/envnode/pkg/config"
	"github.com/itohio/envnode/pkg/mathx"
	"github.com/itohio/envnode/pkg/sensor"
)

// dischargeADC simulates the battery divider of a node. Every read advances
// simulated time by step.
//
// v(t) = end + (start-end)*exp(-t/tau) + ripple*sin(2*pi*t/period)
type dischargeADC struct {
	cfg  config.MockConfig
	step time.Duration
	t    time.Duration
}

func newDischargeADC(cfg config.MockConfig, step time.Duration) *dischargeADC {
	return &dischargeADC{cfg: cfg, step: step}
}

func (d *dischargeADC) ReadRaw() int16 {
	mv := d.voltage(d.t)
	d.t += d.step
	return codeFor(mv)
}

// voltage returns the battery voltage in mV after t of simulated time.
func (d *dischargeADC) voltage(t time.Duration) float32 {
	s := float32(t.Seconds())
	v := d.cfg.EndMilliV + (d.cfg.StartMilliV-d.cfg.EndMilliV)*math32.Exp(-s/float32(d.cfg.Tau.Seconds()))
	if d.cfg.RippleMilliV != 0 && d.cfg.RipplePeriod > 0 {
		v += d.cfg.RippleMilliV * math32.Sin(2*math32.Pi*s/float32(d.cfg.RipplePeriod.Seconds()))
	}
	return v
}

// codeFor inverts the node's ADC pipeline: the code that reads back as mv,
// clamped to the 12-bit range.
func codeFor(mv float32) int16 {
	pin := mv * 1000 / battery.CalibrationFactor * battery.DividerDenominator / battery.DividerNumerator
	code := math32.Round(pin * battery.FullScale / (battery.ReferenceMilliV * battery.GainDivisor))
	return int16(mathx.Clamp(code, 0, battery.FullScale-1))
}

// flakySensor fails every nth read of inner.
type flakySensor struct {
	inner sensor.Sensor
	every int
	reads int
}

func (f *flakySensor) Read() (sensor.Reading, error) {
	f.reads++
	if f.every > 0 && f.reads%f.every == 0 {
		return sensor.Reading{}, fmt.Errorf("simulated sensor failure on read %d", f.reads)
	}
	return f.inner.Read()
}
