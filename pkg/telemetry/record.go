// Package telemetry is the per-tick node record and its line protocol.
//
// A node prints one line per tick on its serial console:
//
//	<uptime_ms>,<raw_adc>,<temp_c100>,<hum_c100>,<battery_mv>,<battery_pct>*<crc8>
//
// The checksum is two upper-case hex digits of CRC-8 (poly 0x31, init 0xFF)
// over every byte before '*'.
package telemetry

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/itohio/envnode/pkg/battery"
)

// Record is one tick of a node.
type Record struct {
	Uptime         time.Duration
	RawADC         int16
	TempC100       int16
	HumidityC100   uint16
	BatteryMilliV  battery.Millivolts
	BatteryPercent uint8
}

// Voltage is the filtered battery voltage.
func (r Record) Voltage() physic.ElectricPotential {
	return physic.ElectricPotential(r.BatteryMilliV) * physic.MilliVolt
}

func (r Record) Temperature() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(r.TempC100)*10*physic.MilliKelvin
}

func (r Record) Humidity() physic.RelativeHumidity {
	return physic.RelativeHumidity(r.HumidityC100) * physic.PercentRH / 100
}
