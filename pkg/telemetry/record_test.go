package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/physic"
)

func TestRecord_PhysicalViews(t *testing.T) {
	rec := Record{TempC100: 2250, HumidityC100: 5500, BatteryMilliV: 3870}

	assert.Equal(t, 3870*physic.MilliVolt, rec.Voltage())
	assert.Equal(t, physic.ZeroCelsius+22500*physic.MilliKelvin, rec.Temperature())
	assert.Equal(t, 55*physic.PercentRH, rec.Humidity())
}

func TestRecord_NegativeTemperature(t *testing.T) {
	rec := Record{TempC100: -150}

	assert.Equal(t, physic.ZeroCelsius-1500*physic.MilliKelvin, rec.Temperature())
	assert.Less(t, int64(rec.Temperature()), int64(physic.ZeroCelsius))
}
