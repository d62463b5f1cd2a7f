// Package sensor describes the temperature/humidity capability the node reads
// every tick.
package sensor

// Reading is one temperature/humidity measurement in house units.
type Reading struct {
	TempC100     int16  // Celsius x100, 2250 = 22.50 C
	HumidityC100 uint16 // %RH x100, 5500 = 55.00 %
}

// Sensor returns the current reading.
type Sensor interface {
	Read() (Reading, error)
}

// Func adapts a plain function to Sensor.
type Func func() (Reading, error)

func (f Func) Read() (Reading, error) {
	return f()
}
