// Package ess holds the Environmental Sensing and Battery service values the
// radio layer serves to connected centrals.
package ess

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

// Assigned 16-bit characteristic UUIDs.
const (
	TemperatureUUID  uint16 = 0x2A6E
	HumidityUUID     uint16 = 0x2A6F
	BatteryLevelUUID uint16 = 0x2A19
)

var ErrUnknownCharacteristic = errors.New("unknown characteristic")

// Values is the characteristic value store. Safe for concurrent use: the tick
// writes it while the radio stack reads it.
type Values struct {
	mu           sync.RWMutex
	temperature  int16
	humidity     uint16
	batteryLevel uint8
}

// SetReading stores a temperature (Celsius x100) and humidity (%RH x100).
func (v *Values) SetReading(tempC100 int16, humidityC100 uint16) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.temperature = tempC100
	v.humidity = humidityC100
}

// SetBatteryLevel stores the battery percentage, clamped to 100.
func (v *Values) SetBatteryLevel(pct uint8) {
	if pct > 100 {
		pct = 100
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.batteryLevel = pct
}

// Temperature encodes the temperature as sint16 little-endian, 0.01 C resolution.
func (v *Values) Temperature() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return binary.LittleEndian.AppendUint16(nil, uint16(v.temperature))
}

// Humidity encodes the humidity as uint16 little-endian, 0.01 % resolution.
func (v *Values) Humidity() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return binary.LittleEndian.AppendUint16(nil, v.humidity)
}

func (v *Values) BatteryLevel() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return []byte{v.batteryLevel}
}

// Payload returns the current value of the characteristic identified by uuid.
func (v *Values) Payload(uuid uint16) ([]byte, error) {
	switch uuid {
	case TemperatureUUID:
		return v.Temperature(), nil
	case HumidityUUID:
		return v.Humidity(), nil
	case BatteryLevelUUID:
		return v.BatteryLevel(), nil
	default:
		return nil, fmt.Errorf("%w: 0x%04X", ErrUnknownCharacteristic, uuid)
	}
}
