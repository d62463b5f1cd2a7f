package sensor

import (
	"errors"
	"fmt"
	"time"

	"github.com/sigurn/crc8"
	"tinygo.org/x/drivers"
)

// AHT20Address is the fixed I2C address of the AHT20.
const AHT20Address = 0x38

const (
	aht20CmdTrigger    = 0xAC
	aht20CmdInitialize = 0xBE
	aht20CmdStatus     = 0x71

	aht20StatusBusy       = 0x80
	aht20StatusCalibrated = 0x08

	aht20Conversion = 80 * time.Millisecond
	aht20Poll       = 10 * time.Millisecond
	aht20Timeout    = 250 * time.Millisecond
)

var (
	ErrNotCalibrated = errors.New("aht20: not calibrated")
	ErrTimeout       = errors.New("aht20: measurement timeout")
	ErrCRC           = errors.New("aht20: bad crc")
)

var _ Sensor = (*AHT20)(nil)

var crcTable = crc8.MakeTable(crc8.Params{
	Poly:   0x31, // x^8 + x^5 + x^4 + 1
	Init:   0xFF,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x00,
})

// Checksum is the CRC-8 the AHT20 appends to its frames (poly 0x31, init 0xFF).
func Checksum(data []byte) uint8 {
	return crc8.Checksum(data, crcTable)
}

// AHT20 reads temperature and humidity from an AHT20 over I2C and converts
// them to house units without floating point.
type AHT20 struct {
	bus     drivers.I2C
	Address uint16

	buf   [7]byte
	sleep func(time.Duration)
}

// NewAHT20 wraps a configured I2C bus. It does not touch the device.
func NewAHT20(bus drivers.I2C) *AHT20 {
	return &AHT20{
		bus:     bus,
		Address: AHT20Address,
		sleep:   time.Sleep,
	}
}

// Configure checks that the sensor answers and loads its calibration if the
// status says it is missing.
func (d *AHT20) Configure() error {
	status, err := d.status()
	if err != nil {
		return fmt.Errorf("aht20: no answer at 0x%02X: %w", d.Address, err)
	}
	if status&aht20StatusCalibrated != 0 {
		return nil
	}

	if err := d.bus.Tx(d.Address, []byte{aht20CmdInitialize, 0x08, 0x00}, nil); err != nil {
		return fmt.Errorf("aht20: initialize: %w", err)
	}
	d.sleep(10 * time.Millisecond)

	if status, err = d.status(); err != nil {
		return fmt.Errorf("aht20: status: %w", err)
	}
	if status&aht20StatusCalibrated == 0 {
		return ErrNotCalibrated
	}
	return nil
}

func (d *AHT20) status() (byte, error) {
	data := d.buf[:1]
	if err := d.bus.Tx(d.Address, []byte{aht20CmdStatus}, data); err != nil {
		return 0, err
	}
	return data[0], nil
}

// Read triggers a measurement and waits for it.
func (d *AHT20) Read() (Reading, error) {
	if err := d.bus.Tx(d.Address, []byte{aht20CmdTrigger, 0x33, 0x00}, nil); err != nil {
		return Reading{}, fmt.Errorf("aht20: trigger: %w", err)
	}
	d.sleep(aht20Conversion)

	data := d.buf[:]
	for waited := aht20Conversion; ; waited += aht20Poll {
		if err := d.bus.Tx(d.Address, nil, data); err != nil {
			return Reading{}, fmt.Errorf("aht20: read: %w", err)
		}
		if data[0]&aht20StatusBusy == 0 {
			break
		}
		if waited >= aht20Timeout {
			return Reading{}, ErrTimeout
		}
		d.sleep(aht20Poll)
	}

	if crc := Checksum(data[:6]); crc != data[6] {
		return Reading{}, fmt.Errorf("%w: got %02X, want %02X", ErrCRC, data[6], crc)
	}

	hraw := uint32(data[1])<<12 | uint32(data[2])<<4 | uint32(data[3])>>4
	traw := uint32(data[3]&0x0F)<<16 | uint32(data[4])<<8 | uint32(data[5])
	return Reading{
		TempC100:     aht20Celsius100(traw),
		HumidityC100: aht20Humidity100(hraw),
	}, nil
}

// aht20Celsius100 converts a 20-bit raw temperature: T = raw/2^20*200 - 50.
func aht20Celsius100(raw uint32) int16 {
	return int16(int64(raw)*20000>>20 - 5000)
}

// aht20Humidity100 converts a 20-bit raw humidity: RH = raw/2^20*100.
func aht20Humidity100(raw uint32) uint16 {
	return uint16(uint64(raw) * 10000 >> 20)
}
