//go:build tinygo

package main

import "machine"

const (
	// Battery divider. P0.14 low connects the divider, AIN7 samples it.
	PIN_VBAT_ENABLE = machine.P0_14
	PIN_VBAT_ADC    = machine.P0_31

	// ADC configuration
	ADC_RESOLUTION = 12 // bits, codes 0-4095
	ADC_SHIFT      = 4  // machine.ADC.Get scales every resolution to 16 bits

	// AHT20 on the default I2C bus
	PIN_SDA = machine.D4
	PIN_SCL = machine.D5

	// 2.13" e-paper on SPI0
	PIN_EPD_SCK  = machine.D8
	PIN_EPD_SDO  = machine.D10
	PIN_EPD_CS   = machine.D1
	PIN_EPD_DC   = machine.D3
	PIN_EPD_RST  = machine.D0
	PIN_EPD_BUSY = machine.D2

	EPD_SPI_FREQUENCY = 4_000_000

	// USB CDC; the host side ignores the baud rate but keeps it for real UARTs
	SERIAL_BAUD_RATE = 115200
)
