//go:build tinygo

//go:generate tinygo flash -target=xiao-ble

package main

import (
	"machine"
	"time"

	"github.com/itohio/envnode/pkg/node"
	"github.com/itohio/envnode/pkg/sensor"
	"github.com/itohio/envnode/pkg/telemetry"
	"tinygo.org/x/drivers/waveshare-epd/epd2in13"
)

var (
	adcBattery machine.ADC
	serial     = machine.Serial

	// Telemetry line buffer, large enough for the widest record
	lineBuffer [64]byte
)

func main() {
	// Enable the battery divider and configure the ADC
	PIN_VBAT_ENABLE.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_VBAT_ENABLE.Low()

	machine.InitADC()
	adcBattery = machine.ADC{Pin: PIN_VBAT_ADC}
	adcBattery.Configure(machine.ADCConfig{Resolution: ADC_RESOLUTION})

	if err := serial.Configure(machine.UARTConfig{BaudRate: SERIAL_BAUD_RATE}); err != nil {
		println("serial:", err.Error())
	}

	n := node.New(configureSensor(), node.ADCFunc(readBattery))
	panel := node.NewPanel(node.DefaultLayout())
	screen := configureDisplay()

	ticker := time.NewTicker(node.TickInterval)
	for {
		tick(n, panel, screen)
		<-ticker.C
	}
}

func tick(n *node.Node, panel *node.Panel, screen node.Screen) {
	rec, err := n.Sample()
	if err != nil {
		println("sample:", err.Error())
		return
	}

	if err := panel.Update(screen, rec); err != nil {
		println("display:", err.Error())
	}

	if _, err := serial.Write(telemetry.Append(lineBuffer[:0], rec)); err != nil {
		println("serial:", err.Error())
	}
}

func readBattery() int16 {
	return int16(adcBattery.Get() >> ADC_SHIFT)
}

// configureSensor returns the AHT20, or a synthetic sensor when none answers.
func configureSensor() sensor.Sensor {
	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{SDA: PIN_SDA, SCL: PIN_SCL}); err != nil {
		println("i2c:", err.Error())
		return sensor.NewSynthetic()
	}

	aht := sensor.NewAHT20(bus)
	if err := aht.Configure(); err != nil {
		println("sensor:", err.Error(), "- using synthetic readings")
		return sensor.NewSynthetic()
	}
	return aht
}

func configureDisplay() *epaper {
	spi := machine.SPI0
	spi.Configure(machine.SPIConfig{
		Frequency: EPD_SPI_FREQUENCY,
		SCK:       PIN_EPD_SCK,
		SDO:       PIN_EPD_SDO,
	})
	return newEpaper(epd2in13.New(spi, PIN_EPD_CS, PIN_EPD_DC, PIN_EPD_RST, PIN_EPD_BUSY))
}
