// Package battery turns raw SAADC codes from the battery sense pin into a smoothed
// battery voltage and a charge estimate.
//
// All arithmetic is integer with truncation toward zero at every multiply/divide
// step. The calibration constant and the discharge table were tuned against this
// exact behaviour, so the order of operations matters.
package battery

const (
	// ADC front end: internal 0.6 V reference, gain 1/6, 12-bit conversion.
	// Full scale is 4096 codes ~= 3.6 V at the pin.
	ReferenceMilliV = 600
	GainDivisor     = 6
	Resolution      = 12
	FullScale       = 1 << Resolution

	// Voltage divider: 1 MOhm + 510 kOhm, so Vbat = Vpin * 1510 / 510.
	DividerNumerator   = 1510
	DividerDenominator = 510

	// CalibrationFactor compensates resistor/ADC tolerance in per-mille
	// (actual / measured * 1000). 1029 = +2.9%, set against a multimeter at 4.00 V.
	CalibrationFactor = 1029

	// WindowSize is the number of readings in the moving average.
	WindowSize = 8
)

// Millivolts is a battery voltage in 1 mV units.
type Millivolts int32

// ToMillivolts converts one raw ADC code into a calibrated battery voltage.
// No smoothing is applied.
func ToMillivolts(code int16) Millivolts {
	pin := adcToMillivolts(int32(code))
	return calibrate(voltageDivider(pin))
}

// adcToMillivolts converts an ADC code to the voltage at the ADC pin.
func adcToMillivolts(code int32) int32 {
	return code * ReferenceMilliV * GainDivisor / FullScale
}

// voltageDivider recovers the input voltage from the divider output.
// Formula: V_in = V_out * (R1 + R2) / R2
func voltageDivider(pin int32) int32 {
	return pin * DividerNumerator / DividerDenominator
}

func calibrate(mv int32) Millivolts {
	return Millivolts(mv * CalibrationFactor / 1000)
}
