package telemetry

import (
	"strconv"

	"github.com/itohio/envnode/pkg/battery"
)

// Celsius formats a Celsius x100 value as "22.50 C".
func Celsius(c100 int16) string {
	return string(appendHundredths(nil, int64(c100))) + " C"
}

// RelHumidity formats a %RH x100 value as "55.00 %".
func RelHumidity(x100 uint16) string {
	return string(appendHundredths(nil, int64(x100))) + " %"
}

// Percent formats a battery level as "87%".
func Percent(p uint8) string {
	return strconv.Itoa(int(p)) + "%"
}

// Volts formats millivolts as "3.87V", truncating to two decimals.
func Volts(mv battery.Millivolts) string {
	return string(appendHundredths(nil, int64(mv)/10)) + "V"
}

func appendHundredths(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = strconv.AppendInt(dst, v/100, 10)
	frac := v % 100
	dst = append(dst, '.', byte('0'+frac/10), byte('0'+frac%10))
	return dst
}
