package battery

// Li-ion discharge curve, 4.20 V down to 3.30 V.
var (
	voltageTable = [...]Millivolts{4200, 4100, 4000, 3900, 3800, 3700, 3600, 3500, 3400, 3300}
	percentTable = [...]int32{100, 96, 90, 80, 60, 40, 25, 10, 5, 0}
)

const (
	// FullMilliV and EmptyMilliV are the clamp thresholds used by Percentage.
	// The full threshold is 4000 mV, not the 4200 mV top of the table, so the
	// first two table rows are never interpolated.
	FullMilliV  Millivolts = 4000
	EmptyMilliV Millivolts = 3300
)

// Percentage estimates the remaining charge in [0, 100] from a battery voltage.
//
// Between breakpoints it interpolates linearly with truncating integer division:
//
//	p = p1 - (p1-p2)*(v1-mv)/(v1-v2)
func Percentage(mv Millivolts) uint8 {
	if mv >= FullMilliV {
		return 100
	}
	if mv <= EmptyMilliV {
		return 0
	}

	for i := 0; i < len(voltageTable)-1; i++ {
		if mv < voltageTable[i+1] {
			continue
		}
		v1, v2 := int32(voltageTable[i]), int32(voltageTable[i+1])
		p1, p2 := percentTable[i], percentTable[i+1]

		return uint8(p1 - (p1-p2)*(v1-int32(mv))/(v1-v2))
	}

	return 0 // unreachable: mv > EmptyMilliV matches the last row
}
