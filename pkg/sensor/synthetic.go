package sensor

const (
	syntheticTempBase = 2200
	syntheticTempSpan = 500
	syntheticTempStep = 50
	syntheticHumBase  = 5000
	syntheticHumSpan  = 2000
	syntheticHumStep  = 200
)

// Synthetic produces a repeating saw-tooth: 22.00..26.50 C in 0.50 C steps and
// 50.00..68.00 %RH in 2.00 % steps. Used on boards without a sensor and by the
// host mock.
type Synthetic struct {
	tempOffset int
	humOffset  int
}

// NewSynthetic returns a generator starting at 22.00 C / 50.00 %RH.
func NewSynthetic() *Synthetic {
	return &Synthetic{}
}

// Read never fails.
func (s *Synthetic) Read() (Reading, error) {
	r := Reading{
		TempC100:     int16(syntheticTempBase + s.tempOffset),
		HumidityC100: uint16(syntheticHumBase + s.humOffset),
	}
	// offsets are kept reduced so they never overflow on long uptimes
	s.tempOffset = (s.tempOffset + syntheticTempStep) % syntheticTempSpan
	s.humOffset = (s.humOffset + syntheticHumStep) % syntheticHumSpan
	return r, nil
}
