package battery

// Estimator keeps the last WindowSize calibrated readings and reports their
// moving average. The zero value is ready to use.
//
// An Estimator is not safe for concurrent use; the node drives it from a single
// periodic tick.
type Estimator struct {
	history    [WindowSize]Millivolts
	writeIndex int
	filled     bool // history has wrapped at least once
}

// NewEstimator returns an empty estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Ingest converts one raw ADC code, stores it in the history and returns the
// truncated mean over the valid window.
func (e *Estimator) Ingest(code int16) Millivolts {
	e.history[e.writeIndex] = ToMillivolts(code)
	e.writeIndex = (e.writeIndex + 1) % WindowSize
	if e.writeIndex == 0 {
		e.filled = true
	}

	return e.average()
}

// Window returns how many readings the next average covers.
func (e *Estimator) Window() int {
	n := e.writeIndex
	if e.filled {
		n = WindowSize
	}
	if n == 0 {
		n = 1 // nothing stored yet, avoid dividing by zero
	}
	return n
}

func (e *Estimator) average() Millivolts {
	n := e.Window()

	var sum int64
	for i := 0; i < n; i++ {
		sum += int64(e.history[i])
	}
	return Millivolts(sum / int64(n))
}
