package device

import (
	"context"
	"sync"
	"time"

	"github.com/itohio/envnode/pkg/config"
	"github.com/itohio/envnode/pkg/node"
	"github.com/itohio/envnode/pkg/sensor"
	"github.com/itohio/envnode/pkg/telemetry"
)

// Mock runs a node in-process against a simulated battery and the synthetic
// sensor. Each record advances simulated time by one node tick, so a long
// discharge plays back in minutes.
type Mock struct {
	cfg     config.MockConfig
	bufSize int

	mu        sync.RWMutex
	records   chan telemetry.Record
	cancel    context.CancelFunc
	connected bool
}

// NewMock creates a simulated node. A nil cfg uses config.Default().Mock.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.Default().Mock
	}

	c := *cfg
	if c.Interval <= 0 {
		c.Interval = config.Default().Mock.Interval
	}

	return &Mock{
		cfg:     c,
		bufSize: DefaultBufferSize,
	}
}

// Connect starts a fresh simulated node.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.records = make(chan telemetry.Record, m.bufSize)
	m.connected = true

	go m.generate(ctx, m.newNode(), m.records)

	log.WithField("interval", m.cfg.Interval).Info("Mock node started")
	return nil
}

func (m *Mock) newNode() *node.Node {
	clock := simulatedClock(node.TickInterval)
	s := &flakySensor{inner: sensor.NewSynthetic(), every: m.cfg.SensorFailures}
	return node.New(s, newDischargeADC(m.cfg, node.TickInterval), node.WithClock(clock))
}

// Close stops the simulated node. The records channel is closed by the
// generator shortly after.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	return nil
}

// Records returns the channel of the current run, nil before Connect.
func (m *Mock) Records() <-chan telemetry.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generate samples n once immediately and then every interval until ctx is
// done. It owns out and closes it on return.
func (m *Mock) generate(ctx context.Context, n *node.Node, out chan<- telemetry.Record) {
	defer close(out)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		rec, err := n.Sample()
		if err != nil {
			log.WithError(err).Warn("Mock node tick failed")
		} else {
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			default:
				log.WithField("uptime", rec.Uptime).Debug("Records channel full, dropping record")
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// simulatedClock starts at the zero time and advances by step on each call
// after the first.
func simulatedClock(step time.Duration) func() time.Time {
	var t time.Time
	first := true
	return func() time.Time {
		if first {
			first = false
			return t
		}
		t = t.Add(step)
		return t
	}
}
