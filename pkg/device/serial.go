package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/itohio/envnode/pkg/telemetry"
)

// Serial reads the telemetry lines a node prints on its USB console.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	mu        sync.RWMutex
	conn      serial.Port
	records   chan telemetry.Record
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial device with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
	}
}

// Connect opens the serial port and starts reading records.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	conn, err := serial.Open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.conn = conn
	d.cancel = cancel
	d.records = make(chan telemetry.Record, d.bufSize)
	d.connected = true

	log.WithField("port", d.port).Info("Connected")

	go func() {
		readRecords(ctx, conn, d.records)
		d.disconnected(conn)
	}()

	return nil
}

// disconnected releases conn once its reader exits, unless the device has
// already moved on to another connection.
func (d *Serial) disconnected(conn serial.Port) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn != conn {
		return
	}
	d.cancel()
	if err := conn.Close(); err != nil {
		log.WithError(err).Debug("Closing serial port")
	}
	d.conn = nil
	d.connected = false
	log.WithField("port", d.port).Warn("Link dropped")
}

// Close closes the connection. The records channel is closed by the reader
// shortly after.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()
	conn := d.conn
	d.conn = nil
	d.connected = false

	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", d.port, err)
	}
	return nil
}

// Records returns the channel of the current connection, nil before Connect.
func (d *Serial) Records() <-chan telemetry.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.records
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readRecords parses lines from r into out until r fails or ctx is done, then
// closes out. Malformed lines are logged and skipped; records are dropped
// when out is full.
func readRecords(ctx context.Context, r io.Reader, out chan<- telemetry.Record) {
	defer close(out)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		rec, err := telemetry.Parse(line)
		if err != nil {
			// consoles also carry boot chatter, only corrupted records are worth a warning
			entry := log.WithError(err).WithField("line", string(line))
			if errors.Is(err, telemetry.ErrChecksum) {
				entry.Warn("Skipping corrupted record")
			} else {
				entry.Debug("Skipping line")
			}
			continue
		}

		select {
		case out <- rec:
		case <-ctx.Done():
			return
		default:
			log.WithField("uptime", rec.Uptime).Warn("Records channel full, dropping record")
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
		log.WithError(err).Error("Reading serial port")
	}
}
