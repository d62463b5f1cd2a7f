package device

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/envnode/pkg/battery"
	"github.com/itohio/envnode/pkg/telemetry"
)

func collect(ch <-chan telemetry.Record) []telemetry.Record {
	var recs []telemetry.Record
	for r := range ch {
		recs = append(recs, r)
	}
	return recs
}

func TestNew(t *testing.T) {
	dev := New("/dev/ttyACM0", 9600, 10)
	assert.NotNil(t, dev)
	assert.Equal(t, "/dev/ttyACM0", dev.port)
	assert.Equal(t, 9600, dev.baudRate)
	assert.Equal(t, 10, dev.bufSize)
	assert.Nil(t, dev.Records())
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("COM3", 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
}

func TestSerial_CloseWhenNotConnected(t *testing.T) {
	dev := New("COM3", 0, 0)
	assert.NoError(t, dev.Close())
	assert.False(t, dev.IsConnected())
}

func TestSerial_ConnectMissingPort(t *testing.T) {
	dev := New("/dev/does-not-exist-envnode", 0, 0)

	err := dev.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dev/does-not-exist-envnode")
	assert.False(t, dev.IsConnected())
}

func TestReadRecords(t *testing.T) {
	rec := telemetry.Record{
		Uptime:         10 * time.Second,
		RawADC:         1400,
		TempC100:       2250,
		HumidityC100:   5500,
		BatteryMilliV:  battery.Millivolts(3746),
		BatteryPercent: 50,
	}
	second := rec
	second.Uptime = 20 * time.Second

	input := strings.Join([]string{
		"*** booting",
		"",
		string(telemetry.Append(nil, rec)),
		"10000,1400,2251,5500,3746,50*00",
		"1,2,3",
		string(telemetry.Append(nil, second)),
	}, "\n")

	out := make(chan telemetry.Record, 10)
	readRecords(context.Background(), strings.NewReader(input), out)

	assert.Equal(t, []telemetry.Record{rec, second}, collect(out))
}

func TestReadRecords_DropsWhenFull(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 5; i++ {
		sb.Write(telemetry.Append(nil, telemetry.Record{Uptime: time.Duration(i) * time.Second}))
	}

	out := make(chan telemetry.Record, 2)
	readRecords(context.Background(), strings.NewReader(sb.String()), out)

	recs := collect(out)
	require.Len(t, recs, 2)
	assert.Equal(t, time.Second, recs[0].Uptime)
	assert.Equal(t, 2*time.Second, recs[1].Uptime)
}

// TestReadRecords_GracefulShutdown checks that cancelling stops the reader and
// closes the channel even while the port keeps producing.
func TestReadRecords_GracefulShutdown(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan telemetry.Record, DefaultBufferSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		readRecords(ctx, pr, out)
	}()

	line := telemetry.Append(nil, telemetry.Record{Uptime: time.Second})
	_, err := pw.Write(line)
	require.NoError(t, err)

	select {
	case r := <-out:
		assert.Equal(t, time.Second, r.Uptime)
	case <-time.After(5 * time.Second):
		t.Fatal("no record received")
	}

	cancel()
	// the next line wakes the scanner, which then sees the cancelled context
	go pw.Write(line)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not stop within timeout")
	}

	_, ok := <-out
	assert.False(t, ok, "Channel should be closed")
}

func TestReadRecords_EOFClosesChannel(t *testing.T) {
	out := make(chan telemetry.Record, 1)
	readRecords(context.Background(), strings.NewReader(""), out)

	_, ok := <-out
	assert.False(t, ok)
}
