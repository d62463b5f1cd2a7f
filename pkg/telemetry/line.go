package telemetry

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/itohio/envnode/pkg/battery"
	"github.com/itohio/envnode/pkg/sensor"
)

var (
	ErrFormat   = errors.New("malformed telemetry line")
	ErrChecksum = errors.New("telemetry checksum mismatch")
)

const fieldCount = 6

// Checksum is the CRC-8 the line protocol uses, the same one the AHT20
// puts on its frames.
func Checksum(data []byte) byte {
	return sensor.Checksum(data)
}

const hexDigits = "0123456789ABCDEF"

// Append encodes rec as a line, including the trailing newline, onto dst.
func Append(dst []byte, rec Record) []byte {
	start := len(dst)
	dst = strconv.AppendInt(dst, rec.Uptime.Milliseconds(), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(rec.RawADC), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(rec.TempC100), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(rec.HumidityC100), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(rec.BatteryMilliV), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(rec.BatteryPercent), 10)

	crc := Checksum(dst[start:])
	return append(dst, '*', hexDigits[crc>>4], hexDigits[crc&0x0F], '\n')
}

// Parse decodes one line. Trailing CR/LF is ignored.
func Parse(line []byte) (Record, error) {
	line = bytes.TrimRight(line, "\r\n")

	star := bytes.LastIndexByte(line, '*')
	if star < 0 {
		return Record{}, fmt.Errorf("%w: missing checksum", ErrFormat)
	}
	body, sum := line[:star], line[star+1:]
	if len(sum) != 2 {
		return Record{}, fmt.Errorf("%w: checksum %q", ErrFormat, sum)
	}
	want, err := strconv.ParseUint(string(sum), 16, 8)
	if err != nil {
		return Record{}, fmt.Errorf("%w: checksum %q", ErrFormat, sum)
	}
	if got := Checksum(body); got != byte(want) {
		return Record{}, fmt.Errorf("%w: got %02X, line says %02X", ErrChecksum, got, want)
	}

	fields := bytes.Split(body, []byte{','})
	if len(fields) != fieldCount {
		return Record{}, fmt.Errorf("%w: %d fields, want %d", ErrFormat, len(fields), fieldCount)
	}

	var p fieldParser
	rec := Record{
		Uptime:         time.Duration(p.int("uptime", fields[0], 64)) * time.Millisecond,
		RawADC:         int16(p.int("raw_adc", fields[1], 16)),
		TempC100:       int16(p.int("temperature", fields[2], 16)),
		HumidityC100:   uint16(p.uint("humidity", fields[3], 16)),
		BatteryMilliV:  battery.Millivolts(p.int("battery_mv", fields[4], 32)),
		BatteryPercent: uint8(p.uint("battery_pct", fields[5], 8)),
	}
	if p.err != nil {
		return Record{}, p.err
	}
	if rec.Uptime < 0 {
		return Record{}, fmt.Errorf("%w: negative uptime", ErrFormat)
	}
	return rec, nil
}

// fieldParser keeps the first field error so Parse can decode straight into
// the record.
type fieldParser struct {
	err error
}

func (p *fieldParser) int(name string, b []byte, bits int) int64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(string(b), 10, bits)
	if err != nil {
		p.err = fmt.Errorf("%w: field %s: %v", ErrFormat, name, err)
	}
	return v
}

func (p *fieldParser) uint(name string, b []byte, bits int) uint64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(string(b), 10, bits)
	if err != nil {
		p.err = fmt.Errorf("%w: field %s: %v", ErrFormat, name, err)
	}
	return v
}
