package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.bug.st/serial/enumerator"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		details enumerator.PortDetails
		want    string
	}{
		{"plain", enumerator.PortDetails{Name: "/dev/ttyS0"}, ""},
		{"usb", enumerator.PortDetails{Name: "/dev/ttyACM0", IsUSB: true, VID: "2886", PID: "8045"}, "USB 2886:8045"},
		{"usb with product", enumerator.PortDetails{Name: "COM7", IsUSB: true, VID: "2886", PID: "8045", Product: "XIAO nRF52840"}, "USB 2886:8045 XIAO nRF52840"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(&tt.details))
		})
	}
}
