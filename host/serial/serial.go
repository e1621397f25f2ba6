// Package serial abstracts the host side of the serial link to a
// sketch running the pixel driver.
package serial

import (
	"io"
)

// Port is the serial port surface the streamer needs. Implementations:
// native (tarm/serial) and the in-memory loopback used by tests.
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3").
	Device string

	// Baud rate. USB CDC ports ignore it but the driver requires one.
	Baud int

	// Read timeout in milliseconds (0 = blocking).
	ReadTimeout int
}

// DefaultConfig returns the configuration for a Teensy USB CDC port,
// where the baud value is nominal.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 500,
	}
}
