// Package gpio connects the keypad to real GPIO hardware.
package gpio

import (
	"fmt"
	"io"
	"strings"

	"bast-security/keypad-firmware/keypad"
	"bast-security/keypad-firmware/sim"
)

// Driver names a Port implementation.
type Driver string

const (
	DriverRPIO   Driver = "rpio"
	DriverPeriph Driver = "periph"
	DriverSim    Driver = "sim"
)

// ParseDriver accepts a driver name in any case; empty means rpio.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DriverRPIO, nil
	case DriverRPIO, DriverPeriph, DriverSim:
		return d, nil
	}
	return "", fmt.Errorf("gpio: unknown driver %q", s)
}

// PortCloser is a keypad.Port holding hardware that must be released.
// Resolve checks that every pin exists before the keypad touches any of them.
type PortCloser interface {
	keypad.Port
	io.Closer
	Resolve(pins ...keypad.Pin) error
}

type simPort struct {
	*sim.Matrix
}

func (simPort) Close() error { return nil }

func (simPort) Resolve(...keypad.Pin) error { return nil }

// Open returns the Port for driver.
func Open(driver Driver) (PortCloser, error) {
	switch driver {
	case DriverRPIO:
		return OpenRPIO()
	case DriverPeriph:
		return OpenPeriph()
	case DriverSim:
		return simPort{sim.NewMatrix()}, nil
	}
	return nil, fmt.Errorf("gpio: unknown driver %q", driver)
}
