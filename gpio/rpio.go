package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio"

	"bast-security/keypad-firmware/keypad"
)

// maxBCM is the highest GPIO number of the BCM283x register block.
const maxBCM = 53

// RPIO drives the Raspberry Pi GPIO block through /dev/gpiomem, addressing pins by BCM number.
type RPIO struct{}

// OpenRPIO maps the GPIO registers; Close releases them.
func OpenRPIO() (*RPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}
	return &RPIO{}, nil
}

func (*RPIO) Resolve(pins ...keypad.Pin) error {
	for _, pin := range pins {
		if pin > maxBCM {
			return fmt.Errorf("rpio: no GPIO%d on this board", pin)
		}
	}
	return nil
}

func (*RPIO) ConfigureOutput(pin keypad.Pin) {
	rpio.Pin(pin).Output()
}

func (*RPIO) ConfigureInput(pin keypad.Pin, pull keypad.PullMode) {
	p := rpio.Pin(pin)
	p.Input()
	if pull == keypad.PullUp {
		p.PullUp()
	} else {
		p.PullOff()
	}
}

func (*RPIO) Write(pin keypad.Pin, high bool) {
	if high {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
}

func (*RPIO) Read(pin keypad.Pin) bool {
	return rpio.Pin(pin).Read() == rpio.High
}

func (*RPIO) Close() error {
	return rpio.Close()
}
