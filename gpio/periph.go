package gpio

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"bast-security/keypad-firmware/keypad"
)

// Periph drives pins through periph.io, which covers more boards than rpio.
// Pins are looked up as "GPIO<n>".
type Periph struct {
	pins map[keypad.Pin]gpio.PinIO
}

func OpenPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	return &Periph{pins: make(map[keypad.Pin]gpio.PinIO)}, nil
}

// Resolve looks up every pin, so wiring mistakes fail before the first scan
// instead of reading as a pressed key.
func (p *Periph) Resolve(pins ...keypad.Pin) error {
	for _, pin := range pins {
		if _, err := p.Lookup(pin); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the pin named GPIO<pin>, caching it.
func (p *Periph) Lookup(pin keypad.Pin) (gpio.PinIO, error) {
	if io, ok := p.pins[pin]; ok {
		return io, nil
	}
	name := fmt.Sprintf("GPIO%d", pin)
	io := gpioreg.ByName(name)
	if io == nil {
		return nil, fmt.Errorf("periph: no pin named %s", name)
	}
	p.pins[pin] = io
	return io, nil
}

func (p *Periph) pin(pin keypad.Pin) gpio.PinIO {
	io, err := p.Lookup(pin)
	if err != nil {
		log.WithError(err).Error("gpio lookup failed")
		return gpio.INVALID
	}
	return io
}

func (p *Periph) ConfigureOutput(pin keypad.Pin) {
	if err := p.pin(pin).Out(gpio.High); err != nil {
		log.WithError(err).WithField("pin", pin).Error("configure output")
	}
}

func (p *Periph) ConfigureInput(pin keypad.Pin, pull keypad.PullMode) {
	mode := gpio.Float
	if pull == keypad.PullUp {
		mode = gpio.PullUp
	}
	if err := p.pin(pin).In(mode, gpio.NoEdge); err != nil {
		log.WithError(err).WithField("pin", pin).Error("configure input")
	}
}

func (p *Periph) Write(pin keypad.Pin, high bool) {
	if err := p.pin(pin).Out(gpio.Level(high)); err != nil {
		log.WithError(err).WithField("pin", pin).Debug("write failed")
	}
}

func (p *Periph) Read(pin keypad.Pin) bool {
	return p.pin(pin).Read() == gpio.High
}

func (p *Periph) Close() error { return nil }
