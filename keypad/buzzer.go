package keypad

import "time"

// DefaultBeepDuration is the on and off time of one buzzer pulse.
const DefaultBeepDuration = 50 * time.Millisecond

// Buzzer plays a counted sequence of pulses on an output pin without blocking.
// Check advances the sequence and is called once per scan.
type Buzzer struct {
	port  Port
	clock Clock

	pin       Pin
	enabled   bool
	active    bool
	on        bool
	started   time.Time
	pulse     time.Duration
	remaining int
}

func (b *Buzzer) Enable(pin Pin, pulse time.Duration) {
	if pulse <= 0 {
		pulse = DefaultBeepDuration
	}
	b.pin = pin
	b.pulse = pulse
	b.port.ConfigureOutput(pin)
	b.set(false)
	b.enabled = true
}

// Disable silences the buzzer immediately.
func (b *Buzzer) Disable() {
	if !b.enabled {
		return
	}
	b.enabled = false
	b.active = false
	b.remaining = 0
	b.set(false)
}

// Beep starts count pulses. A positive pulse replaces the pulse duration for this and
// later sequences. It returns false when the buzzer is disabled or still busy.
func (b *Buzzer) Beep(count int, pulse time.Duration) bool {
	if !b.enabled || b.active || count <= 0 {
		return false
	}
	if pulse > 0 {
		b.pulse = pulse
	}
	b.remaining = count
	b.active = true
	b.started = b.clock.Now()
	b.set(true)
	return true
}

func (b *Buzzer) Check() {
	if !b.active {
		return
	}
	now := b.clock.Now()
	if now.Sub(b.started) <= b.pulse {
		return
	}
	b.started = now
	if !b.on {
		b.set(true)
		return
	}
	b.set(false)
	b.remaining--
	if b.remaining <= 0 {
		b.active = false
	}
}

func (b *Buzzer) set(on bool) {
	b.on = on
	b.port.Write(b.pin, on)
}

func (b *Buzzer) Enabled() bool { return b.enabled }

// Active reports whether a sequence is playing.
func (b *Buzzer) Active() bool { return b.active }

// Remaining is the number of pulses not yet finished.
func (b *Buzzer) Remaining() int { return b.remaining }

func (b *Buzzer) Pin() Pin { return b.pin }
