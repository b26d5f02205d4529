package keypad

import "time"

// Pin identifies a GPIO line by its controller number.
type Pin uint8

// PullMode is the electrical mode of the column inputs.
type PullMode uint8

const (
	// PullUp idles the columns high; a pressed key reads low while its row is driven low.
	PullUp PullMode = iota
	// PullNone reads plain inputs; a pressed key reads high while its row is driven high.
	PullNone
)

func (m PullMode) String() string {
	if m == PullNone {
		return "none"
	}
	return "up"
}

// activeLevel is the row level that selects a row, and the column level read for a closed switch.
func (m PullMode) activeLevel() bool {
	return m == PullNone
}

// Port is the digital I/O the keypad drives. true means a high level.
type Port interface {
	ConfigureOutput(pin Pin)
	ConfigureInput(pin Pin, pull PullMode)
	Write(pin Pin, high bool)
	Read(pin Pin) bool
}

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock's monotonic reading.
var SystemClock Clock = systemClock{}
