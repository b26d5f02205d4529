package keypad

import "time"

// FilterDuration is the minimum time between two events of the same key.
const FilterDuration = 20 * time.Millisecond

// Timing holds the configurable thresholds of a session.
type Timing struct {
	// KeyDown is the hold time after which a non-T9 key repeats.
	KeyDown time.Duration
	// LongPress is the hold time after which a release reports a long press.
	LongPress time.Duration
	// T9 is the hold time per character step, and the hold time that arms delete and enter.
	T9 time.Duration
	// Idle is the inactivity time after which the idle listener fires.
	Idle time.Duration
}

// DefaultTiming returns the factory thresholds.
func DefaultTiming() Timing {
	return Timing{
		KeyDown:   1500 * time.Millisecond,
		LongPress: 5000 * time.Millisecond,
		T9:        600 * time.Millisecond,
		Idle:      30000 * time.Millisecond,
	}
}
