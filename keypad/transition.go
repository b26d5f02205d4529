package keypad

import "time"

// role is the special meaning a key has in the current session.
type role uint8

const (
	roleNone role = iota
	roleDelete
	roleEnter
)

type indexOp uint8

const (
	indexKeep indexOp = iota
	indexReset
	indexNext
)

// input is everything a key's next state depends on.
type input struct {
	event   Event
	held    bool // stored physical state
	pressed bool // fresh sample
	elapsed time.Duration
	role    role
	mode    Mode
	timing  Timing
}

// step is the outcome of one transition. set means the event was written and the
// key's activity timestamp restarts; fire means the caller has something to dispatch.
type step struct {
	next  Event
	set   bool
	fire  bool
	index indexOp
}

func keep(e Event) step { return step{next: e} }

func moveTo(e Event, fire bool) step { return step{next: e, set: true, fire: fire} }

// transition maps a sample of a key onto its next state.
func transition(in input) step {
	if in.pressed != in.held {
		if in.pressed {
			return step{next: EventDown, set: true, fire: true, index: indexReset}
		}
		return moveTo(released(in), true)
	}

	if !in.pressed {
		if in.event != EventIdle {
			return moveTo(EventIdle, false)
		}
		return keep(in.event)
	}

	if in.event == EventWait {
		return holding(in)
	}

	switch {
	case in.role == roleDelete && (in.event == EventPressDelete || in.event == EventClearScreen):
		if in.event != EventClearScreen && in.elapsed > in.timing.LongPress {
			return moveTo(EventClearScreen, true)
		}
		return keep(in.event)
	case in.role == roleEnter && (in.event == EventPressEnter || in.event == EventReleaseEnter):
		return keep(in.event)
	case in.event == EventUp:
		// a synthesized release while still held becomes the next press
		return step{next: EventDown, set: true, fire: true, index: indexReset}
	}
	// the wait timestamp is fresh, so no hold timeout can be due in this sample
	return moveTo(EventWait, false)
}

// released decides what a pressed→released edge reports.
func released(in input) Event {
	switch {
	// a release after clearing also ends the delete hold, or it would type the delete key
	case in.event == EventPressDelete || in.event == EventClearScreen:
		return EventReleaseDelete
	case in.event == EventPressEnter || in.event == EventReleaseEnter:
		return EventReleaseEnter
	case in.mode == ModeT9:
		return EventUp
	case in.elapsed > in.timing.LongPress:
		return EventLongPress
	}
	return EventUp
}

// holding applies the hold timeouts of a key that stays pressed.
func holding(in input) step {
	switch {
	case in.role == roleDelete && in.elapsed > in.timing.T9:
		return moveTo(EventPressDelete, true)
	case in.role == roleEnter && in.elapsed > in.timing.T9:
		return moveTo(EventPressEnter, true)
	case in.mode == ModeT9:
		if in.elapsed > in.timing.T9 {
			return step{next: EventDown, set: true, fire: true, index: indexNext}
		}
	case in.elapsed > in.timing.KeyDown:
		return moveTo(EventUp, true)
	}
	return keep(in.event)
}
