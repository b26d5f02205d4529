package keypad

// Event is the state a Key last transitioned into.
type Event uint8

const (
	EventIdle Event = iota
	EventDown
	EventUp
	EventWait
	EventLongPress
	EventPressDelete
	EventReleaseDelete
	EventClearScreen
	EventPressEnter
	EventReleaseEnter
)

var eventNames = [...]string{
	EventIdle:          "idle",
	EventDown:          "down",
	EventUp:            "up",
	EventWait:          "wait",
	EventLongPress:     "long-press",
	EventPressDelete:   "press-delete",
	EventReleaseDelete: "release-delete",
	EventClearScreen:   "clear-screen",
	EventPressEnter:    "press-enter",
	EventReleaseEnter:  "release-enter",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Mode selects how key presses become text.
type Mode uint8

const (
	// ModeInteger types the first character of each key.
	ModeInteger Mode = iota
	// ModeFloat types like ModeInteger, but the float key inserts a single decimal point.
	ModeFloat
	// ModeT9 cycles a held key through its characters and types the one showing on release.
	ModeT9
)

func (m Mode) String() string {
	switch m {
	case ModeFloat:
		return "float"
	case ModeT9:
		return "t9"
	default:
		return "integer"
	}
}

// ParseMode maps a configuration name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "integer", "int", "plain":
		return ModeInteger, nil
	case "float":
		return ModeFloat, nil
	case "t9", "T9":
		return ModeT9, nil
	}
	return ModeInteger, &ModeError{Name: s}
}
