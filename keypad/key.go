package keypad

import "time"

// Key is one switch of the matrix, bound to one or more characters.
type Key struct {
	kp       *Keypad
	label    []rune
	row, col Pin
	enabled  bool
	pressed  bool
	event    Event
	index    int
	last     time.Time
}

func newKey(kp *Keypad, label []rune, row, col Pin) *Key {
	k := &Key{
		kp:      kp,
		label:   label,
		row:     row,
		col:     col,
		enabled: true,
		event:   EventIdle,
		last:    kp.clock.Now(),
	}
	kp.port.ConfigureOutput(row)
	kp.port.ConfigureInput(col, kp.pull)
	k.rowPassive()
	return k
}

// check samples the key once and reports whether it produced an event.
func (k *Key) check() bool {
	now := k.kp.clock.Now()
	elapsed := now.Sub(k.last)
	if elapsed <= FilterDuration {
		return false
	}

	pressed := k.read()
	s := transition(input{
		event:   k.event,
		held:    k.pressed,
		pressed: pressed,
		elapsed: elapsed,
		role:    k.kp.roleOf(k),
		mode:    k.kp.mode,
		timing:  k.kp.timing,
	})

	k.pressed = pressed
	switch s.index {
	case indexReset:
		k.index = 0
	case indexNext:
		k.index++
		if k.index >= len(k.label) {
			k.index = 0
		}
	}
	if s.set {
		k.event = s.next
		k.last = now
	}
	return s.fire
}

// read drives the key's row, samples its column and releases the row again.
func (k *Key) read() bool {
	active := k.kp.pull.activeLevel()
	if !k.enabled {
		if k.kp.port.Read(k.row) == active {
			k.rowPassive()
		}
		return false
	}
	k.kp.port.Write(k.row, active)
	state := k.kp.port.Read(k.col) == active
	k.rowPassive()
	return state
}

func (k *Key) rowPassive() {
	k.kp.port.Write(k.row, !k.kp.pull.activeLevel())
}

// Reset returns the key to idle with its first character selected.
func (k *Key) Reset() {
	k.index = 0
	k.pressed = false
	k.event = EventIdle
}

func (k *Key) Enable() {
	if !k.enabled {
		k.Reset()
		k.enabled = true
	}
}

func (k *Key) Disable() {
	if k.enabled {
		k.Reset()
		k.enabled = false
	}
}

func (k *Key) Enabled() bool { return k.enabled }

// Pressed reports the debounced physical state.
func (k *Key) Pressed() bool { return k.pressed }

// Event is the state the key last transitioned into.
func (k *Key) Event() Event { return k.event }

// Char is the currently selected character.
func (k *Key) Char() rune { return k.label[k.index] }

// First is the primary character; it identifies the key.
func (k *Key) First() rune { return k.label[0] }

// Index is the offset of Char within Label.
func (k *Key) Index() int { return k.index }

func (k *Key) Label() string { return string(k.label) }

func (k *Key) Row() Pin { return k.row }

func (k *Key) Col() Pin { return k.col }

// Equal reports whether both keys share the same primary character.
func (k *Key) Equal(o *Key) bool {
	return o != nil && k.First() == o.First()
}
