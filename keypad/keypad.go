package keypad

import (
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultMaxTextLength = 20
	MaskRune             = '*'
	DecimalPoint         = '.'
)

type special struct {
	r   rune
	set bool
}

func (s special) is(r rune) bool { return s.set && s.r == r }

// Keypad is one keypad session: matrix, settings, entered text and listeners.
type Keypad struct {
	port  Port
	clock Clock
	log   log.FieldLogger

	keys       KeyList
	pull       PullMode
	rows, cols int
	configured bool

	mode      Mode
	timing    Timing
	deleteKey special
	enterKey  special
	floatKey  rune

	text       []rune
	cursor     int
	maxText    int
	storeText  bool
	passwdMask bool

	wait        *Key
	enabled     bool
	interrupted bool

	lastActivity time.Time
	idleFired    bool

	listeners listeners
	buzzer    Buzzer
}

// New returns a disabled session on port. A nil clock means SystemClock.
func New(port Port, clock Clock) *Keypad {
	if clock == nil {
		clock = SystemClock
	}
	k := &Keypad{
		port:      port,
		clock:     clock,
		log:       log.StandardLogger(),
		mode:      ModeInteger,
		timing:    DefaultTiming(),
		deleteKey: special{r: '*', set: true},
		floatKey:  '*',
		maxText:   DefaultMaxTextLength,
		storeText: true,
	}
	k.buzzer = Buzzer{port: port, clock: clock, pulse: DefaultBeepDuration}
	return k
}

func (k *Keypad) SetLogger(l log.FieldLogger) {
	if l == nil {
		l = log.StandardLogger()
	}
	k.log = l
}

// Setup replaces the key collection with m and starts a fresh session.
// An invalid matrix is rejected and leaves the session untouched.
func (k *Keypad) Setup(m Matrix) error {
	if err := m.Validate(); err != nil {
		return err
	}

	k.keys.Clear()
	k.pull = m.Pull
	for i, row := range m.Labels {
		for j, l := range row {
			k.keys.Append(k, label(l), m.Rows[i], m.Cols[j])
		}
	}
	k.rows, k.cols = len(m.Rows), len(m.Cols)
	k.configured = true
	k.Reset()

	k.log.WithFields(log.Fields{
		"rows": k.rows,
		"cols": k.cols,
		"pull": k.pull,
		"keys": k.keys.Len(),
	}).Debug("keypad matrix configured")
	return nil
}

// Reset clears the text and the wait key, and stops a scan in progress.
func (k *Keypad) Reset() {
	k.resetText()
	k.interrupted = true
	k.wait = nil
	k.lastActivity = k.clock.Now()
	k.idleFired = false
}

func (k *Keypad) Enable() {
	if k.enabled {
		return
	}
	k.enabled = true
	k.keys.Enable()
	k.Reset()
	k.log.Debug("keypad enabled")
}

func (k *Keypad) Disable() {
	if !k.enabled {
		return
	}
	k.enabled = false
	k.Reset()
	k.keys.Disable()
	k.log.Debug("keypad disabled")
}

func (k *Keypad) IsEnabled() bool { return k.enabled }

// Keys returns the key collection in scan order.
func (k *Keypad) Keys() *KeyList { return &k.keys }

func (k *Keypad) Rows() int { return k.rows }

func (k *Keypad) Cols() int { return k.cols }

func (k *Keypad) SetMode(m Mode) { k.mode = m }

func (k *Keypad) Mode() Mode { return k.mode }

func (k *Keypad) SetTiming(t Timing) { k.timing = t }

func (k *Keypad) Timing() Timing { return k.timing }

// UseDeleteKey makes holding the key whose first character is r delete text.
func (k *Keypad) UseDeleteKey(r rune) { k.deleteKey = special{r: r, set: true} }

func (k *Keypad) IgnoreDeleteKey() { k.deleteKey.set = false }

func (k *Keypad) DeleteKey() (rune, bool) { return k.deleteKey.r, k.deleteKey.set }

func (k *Keypad) IsDeleteKey(r rune) bool { return k.deleteKey.is(r) }

// SetEnterKey makes holding the key whose first character is r submit the text.
func (k *Keypad) SetEnterKey(r rune) { k.enterKey = special{r: r, set: true} }

func (k *Keypad) IgnoreEnterKey() { k.enterKey.set = false }

func (k *Keypad) EnterKey() (rune, bool) { return k.enterKey.r, k.enterKey.set }

func (k *Keypad) IsEnterKey(r rune) bool { return k.enterKey.is(r) }

// SetFloatKey sets the character that types a decimal point in ModeFloat.
func (k *Keypad) SetFloatKey(r rune) { k.floatKey = r }

func (k *Keypad) FloatKey() rune { return k.floatKey }

func (k *Keypad) roleOf(key *Key) role {
	switch first := key.First(); {
	case k.deleteKey.is(first):
		return roleDelete
	case k.enterKey.is(first):
		return roleEnter
	}
	return roleNone
}

func (k *Keypad) hasWaitKey() bool { return k.wait != nil }

// checkWaitKey reports whether key must be skipped because another key holds the scan.
func (k *Keypad) checkWaitKey(key *Key) bool {
	if !k.hasWaitKey() {
		return false
	}
	return !key.Equal(k.wait)
}

func (k *Keypad) setWaitKey(key *Key) {
	if k.wait != key {
		k.log.WithField("label", key.Label()).Debug("wait key set")
	}
	k.wait = key
}

func (k *Keypad) resetWaitKey() { k.wait = nil }

// WaitKey returns the key that currently owns the scan, or nil.
func (k *Keypad) WaitKey() *Key { return k.wait }

// EnableBuzzer beeps on pin for key feedback. A zero pulse means DefaultBeepDuration.
func (k *Keypad) EnableBuzzer(pin Pin, pulse time.Duration) { k.buzzer.Enable(pin, pulse) }

func (k *Keypad) DisableBuzzer() { k.buzzer.Disable() }

// BeepBuzzer starts count pulses; it returns false while a sequence is still playing.
func (k *Keypad) BeepBuzzer(count int, pulse time.Duration) bool {
	return k.buzzer.Beep(count, pulse)
}

func (k *Keypad) Buzzer() *Buzzer { return &k.buzzer }
