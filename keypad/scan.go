package keypad

import log "github.com/sirupsen/logrus"

// Beep counts used as feedback for dispatched events.
const (
	beepsKeyDown = 1
	beepsDelete  = 2
	beepsClear   = 5
	beepsEnter   = 10
)

// Scan checks every key once and dispatches what changed. It never blocks;
// call it from the host's main loop.
func (k *Keypad) Scan() {
	if !k.enabled {
		return
	}
	if !k.configured {
		if err := k.Setup(FactoryMatrix()); err != nil {
			k.log.WithError(err).Error("factory matrix rejected")
			return
		}
	}

	k.interrupted = false
	k.buzzer.Check()

	var (
		change  bool
		pressed []rune
	)
	for _, key := range k.keys.Keys() {
		if k.checkWaitKey(key) {
			continue
		}
		if k.checkKey(key) && !k.interrupted {
			change = true
		}
		if k.interrupted {
			return
		}
		if key.Pressed() {
			pressed = append(pressed, key.Char())
			if k.mode == ModeT9 {
				k.setWaitKey(key)
				break
			}
		}
	}

	if !change {
		k.checkIdle()
		return
	}
	if len(pressed) > 1 {
		k.listeners.multiple.call(string(pressed))
	}
}

// checkKey samples key and runs the listeners for its event. It reports whether
// the key produced an event, even when no listener ran.
func (k *Keypad) checkKey(key *Key) bool {
	if !key.check() {
		return false
	}
	k.lastActivity = k.clock.Now()
	k.idleFired = false

	r := key.Char()
	ev := key.Event()
	fields := log.Fields{"event": ev}
	if !k.passwdMask {
		fields["key"] = string(r)
	}
	k.log.WithFields(fields).Debug("key event")

	switch ev {
	case EventDown:
		k.listeners.keyDown.call(r)
		k.buzzer.Beep(beepsKeyDown, 0)
	case EventUp:
		k.typeRune(r)
		k.listeners.keyUp.call(r)
		k.resetWaitKey()
	case EventLongPress:
		k.listeners.longPress.call(r)
		k.resetWaitKey()
	case EventPressDelete:
		k.setWaitKey(key)
		k.deleteChar()
		k.listeners.del.call(k.deleteKey.r)
		k.buzzer.Beep(beepsDelete, 0)
	case EventReleaseDelete:
		k.resetWaitKey()
	case EventClearScreen:
		k.clearScreen()
		k.buzzer.Beep(beepsClear, 0)
	case EventPressEnter:
		k.setWaitKey(key)
		k.listeners.enter.call(k.Text())
		k.buzzer.Beep(beepsEnter, 0)
	case EventReleaseEnter:
		k.resetWaitKey()
		k.clearScreen()
	}
	return true
}

func (k *Keypad) checkIdle() {
	if k.listeners.idle == nil || k.idleFired || k.timing.Idle <= 0 {
		return
	}
	if k.clock.Now().Sub(k.lastActivity) > k.timing.Idle {
		k.idleFired = true
		k.listeners.idle()
	}
}
