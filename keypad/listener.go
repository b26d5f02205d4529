package keypad

// KeyFunc receives the character of a key event.
type KeyFunc func(r rune)

// TextFunc receives a string payload: pressed keys, or the (masked) text.
type TextFunc func(text string)

// One listener per slot; setting nil silences the slot.
type listeners struct {
	keyDown    KeyFunc
	keyUp      KeyFunc
	longPress  KeyFunc
	del        KeyFunc
	multiple   TextFunc
	textChange TextFunc
	enter      TextFunc
	idle       func()
}

func (f KeyFunc) call(r rune) {
	if f != nil {
		f(r)
	}
}

func (f TextFunc) call(s string) {
	if f != nil {
		f(s)
	}
}

func (k *Keypad) OnKeyDown(f KeyFunc) { k.listeners.keyDown = f }

func (k *Keypad) OnKeyUp(f KeyFunc) { k.listeners.keyUp = f }

func (k *Keypad) OnLongPress(f KeyFunc) { k.listeners.longPress = f }

// OnMultipleKeys fires with the characters of all keys held during a scan that saw an event.
func (k *Keypad) OnMultipleKeys(f TextFunc) { k.listeners.multiple = f }

// OnTextChange fires with the displayed text after it was edited.
func (k *Keypad) OnTextChange(f TextFunc) { k.listeners.textChange = f }

// OnEnter fires with the displayed text when the enter key is held.
func (k *Keypad) OnEnter(f TextFunc) { k.listeners.enter = f }

// OnDelete fires with the delete key's character each time a character is deleted.
func (k *Keypad) OnDelete(f KeyFunc) { k.listeners.del = f }

// OnIdle fires once after the idle timeout passes without key events.
func (k *Keypad) OnIdle(f func()) { k.listeners.idle = f }
