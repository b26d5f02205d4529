package keypad

import "strings"

func (k *Keypad) SetStoredText(on bool) { k.storeText = on }

func (k *Keypad) StoredText() bool { return k.storeText }

// SetMaxTextLength bounds the text in characters. Values below 1 are raised to 1.
func (k *Keypad) SetMaxTextLength(n int) {
	if n < 1 {
		n = 1
	}
	k.maxText = n
}

func (k *Keypad) MaxTextLength() int { return k.maxText }

func (k *Keypad) SetPasswordMask(on bool) { k.passwdMask = on }

func (k *Keypad) HasPasswordMask() bool { return k.passwdMask }

// Text returns the entered text, or one MaskRune per character when masking is on.
func (k *Keypad) Text() string {
	if k.passwdMask && len(k.text) > 0 {
		return strings.Repeat(string(MaskRune), len(k.text))
	}
	return string(k.text)
}

// TextEquals compares s with the unmasked text.
func (k *Keypad) TextEquals(s string) bool {
	return string(k.text) == s
}

// typeRune turns a key-up character into text, honouring the float key.
func (k *Keypad) typeRune(r rune) {
	if k.mode == ModeFloat && r == k.floatKey {
		for _, c := range k.text {
			if c == DecimalPoint {
				return
			}
		}
		r = DecimalPoint
	}
	k.appendKey(r)
}

// appendKey is a no-op when stored text is off or the text is full.
func (k *Keypad) appendKey(r rune) {
	if !k.storeText || len(k.text) >= k.maxText {
		return
	}
	if k.cursor == len(k.text) {
		k.text = append(k.text, r)
	}
	k.cursor++
	k.listeners.textChange.call(k.Text())
}

// deleteChar removes the character under the cursor, or the last one.
func (k *Keypad) deleteChar() {
	if !k.storeText || len(k.text) == 0 {
		return
	}
	if k.cursor < len(k.text) {
		k.text = append(k.text[:k.cursor], k.text[k.cursor+1:]...)
	} else {
		k.text = k.text[:len(k.text)-1]
	}
	if k.cursor > 0 {
		k.cursor--
	}
	k.listeners.textChange.call(k.Text())
}

func (k *Keypad) clearScreen() {
	k.resetText()
	k.listeners.textChange.call(k.Text())
}

// resetText wipes the old runes too; the buffer holds codes.
func (k *Keypad) resetText() {
	for i := range k.text {
		k.text[i] = 0
	}
	k.text = k.text[:0]
	k.cursor = 0
}
