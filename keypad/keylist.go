package keypad

// KeyList holds the keys of a session in scan order.
type KeyList struct {
	keys []*Key
}

// Append builds a key on the given pins and adds it after the existing ones.
func (l *KeyList) Append(kp *Keypad, label []rune, row, col Pin) *Key {
	k := newKey(kp, label, row, col)
	l.keys = append(l.keys, k)
	return k
}

// Clear drops every key, leaving its row passive.
func (l *KeyList) Clear() {
	for _, k := range l.keys {
		k.rowPassive()
	}
	l.keys = nil
}

func (l *KeyList) Enable() {
	for _, k := range l.keys {
		k.Enable()
	}
}

func (l *KeyList) Disable() {
	for _, k := range l.keys {
		k.Disable()
	}
}

// Keys returns the keys in scan order. The slice must not be modified.
func (l *KeyList) Keys() []*Key { return l.keys }

func (l *KeyList) Len() int { return len(l.keys) }

// Head returns the first key to be scanned, or nil.
func (l *KeyList) Head() *Key {
	if len(l.keys) == 0 {
		return nil
	}
	return l.keys[0]
}
