// Package sim models keypad wiring in memory: switches close a row line onto a column
// line, and a column reads the row's level only while that row is driven active.
package sim

import (
	"sync"

	"bast-security/keypad-firmware/keypad"
)

type contact struct {
	row, col keypad.Pin
}

// Matrix is a keypad.Port backed by simulated switches. It is safe for concurrent use,
// so a front panel can press keys while another goroutine scans.
type Matrix struct {
	mu      sync.Mutex
	outputs map[keypad.Pin]bool
	inputs  map[keypad.Pin]keypad.PullMode
	closed  map[contact]bool
	watch   map[keypad.Pin]func(high bool)
}

func NewMatrix() *Matrix {
	return &Matrix{
		outputs: make(map[keypad.Pin]bool),
		inputs:  make(map[keypad.Pin]keypad.PullMode),
		closed:  make(map[contact]bool),
		watch:   make(map[keypad.Pin]func(bool)),
	}
}

func (m *Matrix) ConfigureOutput(pin keypad.Pin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inputs, pin)
	if _, ok := m.outputs[pin]; !ok {
		m.outputs[pin] = false
	}
}

func (m *Matrix) ConfigureInput(pin keypad.Pin, pull keypad.PullMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.outputs, pin)
	m.inputs[pin] = pull
}

// Write drives an output and notifies its watcher.
func (m *Matrix) Write(pin keypad.Pin, high bool) {
	m.mu.Lock()
	m.outputs[pin] = high
	f := m.watch[pin]
	m.mu.Unlock()
	if f != nil {
		f(high)
	}
}

// Read returns an output's driven level, or what an input sees through closed switches.
func (m *Matrix) Read(pin keypad.Pin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pull, ok := m.inputs[pin]
	if !ok {
		return m.outputs[pin]
	}
	active := pull == keypad.PullNone
	for c := range m.closed {
		if c.col != pin {
			continue
		}
		if level, driven := m.outputs[c.row]; driven && level == active {
			return active
		}
	}
	return !active
}

// Press closes the switch between row and col.
func (m *Matrix) Press(row, col keypad.Pin) {
	m.mu.Lock()
	m.closed[contact{row, col}] = true
	m.mu.Unlock()
}

func (m *Matrix) Release(row, col keypad.Pin) {
	m.mu.Lock()
	delete(m.closed, contact{row, col})
	m.mu.Unlock()
}

func (m *Matrix) ReleaseAll() {
	m.mu.Lock()
	m.closed = make(map[contact]bool)
	m.mu.Unlock()
}

func (m *Matrix) Closed(row, col keypad.Pin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed[contact{row, col}]
}

// Level is the last level written to an output.
func (m *Matrix) Level(pin keypad.Pin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outputs[pin]
}

// Watch calls f on every write to pin, e.g. to sound a buzzer. f runs without the lock held.
func (m *Matrix) Watch(pin keypad.Pin, f func(high bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f == nil {
		delete(m.watch, pin)
		return
	}
	m.watch[pin] = f
}
