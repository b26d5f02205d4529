package keypad

import (
	"io"
	"time"

	log "github.com/sirupsen/logrus"
)

type stubPort struct {
	levels map[Pin]bool
}

func newStubPort() *stubPort { return &stubPort{levels: make(map[Pin]bool)} }

func (p *stubPort) ConfigureOutput(Pin)          {}
func (p *stubPort) ConfigureInput(Pin, PullMode) {}
func (p *stubPort) Write(pin Pin, high bool)     { p.levels[pin] = high }
func (p *stubPort) Read(pin Pin) bool            { return p.levels[pin] }

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time          { return c.now }
func (c *stubClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestKeypad() (*Keypad, *stubPort, *stubClock) {
	port := newStubPort()
	clock := &stubClock{now: time.Unix(1000, 0)}
	kp := New(port, clock)
	quiet := log.New()
	quiet.SetOutput(io.Discard)
	kp.SetLogger(quiet)
	return kp, port, clock
}
