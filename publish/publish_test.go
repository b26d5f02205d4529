package publish

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"bast-security/keypad-firmware/keypad"
	"bast-security/keypad-firmware/sim"
)

type message struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	sent []message
	err  error
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	p.sent = append(p.sent, message{topic, payload})
	return p.err
}

func (p *fakePublisher) on(topic string) []message {
	var out []message
	for _, m := range p.sent {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func init() {
	log.SetOutput(io.Discard)
}

func step(clock *sim.Clock, kp *keypad.Keypad, d time.Duration) {
	for e := time.Duration(0); e < d; e += 10 * time.Millisecond {
		clock.Advance(10 * time.Millisecond)
		kp.Scan()
	}
}

func findKey(kp *keypad.Keypad, c rune) *keypad.Key {
	for _, k := range kp.Keys().Keys() {
		if k.First() == c {
			return k
		}
	}
	return nil
}

// tapKey closes the key for d, then leaves it open for 100ms.
func tapKey(pins *sim.Matrix, clock *sim.Clock, kp *keypad.Keypad, c rune, d time.Duration) {
	k := findKey(kp, c)
	pins.Press(k.Row(), k.Col())
	step(clock, kp, d)
	pins.Release(k.Row(), k.Col())
	step(clock, kp, 100*time.Millisecond)
}

// enterCode types code then holds the enter key '#'.
func enterCode(pins *sim.Matrix, clock *sim.Clock, kp *keypad.Keypad, code string) {
	for _, c := range code {
		tapKey(pins, clock, kp, c, 100*time.Millisecond)
	}
	tapKey(pins, clock, kp, '#', time.Second)
}

func newSession() (*keypad.Keypad, *sim.Matrix, *sim.Clock) {
	pins, clock := sim.NewMatrix(), sim.NewClock()
	kp := keypad.New(pins, clock)
	if err := kp.Setup(keypad.FactoryMatrix()); err != nil {
		panic(err)
	}
	kp.SetEnterKey('#')
	kp.Enable()
	return kp, pins, clock
}

func TestForwarderPublishesEntry(t *testing.T) {
	kp, pins, clock := newSession()
	pub := &fakePublisher{}
	fw := NewForwarder(pub, "locks/7", clock)
	fw.Attach(kp)

	enterCode(pins, clock, kp, "12")

	access := pub.on("locks/7/access")
	if len(access) != 1 {
		t.Fatalf("access requests = %d, want 1", len(access))
	}
	var req AccessRequest
	if err := json.Unmarshal(access[0].payload, &req); err != nil {
		t.Fatal(err)
	}
	if req.Pin != "12" {
		t.Errorf("pin = %q, want 12", req.Pin)
	}

	var kinds []string
	for _, m := range pub.on(fw.EventsTopic()) {
		var e Event
		if err := json.Unmarshal(m.payload, &e); err != nil {
			t.Fatal(err)
		}
		if e.At == 0 {
			t.Errorf("event %q has no timestamp", e.Kind)
		}
		kinds = append(kinds, e.Kind)
	}
	want := []string{"down", "text", "up", "down", "text", "up", "down", "enter", "text"}
	if len(kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestForwarderSecret(t *testing.T) {
	kp, pins, clock := newSession()
	kp.SetPasswordMask(true)
	pub := &fakePublisher{}
	fw := NewForwarder(pub, "door", clock)
	fw.Secret = "6789"
	fw.Attach(kp)

	enterCode(pins, clock, kp, "6789")
	enterCode(pins, clock, kp, "1111")

	access := pub.on("door/access")
	if len(access) != 2 {
		t.Fatalf("access requests = %d, want 2", len(access))
	}
	for i, want := range []string{"accepted", "rejected"} {
		var req AccessRequest
		if err := json.Unmarshal(access[i].payload, &req); err != nil {
			t.Fatal(err)
		}
		if req.Pin != want {
			t.Errorf("request %d = %q, want %q", i, req.Pin, want)
		}
	}
	events := pub.on("door/events")
	if len(events) == 0 {
		t.Fatal("no events published")
	}
	for _, m := range events {
		var e Event
		if err := json.Unmarshal(m.payload, &e); err != nil {
			t.Fatal(err)
		}
		if e.Key != "" || e.Text != "" {
			t.Errorf("%s event carried key %q text %q", e.Kind, e.Key, e.Text)
		}
	}
}

func TestForwarderSecretWithoutMask(t *testing.T) {
	kp, pins, clock := newSession()
	pub := &fakePublisher{}
	fw := NewForwarder(pub, "door", clock)
	fw.Secret = "42"
	fw.Attach(kp)

	enterCode(pins, clock, kp, "42")

	for _, m := range pub.on("door/events") {
		var e Event
		if err := json.Unmarshal(m.payload, &e); err != nil {
			t.Fatal(err)
		}
		if e.Key != "" || e.Text != "" {
			t.Errorf("%s event carried key %q text %q", e.Kind, e.Key, e.Text)
		}
	}
	access := pub.on("door/access")
	if len(access) != 1 || string(access[0].payload) != `{"pin":"accepted"}` {
		t.Errorf("access requests = %+v", access)
	}
}

type fakeAuthorizer struct {
	granted bool
	seen    chan AccessRequest
}

func (a *fakeAuthorizer) Authorize(_ context.Context, req AccessRequest) (bool, error) {
	a.seen <- req
	return a.granted, nil
}

func TestForwarderAsksServer(t *testing.T) {
	kp, pins, clock := newSession()
	server := &fakeAuthorizer{granted: true, seen: make(chan AccessRequest, 4)}
	fw := NewForwarder(&fakePublisher{}, "door", clock)
	fw.Server = server
	fw.Attach(kp)

	enterCode(pins, clock, kp, "12")
	fw.Card("04A1")

	for _, want := range []AccessRequest{{Pin: "12"}, {Card: "04A1"}} {
		select {
		case got := <-server.seen:
			if got != want {
				t.Errorf("server got %+v, want %+v", got, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("server never asked for %+v", want)
		}
	}
}

func TestForwarderSecretSkipsServer(t *testing.T) {
	kp, pins, clock := newSession()
	server := &fakeAuthorizer{seen: make(chan AccessRequest, 4)}
	fw := NewForwarder(&fakePublisher{}, "door", clock)
	fw.Secret = "12"
	fw.Server = server
	fw.Attach(kp)

	enterCode(pins, clock, kp, "12")

	select {
	case got := <-server.seen:
		t.Errorf("server asked about %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestForwarderPublishErrorsAreNotFatal(t *testing.T) {
	kp, pins, clock := newSession()
	pub := &fakePublisher{err: errors.New("broker down")}
	NewForwarder(pub, "x", clock).Attach(kp)

	enterCode(pins, clock, kp, "5")
	if kp.Text() != "" {
		t.Errorf("session did not finish the entry: %q", kp.Text())
	}
	if len(pub.sent) == 0 {
		t.Error("publisher was never called")
	}
}

func TestForwarderCard(t *testing.T) {
	pub := &fakePublisher{}
	fw := NewForwarder(pub, "locks/3", sim.NewClock())
	fw.Card("04A1B2C3")

	if len(pub.sent) != 1 || pub.sent[0].topic != "locks/3/access" {
		t.Fatalf("sent = %+v", pub.sent)
	}
	if got := string(pub.sent[0].payload); got != `{"card":"04A1B2C3"}` {
		t.Errorf("payload = %s", got)
	}
}
