// Package publish forwards keypad events to a message broker.
package publish

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"bast-security/keypad-firmware/keypad"
)

// Publisher sends one payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Event is the JSON body of a keypad event message.
type Event struct {
	Kind string `json:"kind"`
	Key  string `json:"key,omitempty"`
	Text string `json:"text,omitempty"`
	At   int64  `json:"at"`
}

// AccessRequest is sent when a code is entered or a card is read.
type AccessRequest struct {
	Pin  string `json:"pin,omitempty"`
	Card string `json:"card,omitempty"`
}

// Forwarder subscribes to a keypad session and publishes what happens on it.
type Forwarder struct {
	pub    Publisher
	prefix string
	clock  keypad.Clock
	// Secret is checked against the unmasked text when a code is entered, so the
	// raw code never has to leave the session: access requests carry only
	// accepted/rejected and events carry no keys or text. Empty means forward
	// the entered text.
	Secret string
	// Server, when set, is asked about every entered code and card. It is not
	// asked about codes checked against Secret.
	Server Authorizer
}

func NewForwarder(pub Publisher, prefix string, clock keypad.Clock) *Forwarder {
	if clock == nil {
		clock = keypad.SystemClock
	}
	return &Forwarder{pub: pub, prefix: prefix, clock: clock}
}

func (f *Forwarder) EventsTopic() string { return f.prefix + "/events" }

func (f *Forwarder) AccessTopic() string { return f.prefix + "/access" }

// Attach registers the forwarder's listeners on kp, replacing any already set.
func (f *Forwarder) Attach(kp *keypad.Keypad) {
	kp.OnKeyDown(func(r rune) { f.event(Event{Kind: "down", Key: string(r)}) })
	kp.OnKeyUp(func(r rune) { f.event(Event{Kind: "up", Key: string(r)}) })
	kp.OnLongPress(func(r rune) { f.event(Event{Kind: "long-press", Key: string(r)}) })
	kp.OnDelete(func(r rune) { f.event(Event{Kind: "delete", Key: string(r)}) })
	kp.OnMultipleKeys(func(s string) { f.event(Event{Kind: "multiple", Text: s}) })
	kp.OnTextChange(func(s string) { f.event(Event{Kind: "text", Text: s}) })
	kp.OnIdle(func() { f.event(Event{Kind: "idle"}) })
	kp.OnEnter(func(s string) {
		f.event(Event{Kind: "enter", Text: s})
		f.access(kp, s)
	})
}

func (f *Forwarder) access(kp *keypad.Keypad, shown string) {
	if f.Secret != "" {
		pin := "rejected"
		if kp.TextEquals(f.Secret) {
			pin = "accepted"
		}
		f.publishRequest(AccessRequest{Pin: pin})
		return
	}
	f.request(AccessRequest{Pin: shown})
}

// Card requests access for a card number. It may be called from any goroutine
// as long as the Publisher allows it.
func (f *Forwarder) Card(card string) {
	f.request(AccessRequest{Card: card})
}

func (f *Forwarder) request(req AccessRequest) {
	f.publishRequest(req)
	if f.Server != nil {
		go f.authorize(req)
	}
}

func (f *Forwarder) authorize(req AccessRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), serverTimeout)
	defer cancel()

	kind := "pin"
	if req.Card != "" {
		kind = "card"
	}
	granted, err := f.Server.Authorize(ctx, req)
	switch {
	case err != nil:
		log.WithError(err).WithField("kind", kind).Error("access request failed")
	case granted:
		log.WithField("kind", kind).Info("access granted")
	default:
		log.WithField("kind", kind).Info("access denied")
	}
}

func (f *Forwarder) publishRequest(req AccessRequest) {
	body, err := json.Marshal(req)
	if err != nil {
		log.WithError(err).Error("failed to marshal access request")
		return
	}
	if err := f.pub.Publish(f.AccessTopic(), body); err != nil {
		log.WithError(err).Error("access request failed")
		return
	}
	log.WithField("topic", f.AccessTopic()).Info("access request published")
}

func (f *Forwarder) event(e Event) {
	if f.Secret != "" {
		e.Key, e.Text = "", ""
	}
	e.At = f.clock.Now().UnixNano() / int64(time.Millisecond)
	body, err := json.Marshal(e)
	if err != nil {
		log.WithError(err).Error("failed to marshal event")
		return
	}
	if err := f.pub.Publish(f.EventsTopic(), body); err != nil {
		log.WithError(err).WithField("kind", e.Kind).Warn("event not published")
	}
}
