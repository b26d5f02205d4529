package publish

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// DefaultQueueSize holds a few seconds of typing at normal speed.
const DefaultQueueSize = 256

var ErrQueueFull = errors.New("publish: queue full, message dropped")

var ErrQueueClosed = errors.New("publish: queue closed")

type queued struct {
	topic   string
	payload []byte
}

// Queue hands messages to a single goroutine that publishes them in order, so
// a slow broker never holds up the keypad scan.
type Queue struct {
	pub  Publisher
	msgs chan queued
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewQueue(pub Publisher, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := &Queue{
		pub:  pub,
		msgs: make(chan queued, size),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// Publish enqueues without blocking. It fails when the queue is full or closed.
func (q *Queue) Publish(topic string, payload []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.msgs <- queued{topic, payload}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for m := range q.msgs {
		if err := q.pub.Publish(m.topic, m.payload); err != nil {
			log.WithError(err).WithField("topic", m.topic).Warn("publish failed")
		}
	}
}

// Close stops accepting messages and waits until the queued ones are published.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.msgs)
	}
	q.mu.Unlock()
	<-q.done
}
