// Package hub implements the subscription hub (C9): a topic-keyed
// broadcaster with bounded per-subscriber queues and a drop-oldest
// slow-consumer policy. publish never blocks the producer.
package hub

import (
	"sync"
	"sync/atomic"

	"github.com/facewatch/attendance/internal/metrics"
)

// Mode is what kinds of messages a subscription wants delivered.
type Mode int

const (
	ModeFrames Mode = iota
	ModeEvents
	ModeBoth
)

// Kind distinguishes a Message's payload without requiring the subscriber
// to inspect it.
type Kind int

const (
	KindFrame Kind = iota
	KindEvent
)

// Message is one published item on a topic.
type Message struct {
	Topic    string
	Kind     Kind
	Seq      uint64
	Frame    []byte // set when Kind == KindFrame
	Event    any    // set when Kind == KindEvent
}

// Subscription is returned by Subscribe. The caller reads from C until
// Unsubscribe is called, after which C is closed.
type Subscription struct {
	ID     uint64
	Topic  string
	Mode   Mode
	C      <-chan Message
	Drops  *uint64 // cumulative dropped-message counter, read with atomic.LoadUint64

	hub *Hub
	ch  chan Message
}

// Unsubscribe is idempotent and leaks neither the channel goroutine (there
// isn't one) nor the hub's bookkeeping of this subscription.
func (s *Subscription) Unsubscribe() {
	s.hub.unsubscribe(s)
}

type topic struct {
	mu   sync.Mutex
	subs map[uint64]*Subscription
	seq  uint64
}

// Hub is C9.
type Hub struct {
	queueSize int

	mu     sync.Mutex
	topics map[string]*topic
	nextID uint64
}

func New(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Hub{queueSize: queueSize, topics: make(map[string]*topic)}
}

func (h *Hub) topicFor(name string) *topic {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.topics[name]
	if !ok {
		t = &topic{subs: make(map[uint64]*Subscription)}
		h.topics[name] = t
	}
	return t
}

// Subscribe registers interest in topicName under the given delivery mode.
func (h *Hub) Subscribe(topicName string, mode Mode) *Subscription {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.mu.Unlock()

	t := h.topicFor(topicName)
	ch := make(chan Message, h.queueSize)
	var drops uint64
	sub := &Subscription{ID: id, Topic: topicName, Mode: mode, C: ch, Drops: &drops, hub: h, ch: ch}

	t.mu.Lock()
	t.subs[id] = sub
	metrics.HubSubscribers.WithLabelValues(topicName).Set(float64(len(t.subs)))
	t.mu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	t, ok := h.topics[sub.Topic]
	h.mu.Unlock()
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.subs[sub.ID]; !ok {
		return // already unsubscribed
	}
	delete(t.subs, sub.ID)
	metrics.HubSubscribers.WithLabelValues(sub.Topic).Set(float64(len(t.subs)))
	close(sub.ch)
}

// Publish delivers msg to every live subscriber of topicName whose mode
// accepts this kind of message, assigning the next monotonic sequence
// number for the topic. It never blocks: a full subscriber queue has its
// oldest message dropped to make room.
func (h *Hub) Publish(topicName string, kind Kind, frame []byte, event any) {
	t := h.topicFor(topicName)

	t.mu.Lock()
	t.seq++
	msg := Message{Topic: topicName, Kind: kind, Seq: t.seq, Frame: frame, Event: event}
	subs := make([]*Subscription, 0, len(t.subs))
	for _, s := range t.subs {
		subs = append(subs, s)
	}
	t.mu.Unlock()

	for _, s := range subs {
		if !accepts(s.Mode, kind) {
			continue
		}
		deliver(s, msg)
	}
}

func accepts(mode Mode, kind Kind) bool {
	switch mode {
	case ModeBoth:
		return true
	case ModeFrames:
		return kind == KindFrame
	case ModeEvents:
		return kind == KindEvent
	default:
		return false
	}
}

// deliver sends msg to s.ch, dropping the oldest queued message and
// incrementing s.Drops if the queue is full. A closed channel (raced with
// Unsubscribe) is tolerated by recovering from the resulting panic.
func deliver(s *Subscription, msg Message) {
	defer func() { recover() }()

	select {
	case s.ch <- msg:
		return
	default:
	}

	select {
	case <-s.ch:
		atomic.AddUint64(s.Drops, 1)
		metrics.HubDropsTotal.WithLabelValues(s.Topic).Inc()
	default:
	}

	select {
	case s.ch <- msg:
	default:
		atomic.AddUint64(s.Drops, 1)
		metrics.HubDropsTotal.WithLabelValues(s.Topic).Inc()
	}
}
