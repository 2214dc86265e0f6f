package presence

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/facewatch/attendance/internal/hub"
)

// Aggregator republishes every RoomChange onto a NATS subject so every
// server process sees every room's membership changes, then fans each
// incoming change back out on this process's hub under the single
// "rooms:all" topic — the shape WS clients subscribing to "every room"
// actually want. Grounded on the teacher's internal/nvr.NATSPublisher
// (marshal, publish-with-retry); the NATS connection must be opened with
// nats.NoEcho() so a process never re-delivers its own publish to itself.
type Aggregator struct {
	nc         *nats.Conn
	subject    string
	maxRetries int
	hub        *hub.Hub
}

const AllRoomsTopic = "rooms:all"

func NewAggregator(nc *nats.Conn, subject string, maxRetries int, h *hub.Hub) *Aggregator {
	return &Aggregator{nc: nc, subject: subject, maxRetries: maxRetries, hub: h}
}

// NotifyRoomChange implements presence.Notifier: every local change is
// fanned out on this process's own rooms:all topic immediately (a NoEcho
// connection never hands a publish back to its publisher, so the Start
// subscription below only ever sees other processes' changes) and then
// published for those other processes to see.
func (a *Aggregator) NotifyRoomChange(change RoomChange) {
	a.hub.Publish(AllRoomsTopic, hub.KindEvent, nil, change)
	if err := a.publish(change); err != nil {
		log.Printf("presence: aggregator publish failed: %v", err)
	}
}

func (a *Aggregator) publish(change RoomChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("presence: marshal room change: %w", err)
	}

	var lastErr error
	for i := 0; i <= a.maxRetries; i++ {
		if lastErr = a.nc.Publish(a.subject, data); lastErr == nil {
			return nil
		}
		time.Sleep(time.Duration(i*100) * time.Millisecond)
	}
	return fmt.Errorf("presence: publish failed after %d retries: %w", a.maxRetries, lastErr)
}

// Start subscribes to the aggregation subject and republishes every
// message it sees onto the local hub's rooms:all topic, until the returned
// subscription is unsubscribed or its connection closes.
func (a *Aggregator) Start() (*nats.Subscription, error) {
	return a.nc.Subscribe(a.subject, func(msg *nats.Msg) {
		var change RoomChange
		if err := json.Unmarshal(msg.Data, &change); err != nil {
			log.Printf("presence: aggregator received malformed change: %v", err)
			return
		}
		a.hub.Publish(AllRoomsTopic, hub.KindEvent, nil, change)
	})
}

// FanoutNotifier dispatches one RoomChange to every wrapped Notifier, so
// the tracker can notify the per-room hub topic and the cross-process
// aggregator with a single Notifier value.
type FanoutNotifier struct {
	Notifiers []Notifier
}

func (f FanoutNotifier) NotifyRoomChange(change RoomChange) {
	for _, n := range f.Notifiers {
		n.NotifyRoomChange(change)
	}
}
