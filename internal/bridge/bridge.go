// Package bridge fans decoded transport payloads out to in-process
// subscribers and, optionally, an external pub/sub sink, with a choice of
// backpressure policy (drop vs. kick a slow client) for when a subscriber
// falls behind.
package bridge

import (
	"sync"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/logging"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/metrics"
)

// BackpressurePolicy controls what happens when a subscriber's channel is
// full at publish time.
type BackpressurePolicy int

const (
	PolicyDrop BackpressurePolicy = iota
	PolicyKick
)

// Subscriber receives decoded payloads until Closed is closed.
type Subscriber struct {
	Out       chan []byte
	Closed    chan struct{}
	closeOnce sync.Once
}

// Close signals the subscriber is closed (idempotent).
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() { close(s.Closed) })
}

// NewSubscriber returns a Subscriber with a buffered channel of the given depth.
func NewSubscriber(bufSize int) *Subscriber {
	return &Subscriber{
		Out:    make(chan []byte, bufSize),
		Closed: make(chan struct{}),
	}
}

// Bridge fans decoded payloads out to registered subscribers.
type Bridge struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	Policy      BackpressurePolicy
}

// New creates an empty Bridge with the drop backpressure policy.
func New() *Bridge { return &Bridge{subscribers: make(map[*Subscriber]struct{})} }

// Subscribe registers s with the bridge.
func (b *Bridge) Subscribe(s *Subscriber) {
	b.mu.Lock()
	b.subscribers[s] = struct{}{}
	n := len(b.subscribers)
	b.mu.Unlock()
	metrics.SetBridgeSubscribers(n)
	logging.Component("bridge").Debug("bridge_subscriber_added", "count", n)
}

// Unsubscribe removes s from the bridge; safe to call multiple times.
func (b *Bridge) Unsubscribe(s *Subscriber) {
	b.mu.Lock()
	_, existed := b.subscribers[s]
	if existed {
		delete(b.subscribers, s)
	}
	n := len(b.subscribers)
	b.mu.Unlock()
	if existed {
		s.Close()
		metrics.SetBridgeSubscribers(n)
	}
}

// Publish delivers payload to every subscriber, honoring the backpressure
// policy for any subscriber whose channel is full. payload is copied once
// per subscriber send is unnecessary since all subscribers share the same
// read-only slice; callers must not mutate payload after calling Publish.
func (b *Bridge) Publish(payload []byte) {
	b.mu.RLock()
	subs := make([]*Subscriber, 0, len(b.subscribers))
	for s := range b.subscribers {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.Out <- payload:
		default:
			if b.Policy == PolicyKick {
				s.Close()
			} else {
				metrics.IncBridgeDropped()
			}
		}
	}
}

// Count returns the number of active subscribers.
func (b *Bridge) Count() int {
	b.mu.RLock()
	n := len(b.subscribers)
	b.mu.RUnlock()
	return n
}
