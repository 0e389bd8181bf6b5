// Package eventbus implements the Session Event Bus (component E): a
// single-producer, multi-consumer channel of SessionEvents with bounded
// per-observer buffering and drop-oldest backpressure, so one slow
// observer can never stall the Session Loop that feeds it.
//
// Grounded on the teacher's pkg/ai/notify.go generic Listener/Notify
// fan-out (the panic-isolation discipline carries over: one observer's
// misbehavior must never affect another, or the producer), generalized
// from a synchronous callback-list into a buffered-channel subscription
// model per the strongdm-attractor agent-loop's EventEmitter call sites
// (definition not present in the retrieved pack; the drop-oldest
// overflow policy itself is authored from the distilled spec's component
// E description, since neither grounding source specifies an overflow
// strategy).
package eventbus

import (
	"sync"

	"github.com/digitallysavvy/go-ai/pkg/types"
)

const defaultBufferSize = 64

// Bus fans a single producer's SessionEvents out to any number of
// subscribed observers.
type Bus struct {
	mu        sync.Mutex
	observers map[*observer]struct{}
	closed    bool
}

type observer struct {
	ch       chan types.SessionEvent
	mu       sync.Mutex
	dropped  int
	capacity int
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{observers: make(map[*observer]struct{})}
}

// Subscription is an observer's handle on a Bus: a channel of SessionEvents
// plus an Unsubscribe to stop receiving and release its buffer.
type Subscription struct {
	Events <-chan types.SessionEvent
	obs    *observer
	bus    *Bus
}

// Unsubscribe removes this observer from the Bus and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if _, ok := s.bus.observers[s.obs]; ok {
		delete(s.bus.observers, s.obs)
		close(s.obs.ch)
	}
}

// Dropped reports how many events this observer has missed to
// drop-oldest backpressure.
func (s *Subscription) Dropped() int {
	s.obs.mu.Lock()
	defer s.obs.mu.Unlock()
	return s.obs.dropped
}

// Subscribe registers a new observer with the given buffer capacity (0
// uses defaultBufferSize).
func (b *Bus) Subscribe(capacity int) *Subscription {
	if capacity <= 0 {
		capacity = defaultBufferSize
	}
	obs := &observer{ch: make(chan types.SessionEvent, capacity), capacity: capacity}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(obs.ch)
		return &Subscription{Events: obs.ch, obs: obs, bus: b}
	}
	b.observers[obs] = struct{}{}
	return &Subscription{Events: obs.ch, obs: obs, bus: b}
}

// Publish delivers ev to every current observer. An observer whose buffer
// is full has its oldest buffered event dropped to make room, rather than
// blocking the producer (the Session Loop) or losing the newest event.
func (b *Bus) Publish(ev types.SessionEvent) {
	b.mu.Lock()
	obs := make([]*observer, 0, len(b.observers))
	for o := range b.observers {
		obs = append(obs, o)
	}
	b.mu.Unlock()

	for _, o := range obs {
		o.send(ev)
	}
}

func (o *observer) send(ev types.SessionEvent) {
	for {
		select {
		case o.ch <- ev:
			return
		default:
		}
		select {
		case <-o.ch:
			o.mu.Lock()
			o.dropped++
			o.mu.Unlock()
		default:
			// Another goroutine drained concurrently; retry the send.
		}
	}
}

// Close unsubscribes every observer and marks the Bus closed. Further
// Subscribe calls receive an already-closed channel; further Publish
// calls are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for o := range b.observers {
		close(o.ch)
	}
	b.observers = make(map[*observer]struct{})
}
