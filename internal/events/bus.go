package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

const (
	CartUpdated          = "cart.updated"
	ReservationCreated   = "reservation.created"
	ReservationStatus    = "reservation.status_changed"
	defaultSubscriberBuf = 16
)

// Event is a notification that some state changed.
type Event struct {
	Type    string      `json:"type"`
	Owner   string      `json:"owner,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// Publisher forwards events outside the process, e.g. to a message broker.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

// Filter selects the events a subscriber receives. A nil Filter receives everything.
type Filter func(Event) bool

type subscriber struct {
	ch     chan Event
	filter Filter
}

// Bus is an in-process publish/subscribe channel.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]subscriber
	next    int
	forward Publisher
}

// NewBus creates a Bus. forward may be nil.
func NewBus(forward Publisher) *Bus {
	return &Bus{
		subs:    make(map[int]subscriber),
		forward: forward,
	}
}

// Subscribe registers a subscriber and returns its channel and a cancel function.
// Calling cancel closes the channel.
func (b *Bus) Subscribe(filter Filter) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, defaultSubscriberBuf)
	b.subs[id] = subscriber{ch: ch, filter: filter}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers e to every matching subscriber and to the forwarder.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	for _, s := range b.subs {
		if s.filter != nil && !s.filter(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			log.Printf("Dropping %s event for a slow subscriber", e.Type)
		}
	}
	b.mu.RUnlock()

	if b.forward == nil {
		return
	}
	body, err := json.Marshal(e)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", e.Type, err)
		return
	}
	if err := b.forward.Publish(e.Type, body); err != nil {
		log.Printf("Warning: failed to forward %s event: %v", e.Type, err)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// ForOwner matches events addressed to owner.
func ForOwner(owner string, types ...string) Filter {
	return func(e Event) bool {
		if e.Owner != owner {
			return false
		}
		if len(types) == 0 {
			return true
		}
		for _, t := range types {
			if e.Type == t {
				return true
			}
		}
		return false
	}
}
