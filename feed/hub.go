package feed

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// Hub fans change events out to in-process subscribers. Subscriber lists are
// copied on every add/remove so Publish never holds the lock while invoking
// callbacks (grounded on the copy-on-write callback list idiom).
type Hub struct {
	mutex       sync.Mutex
	subscribers map[string][]*Subscription
}

type Subscription struct {
	id         string
	collection string
	callback   func(Event)
	hub        *Hub
	once       sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subscribers: map[string][]*Subscription{},
	}
}

// Subscribe registers a callback for every event on the named collection.
// The caller must call Unsubscribe exactly once when done, or the
// subscription is held for the lifetime of the process.
func (h *Hub) Subscribe(collection string, callback func(Event)) *Subscription {
	sub := &Subscription{
		id:         ulid.Make().String(),
		collection: collection,
		callback:   callback,
		hub:        h,
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	next := make([]*Subscription, 0, len(h.subscribers[collection])+1)
	next = append(next, h.subscribers[collection]...)
	next = append(next, sub)
	h.subscribers[collection] = next
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	current := h.subscribers[sub.collection]
	next := make([]*Subscription, 0, len(current))
	for _, s := range current {
		if s.id != sub.id {
			next = append(next, s)
		}
	}
	h.subscribers[sub.collection] = next
}

// Publish delivers an event to every subscriber of its collection.
// Events for the same record are published in commit order by the tailer;
// no cross-record ordering is promised.
func (h *Hub) Publish(event Event) {
	h.mutex.Lock()
	subs := h.subscribers[event.Collection]
	h.mutex.Unlock()

	for _, sub := range subs {
		sub.callback(event)
	}
}

// SubscriberCount reports the number of open subscriptions for a collection.
func (h *Hub) SubscriberCount(collection string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.subscribers[collection])
}

func (s *Subscription) ID() string {
	return s.id
}

// Unsubscribe releases the subscription. Safe to call more than once, but
// callers are expected to call it exactly once per Subscribe.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}
