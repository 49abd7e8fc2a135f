package reconcile

import (
	"github.com/aliblock43/point-property-hub/feed"
)

// View is the consumer-side wrapper around Apply: it owns the ordered list
// for one screen and re-evaluates the screen's visibility predicate on every
// insert and update. An insert that fails the predicate is discarded rather
// than inserted and later removed; an update that makes a present record
// fail the predicate removes it from the list.
type View[T any] struct {
	identity func(T) string
	visible  func(T) bool
	items    []T
}

// NewView builds an empty view. A nil visible predicate admits everything.
func NewView[T any](identity func(T) string, visible func(T) bool) *View[T] {
	if visible == nil {
		visible = func(T) bool { return true }
	}
	return &View[T]{identity: identity, visible: visible}
}

// Reset replaces the view's contents with the result of a bulk read,
// keeping only records that pass the predicate and preserving their order.
func (v *View[T]) Reset(items []T) {
	next := make([]T, 0, len(items))
	for _, item := range items {
		if v.visible(item) {
			next = append(next, item)
		}
	}
	v.items = next
}

// ApplyEvent merges one change event, honoring the visibility predicate.
func (v *View[T]) ApplyEvent(event Event[T]) {
	switch event.Kind {
	case feed.KindInsert:
		if !v.visible(event.Record) {
			return
		}
		v.items = Apply(v.items, event, v.identity)
	case feed.KindUpdate:
		if v.visible(event.Record) {
			v.items = Apply(v.items, event, v.identity)
			return
		}
		// record left the view: treat as a removal by identity
		v.items = Apply(v.items, Event[T]{Kind: feed.KindDelete, ID: event.ID}, v.identity)
	case feed.KindDelete:
		v.items = Apply(v.items, event, v.identity)
	}
}

// Items returns a copy of the current list.
func (v *View[T]) Items() []T {
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

// Len reports the current list size.
func (v *View[T]) Len() int {
	return len(v.items)
}

// CountWhere counts records matching an extra predicate, e.g. the unread
// badge on the admin message list.
func (v *View[T]) CountWhere(pred func(T) bool) int {
	n := 0
	for _, item := range v.items {
		if pred(item) {
			n++
		}
	}
	return n
}
