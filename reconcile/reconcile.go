// Package reconcile merges row-level change events into a locally held
// ordered list. Apply is pure: same (list, event) in, same list out,
// regardless of call history.
package reconcile

import (
	"github.com/aliblock43/point-property-hub/feed"
)

// Event is a decoded change notification for a single record. For deletes
// only ID is meaningful.
type Event[T any] struct {
	Kind   feed.Kind
	ID     string
	Record T
}

// Apply merges one event into a list, returning a new slice and leaving the
// input untouched.
//
//   - Insert prepends the record. The in-memory order can diverge from the
//     server's declared sort the moment two inserts race; that is accepted
//     for a best-effort live view.
//   - Update replaces the matching record in place; an update for a record
//     not in the list is dropped.
//   - Delete removes the matching record; a delete for an absent record is
//     a no-op, so duplicate delivery is harmless.
func Apply[T any](list []T, event Event[T], identity func(T) string) []T {
	switch event.Kind {
	case feed.KindInsert:
		next := make([]T, 0, len(list)+1)
		next = append(next, event.Record)
		next = append(next, list...)
		return next
	case feed.KindUpdate:
		for i, item := range list {
			if identity(item) == event.ID {
				next := make([]T, len(list))
				copy(next, list)
				next[i] = event.Record
				return next
			}
		}
		return list
	case feed.KindDelete:
		for i, item := range list {
			if identity(item) == event.ID {
				next := make([]T, 0, len(list)-1)
				next = append(next, list[:i]...)
				next = append(next, list[i+1:]...)
				return next
			}
		}
		return list
	}
	return list
}
