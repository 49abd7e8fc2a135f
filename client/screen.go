package client

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aliblock43/point-property-hub/feed"
	"github.com/aliblock43/point-property-hub/reconcile"
)

type ScreenState int

const (
	StateIdle ScreenState = iota
	StateLoading
	StateSubscribed
	StateFailed
	StateUnmounted
)

func (s ScreenState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSubscribed:
		return "subscribed"
	case StateFailed:
		return "failed"
	case StateUnmounted:
		return "unmounted"
	}
	return "unknown"
}

// ScreenConfig describes one live list screen: where its bulk read comes
// from, which collection it follows, and how records are identified and
// filtered.
type ScreenConfig[T any] struct {
	Collection string
	Entity     string // singular, for notices, e.g. "property"
	Plural     string // for fetch-failure notices, e.g. "properties"

	Fetch    func(ctx context.Context) ([]T, error)
	Identity func(T) string
	// Visible is the screen's membership predicate, re-applied on every
	// insert and update. Nil admits everything.
	Visible func(T) bool

	Feed     FeedSource
	Notifier Notifier
	// NotifyUpdates controls whether update events produce a notice;
	// screen-dependent, off by default.
	NotifyUpdates bool
}

// Screen is one mounted fetch-then-subscribe list. Mount performs the bulk
// read, then opens the feed subscription for the screen's lifetime; Unmount
// releases it exactly once. A bulk-read failure is terminal: no feed is
// opened and the caller must mount a fresh screen to retry.
type Screen[T any] struct {
	config ScreenConfig[T]

	mutex sync.Mutex
	state ScreenState
	view  *reconcile.View[T]
	sub   FeedSubscription
}

// Mount runs the bootstrap sequence. The returned screen is in state
// Subscribed on success and Failed on a bulk-read or subscribe error; in the
// Failed case exactly one fetch-failure notice has been emitted and the
// list is empty.
func Mount[T any](ctx context.Context, config ScreenConfig[T]) (*Screen[T], error) {
	if config.Notifier == nil {
		config.Notifier = NopNotifier{}
	}
	s := &Screen[T]{
		config: config,
		state:  StateLoading,
		view:   reconcile.NewView(config.Identity, config.Visible),
	}

	items, err := config.Fetch(ctx)
	if err != nil {
		s.state = StateFailed
		notifyFetchFailed(config.Notifier, config.Plural)
		return s, err
	}
	s.view.Reset(items)

	// subscribed state goes first: the feed delivers from its own
	// goroutine, possibly before Subscribe returns, and those events must
	// be applied rather than dropped
	s.mutex.Lock()
	s.state = StateSubscribed
	s.mutex.Unlock()

	sub, err := config.Feed.Subscribe(config.Collection, s.onEvent)
	if err != nil {
		s.mutex.Lock()
		s.state = StateFailed
		s.mutex.Unlock()
		notifyFetchFailed(config.Notifier, config.Plural)
		return s, err
	}

	s.mutex.Lock()
	s.sub = sub
	s.mutex.Unlock()
	return s, nil
}

func (s *Screen[T]) onEvent(event feed.Event) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state != StateSubscribed {
		return
	}

	applied := reconcile.Event[T]{Kind: event.Kind, ID: event.ID}
	if event.Kind != feed.KindDelete {
		if err := json.Unmarshal(event.Record, &applied.Record); err != nil {
			return
		}
		// the envelope identity wins; the record only fills in a
		// missing one
		if applied.ID == "" {
			applied.ID = s.config.Identity(applied.Record)
		}
	}
	before := s.view.Len()
	s.view.ApplyEvent(applied)

	switch event.Kind {
	case feed.KindInsert:
		if s.view.Len() > before {
			notifyInserted(s.config.Notifier, s.config.Entity)
		}
	case feed.KindUpdate:
		if s.config.NotifyUpdates {
			notifyUpdated(s.config.Notifier, s.config.Entity)
		}
	case feed.KindDelete:
		if s.view.Len() < before {
			notifyDeleted(s.config.Notifier, s.config.Entity)
		}
	}
}

// Items returns a copy of the reconciled list.
func (s *Screen[T]) Items() []T {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.view.Items()
}

// CountWhere counts reconciled records matching a predicate.
func (s *Screen[T]) CountWhere(pred func(T) bool) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.view.CountWhere(pred)
}

// State reports the screen's lifecycle state.
func (s *Screen[T]) State() ScreenState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Unmount releases the feed subscription. Exactly one release happens per
// successful mount no matter how many times Unmount is called, and no event
// reaches the reconciler after Unmount returns.
func (s *Screen[T]) Unmount() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state == StateUnmounted {
		return
	}
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
	s.state = StateUnmounted
}
