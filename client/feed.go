package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/aliblock43/point-property-hub/feed"
)

// FeedSource is the change-feed contract a screen mounts against. The
// returned subscription must be released exactly once, or the underlying
// channel is held for the lifetime of the consumer.
type FeedSource interface {
	Subscribe(collection string, callback func(feed.Event)) (FeedSubscription, error)
}

type FeedSubscription interface {
	Unsubscribe()
}

// WSFeed is a FeedSource backed by the server's websocket feed endpoint.
// One socket multiplexes events for every collection it was dialed with;
// Subscribe registers an in-process callback on that stream.
//
// There is no automatic reconnect here: when the socket drops, Done is
// closed and no further events are delivered. LiveList layers reconnect
// with backoff on top, treating each reconnect like a fresh mount.
type WSFeed struct {
	conn *websocket.Conn

	mutex     sync.Mutex
	callbacks map[string]map[string]func(feed.Event)
	done      chan struct{}
	closeOnce sync.Once
}

type wsSubscription struct {
	feed       *WSFeed
	collection string
	id         string
	once       sync.Once
}

// DialFeed connects to the feed endpoint for the given collections.
// baseURL is the server's HTTP base, e.g. "http://localhost:8080".
func DialFeed(ctx context.Context, baseURL string, collections []string) (*WSFeed, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws/feed"
	u.RawQuery = url.Values{"tables": {strings.Join(collections, ",")}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial feed: %w", err)
	}

	f := &WSFeed{
		conn:      conn,
		callbacks: map[string]map[string]func(feed.Event){},
		done:      make(chan struct{}),
	}
	go f.readLoop()
	return f, nil
}

func (f *WSFeed) readLoop() {
	defer f.closeOnce.Do(func() { close(f.done) })
	for {
		var event feed.Event
		if err := f.conn.ReadJSON(&event); err != nil {
			return
		}
		f.dispatch(event)
	}
}

func (f *WSFeed) dispatch(event feed.Event) {
	f.mutex.Lock()
	registered := f.callbacks[event.Collection]
	callbacks := make([]func(feed.Event), 0, len(registered))
	for _, cb := range registered {
		callbacks = append(callbacks, cb)
	}
	f.mutex.Unlock()

	for _, cb := range callbacks {
		cb(event)
	}
}

// Subscribe registers a callback for one collection's events. Fails once
// the socket has dropped.
func (f *WSFeed) Subscribe(collection string, callback func(feed.Event)) (FeedSubscription, error) {
	select {
	case <-f.done:
		return nil, fmt.Errorf("feed connection is closed")
	default:
	}

	sub := &wsSubscription{
		feed:       f,
		collection: collection,
		id:         ulid.Make().String(),
	}

	f.mutex.Lock()
	if f.callbacks[collection] == nil {
		f.callbacks[collection] = map[string]func(feed.Event){}
	}
	f.callbacks[collection][sub.id] = callback
	f.mutex.Unlock()
	return sub, nil
}

func (s *wsSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mutex.Lock()
		delete(s.feed.callbacks[s.collection], s.id)
		s.feed.mutex.Unlock()
	})
}

// Done is closed when the socket is gone and no more events will arrive.
func (f *WSFeed) Done() <-chan struct{} {
	return f.done
}

// Close tears the socket down.
func (f *WSFeed) Close() {
	f.conn.Close()
}
