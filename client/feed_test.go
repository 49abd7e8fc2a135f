package client

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/labstack/echo/v4"

	"github.com/aliblock43/point-property-hub/feed"
	"github.com/aliblock43/point-property-hub/models"
)

// wsTestServer wraps an httptest server around the feed endpoint. Upgraded
// websockets are hijacked connections, which httptest stops tracking, so
// the server records them via ConnState and dropConnections severs them
// directly to simulate a network loss.
type wsTestServer struct {
	hub    *feed.Hub
	URL    string
	server *httptest.Server

	mu    sync.Mutex
	conns []net.Conn
}

func newFeedServer(t *testing.T) *wsTestServer {
	t.Helper()
	ts := &wsTestServer{hub: feed.NewHub()}

	e := echo.New()
	e.GET("/ws/feed", feed.WSHandler(ts.hub))

	ts.server = httptest.NewUnstartedServer(e)
	ts.server.Config.ConnState = func(c net.Conn, state http.ConnState) {
		if state == http.StateHijacked {
			ts.mu.Lock()
			ts.conns = append(ts.conns, c)
			ts.mu.Unlock()
		}
	}
	ts.server.Start()
	ts.URL = ts.server.URL
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *wsTestServer) dropConnections() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, c := range ts.conns {
		c.Close()
	}
	ts.conns = nil
}

func waitForSubscriber(t *testing.T, hub *feed.Hub, collection string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount(collection) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no subscriber registered for %s", collection)
}

func TestWSFeedDeliversEvents(t *testing.T) {
	ts := newFeedServer(t)

	wsFeed, err := DialFeed(context.Background(), ts.URL, []string{feed.CollectionProperties})
	assert.Equal(t, nil, err)
	defer wsFeed.Close()

	received := make(chan feed.Event, 1)
	sub, err := wsFeed.Subscribe(feed.CollectionProperties, func(e feed.Event) {
		received <- e
	})
	assert.Equal(t, nil, err)
	defer sub.Unsubscribe()

	waitForSubscriber(t, ts.hub, feed.CollectionProperties)

	record, _ := json.Marshal(models.Property{ID: "p1", Title: "Condo", Status: models.PropertyStatusActive})
	ts.hub.Publish(feed.Event{
		Kind:       feed.KindInsert,
		Collection: feed.CollectionProperties,
		ID:         "p1",
		Record:     record,
	})

	select {
	case event := <-received:
		assert.Equal(t, feed.KindInsert, event.Kind)
		assert.Equal(t, "p1", event.ID)
		var property models.Property
		assert.Equal(t, nil, json.Unmarshal(event.Record, &property))
		assert.Equal(t, "Condo", property.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered over the websocket")
	}
}

func TestWSFeedIgnoresOtherCollections(t *testing.T) {
	ts := newFeedServer(t)

	wsFeed, err := DialFeed(context.Background(), ts.URL, []string{feed.CollectionProperties})
	assert.Equal(t, nil, err)
	defer wsFeed.Close()

	received := make(chan feed.Event, 1)
	sub, err := wsFeed.Subscribe(feed.CollectionProperties, func(e feed.Event) {
		received <- e
	})
	assert.Equal(t, nil, err)
	defer sub.Unsubscribe()

	waitForSubscriber(t, ts.hub, feed.CollectionProperties)

	// the socket was dialed for properties only; a blog event never reaches it
	ts.hub.Publish(feed.Event{Kind: feed.KindInsert, Collection: feed.CollectionBlogPosts, ID: "b1", Record: json.RawMessage(`{}`)})
	ts.hub.Publish(feed.Event{Kind: feed.KindDelete, Collection: feed.CollectionProperties, ID: "p1"})

	select {
	case event := <-received:
		assert.Equal(t, feed.KindDelete, event.Kind)
		assert.Equal(t, "p1", event.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered over the websocket")
	}
}

func TestWSFeedDoneClosesOnConnectionLoss(t *testing.T) {
	ts := newFeedServer(t)

	wsFeed, err := DialFeed(context.Background(), ts.URL, []string{feed.CollectionProperties})
	assert.Equal(t, nil, err)

	waitForSubscriber(t, ts.hub, feed.CollectionProperties)
	ts.dropConnections()

	select {
	case <-wsFeed.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not report the dropped connection")
	}

	// subscribing after the drop fails rather than silently never delivering
	_, err = wsFeed.Subscribe(feed.CollectionProperties, func(feed.Event) {})
	assert.NotEqual(t, nil, err)
}

func TestDialFeedRejectsUnwatchedTables(t *testing.T) {
	ts := newFeedServer(t)

	_, err := DialFeed(context.Background(), ts.URL, []string{"not_a_table"})
	assert.NotEqual(t, nil, err)
}
