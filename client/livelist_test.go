package client

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/aliblock43/point-property-hub/feed"
	"github.com/aliblock43/point-property-hub/models"
)

func TestLiveListRemountsAfterDisconnect(t *testing.T) {
	ts := newFeedServer(t)

	var fetches int32
	config := ScreenConfig[models.Property]{
		Collection: feed.CollectionProperties,
		Entity:     "property",
		Plural:     "properties",
		Fetch: func(context.Context) ([]models.Property, error) {
			atomic.AddInt32(&fetches, 1)
			return []models.Property{{ID: "p1", Status: models.PropertyStatusActive}}, nil
		},
		Identity: func(p models.Property) string { return p.ID },
	}

	live := NewLiveList(config, func(ctx context.Context) (*WSFeed, error) {
		return DialFeed(ctx, ts.URL, []string{feed.CollectionProperties})
	})
	live.Run(context.Background())
	defer live.Stop()

	waitForSubscriber(t, ts.hub, feed.CollectionProperties)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	assert.Equal(t, 1, len(live.Items()))

	// sever the socket: the supervisor must remount with a fresh bulk read
	ts.dropConnections()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&fetches) >= 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("no remount after the feed dropped")
}

func TestLiveListStopWithoutRunReturns(t *testing.T) {
	config := ScreenConfig[models.Property]{
		Collection: feed.CollectionProperties,
		Fetch: func(context.Context) ([]models.Property, error) {
			return nil, nil
		},
		Identity: func(p models.Property) string { return p.ID },
	}
	live := NewLiveList(config, func(ctx context.Context) (*WSFeed, error) {
		t.Error("dial must not be called without Run")
		return nil, nil
	})

	done := make(chan struct{})
	go func() {
		live.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a prior Run")
	}
}
