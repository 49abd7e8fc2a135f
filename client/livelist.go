package client

import (
	"context"
	"sync"
	"time"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	backoffFactor  = 2
)

// LiveList keeps a screen mounted across feed disconnects. Each reconnect
// is treated like a fresh mount: dial, bulk read, subscribe, so any events
// missed while offline are closed over by the new bulk read. Backoff grows
// exponentially between failed attempts and resets after a healthy
// connection.
type LiveList[T any] struct {
	config ScreenConfig[T]
	dial   func(ctx context.Context) (*WSFeed, error)

	mutex  sync.Mutex
	screen *Screen[T]

	cancel context.CancelFunc
	done   chan struct{}
}

// NewLiveList builds the supervisor for one screen. The config's Feed field
// is managed internally and must be left nil.
func NewLiveList[T any](config ScreenConfig[T], dial func(ctx context.Context) (*WSFeed, error)) *LiveList[T] {
	return &LiveList[T]{
		config: config,
		dial:   dial,
		done:   make(chan struct{}),
	}
}

// Run mounts the screen and keeps it alive until ctx is cancelled or Stop
// is called.
func (l *LiveList[T]) Run(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go l.loop(ctx)
}

func (l *LiveList[T]) loop(ctx context.Context) {
	defer close(l.done)

	notifier := l.config.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			return
		}

		wsFeed, err := l.dial(ctx)
		if err != nil {
			notifier.Notify(NoticeError, "Live updates unavailable, retrying")
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}

		config := l.config
		config.Feed = wsFeed
		screen, err := Mount(ctx, config)
		if err != nil {
			wsFeed.Close()
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}

		l.mutex.Lock()
		l.screen = screen
		l.mutex.Unlock()
		backoff = initialBackoff

		select {
		case <-ctx.Done():
			screen.Unmount()
			wsFeed.Close()
			return
		case <-wsFeed.Done():
			// socket dropped: tear down and remount from scratch
			screen.Unmount()
			wsFeed.Close()
			notifier.Notify(NoticeError, "Live updates unavailable, reconnecting")
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
		}
	}
}

// Items returns the current reconciled list, or nil before the first
// successful mount.
func (l *LiveList[T]) Items() []T {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.screen == nil {
		return nil
	}
	return l.screen.Items()
}

// Stop tears the supervisor down and waits for the screen to unmount.
// A no-op when Run was never called.
func (l *LiveList[T]) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * backoffFactor
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
