package events

import (
	"context"
	"sync"
	"time"
)

// FeedUpdate describes one applied batch of streamed quotes
type FeedUpdate struct {
	Feed    string
	Symbols int
	At      time.Time
}

// Subscription holds at most one pending FeedUpdate. A newer update replaces
// a pending one, so a slow reader only ever sees the latest state.
type Subscription struct {
	updates chan FeedUpdate
	feed    *Feed
	once    sync.Once
}

// Updates delivers feed updates; it is closed by Cancel
func (s *Subscription) Updates() <-chan FeedUpdate { return s.updates }

// Cancel detaches the subscription from its feed. Safe for repeated calls.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.feed.remove(s)
	})
}

// Watch calls cb for every update until ctx is done or the subscription is
// cancelled. The subscription is cancelled when the watcher exits.
func (s *Subscription) Watch(ctx context.Context, cb func(FeedUpdate)) {
	go func() {
		defer s.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-s.updates:
				if !ok {
					return
				}
				cb(u)
			}
		}
	}()
}

// Feed publishes FeedUpdates to its subscribers and remembers the last one
type Feed struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
	last *FeedUpdate
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[*Subscription]struct{})}
}

func (f *Feed) Subscribe() *Subscription {
	sub := &Subscription{updates: make(chan FeedUpdate, 1), feed: f}

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	return sub
}

// Publish never blocks
func (f *Feed) Publish(u FeedUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = &u
	for sub := range f.subs {
		select {
		case <-sub.updates:
		default:
		}
		select {
		case sub.updates <- u:
		default:
		}
	}
}

// Last returns the most recent update, if any was published
func (f *Feed) Last() (FeedUpdate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return FeedUpdate{}, false
	}
	return *f.last, true
}

// Len returns the number of live subscriptions
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed) remove(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[sub]; ok {
		delete(f.subs, sub)
		close(sub.updates)
	}
}
