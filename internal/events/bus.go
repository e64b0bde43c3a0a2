// Package events notifies task list views that a user's tasks changed.
package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type Type string

const (
	TaskCreated Type = "task.created"
	TaskUpdated Type = "task.updated"
	TaskDeleted Type = "task.deleted"
)

// subscriberBuffer bounds how far a subscriber may lag behind. One
// pending event is enough to trigger a reload.
const subscriberBuffer = 8

type Event struct {
	Type   Type   `json:"type"`
	UserID string `json:"-"`
	TaskID string `json:"task_id"`
}

// Publisher is implemented by *Bus.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type subscriber struct {
	ch chan Event
}

// Bus fans out events to the subscribers of the event's user. Each
// subscriber receives events in publish order.
type Bus struct {
	logger zerolog.Logger

	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		logger: logger,
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers interest in a user's events. The returned cancel
// func unregisters and closes the channel; it is safe to call twice.
func (b *Bus) Subscribe(userID string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[*subscriber]struct{})
	}
	b.subs[userID][sub] = struct{}{}
	b.mu.Unlock()

	b.logger.Debug().
		Str("user_id", userID).
		Msg("subscribed to task events")

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[userID][sub]; ok {
				delete(b.subs[userID], sub)
				if len(b.subs[userID]) == 0 {
					delete(b.subs, userID)
				}
				close(sub.ch)
			}
			b.mu.Unlock()

			b.logger.Debug().
				Str("user_id", userID).
				Msg("unsubscribed from task events")
		})
	}
	return sub.ch, cancel
}

// Close closes every subscriber channel, ending open streams. Later
// subscriptions receive an already closed channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	count := 0
	for userID, subs := range b.subs {
		for sub := range subs {
			close(sub.ch)
			count++
		}
		delete(b.subs, userID)
	}
	b.logger.Info().
		Int("subscribers", count).
		Msg("closed task event bus")
}

// Publish never blocks. A subscriber whose buffer is full misses the
// event.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[event.UserID] {
		select {
		case sub.ch <- event:
		default:
			b.logger.Warn().
				Str("user_id", event.UserID).
				Str("type", string(event.Type)).
				Msg("subscriber lagging, dropped task event")
		}
	}
}

func (b *Bus) SubscriberCount(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}
