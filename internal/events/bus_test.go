package events

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInOrderToOwner(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	ch, cancel := bus.Subscribe("user-1")
	defer cancel()
	other, cancelOther := bus.Subscribe("user-2")
	defer cancelOther()

	ctx := context.Background()
	bus.Publish(ctx, Event{Type: TaskCreated, UserID: "user-1", TaskID: "a"})
	bus.Publish(ctx, Event{Type: TaskUpdated, UserID: "user-1", TaskID: "a"})
	bus.Publish(ctx, Event{Type: TaskDeleted, UserID: "user-1", TaskID: "a"})

	require.Len(t, ch, 3)
	assert.Equal(t, TaskCreated, (<-ch).Type)
	assert.Equal(t, TaskUpdated, (<-ch).Type)
	assert.Equal(t, TaskDeleted, (<-ch).Type)
	assert.Empty(t, other)
}

func TestBusFansOutToAllSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	first, cancelFirst := bus.Subscribe("user-1")
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe("user-1")
	defer cancelSecond()
	assert.Equal(t, 2, bus.SubscriberCount("user-1"))

	bus.Publish(context.Background(), Event{Type: TaskCreated, UserID: "user-1"})

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestBusPublishDoesNotBlockOnLaggingSubscriber(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	ch, cancel := bus.Subscribe("user-1")
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Publish(context.Background(), Event{Type: TaskUpdated, UserID: "user-1"})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestBusCancel(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	ch, cancel := bus.Subscribe("user-1")
	cancel()
	cancel()

	assert.Equal(t, 0, bus.SubscriberCount("user-1"))
	_, open := <-ch
	assert.False(t, open)

	// Publishing with no subscribers is a no-op.
	bus.Publish(context.Background(), Event{Type: TaskCreated, UserID: "user-1"})
}

func TestBusCloseEndsSubscriptions(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	first, cancelFirst := bus.Subscribe("user-1")
	second, cancelSecond := bus.Subscribe("user-2")

	bus.Close()
	bus.Close()

	_, open := <-first
	assert.False(t, open)
	_, open = <-second
	assert.False(t, open)
	assert.Equal(t, 0, bus.SubscriberCount("user-1"))

	// Cancelling after Close must not close the channel twice.
	cancelFirst()
	cancelSecond()

	late, cancelLate := bus.Subscribe("user-1")
	defer cancelLate()
	_, open = <-late
	assert.False(t, open)

	bus.Publish(context.Background(), Event{Type: TaskCreated, UserID: "user-1"})
}
