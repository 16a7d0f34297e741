package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TypeBookingCommitted, func(e Event) { got = append(got, e) })
	bus.Subscribe(TypeSessionFailed, func(e Event) { t.Error("wrong type delivered") })

	bus.Publish(Event{Type: TypeBookingCommitted, Recipient: "+1"})

	assert.Len(t, got, 1)
	assert.Equal(t, "+1", got[0].Recipient)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestBusNoSubscribers(t *testing.T) {
	bus := NewBus()
	// Publishing with no subscribers must not panic.
	bus.Publish(Event{Type: "unknown"})
}
