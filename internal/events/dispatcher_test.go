package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcher_Publish(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventTicketEscalated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventTicketEscalated, func(_ context.Context, e Event) error {
		return errors.New("webhook down")
	})
	d.Subscribe(EventTicketEscalated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketEscalated, TicketID: "t1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook down")
	assert.Equal(t, []EventType{EventTicketEscalated, EventTicketEscalated}, got)
}

func TestInMemoryDispatcher_NoListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketDeflected}))
}

func TestInMemoryDispatcher_PanickingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventTicketDeflected, func(context.Context, Event) error {
		panic("nil webhook client")
	})
	d.Subscribe(EventTicketDeflected, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketDeflected})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.True(t, called)
}
