package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	"funko-catalog-api/internal/models"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) received() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func sampleFunko() models.Funko {
	return models.Funko{ID: "3b6c6f58-7c6b-434b-82ab-01b2d6e4434a", Name: "MadiFunko", Model: models.ModelOtros, Price: 42}
}

func TestPublish_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	n := NewNotifier()
	rec := &recorder{}

	n.Subscribe(func(context.Context, Event) error { return errors.New("boom") })
	n.Subscribe(rec.handle)

	require.NotPanics(t, func() {
		n.Publish(context.Background(), NewEvent(EventCreated, sampleFunko()))
	})

	got := rec.received()
	require.Len(t, got, 1)
	require.Equal(t, EventCreated, got[0].Type)
	require.Equal(t, "MadiFunko", got[0].Funko.Name)
}

func TestPublish_PanickingHandlerIsIsolated(t *testing.T) {
	n := NewNotifier()
	rec := &recorder{}

	n.Subscribe(func(context.Context, Event) error { panic("handler exploded") })
	n.Subscribe(rec.handle)

	require.NotPanics(t, func() {
		n.Publish(context.Background(), NewEvent(EventDeleted, sampleFunko()))
	})
	require.Len(t, rec.received(), 1)
}

func TestUnsubscribe(t *testing.T) {
	n := NewNotifier()
	rec := &recorder{}

	sub := n.Subscribe(rec.handle)
	require.Equal(t, 1, n.Len())

	n.Unsubscribe(sub)
	n.Unsubscribe(sub)
	require.Equal(t, 0, n.Len())

	n.Publish(context.Background(), NewEvent(EventUpdated, sampleFunko()))
	require.Empty(t, rec.received())
}

func TestClose_DropsSubscribers(t *testing.T) {
	n := NewNotifier()
	rec := &recorder{}
	n.Subscribe(rec.handle)

	n.Close()
	n.Publish(context.Background(), NewEvent(EventCreated, sampleFunko()))
	require.Empty(t, rec.received())
	require.Equal(t, 0, n.Len())
}

func TestHandlerMaySubscribeDuringPublish(t *testing.T) {
	n := NewNotifier()
	n.Subscribe(func(context.Context, Event) error {
		n.Subscribe(func(context.Context, Event) error { return nil })
		return nil
	})

	n.Publish(context.Background(), NewEvent(EventCreated, sampleFunko()))
	require.Equal(t, 2, n.Len())
}

func TestNewEvent(t *testing.T) {
	f := sampleFunko()
	evt := NewEvent(EventUpdated, f)
	require.Equal(t, f.ID, evt.FunkoID)
	require.Equal(t, 1, evt.Version)
	require.False(t, evt.OccurredAt.IsZero())
}
