package realtime

import (
	"context"
	"fmt"
	"sync"

	"funko-catalog-api/internal/logging"
)

// Handler receives published events. A returned error is logged and otherwise ignored.
type Handler func(ctx context.Context, evt Event) error

// Subscription identifies a registered handler.
type Subscription struct {
	id uint64
}

// Notifier maintains the registered handlers and fans events out to them.
type Notifier struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]Handler
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		handlers: make(map[uint64]Handler),
	}
}

// Subscribe registers h for every future event.
func (n *Notifier) Subscribe(h Handler) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.handlers[n.nextID] = h
	return Subscription{id: n.nextID}
}

// Unsubscribe removes a handler; unknown or already removed subscriptions are ignored.
func (n *Notifier) Unsubscribe(sub Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.handlers, sub.id)
}

// Len returns the number of registered handlers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.handlers)
}

// Publish delivers evt to every handler registered at the time of the call and
// returns once all of them have run.
func (n *Notifier) Publish(ctx context.Context, evt Event) {
	n.mu.RLock()
	handlers := make([]Handler, 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.RUnlock()

	for _, h := range handlers {
		if err := deliver(ctx, h, evt); err != nil {
			logging.FromContext(ctx).Warn().
				Err(err).
				Str("event", string(evt.Type)).
				Str("funko_id", evt.FunkoID).
				Msg("event handler failed")
		}
	}
}

// Close drops every subscriber.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = make(map[uint64]Handler)
}

func deliver(ctx context.Context, h Handler, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(ctx, evt)
}
