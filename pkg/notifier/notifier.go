// Package notifier fans domain events out to external subscribers.
package notifier

import (
	"context"
	"sync"
)

// Notifier emits one named event with a serializable payload. Emission
// happens after the owning ledger transaction commits; a failed emit never
// unwinds committed state.
type Notifier interface {
	Emit(ctx context.Context, event string, payload any) error
}

// Event is one recorded emission, kept by the memory sink for tests and
// in-process subscribers.
type Event struct {
	Name    string
	Payload any
}

type memorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink returns a notifier that records events in order.
func NewMemorySink() *memorySink {
	return &memorySink{}
}

func (s *memorySink) Emit(_ context.Context, event string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, Event{Name: event, Payload: payload})

	return nil
}

// Events returns a copy of everything emitted so far.
func (s *memorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Event(nil), s.events...)
}
