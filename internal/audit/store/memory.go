package store

import (
	"context"
	"sync"

	"stipend/internal/audit"
)

// InMemory keeps audit events in memory. Demo sink; a durable sink can
// replace it behind audit.Store without touching emitters.
type InMemory struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// Append records the event.
func (s *InMemory) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of all recorded events, in append order.
func (s *InMemory) Events() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}
