package events

import (
	"errors"
	"sync"
)

// ErrNoTableID is returned when an event does not carry the table it belongs to.
var ErrNoTableID = errors.New("event has no tableID")

// EventStore is the interface for storing and retrieving events.
type EventStore interface {
	Append(event Event) error
	LoadEvents(tableID string) ([]Event, error)
}

// InMemoryEventStore keeps the event history of each table for the lifetime of the process.
type InMemoryEventStore struct {
	events map[string][]Event
	limit  int
	mutex  sync.RWMutex
}

// NewInMemoryEventStore creates a new in-memory event store. A positive limit caps how
// many events are kept per table, dropping the oldest first.
func NewInMemoryEventStore(limit int) *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[string][]Event),
		limit:  limit,
	}
}

// Append adds a new event to the store.
func (s *InMemoryEventStore) Append(event Event) error {
	tableID := ExtractTableID(event)
	if tableID == "" {
		return ErrNoTableID
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	history := append(s.events[tableID], event)
	if s.limit > 0 && len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}
	s.events[tableID] = history
	return nil
}

// LoadEvents retrieves all events for the given tableID.
func (s *InMemoryEventStore) LoadEvents(tableID string) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if events, exists := s.events[tableID]; exists {
		// Make a copy to avoid potential race conditions
		result := make([]Event, len(events))
		copy(result, events)
		return result, nil
	}

	// Return empty slice if no events found
	return []Event{}, nil
}
