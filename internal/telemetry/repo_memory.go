package telemetry

import (
	"encoding/json"
	"sync"
	"time"
)

// Repository persists gameplay telemetry events.
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) (Event, error)
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository keeps one session's events in memory. The game has no
// remote telemetry sink; events live only as long as the process.
type MemoryRepository struct {
	mu     sync.RWMutex
	now    func() time.Time
	events []Event
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:    time.Now,
		events: make([]Event, 0),
		nextID: 1,
	}
}

// SetNow overrides the timestamp source for deterministic tests.
func (r *MemoryRepository) SetNow(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.now(),
		Metadata:  string(metadataJSON),
	}

	r.events = append(r.events, event)
	r.nextID++

	return event, nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	// An empty type list means every type matches.
	result := make([]Event, 0)
	for _, event := range r.events {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.nextID = 1

	return nil
}
