package telemetry

import "sync"

// Bus fans events out to subscribers (audio, animation, logging cues).
// Delivery is best-effort: a slow subscriber's events are dropped rather
// than blocking the game loop. Every event is also recorded in the
// Repository before fan-out.
type Bus struct {
	mu    sync.Mutex
	repo  Repository
	sinks []chan Event
}

func NewBus(repo Repository) *Bus {
	return &Bus{repo: repo}
}

// Subscribe returns a channel that receives future events. buffer bounds
// how far the subscriber may fall behind before events are dropped.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.sinks = append(b.sinks, ch)
	b.mu.Unlock()
	return ch
}

// Publish records the event and offers it to every subscriber without
// blocking.
func (b *Bus) Publish(eventType EventType, metadata EventMetadata) {
	var recorded Event
	if b.repo != nil {
		if ev, err := b.repo.RecordEvent(eventType, metadata); err == nil {
			recorded = ev
		}
	}
	if recorded.Type == "" {
		recorded = Event{Type: eventType}
	}

	b.mu.Lock()
	sinks := make([]chan Event, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.Unlock()

	for _, ch := range sinks {
		select {
		case ch <- recorded:
		default:
		}
	}
}

// Close closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.sinks {
		close(ch)
	}
	b.sinks = nil
}
