package realtime

import (
	"context"

	"story-chat/domain/event"
)

// Sink buffers events for a single connection until its write pump
// drains them. Delivery is best-effort: when the buffer is full the
// event is dropped for that connection rather than blocking the
// fan-out for everyone else.
type Sink struct {
	events chan event.DomainEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{events: make(chan event.DomainEvent, bufferSize)}
}

func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (s *Sink) Events() <-chan event.DomainEvent {
	return s.events
}
