package realtime

import (
	"context"
	"log/slog"
	"time"

	"story-chat/contract"
	"story-chat/domain/event"
)

// Fanout is the broadcast worker: events published via Broadcast are
// delivered, in publication order, to every sink in the registry.
//
// It provides best-effort delivery with no acknowledgement, retry, or
// replay. A disconnected client simply stops receiving; the onConnect
// snapshot is the only backfill mechanism.
type Fanout struct {
	log         *slog.Logger
	registry    contract.IRegistry
	events      chan event.DomainEvent
	sinkTimeout time.Duration
}

func NewFanout(log *slog.Logger, registry contract.IRegistry, bufferSize int, sinkTimeout time.Duration) *Fanout {
	return &Fanout{
		log:         log,
		registry:    registry,
		events:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Broadcast enqueues an event for every currently connected client,
// including whichever connection triggered it. It never blocks the
// caller; when the bus is full the event is dropped and logged.
func (f *Fanout) Broadcast(e event.DomainEvent) {
	select {
	case f.events <- e:
	default:
		f.log.Warn("event bus full, dropping broadcast", "event", e.Name())
	}
}

// Run consumes the bus on a single goroutine, which is what keeps
// per-recipient delivery order equal to publication order.
func (f *Fanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			f.log.Debug("stopping fanout")
			return nil
		case e := <-f.events:
			f.fanout(ctx, e)
		}
	}
}

func (f *Fanout) fanout(ctx context.Context, e event.DomainEvent) {
	for _, sink := range f.registry.Sinks() {
		sinkCtx, cancel := context.WithTimeout(ctx, f.sinkTimeout)
		if err := sink.Consume(sinkCtx, e); err != nil {
			// One slow or dead connection must not take down the
			// delivery loop for the others.
			f.log.Warn("sink delivery failed", "event", e.Name(), "error", err)
		}
		cancel()
	}
}
