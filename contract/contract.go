//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"story-chat/domain/event"
)

// EventSink receives events fanned out to a single connected client.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks the sink of every currently open connection.
type IRegistry interface {
	Sinks() []EventSink
	Subscribe(connID string, sink EventSink)
	Unsubscribe(connID string)
}

// Broadcaster publishes an event to every connected client,
// including whichever connection triggered it.
type Broadcaster interface {
	Broadcast(e event.DomainEvent)
}

type WorkerName string

// Worker doesn't protect itself; supervision handles restarts.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// used for logging and supervision without forcing a naming method on
// the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
