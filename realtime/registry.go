// Package realtime implements the broadcast channel: one websocket per
// client, a registry of open connections, and a fan-out worker that
// delivers events to each connection's sink.
package realtime

import (
	"sync"

	"story-chat/contract"
)

// Registry tracks the sink of every open connection. It is mutated
// from connection goroutines, so access is guarded.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]contract.EventSink)}
}

// Sinks returns a snapshot of all active sinks. Delivering on the
// snapshot keeps the lock out of the actual send path.
func (r *Registry) Sinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.sessions))
	for _, sink := range r.sessions {
		sinks = append(sinks, sink)
	}
	return sinks
}

func (r *Registry) Subscribe(connID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = sink
}

func (r *Registry) Unsubscribe(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, connID)
}

// Size reports the number of open connections, used by the inspect
// server's stats page.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
