package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"story-chat/domain"
	"story-chat/domain/event"
	"story-chat/services"
)

// HandlerFunc processes one inbound client event. Failures are
// contained to the originating connection's event and never abort the
// broadcast loop.
type HandlerFunc func(ctx context.Context, identity domain.Identity, data json.RawMessage) error

// Hub accepts websocket upgrades, bootstraps new connections with the
// current state, and routes inbound events through an explicit
// event-name -> handler table.
type Hub struct {
	log        *slog.Logger
	registry   *Registry
	fanout     *Fanout
	chat       services.IChatService
	connBuffer int
	upgrader   websocket.Upgrader
	handlers   map[string]HandlerFunc

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(log *slog.Logger, registry *Registry, fanout *Fanout, chat services.IChatService, connBuffer int) *Hub {
	h := &Hub{
		log:        log,
		registry:   registry,
		fanout:     fanout,
		chat:       chat,
		connBuffer: connBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients come from arbitrary origins, mirroring the
			// permissive CORS policy of the HTTP surface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	h.handlers = map[string]HandlerFunc{
		event.SendMessageName: h.handleSendMessage,
		event.AddStoryName:    h.handleAddStory,
	}
	return h
}

// ServeWS upgrades the request and wires the connection into the
// broadcast channel. The bootstrap snapshot is enqueued before the
// sink is subscribed, so it always precedes any broadcast this
// connection's own events can trigger.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, identity domain.Identity) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	stories, history, err := h.chat.Snapshot(r.Context())
	if err != nil {
		h.log.Error("connect snapshot failed", "user", identity.Username, "error", err)
		_ = conn.Close()
		return
	}

	sink := NewSink(h.connBuffer)
	_ = sink.Consume(r.Context(), stories)
	_ = sink.Consume(r.Context(), history)

	c := &client{
		id:       uuid.NewString(),
		identity: identity,
		conn:     conn,
		sink:     sink,
		hub:      h,
		log:      h.log,
		done:     make(chan struct{}),
	}
	h.registry.Subscribe(c.id, sink)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
	h.log.Info("client connected", "user", identity.Username, "clients", h.registry.Size())
}

func (h *Hub) drop(c *client) {
	h.registry.Unsubscribe(c.id)
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// dispatch routes one inbound frame. Unknown events and handler
// failures are logged and swallowed; they never affect other clients.
func (h *Hub) dispatch(identity domain.Identity, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.log.Warn("malformed frame", "user", identity.Username, "error", err)
		return
	}

	handler, ok := h.handlers[env.Event]
	if !ok {
		h.log.Warn("unknown event", "event", env.Event, "user", identity.Username)
		return
	}
	if err := handler(context.Background(), identity, env.Data); err != nil {
		h.log.Error("event failed", "event", env.Event, "user", identity.Username, "error", err)
	}
}

func (h *Hub) handleSendMessage(ctx context.Context, identity domain.Identity, data json.RawMessage) error {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	_, err := h.chat.PostMessage(ctx, identity, payload.Text)
	return err
}

func (h *Hub) handleAddStory(ctx context.Context, identity domain.Identity, data json.RawMessage) error {
	var payload AddStoryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	_, err := h.chat.PostStory(ctx, identity, payload.Content)
	return err
}

// Shutdown closes every open connection. In-flight events are dropped,
// matching the channel's best-effort delivery contract.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.log.Info("hub shut down", "closed", len(clients))
}
