package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"story-chat/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// client binds a websocket connection to an identity and its sink.
// The read pump dispatches inbound frames to the hub's handler table;
// the write pump drains the sink onto the socket.
type client struct {
	id        string
	identity  domain.Identity
	conn      *websocket.Conn
	sink      *Sink
	hub       *Hub
	log       *slog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// close unsubscribes the client and tears the connection down exactly
// once, whichever pump fails first.
func (c *client) close() {
	c.closeOnce.Do(func() {
		c.hub.drop(c)
		close(c.done)
		_ = c.conn.Close()
		c.log.Info("client disconnected", "user", c.identity.Username)
	})
}

func (c *client) readPump() {
	defer c.close()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", "user", c.identity.Username, "error", err)
			}
			return
		}
		c.hub.dispatch(c.identity, raw)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case e := <-c.sink.Events():
			payload, err := EncodeEvent(e)
			if err != nil {
				c.log.Error("encoding event failed", "event", e.Name(), "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
