package ws

import (
	"time"

	"bus-track/internal/tracking-service/core/domain/websocketdto"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Client struct {
	conn   *websocket.Conn
	hub    *Hub
	egress chan websocketdto.Event
	userID string
	role   string
}

func newClient(conn *websocket.Conn, hub *Hub, egressLen int) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		egress: make(chan websocketdto.Event, egressLen),
	}
}

// send queues an event for the writer goroutine, dropping the frame when the
// buffer is full so a slow consumer cannot stall a broadcast.
func (c *Client) send(ev websocketdto.Event) {
	select {
	case c.egress <- ev:
	default:
	}
}

// writePump drains the egress channel onto the connection and keeps the
// connection alive with pings. It owns all writes to the conn.
func (c *Client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-c.egress:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
