package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"bus-track/internal/mylogger"
	"bus-track/internal/token"
	"bus-track/internal/tracking-service/core/domain/websocketdto"

	"github.com/gorilla/websocket"
)

const minBusIDLen = 3

// WsHandler upgrades connections and runs the admission and subscription
// protocol. A connection that never authenticates joins no room and receives
// nothing.
type WsHandler struct {
	hub         *Hub
	tokens      *token.Manager
	upgrader    websocket.Upgrader
	authTimeout time.Duration
	egressLen   int
	log         mylogger.Logger
}

func NewWsHandler(hub *Hub, tokens *token.Manager, authTimeout time.Duration, egressLen int, log mylogger.Logger) *WsHandler {
	return &WsHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		authTimeout: authTimeout,
		egressLen:   egressLen,
		log:         log,
	}
}

func (h *WsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	log := h.log.Action("wsHandle")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("cannot upgrade connection", err)
		return
	}

	client := newClient(conn, h.hub, h.egressLen)

	done := make(chan struct{})
	go client.writePump(done)

	defer func() {
		close(done)
		h.hub.RemoveClient(client)
		conn.Close()
	}()

	conn.SetReadLimit(4096)

	// The first frame must be a valid auth event; otherwise the connection is
	// refused before it gains any membership.
	if !h.admit(client) {
		return
	}
	h.hub.Join(client, websocketdto.UserRoom(client.userID))
	log.Debug("connection admitted", "user_id", client.userID, "role", client.role)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev websocketdto.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			continue
		}
		h.route(client, ev)
	}
}

func (h *WsHandler) admit(client *Client) bool {
	client.conn.SetReadDeadline(time.Now().Add(h.authTimeout))

	_, payload, err := client.conn.ReadMessage()
	if err != nil {
		return false
	}

	var ev websocketdto.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return false
	}
	if ev.Type != websocketdto.TypeAuth {
		return false
	}

	var msg websocketdto.AuthMessage
	if err := json.Unmarshal(ev.Data, &msg); err != nil {
		return false
	}

	id, err := h.tokens.Verify(msg.Token)
	if err != nil {
		return false
	}

	client.userID = id.UserID
	client.role = id.Role
	return true
}

// route applies subscription events. Malformed bus ids are silently dropped:
// no error frame, no membership change.
func (h *WsHandler) route(client *Client, ev websocketdto.Event) {
	switch ev.Type {
	case websocketdto.TypeSubscribeBus:
		if busID, ok := busIDFrom(ev.Data); ok {
			h.hub.Join(client, websocketdto.BusRoom(busID))
		}
	case websocketdto.TypeUnsubscribeBus:
		if busID, ok := busIDFrom(ev.Data); ok {
			h.hub.Leave(client, websocketdto.BusRoom(busID))
		}
	}
}

func busIDFrom(data json.RawMessage) (string, bool) {
	var busID string
	if err := json.Unmarshal(data, &busID); err != nil {
		return "", false
	}
	if len(busID) < minBusIDLen {
		return "", false
	}
	return busID, true
}
