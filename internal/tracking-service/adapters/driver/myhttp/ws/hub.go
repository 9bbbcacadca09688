package ws

import (
	"encoding/json"
	"sync"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/websocketdto"
)

// Hub keeps the room membership table: room name -> set of clients. It is the
// only shared mutable state of the realtime layer and is guarded by one
// RWMutex; the lock is never held across a network write.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	log   mylogger.Logger
}

func NewHub(log mylogger.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		log:   log,
	}
}

func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[c] = true
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c, room)
}

// RemoveClient drops the client from every room it joined.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.rooms {
		h.removeLocked(c, room)
	}
}

func (h *Hub) removeLocked(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast delivers the event to every client currently in the room.
// Fire-and-forget: a client whose egress buffer is full misses the frame.
func (h *Hub) Broadcast(room, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Action("Broadcast").Error("cannot marshal payload", err, "room", room, "event", event)
		return
	}
	ev := websocketdto.Event{
		Type: event,
		Data: data,
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.send(ev)
	}
}

// members reports the current size of a room.
func (h *Hub) members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
