package websocketdto

import (
	"encoding/json"
	"time"
)

// Inbound event types.
const (
	TypeAuth           = "auth"
	TypeSubscribeBus   = "subscribeBus"
	TypeUnsubscribeBus = "unsubscribeBus"
)

// Outbound event types.
const (
	TypeBusLocation  = "busLocation"
	TypeNotification = "notification"
	TypeAttendance   = "attendance"
)

// Event is the framing for every websocket message in both directions.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type AuthMessage struct {
	Token string `json:"token"`
}

type BusLocationMessage struct {
	BusID     string    `json:"busId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	SpeedKph  *float64  `json:"speedKph,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	AccuracyM *float64  `json:"accuracyM,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationMessage struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"createdAt"`
}

type AttendanceMessage struct {
	ID        string    `json:"id"`
	BusID     string    `json:"busId"`
	StudentID string    `json:"studentId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRoom is the per-user group every admitted connection joins.
func UserRoom(userID string) string {
	return "user:" + userID
}

// BusRoom is the per-bus group joined by explicit subscription.
func BusRoom(busID string) string {
	return "bus:" + busID
}
