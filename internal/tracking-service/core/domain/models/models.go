package models

import "time"

// Notification kinds pushed to guardian channels.
const (
	KindBusArrived     = "BUS_ARRIVED"
	KindBusNearPickup  = "BUS_NEAR_PICKUP"
	KindStudentBoarded = "STUDENT_BOARDED"
)

// Attendance event types.
const (
	AttendanceBoarded    = "BOARDED"
	AttendanceDroppedOff = "DROPPED_OFF"
)

type Coordinate struct {
	Lat float64
	Lng float64
}

type BusLocation struct {
	ID        string
	BusID     string
	Lat       float64
	Lng       float64
	SpeedKph  *float64
	Heading   *float64
	AccuracyM *float64
	CreatedAt time.Time
}

func (l BusLocation) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lng: l.Lng}
}

type PickupPoint struct {
	ID      string
	RouteID string
	Name    string
	Lat     float64
	Lng     float64
	Order   int
}

func (p PickupPoint) Coordinate() Coordinate {
	return Coordinate{Lat: p.Lat, Lng: p.Lng}
}

// Student carries the joined pickup point and guardian identity needed for
// proximity evaluation.
type Student struct {
	ID           string
	Name         string
	BusID        string
	BusCode      string
	ParentUserID string
	PickupPoint  PickupPoint
}

type NotificationEvent struct {
	ID        string
	UserID    string
	Kind      string
	Title     string
	Body      string
	Meta      map[string]any
	CreatedAt time.Time
}

type AttendanceEvent struct {
	ID        string
	StudentID string
	BusID     string
	Type      string
	CreatedAt time.Time
}
