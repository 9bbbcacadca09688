package dto

import "time"

// LocationUpdate is the driver's position report. Lat/Lng are pointers so a
// missing field is distinguishable from zero.
type LocationUpdate struct {
	Lat       *float64   `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng       *float64   `json:"lng" validate:"required,gte=-180,lte=180"`
	SpeedKph  *float64   `json:"speedKph" validate:"omitempty,gte=0"`
	Heading   *float64   `json:"heading" validate:"omitempty,gte=0,lt=360"`
	AccuracyM *float64   `json:"accuracyM" validate:"omitempty,gte=0"`
	Timestamp *time.Time `json:"timestamp" validate:"omitempty"`
}

type LocationAck struct {
	Ok         bool      `json:"ok"`
	LocationID string    `json:"locationId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AttendanceRequest struct {
	StudentID string `json:"studentId" validate:"required,min=3"`
	Type      string `json:"type" validate:"required,oneof=BOARDED DROPPED_OFF"`
}

type AttendanceResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	BusID     string    `json:"busId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type StudentView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BusID           string  `json:"busId"`
	BusCode         string  `json:"busCode"`
	PickupPointID   string  `json:"pickupPointId"`
	PickupPointName string  `json:"pickupPointName"`
	PickupLat       float64 `json:"pickupLat"`
	PickupLng       float64 `json:"pickupLng"`
}

type LocationView struct {
	BusID     string    `json:"busId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	SpeedKph  *float64  `json:"speedKph,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	AccuracyM *float64  `json:"accuracyM,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationView struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"createdAt"`
}
