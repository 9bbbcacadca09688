package models

import "time"

type Route struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type PickupPoint struct {
	ID      string  `json:"id"`
	RouteID string  `json:"routeId"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Order   int     `json:"order"`
}

type Bus struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	RouteID string `json:"routeId,omitempty"`
}

type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ParentUserID  string `json:"parentUserId"`
	BusID         string `json:"busId"`
	PickupPointID string `json:"pickupPointId"`
}

// BusOverview is one row of the fleet overview: a bus joined with its route
// and the email of the driver currently assigned to it, if any.
type BusOverview struct {
	BusID       string `json:"busId"`
	Code        string `json:"code"`
	RouteName   string `json:"routeName,omitempty"`
	DriverEmail string `json:"driverEmail,omitempty"`
}
