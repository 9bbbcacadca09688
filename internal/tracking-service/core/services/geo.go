package services

import (
	"math"

	"bus-track/internal/tracking-service/core/domain/models"
)

const earthRadiusMeters = 6371000

// Haversine returns the great-circle distance between two coordinates in
// meters. Valid globally, including across the antimeridian.
func Haversine(a, b models.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
