package services

import (
	"math"
	"testing"

	"bus-track/internal/tracking-service/core/domain/models"
)

func TestHaversineSamePoint(t *testing.T) {
	p := models.Coordinate{Lat: -6.2088, Lng: 106.8456}
	if d := Haversine(p, p); d > 0.001 {
		t.Errorf("expected ~0, got %f", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	pairs := [][2]models.Coordinate{
		{{Lat: 51.5074, Lng: -0.1278}, {Lat: 48.8566, Lng: 2.3522}},
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: 35.6762, Lng: 139.6503}},
		{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 180}},
	}
	for _, pair := range pairs {
		ab := Haversine(pair[0], pair[1])
		ba := Haversine(pair[1], pair[0])
		if ab != ba {
			t.Errorf("not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestHaversineOneDegreeLatitude(t *testing.T) {
	a := models.Coordinate{Lat: 10, Lng: 20}
	b := models.Coordinate{Lat: 11, Lng: 20}

	// one degree of latitude is ~111,195 m on a 6,371 km sphere
	d := Haversine(a, b)
	if math.Abs(d-111195) > 10 {
		t.Errorf("expected ~111195m, got %f", d)
	}
}

func TestHaversineAntimeridian(t *testing.T) {
	a := models.Coordinate{Lat: 0, Lng: 179.95}
	b := models.Coordinate{Lat: 0, Lng: -179.95}

	// 0.1 degree of longitude at the equator, crossing the seam
	d := Haversine(a, b)
	expected := 111195.0 / 10
	if math.Abs(d-expected) > expected*0.01 {
		t.Errorf("expected ~%fm across the seam, got %f", expected, d)
	}
}

func TestHaversineNonNegative(t *testing.T) {
	a := models.Coordinate{Lat: -89.9, Lng: -179.9}
	b := models.Coordinate{Lat: 89.9, Lng: 179.9}
	if d := Haversine(a, b); d < 0 {
		t.Errorf("expected non-negative distance, got %f", d)
	}
}
