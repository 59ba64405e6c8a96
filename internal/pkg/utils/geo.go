package utils

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates in kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceMeters is DistanceKm expressed in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceKm(lat1, lon1, lat2, lon2) * 1000
}

// WithinRadius reports whether the point lies inside the circle. The boundary counts as inside.
func WithinRadius(lat, lon, centerLat, centerLon float64, radiusMeters int) (bool, float64) {
	distanceKm := DistanceKm(lat, lon, centerLat, centerLon)
	return InsideRadius(distanceKm, radiusMeters), distanceKm
}

// InsideRadius compares a distance in kilometers against a radius in meters.
func InsideRadius(distanceKm float64, radiusMeters int) bool {
	return distanceKm <= float64(radiusMeters)/1000
}

// FormatCoordinate renders a "lat,lon" pair with 6 decimals.
func FormatCoordinate(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
