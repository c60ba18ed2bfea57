package domain

import (
	"math"

	"github.com/paulmach/orb"
)

const EarthRadiusMeters = 6371000

// DistanceMeters is the haversine great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	deltaLat := degreesToRadians(b.Latitude - a.Latitude)
	deltaLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundingBox returns the axis-aligned box enclosing the circle of
// radiusMeters around center. Longitude is widened by 1/cos(lat).
func BoundingBox(center Coordinate, radiusMeters float64) orb.Bound {
	latDelta := radiusMeters / EarthRadiusMeters * (180 / math.Pi)
	lonDelta := latDelta / math.Cos(degreesToRadians(center.Latitude))

	return orb.Bound{
		Min: orb.Point{center.Longitude - lonDelta, center.Latitude - latDelta},
		Max: orb.Point{center.Longitude + lonDelta, center.Latitude + latDelta},
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
