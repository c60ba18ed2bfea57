package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
)

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Latitude: p.Lat(), Longitude: p.Lon()}
}

// Point returns the coordinate in orb's [lon, lat] order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}

	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Location is one observed position. A newer observation supersedes it; it is
// never mutated.
type Location struct {
	Coordinate
	Accuracy  *float64
	Timestamp time.Time
}

func NewLocation(lat, lon float64, accuracy *float64, at time.Time) Location {
	return Location{
		Coordinate: Coordinate{Latitude: lat, Longitude: lon},
		Accuracy:   accuracy,
		Timestamp:  at,
	}
}
